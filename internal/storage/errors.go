package storage

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/fhuszti/medias-transcode-go/internal/usecase/media"
)

func mapFsErr(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", media.ErrNotFound, err)
	default:
		// catch everything else
		return fmt.Errorf("%w: %w", media.ErrIOFailure, err)
	}
}
