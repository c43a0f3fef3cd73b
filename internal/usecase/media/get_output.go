package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/fhuszti/medias-transcode-go/internal/port"
)

type outputGetterSrv struct {
	strg port.Storage
}

// compile-time check: *outputGetterSrv must satisfy port.OutputGetter
var _ port.OutputGetter = (*outputGetterSrv)(nil)

// NewOutputGetter constructs an OutputGetter implementation.
func NewOutputGetter(strg port.Storage) port.OutputGetter {
	return &outputGetterSrv{strg: strg}
}

// GetOutput opens an output by its bare file name. Anything that looks like
// a path is rejected as not found.
func (s *outputGetterSrv) GetOutput(ctx context.Context, name string) (*port.GetOutputOutput, error) {
	if name == "" || name != path.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return nil, fmt.Errorf("%w: output %q", ErrNotFound, name)
	}

	info, err := s.strg.StatFile(ctx, OutputsBucket, name)
	if err != nil {
		return nil, err
	}

	body, err := s.strg.GetFile(ctx, OutputsBucket, name)
	if err != nil {
		return nil, err
	}

	return &port.GetOutputOutput{
		Name:    name,
		Body:    body,
		Size:    info.SizeBytes,
		ModTime: info.ModTime,
	}, nil
}
