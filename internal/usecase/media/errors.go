package media

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrUnsupportedMediaKind = errors.New("unsupported media kind")
	ErrInvalidConfig        = errors.New("invalid output configuration")
	ErrEngineFailure        = errors.New("engine failure")
	ErrIOFailure            = errors.New("storage i/o failure")
	ErrNotFound             = errors.New("not found")
	ErrAttemptInProgress    = fmt.Errorf("%w: attempt already running", ErrInvalidRequest)
)

// ErrorKind names the category of err for clients, "internal" when unknown.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrAttemptInProgress):
		return "attempt_in_progress"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrUnsupportedMediaKind):
		return "unsupported_media_kind"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, ErrEngineFailure):
		return "engine_failure"
	case errors.Is(err, ErrIOFailure):
		return "io_failure"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
