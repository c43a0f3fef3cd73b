package media

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/preset"
	"github.com/fhuszti/medias-transcode-go/internal/validation"
)

// Resolution is the effective profile of one processing attempt.
type Resolution struct {
	// Platform is the catalog key actually used; unknown platforms resolve to "custom".
	Platform string
	Preset   model.Preset
	Profile  model.OutputProfile
}

// Resolve merges the platform's recommended profile with the overrides.
// Unknown or empty platforms fall back to the custom preset.
func Resolve(platformID string, overrides *model.ProfileOverrides) (Resolution, error) {
	p, ok := preset.Lookup(platformID)
	if !ok {
		p = preset.Default()
	}

	if overrides != nil {
		if err := validation.ValidateStruct(overrides); err != nil {
			return Resolution{}, fmt.Errorf("%w: %s", ErrInvalidConfig, describeFieldErrors(err))
		}
	}

	profile := overrides.Apply(p.Recommended)
	if err := checkProfile(profile); err != nil {
		return Resolution{}, err
	}

	return Resolution{Platform: p.Key, Preset: p, Profile: profile}, nil
}

// Extension picks the output file extension for a media kind.
func (r Resolution) Extension(kind model.MediaKind) (string, error) {
	switch kind {
	case model.MediaKindVideo:
		if !model.IsVideoContainer(r.Profile.Container) {
			return "", fmt.Errorf("%w: container %q cannot hold a video", ErrInvalidConfig, r.Profile.Container)
		}
		return r.Profile.Container, nil
	case model.MediaKindImage:
		return model.ImageFormatFor(r.Profile.Container).Extension(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMediaKind, kind)
	}
}

func checkProfile(p model.OutputProfile) error {
	var bad []string
	if p.Width <= 0 {
		bad = append(bad, "width")
	}
	if p.Height <= 0 {
		bad = append(bad, "height")
	}
	if p.FPS <= 0 {
		bad = append(bad, "fps")
	}
	if p.VideoBitrateKbps <= 0 {
		bad = append(bad, "video_bitrate_kbps")
	}
	if p.AudioBitrateKbps <= 0 {
		bad = append(bad, "audio_bitrate_kbps")
	}
	if p.Container == "" {
		bad = append(bad, "container")
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: non-positive or empty fields: %s", ErrInvalidConfig, strings.Join(bad, ", "))
	}
	return nil
}

func describeFieldErrors(err error) string {
	fields := validation.FieldErrors(err)
	if len(fields) == 0 {
		return err.Error()
	}
	parts := make([]string, 0, len(fields))
	for field, tag := range fields {
		parts = append(parts, field+" fails "+tag)
	}
	sort.Strings(parts)
	return strings.Join(parts, ", ")
}
