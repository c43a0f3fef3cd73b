package media

import (
	"context"

	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
	"github.com/fhuszti/medias-transcode-go/internal/preset"
)

type presetListerSrv struct{}

// compile-time check: *presetListerSrv must satisfy port.PresetLister
var _ port.PresetLister = (*presetListerSrv)(nil)

func NewPresetLister() port.PresetLister {
	return &presetListerSrv{}
}

// ListPresets returns the catalog sorted by key.
func (s *presetListerSrv) ListPresets(_ context.Context) []model.Preset {
	return preset.All()
}
