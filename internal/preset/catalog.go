package preset

import (
	"sort"

	"github.com/fhuszti/medias-transcode-go/internal/model"
)

// CustomKey is the fallback preset used for unknown platforms.
const CustomKey = "custom"

var platforms = map[string]model.Preset{
	"instagram_feed": {
		Display:     "Instagram (Feed)",
		Description: "Square or vertical for feed. Use 1080p for high quality.",
		Recommended: model.OutputProfile{Width: 1080, Height: 1080, FPS: 30, VideoBitrateKbps: 5000, AudioBitrateKbps: 128, Container: "mp4"},
	},
	"instagram_reel": {
		Display:     "Instagram Reels",
		Description: "Vertical 9:16 videos, 1080x1920 recommended.",
		Recommended: model.OutputProfile{Width: 1080, Height: 1920, FPS: 30, VideoBitrateKbps: 8000, AudioBitrateKbps: 128, Container: "mp4"},
	},
	"tiktok": {
		Display:     "TikTok",
		Description: "Vertical 9:16, 1080x1920 is standard.",
		Recommended: model.OutputProfile{Width: 1080, Height: 1920, FPS: 30, VideoBitrateKbps: 8000, AudioBitrateKbps: 128, Container: "mp4"},
	},
	"facebook_video": {
		Display:     "Facebook Video",
		Description: "16:9 or 4:5; 1080p recommended.",
		Recommended: model.OutputProfile{Width: 1920, Height: 1080, FPS: 30, VideoBitrateKbps: 8000, AudioBitrateKbps: 128, Container: "mp4"},
	},
	"youtube": {
		Display:     "YouTube",
		Description: "Landscape 16:9. 1080p for most, 2160p for higher if uploaded by creator.",
		Recommended: model.OutputProfile{Width: 1920, Height: 1080, FPS: 30, VideoBitrateKbps: 12000, AudioBitrateKbps: 192, Container: "mp4"},
	},
	"twitter": {
		Display:     "Twitter (X)",
		Description: "Max 1920x1200, 60s/120s limits apply.",
		Recommended: model.OutputProfile{Width: 1280, Height: 720, FPS: 30, VideoBitrateKbps: 5000, AudioBitrateKbps: 128, Container: "mp4"},
	},
	CustomKey: {
		Display:     "Custom",
		Description: "Pick your own resolution, fps and bitrate.",
		Recommended: model.OutputProfile{Width: 1280, Height: 720, FPS: 30, VideoBitrateKbps: 5000, AudioBitrateKbps: 128, Container: "mp4"},
	},
}

// Lookup returns the preset registered under key.
func Lookup(key string) (model.Preset, bool) {
	p, ok := platforms[key]
	if !ok {
		return model.Preset{}, false
	}
	p.Key = key
	return p, true
}

// Default returns the custom preset.
func Default() model.Preset {
	p, _ := Lookup(CustomKey)
	return p
}

// All returns every preset sorted by key.
func All() []model.Preset {
	keys := make([]string, 0, len(platforms))
	for k := range platforms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.Preset, 0, len(keys))
	for _, k := range keys {
		p, _ := Lookup(k)
		out = append(out, p)
	}
	return out
}
