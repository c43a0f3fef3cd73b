package model

// OutputProfile is the effective encoding target of one processing attempt.
type OutputProfile struct {
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	FPS              float64 `json:"fps"`
	VideoBitrateKbps int     `json:"video_bitrate_kbps"`
	AudioBitrateKbps int     `json:"audio_bitrate_kbps"`
	Container        string  `json:"container"`
}

// ProfileOverrides carries caller-supplied replacements; nil fields keep the
// preset value.
type ProfileOverrides struct {
	Width            *int     `json:"width,omitempty" validate:"omitempty,gt=0,max=16384"`
	Height           *int     `json:"height,omitempty" validate:"omitempty,gt=0,max=16384"`
	FPS              *float64 `json:"fps,omitempty" validate:"omitempty,gt=0,max=240"`
	VideoBitrateKbps *int     `json:"video_bitrate_kbps,omitempty" validate:"omitempty,gt=0"`
	AudioBitrateKbps *int     `json:"audio_bitrate_kbps,omitempty" validate:"omitempty,gt=0"`
	Container        *string  `json:"container,omitempty" validate:"omitempty,oneof=mp4 mov mkv webm jpeg jpg png webp"`
}

// Apply returns p with every non-nil override copied over it.
func (o *ProfileOverrides) Apply(p OutputProfile) OutputProfile {
	if o == nil {
		return p
	}
	if o.Width != nil {
		p.Width = *o.Width
	}
	if o.Height != nil {
		p.Height = *o.Height
	}
	if o.FPS != nil {
		p.FPS = *o.FPS
	}
	if o.VideoBitrateKbps != nil {
		p.VideoBitrateKbps = *o.VideoBitrateKbps
	}
	if o.AudioBitrateKbps != nil {
		p.AudioBitrateKbps = *o.AudioBitrateKbps
	}
	if o.Container != nil {
		p.Container = *o.Container
	}
	return p
}

type Preset struct {
	Key         string        `json:"-"`
	Display     string        `json:"display"`
	Description string        `json:"description"`
	Recommended OutputProfile `json:"recommended"`
}

type ImageFormat string

const (
	ImageFormatJPEG ImageFormat = "jpeg"
	ImageFormatPNG  ImageFormat = "png"
	ImageFormatWebP ImageFormat = "webp"
)

func (f ImageFormat) Extension() string {
	if f == ImageFormatJPEG {
		return "jpg"
	}
	return string(f)
}

var videoContainers = map[string]bool{
	"mp4":  true,
	"mov":  true,
	"mkv":  true,
	"webm": true,
}

var imageContainers = map[string]ImageFormat{
	"jpeg": ImageFormatJPEG,
	"jpg":  ImageFormatJPEG,
	"png":  ImageFormatPNG,
	"webp": ImageFormatWebP,
}

func IsVideoContainer(container string) bool {
	return videoContainers[container]
}

// ImageFormatFor picks the image encoding for a container token. Video
// containers, which every built-in preset uses, fall back to jpeg.
func ImageFormatFor(container string) ImageFormat {
	if f, ok := imageContainers[container]; ok {
		return f
	}
	return ImageFormatJPEG
}

// ImageOptions drives a single image resize-and-encode.
type ImageOptions struct {
	Width   int
	Height  int
	Format  ImageFormat
	Quality int
}

// ImageInfo describes an encoded image.
type ImageInfo struct {
	Width  int
	Height int
	Format ImageFormat
}
