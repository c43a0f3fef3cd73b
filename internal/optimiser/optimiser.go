package optimiser

import (
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/fhuszti/medias-transcode-go/internal/logger"
	"github.com/fhuszti/medias-transcode-go/internal/model"
	"github.com/fhuszti/medias-transcode-go/internal/port"
)

const defaultQuality = 80

type Optimiser struct {
	webpEnc WebPEncoder
}

// compile-time check: *Optimiser must satisfy port.ImageEngine
var _ port.ImageEngine = (*Optimiser)(nil)

func NewOptimiser(webpEnc WebPEncoder) *Optimiser {
	logger.Info(context.Background(), "initialising optimiser...")
	return &Optimiser{webpEnc: webpEnc}
}

// Resize decodes r, fits it inside opts.Width x opts.Height keeping the aspect
// ratio and encodes the result into w. Images already inside the box keep
// their size. Behavior per format:
//   - jpeg: quality from opts.Quality (80 when unset).
//   - png: lossless, quality ignored.
//   - webp: lossy through the WebP encoder.
func (o *Optimiser) Resize(r io.Reader, w io.Writer, opts model.ImageOptions) (model.ImageInfo, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return model.ImageInfo{}, fmt.Errorf("optimiser: invalid bounding box %dx%d", opts.Width, opts.Height)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return model.ImageInfo{}, fmt.Errorf("optimiser: failed to decode image: %w", err)
	}

	// Fit never enlarges
	resized := imaging.Fit(img, opts.Width, opts.Height, imaging.Lanczos)
	b := resized.Bounds()

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = defaultQuality
	}

	switch opts.Format {
	case model.ImageFormatJPEG, "":
		if err := imaging.Encode(w, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return model.ImageInfo{}, fmt.Errorf("optimiser: failed to encode JPEG: %w", err)
		}
		opts.Format = model.ImageFormatJPEG
	case model.ImageFormatPNG:
		if err := imaging.Encode(w, resized, imaging.PNG); err != nil {
			return model.ImageInfo{}, fmt.Errorf("optimiser: failed to encode PNG: %w", err)
		}
	case model.ImageFormatWebP:
		if err := o.webpEnc.Encode(resized, quality, w); err != nil {
			return model.ImageInfo{}, fmt.Errorf("optimiser: failed to encode WebP: %w", err)
		}
	default:
		return model.ImageInfo{}, fmt.Errorf("optimiser: unsupported output format %q", opts.Format)
	}

	return model.ImageInfo{Width: b.Dx(), Height: b.Dy(), Format: opts.Format}, nil
}
