package optimiser

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

type WebPEncoder interface {
	Encode(img image.Image, quality int, w io.Writer) error
}

// ChaiWebP encodes lossy WebP through libwebp.
type ChaiWebP struct{}

func (ChaiWebP) Encode(img image.Image, quality int, w io.Writer) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}
