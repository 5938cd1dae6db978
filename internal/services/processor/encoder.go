package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"

	"github.com/chai2010/webp"
	"github.com/pdminh/imagebatch/internal/models"
)

// Encode rasterizes the bitmap into the policy's target format.
// Quality is a dimensionless value in [0,1] mapped onto the codec's
// 1-100 scale. PNG is lossless and ignores quality.
func (p *ImageProcessor) Encode(img image.Image, policy models.EncodingPolicy) ([]byte, error) {
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncode, err)
	}

	var buf bytes.Buffer
	var err error
	switch policy.TargetFormat {
	case models.FormatWebP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(quality100(policy.Quality))})
	case models.FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality100(policy.Quality)})
	case models.FormatPNG:
		err = png.Encode(&buf, img)
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrEncode, policy.TargetFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func quality100(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		v = 1
	}
	if v > 100 {
		v = 100
	}
	return v
}
