package processor

import (
	"context"

	"github.com/pdminh/imagebatch/internal/models"
)

// ImageProcessor runs the decode → resize → encode pipeline for one
// image. It holds no state; all configuration arrives as an
// EncodingPolicy on each call.
type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// Convert transforms raw source bytes into encoded output bytes under
// the given policy. The context is checked between stages so a
// cancelled run stops promptly.
func (p *ImageProcessor) Convert(ctx context.Context, source []byte, policy models.EncodingPolicy) ([]byte, error) {
	img, _, err := p.Decode(source)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resized, err := p.Resize(img, policy.MaxDimension)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return p.Encode(resized, policy)
}
