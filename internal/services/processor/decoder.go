package processor

import (
	"bytes"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdminh/imagebatch/internal/models"
)

// Decode turns raw image bytes into a pixel-addressable bitmap and the
// detected source format. The input slice is never modified. Truncated,
// corrupt or unsupported data fails with models.ErrDecode.
func (p *ImageProcessor) Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", models.ErrDecode)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", models.ErrDecode, err)
	}
	return img, format, nil
}
