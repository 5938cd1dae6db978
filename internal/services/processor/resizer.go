package processor

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pdminh/imagebatch/internal/models"
)

// FitDimensions computes output dimensions under the longest-edge cap.
// Aspect ratio is preserved within rounding; an image already inside
// the cap keeps its original size. A square image over the cap scales
// by the width branch so results are deterministic.
func FitDimensions(width, height, maxDim int) (int, int) {
	if width <= maxDim && height <= maxDim {
		return width, height
	}
	if width >= height {
		scale := float64(maxDim) / float64(width)
		return maxDim, clampEdge(math.Round(float64(height) * scale))
	}
	scale := float64(maxDim) / float64(height)
	return clampEdge(math.Round(float64(width) * scale)), maxDim
}

// clampEdge keeps extreme aspect ratios from rounding an edge to zero.
func clampEdge(v float64) int {
	if v < 1 {
		return 1
	}
	return int(v)
}

// Resize resamples the bitmap to fit the longest-edge cap using
// Lanczos filtering. Bitmaps already inside the cap pass through
// untouched.
func (p *ImageProcessor) Resize(img image.Image, maxDim int) (image.Image, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", models.ErrInvalidDimensions, w, h)
	}
	if maxDim <= 0 {
		return nil, fmt.Errorf("%w: longest-edge cap %d", models.ErrInvalidDimensions, maxDim)
	}

	newW, newH := FitDimensions(w, h, maxDim)
	if newW == w && newH == h {
		return img, nil
	}
	return imaging.Resize(img, newW, newH, imaging.Lanczos), nil
}
