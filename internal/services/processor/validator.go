package processor

import (
	"fmt"
	"net/http"

	"github.com/pdminh/imagebatch/pkg/utils"
)

// ValidateSource rejects oversized or non-image uploads before an item
// is created. Decoding still verifies the full payload later; this is
// the cheap intake check.
func (p *ImageProcessor) ValidateSource(data []byte, maxSize int64) error {
	if len(data) == 0 {
		return fmt.Errorf("empty file")
	}
	if int64(len(data)) > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed size %d", len(data), maxSize)
	}

	contentType := http.DetectContentType(data)
	if !utils.IsValidImageType(contentType) {
		return fmt.Errorf("invalid content type: %s", contentType)
	}
	return nil
}
