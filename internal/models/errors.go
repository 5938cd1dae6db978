package models

import "errors"

// Pipeline and batch error taxonomy. Stage code wraps these with
// fmt.Errorf("%w: ...") so callers can match with errors.Is.
var (
	ErrDecode            = errors.New("unreadable or unsupported image data")
	ErrInvalidDimensions = errors.New("image has degenerate dimensions")
	ErrEncode            = errors.New("codec rejected format or quality")
	ErrArchive           = errors.New("archive assembly failed")
	ErrUnsupportedFormat = errors.New("unsupported target format")
	ErrBatchInFlight     = errors.New("batch run already in progress")
)
