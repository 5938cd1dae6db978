package models

import (
	"fmt"
	"strings"
)

// Format identifies a target image encoding.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWebP:
		return ".webp"
	default:
		return "." + string(f)
	}
}

// Defaults for the process-wide encoding policy.
const (
	DefaultMaxDimension = 1200
	DefaultQuality      = 0.8
)

// EncodingPolicy is read-only conversion configuration shared by the
// resizer and encoder. It is threaded through every pipeline call
// rather than read from globals.
type EncodingPolicy struct {
	MaxDimension int     `json:"max_dimension"` // longest-edge cap in pixels
	TargetFormat Format  `json:"target_format"`
	Quality      float64 `json:"quality"` // in [0,1]
}

func DefaultPolicy() EncodingPolicy {
	return EncodingPolicy{
		MaxDimension: DefaultMaxDimension,
		TargetFormat: FormatWebP,
		Quality:      DefaultQuality,
	}
}

func (p EncodingPolicy) Validate() error {
	if p.MaxDimension <= 0 {
		return fmt.Errorf("max dimension must be positive, got %d", p.MaxDimension)
	}
	if p.Quality < 0 || p.Quality > 1 {
		return fmt.Errorf("quality must be in [0,1], got %g", p.Quality)
	}
	if _, err := ParseFormat(string(p.TargetFormat)); err != nil {
		return err
	}
	return nil
}

// Fingerprint identifies a policy value. Items encoded under one
// fingerprint are requeued when a later run carries a different one.
func (p EncodingPolicy) Fingerprint() string {
	return fmt.Sprintf("%d:%s:%.3f", p.MaxDimension, p.TargetFormat, p.Quality)
}
