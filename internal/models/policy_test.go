package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"webp", FormatWebP, false},
		{"WEBP", FormatWebP, false},
		{"jpeg", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{"png", FormatPNG, false},
		{"avif", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnsupportedFormat, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		require.Equal(t, tt.want, got)
	}
}

func TestFormatExtension(t *testing.T) {
	require.Equal(t, ".webp", FormatWebP.Extension())
	require.Equal(t, ".jpg", FormatJPEG.Extension())
	require.Equal(t, ".png", FormatPNG.Extension())
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.NoError(t, p.Validate())
	require.Equal(t, 1200, p.MaxDimension)
	require.Equal(t, FormatWebP, p.TargetFormat)
	require.Equal(t, 0.8, p.Quality)
}

func TestPolicyValidate(t *testing.T) {
	valid := DefaultPolicy()

	p := valid
	p.MaxDimension = 0
	require.Error(t, p.Validate())

	p = valid
	p.Quality = 1.5
	require.Error(t, p.Validate())

	p = valid
	p.Quality = -0.1
	require.Error(t, p.Validate())

	p = valid
	p.TargetFormat = "tiff"
	require.Error(t, p.Validate())
}

func TestPolicyFingerprint(t *testing.T) {
	a := DefaultPolicy()
	b := a
	require.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Quality = 0.5
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b = a
	b.MaxDimension = 800
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	b = a
	b.TargetFormat = FormatJPEG
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
