package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pdminh/imagebatch/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"MAX_DIMENSION", "TARGET_FORMAT", "QUALITY", "PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	require.Equal(t, models.DefaultPolicy(), policy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MAX_DIMENSION", "900")
	t.Setenv("TARGET_FORMAT", "jpg")
	t.Setenv("QUALITY", "0.5")
	t.Setenv("ITEM_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, cfg.Batch.ItemTimeout)

	policy, err := cfg.Policy()
	require.NoError(t, err)
	require.Equal(t, 900, policy.MaxDimension)
	require.Equal(t, models.FormatJPEG, policy.TargetFormat)
	require.Equal(t, 0.5, policy.Quality)
}

func TestPolicyRejectsBadEnv(t *testing.T) {
	t.Setenv("TARGET_FORMAT", "heic")

	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.Policy()
	require.ErrorIs(t, err, models.ErrUnsupportedFormat)
}
