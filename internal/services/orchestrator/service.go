package orchestrator

import (
	"context"
	"crypto/md5"
	"fmt"
	"time"

	"github.com/pdminh/imagebatch/internal/models"
	"go.uber.org/zap"
)

// Converter turns one source image into encoded output bytes. The
// production implementation is processor.ImageProcessor; platforms and
// tests may supply their own.
type Converter interface {
	Convert(ctx context.Context, source []byte, policy models.EncodingPolicy) ([]byte, error)
}

// ResultCache stores encoded outputs keyed by source content and
// policy, so rerunning an unchanged item skips re-encoding.
// Implementations return (nil, nil) on a miss.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}

// Options tunes a batch orchestrator.
type Options struct {
	// Workers bounds the fan-out; 0 means runtime.NumCPU.
	Workers int
	// ItemTimeout fails a single slow item without blocking siblings;
	// 0 disables the per-item timeout.
	ItemTimeout time.Duration
	// Cache is optional; nil disables result caching.
	Cache ResultCache
}

// Orchestrator drives every pending item of a batch through the
// conversion pipeline and settles their statuses.
type Orchestrator struct {
	converter   Converter
	cache       ResultCache
	logger      *zap.Logger
	workers     int
	itemTimeout time.Duration

	running int32
}

func New(converter Converter, logger *zap.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		converter:   converter,
		cache:       opts.Cache,
		logger:      logger,
		workers:     opts.Workers,
		itemTimeout: opts.ItemTimeout,
	}
}

func cacheKey(source []byte, policyFingerprint string) string {
	hash := md5.New()
	hash.Write(source)
	hash.Write([]byte(policyFingerprint))
	return fmt.Sprintf("img_cache:%x", hash.Sum(nil))
}
