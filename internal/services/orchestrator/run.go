package orchestrator

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/pdminh/imagebatch/internal/models"
	"go.uber.org/zap"
)

// InFlight reports whether a run is currently executing.
func (o *Orchestrator) InFlight() bool {
	return atomic.LoadInt32(&o.running) == 1
}

// Run processes every pending item of the batch concurrently and
// returns once all items are terminal. Item failures are recorded on
// the item and never abort siblings. A second Run while one is in
// flight is rejected with models.ErrBatchInFlight. Cancelling ctx
// transitions unfinished items to cancelled; already-done items are
// untouched.
func (o *Orchestrator) Run(ctx context.Context, batch *models.Batch, policy models.EncodingPolicy) (models.Summary, error) {
	if err := policy.Validate(); err != nil {
		return models.Summary{}, err
	}
	if !atomic.CompareAndSwapInt32(&o.running, 0, 1) {
		return models.Summary{}, models.ErrBatchInFlight
	}
	defer atomic.StoreInt32(&o.running, 0)

	items := batch.Items()
	fingerprint := policy.Fingerprint()

	// Items finished under an older policy go back to pending; items
	// done under the current one stay done, making reruns per-item
	// no-ops.
	for _, it := range items {
		if it.Status() == models.StatusDone && it.PolicyFingerprint() != fingerprint {
			it.Requeue()
		}
	}

	workers := o.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan *models.ImageItem, len(items))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := range jobs {
				o.processItem(ctx, it, policy, fingerprint)
			}
		}()
	}
	for _, it := range items {
		jobs <- it
	}
	close(jobs)
	wg.Wait()

	summary := batch.Summary()
	o.logger.Info("batch run complete",
		zap.String("batch_id", batch.ID),
		zap.Int("done", summary.Done),
		zap.Int("failed", summary.Failed),
		zap.Int("cancelled", summary.Cancelled),
		zap.String("outcome", string(summary.Outcome())),
	)
	return summary, nil
}

func (o *Orchestrator) processItem(ctx context.Context, it *models.ImageItem, policy models.EncodingPolicy, fingerprint string) {
	if !it.BeginProcessing() {
		return // terminal already, or claimed by this run's sibling worker
	}

	select {
	case <-ctx.Done():
		it.MarkCancelled()
		return
	default:
	}

	itemCtx := ctx
	if o.itemTimeout > 0 {
		var cancel context.CancelFunc
		itemCtx, cancel = context.WithTimeout(ctx, o.itemTimeout)
		defer cancel()
	}

	key := cacheKey(it.SourceBytes, fingerprint)
	if o.cache != nil {
		if data, err := o.cache.Get(itemCtx, key); err == nil && data != nil {
			it.MarkDone(data, policy.TargetFormat, fingerprint)
			return
		}
	}

	output, err := o.converter.Convert(itemCtx, it.SourceBytes, policy)
	if err != nil {
		if ctx.Err() != nil {
			it.MarkCancelled()
			return
		}
		it.MarkFailed(err)
		o.logger.Warn("item conversion failed",
			zap.String("item_id", it.ID),
			zap.String("name", it.OriginalName),
			zap.Error(err),
		)
		return
	}

	it.MarkDone(output, policy.TargetFormat, fingerprint)
	if o.cache != nil {
		if err := o.cache.Set(ctx, key, output); err != nil {
			o.logger.Warn("failed to cache result", zap.String("item_id", it.ID), zap.Error(err))
		}
	}
}
