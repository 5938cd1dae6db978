package handlers

import (
	"sync"

	"github.com/pdminh/imagebatch/internal/models"
	"github.com/pdminh/imagebatch/internal/services/orchestrator"
)

// batchEntry pairs a live batch with its own orchestrator, so the
// in-flight guard is per batch and running one batch never blocks
// another.
type batchEntry struct {
	batch *models.Batch
	orch  *orchestrator.Orchestrator
}

// batchRegistry tracks live batches for the duration of the process.
// Batches are never persisted; they exist for the user session only.
type batchRegistry struct {
	mu      sync.RWMutex
	entries map[string]*batchEntry
}

func newBatchRegistry() *batchRegistry {
	return &batchRegistry{entries: make(map[string]*batchEntry)}
}

func (r *batchRegistry) add(entry *batchEntry) {
	r.mu.Lock()
	r.entries[entry.batch.ID] = entry
	r.mu.Unlock()
}

func (r *batchRegistry) get(id string) (*batchEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	return entry, ok
}
