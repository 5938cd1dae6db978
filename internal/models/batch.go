package models

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Batch is an ordered collection of ImageItems. Insertion order is
// preserved for display and for archive iteration. A batch lives for
// the process session and is never persisted.
type Batch struct {
	ID        string
	CreatedAt time.Time

	mu    sync.RWMutex
	items []*ImageItem
}

func NewBatch() *Batch {
	return &Batch{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// Add creates a pending item for one intake file and appends it.
func (b *Batch) Add(originalName string, source []byte) *ImageItem {
	item := NewImageItem(originalName, source)
	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()
	return item
}

// Items returns a snapshot of the item list in insertion order.
func (b *Batch) Items() []*ImageItem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*ImageItem, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Batch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}

// Item looks an item up by ID, nil if absent.
func (b *Batch) Item(id string) *ImageItem {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, it := range b.items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// Summary counts items per status.
func (b *Batch) Summary() Summary {
	var s Summary
	for _, it := range b.Items() {
		s.Total++
		switch it.Status() {
		case StatusPending:
			s.Pending++
		case StatusProcessing:
			s.Processing++
		case StatusDone:
			s.Done++
		case StatusFailed:
			s.Failed++
		case StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// Outcome distinguishes the terminal shapes of a finished batch.
type Outcome string

const (
	OutcomeAllSucceeded Outcome = "all_succeeded"
	OutcomeSomeFailed   Outcome = "some_failed"
	OutcomeAllFailed    Outcome = "all_failed"
)

// Summary is a per-status breakdown of a batch.
type Summary struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Done       int `json:"done"`
	Failed     int `json:"failed"`
	Cancelled  int `json:"cancelled"`
}

// Settled reports whether every item has reached a terminal status.
func (s Summary) Settled() bool {
	return s.Pending == 0 && s.Processing == 0
}

// Outcome classifies a settled batch. An empty batch counts as
// all-succeeded.
func (s Summary) Outcome() Outcome {
	switch {
	case s.Failed == 0:
		return OutcomeAllSucceeded
	case s.Done == 0:
		return OutcomeAllFailed
	default:
		return OutcomeSomeFailed
	}
}
