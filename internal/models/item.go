package models

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an ImageItem.
type Status int32

const (
	StatusPending Status = iota
	StatusProcessing
	StatusDone
	StatusFailed
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further automatic transition occurs.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusCancelled
}

// ImageItem is one unit of conversion work. SourceBytes is immutable
// after intake; status, output and failure reason are written only by
// the orchestrator. The status word is atomic so runs can claim items
// with a compare-and-set; the result payload is guarded by its own
// mutex because requeueing makes the lifecycle cyclic and a reader may
// still hold a stale terminal status while a later run rewrites the
// fields.
type ImageItem struct {
	ID           string
	OriginalName string
	SourceBytes  []byte

	status int32

	mu       sync.Mutex
	output   []byte
	failure  string
	format   Format
	policyFP string
}

// NewImageItem creates a pending item with a fresh ID.
func NewImageItem(originalName string, source []byte) *ImageItem {
	return &ImageItem{
		ID:           uuid.New().String(),
		OriginalName: originalName,
		SourceBytes:  source,
	}
}

func (it *ImageItem) Status() Status {
	return Status(atomic.LoadInt32(&it.status))
}

// BeginProcessing claims the item for a run via compare-and-set.
// It returns false if the item is not pending, so two overlapping runs
// can never process the same item twice.
func (it *ImageItem) BeginProcessing() bool {
	return atomic.CompareAndSwapInt32(&it.status, int32(StatusPending), int32(StatusProcessing))
}

// MarkDone records the encoded output together with the format it was
// encoded in and the fingerprint of the policy that produced it.
func (it *ImageItem) MarkDone(output []byte, format Format, policyFingerprint string) {
	it.mu.Lock()
	it.output = output
	it.failure = ""
	it.format = format
	it.policyFP = policyFingerprint
	it.mu.Unlock()
	atomic.StoreInt32(&it.status, int32(StatusDone))
}

func (it *ImageItem) MarkFailed(err error) {
	it.mu.Lock()
	it.output = nil
	it.failure = err.Error()
	it.format = ""
	it.policyFP = ""
	it.mu.Unlock()
	atomic.StoreInt32(&it.status, int32(StatusFailed))
}

func (it *ImageItem) MarkCancelled() {
	it.mu.Lock()
	it.output = nil
	it.format = ""
	it.policyFP = ""
	it.mu.Unlock()
	atomic.StoreInt32(&it.status, int32(StatusCancelled))
}

// Requeue returns a terminal item to pending so a later run picks it
// up again, e.g. after the encoding policy changed. The status leaves
// done before the payload is cleared so no observer can see a done
// item without its output.
func (it *ImageItem) Requeue() {
	atomic.StoreInt32(&it.status, int32(StatusPending))
	it.mu.Lock()
	it.output = nil
	it.failure = ""
	it.format = ""
	it.policyFP = ""
	it.mu.Unlock()
}

// OutputBytes returns the encoded result, or nil unless the item is
// done.
func (it *ImageItem) OutputBytes() []byte {
	if it.Status() != StatusDone {
		return nil
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.output
}

// FailureReason returns the recorded error description for a failed
// item, empty otherwise.
func (it *ImageItem) FailureReason() string {
	if it.Status() != StatusFailed {
		return ""
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.failure
}

// EncodedFormat returns the format the current output was encoded in,
// empty unless the item is done. Archive entries derive their
// extension from this, not from whatever policy is configured at
// download time.
func (it *ImageItem) EncodedFormat() Format {
	if it.Status() != StatusDone {
		return ""
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.format
}

// PolicyFingerprint returns the fingerprint of the policy the current
// output was encoded under, empty unless the item is done.
func (it *ImageItem) PolicyFingerprint() string {
	if it.Status() != StatusDone {
		return ""
	}
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.policyFP
}
