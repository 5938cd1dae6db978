package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBatchPreservesInsertionOrder(t *testing.T) {
	b := NewBatch()
	for i := 0; i < 5; i++ {
		b.Add(fmt.Sprintf("img-%d.png", i), []byte{byte(i)})
	}

	items := b.Items()
	require.Len(t, items, 5)
	for i, it := range items {
		require.Equal(t, fmt.Sprintf("img-%d.png", i), it.OriginalName)
	}
	require.Equal(t, 5, b.Len())
}

func TestBatchItemLookup(t *testing.T) {
	b := NewBatch()
	it := b.Add("a.png", []byte("a"))

	require.Equal(t, it, b.Item(it.ID))
	require.Nil(t, b.Item("nope"))
}

func TestSummaryOutcomes(t *testing.T) {
	newSettled := func(done, failed int) *Batch {
		b := NewBatch()
		for i := 0; i < done; i++ {
			it := b.Add("d.png", nil)
			it.BeginProcessing()
			it.MarkDone([]byte("x"), FormatWebP, "fp")
		}
		for i := 0; i < failed; i++ {
			it := b.Add("f.png", nil)
			it.BeginProcessing()
			it.MarkFailed(errors.New("boom"))
		}
		return b
	}

	s := newSettled(3, 0).Summary()
	require.True(t, s.Settled())
	require.Equal(t, OutcomeAllSucceeded, s.Outcome())

	s = newSettled(2, 1).Summary()
	require.Equal(t, OutcomeSomeFailed, s.Outcome())

	s = newSettled(0, 3).Summary()
	require.Equal(t, OutcomeAllFailed, s.Outcome())

	// Empty batch counts as all-succeeded and settled.
	s = NewBatch().Summary()
	require.True(t, s.Settled())
	require.Equal(t, OutcomeAllSucceeded, s.Outcome())
}

func TestSummaryNotSettledWhilePending(t *testing.T) {
	b := NewBatch()
	b.Add("a.png", nil)
	require.False(t, b.Summary().Settled())
}
