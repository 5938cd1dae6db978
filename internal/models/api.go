package models

import "time"

// APIResponse is the common HTTP envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ItemView is the wire representation of one item.
type ItemView struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
	OutputSize   int    `json:"output_size,omitempty"`
}

// BatchView is the wire representation of a batch.
type BatchView struct {
	BatchID   string     `json:"batch_id"`
	CreatedAt time.Time  `json:"created_at"`
	Summary   Summary    `json:"summary"`
	Outcome   Outcome    `json:"outcome"`
	Settled   bool       `json:"settled"`
	Items     []ItemView `json:"items"`
}

// ViewOf renders a batch for API responses.
func ViewOf(b *Batch) BatchView {
	items := b.Items()
	views := make([]ItemView, 0, len(items))
	for _, it := range items {
		views = append(views, ItemView{
			ID:           it.ID,
			OriginalName: it.OriginalName,
			Status:       it.Status().String(),
			Error:        it.FailureReason(),
			OutputSize:   len(it.OutputBytes()),
		})
	}
	sum := b.Summary()
	return BatchView{
		BatchID:   b.ID,
		CreatedAt: b.CreatedAt,
		Summary:   sum,
		Outcome:   sum.Outcome(),
		Settled:   sum.Settled(),
		Items:     views,
	}
}
