package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pdminh/imagebatch/internal/models"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// BatchEvent is the terminal announcement of one batch run. Outcome
// lets listeners tell "all succeeded" from partial and total failure.
type BatchEvent struct {
	BatchID     string         `json:"batch_id"`
	Outcome     models.Outcome `json:"outcome"`
	Done        int            `json:"done"`
	Failed      int            `json:"failed"`
	Cancelled   int            `json:"cancelled"`
	Total       int            `json:"total"`
	CompletedAt time.Time      `json:"completed_at"`
}

// BatchComplete publishes the terminal summary of a batch run.
func (n *Notifier) BatchComplete(ctx context.Context, batchID string, summary models.Summary) error {
	event := BatchEvent{
		BatchID:     batchID,
		Outcome:     summary.Outcome(),
		Done:        summary.Done,
		Failed:      summary.Failed,
		Cancelled:   summary.Cancelled,
		Total:       summary.Total,
		CompletedAt: time.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal batch event: %w", err)
	}

	err = n.channel.Publish(
		"",          // exchange
		n.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish batch event: %w", err)
	}

	n.logger.Info("batch event published",
		zap.String("batch_id", batchID),
		zap.String("outcome", string(event.Outcome)),
	)
	return nil
}
