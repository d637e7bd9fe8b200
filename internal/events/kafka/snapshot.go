package kafka

import (
	"context"
	"strconv"
	"time"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/models/events"
)

type batchPublisher interface {
	PublishAll(ctx context.Context, msgs []Message) error
}

// SnapshotSink publishes one AccountSnapshotted event per account, keyed by client id.
type SnapshotSink struct {
	publisher batchPublisher
	now       func() time.Time
}

func NewSnapshotSink(publisher batchPublisher) *SnapshotSink {
	return &SnapshotSink{publisher: publisher, now: time.Now}
}

func (s *SnapshotSink) ExportSnapshot(ctx context.Context, runID string, accounts []models.Account) error {
	at := s.now().UTC()

	msgs := make([]Message, 0, len(accounts))
	for _, acc := range accounts {
		msgs = append(msgs, Message{
			Key: strconv.FormatUint(uint64(acc.ClientID), 10),
			Event: events.AccountSnapshotted{
				RunID:      runID,
				ClientID:   acc.ClientID,
				Available:  acc.Available.Decimal(),
				Held:       acc.Held.Decimal(),
				Total:      acc.Total.Decimal(),
				Locked:     acc.Locked,
				OccurredAt: at,
			},
		})
	}
	return s.publisher.PublishAll(ctx, msgs)
}

var _ interfaces.SnapshotSink = (*SnapshotSink)(nil)
