package interfaces

import (
	"context"

	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// SnapshotSink receives the final account table of a run.
type SnapshotSink interface {
	ExportSnapshot(ctx context.Context, runID string, accounts []models.Account) error
}
