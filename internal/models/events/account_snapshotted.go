package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshotted is published once per account when a run finishes.
type AccountSnapshotted struct {
	RunID      string          `json:"run_id"`
	ClientID   uint16          `json:"client"`
	Available  decimal.Decimal `json:"available"`
	Held       decimal.Decimal `json:"held"`
	Total      decimal.Decimal `json:"total"`
	Locked     bool            `json:"locked"`
	OccurredAt time.Time       `json:"occurred_at"`
}
