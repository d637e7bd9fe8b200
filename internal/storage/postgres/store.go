package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// Open connects to Postgres through lib/pq and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// SnapshotStore writes the final account table of each run into one table,
// one row per (run_id, client).
type SnapshotStore struct {
	db    *sql.DB
	table string // quoted identifier
	now   func() time.Time
}

func NewSnapshotStore(db *sql.DB, table string) *SnapshotStore {
	return &SnapshotStore{
		db:    db,
		table: pq.QuoteIdentifier(table),
		now:   time.Now,
	}
}

func (p *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS ` + p.table + ` (
	run_id     UUID           NOT NULL,
	client     INTEGER        NOT NULL,
	available  NUMERIC(24,4)  NOT NULL,
	held       NUMERIC(24,4)  NOT NULL,
	total      NUMERIC(24,4)  NOT NULL,
	locked     BOOLEAN        NOT NULL,
	created_at TIMESTAMPTZ    NOT NULL,
	PRIMARY KEY (run_id, client)
)`
	_, err := p.db.ExecContext(ctx, query)
	return err
}

// ExportSnapshot inserts every account of the run inside a single transaction.
func (p *SnapshotStore) ExportSnapshot(ctx context.Context, runID string, accounts []models.Account) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	stmt, err := dbTx.PrepareContext(ctx, `INSERT INTO `+p.table+` (run_id, client, available, held, total, locked, created_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	createdAt := p.now().UTC()
	for _, acc := range accounts {
		_, err = stmt.ExecContext(ctx, runID, int(acc.ClientID),
			acc.Available.Decimal(), acc.Held.Decimal(), acc.Total.Decimal(),
			acc.Locked, createdAt)
		if err != nil {
			return fmt.Errorf("insert client %d: %w", acc.ClientID, err)
		}
	}
	return dbTx.Commit()
}

var _ interfaces.SnapshotSink = (*SnapshotStore)(nil)
