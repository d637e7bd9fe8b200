package ledger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/money"
)

// Processor applies transaction records, one at a time and in input order,
// to the ledger of accepted transactions and the table of client accounts.
// Records that fail a precondition are ignored; they never produce an error.
type Processor struct {
	transactions interfaces.LedgerStore
	accounts     interfaces.AccountStore
	log          *zap.Logger
	stats        Stats
}

// NewProcessor wires a processor to the stores it owns for the duration of a run.
// A nil logger disables diagnostics.
func NewProcessor(transactions interfaces.LedgerStore, accounts interfaces.AccountStore, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		transactions: transactions,
		accounts:     accounts,
		log:          logger,
	}
}

// Run pulls records from src until io.EOF and applies each of them.
// Only a failing source or a cancelled context stops the run early.
func (p *Processor) Run(ctx context.Context, src interfaces.TransactionSource) (Stats, error) {
	for {
		if err := ctx.Err(); err != nil {
			return p.Stats(), err
		}

		tx, err := src.Next()
		if errors.Is(err, io.EOF) {
			return p.Stats(), nil
		}
		if err != nil {
			return p.Stats(), fmt.Errorf("read transaction: %w", err)
		}

		p.Apply(tx)
	}
}

// Apply processes a single record to completion.
// The client's account is created on first reference even if the record is rejected.
func (p *Processor) Apply(tx models.Transaction) Outcome {
	acc := p.accounts.GetOrCreate(tx.ClientID)

	outcome := p.apply(acc, tx)
	p.stats.record(outcome)

	if outcome != Applied {
		p.log.Debug("transaction ignored",
			zap.Stringer("type", tx.Kind),
			zap.Uint16("client", tx.ClientID),
			zap.Uint32("tx", tx.ID),
			zap.Stringer("reason", outcome),
		)
	}
	return outcome
}

// Snapshot returns the current account table ordered by client id.
func (p *Processor) Snapshot() []models.Account {
	return p.accounts.Snapshot()
}

func (p *Processor) Stats() Stats {
	return p.stats.clone()
}

func (p *Processor) apply(acc *models.Account, tx models.Transaction) Outcome {
	// a chargeback freezes the account for good
	if acc.Locked {
		return RejectedLocked
	}

	switch tx.Kind {
	case models.KindDeposit:
		return p.deposit(acc, tx)
	case models.KindWithdrawal:
		return p.withdraw(acc, tx)
	case models.KindDispute:
		return p.dispute(acc, tx)
	case models.KindResolve:
		return p.resolve(acc, tx)
	case models.KindChargeback:
		return p.chargeback(acc, tx)
	default:
		return RejectedUnknownKind
	}
}

func (p *Processor) deposit(acc *models.Account, tx models.Transaction) Outcome {
	if outcome := p.checkNew(tx); outcome != Applied {
		return outcome
	}
	if acc.Total > money.Amount(math.MaxInt64)-tx.Amount {
		return RejectedOverflow
	}

	acc.Available += tx.Amount
	acc.Total += tx.Amount
	p.transactions.Record(tx)
	return Applied
}

func (p *Processor) withdraw(acc *models.Account, tx models.Transaction) Outcome {
	if outcome := p.checkNew(tx); outcome != Applied {
		return outcome
	}
	if tx.Amount > acc.Available {
		return RejectedInsufficientFunds
	}

	acc.Available -= tx.Amount
	acc.Total -= tx.Amount
	p.transactions.Record(tx)
	return Applied
}

func (p *Processor) dispute(acc *models.Account, tx models.Transaction) Outcome {
	entry, outcome := p.reference(tx)
	if outcome != Applied {
		return outcome
	}
	if entry.Disputed {
		return RejectedAlreadyDisputed
	}
	if acc.Held > money.Amount(math.MaxInt64)-entry.Amount ||
		acc.Available < money.Amount(math.MinInt64)+entry.Amount {
		return RejectedOverflow
	}

	acc.Available -= entry.Amount
	acc.Held += entry.Amount
	p.transactions.SetDisputed(entry.ID, true)
	return Applied
}

func (p *Processor) resolve(acc *models.Account, tx models.Transaction) Outcome {
	entry, outcome := p.reference(tx)
	if outcome != Applied {
		return outcome
	}
	if !entry.Disputed {
		return RejectedNotDisputed
	}
	if acc.Available > money.Amount(math.MaxInt64)-entry.Amount {
		return RejectedOverflow
	}

	acc.Held -= entry.Amount
	acc.Available += entry.Amount
	p.transactions.SetDisputed(entry.ID, false)
	return Applied
}

func (p *Processor) chargeback(acc *models.Account, tx models.Transaction) Outcome {
	entry, outcome := p.reference(tx)
	if outcome != Applied {
		return outcome
	}
	if !entry.Disputed {
		return RejectedNotDisputed
	}

	acc.Held -= entry.Amount
	acc.Total -= entry.Amount
	acc.Locked = true
	p.transactions.SetDisputed(entry.ID, false)
	return Applied
}

// checkNew validates a deposit or withdrawal before it touches any balance.
func (p *Processor) checkNew(tx models.Transaction) Outcome {
	if !tx.Amount.IsPositive() {
		return RejectedInvalidAmount
	}
	if _, exists := p.transactions.Lookup(tx.ID); exists {
		return RejectedDuplicateID
	}
	return Applied
}

// reference resolves the stored entry a dispute, resolve or chargeback points at.
func (p *Processor) reference(tx models.Transaction) (models.Transaction, Outcome) {
	entry, ok := p.transactions.Lookup(tx.ID)
	if !ok {
		return models.Transaction{}, RejectedUnknownTx
	}
	if entry.ClientID != tx.ClientID {
		return models.Transaction{}, RejectedClientMismatch
	}
	return entry, Applied
}
