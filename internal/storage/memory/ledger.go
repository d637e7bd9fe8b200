package memory

import (
	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// MemoryLedger is an in-memory implementation of interfaces.LedgerStore.
// It lives for a single run and is owned by one processor, so it takes no locks.
type MemoryLedger struct {
	entries map[uint32]models.Transaction // accepted deposits and withdrawals keyed by tx id
}

// NewMemoryLedger creates an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		entries: make(map[uint32]models.Transaction),
	}
}

// Record stores a deposit or withdrawal under its id.
// It returns false without touching the ledger when the id is already taken
// or the entry is not of a kind that gets stored.
func (m *MemoryLedger) Record(entry models.Transaction) bool {
	if !entry.Kind.CarriesAmount() {
		return false
	}
	if _, exists := m.entries[entry.ID]; exists {
		return false
	}

	entry.Disputed = false
	m.entries[entry.ID] = entry
	return true
}

// Lookup returns a copy of the stored entry.
func (m *MemoryLedger) Lookup(id uint32) (models.Transaction, bool) {
	entry, ok := m.entries[id]
	return entry, ok
}

// SetDisputed flips the disputed flag of a stored entry; false if there is none.
func (m *MemoryLedger) SetDisputed(id uint32, disputed bool) bool {
	entry, ok := m.entries[id]
	if !ok {
		return false
	}
	entry.Disputed = disputed
	m.entries[id] = entry
	return true
}

func (m *MemoryLedger) Len() int {
	return len(m.entries)
}

// Compile-time check: ensure MemoryLedger implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedger)(nil)
