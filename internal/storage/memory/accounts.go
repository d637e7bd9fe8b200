package memory

import (
	"sort"

	interfaces "github.com/sheikh-saqib/payments-engine/internal/interfaces"
	"github.com/sheikh-saqib/payments-engine/internal/models"
)

// MemoryAccountTable is an in-memory implementation of interfaces.AccountStore.
type MemoryAccountTable struct {
	accounts map[uint16]*models.Account
}

func NewMemoryAccountTable() *MemoryAccountTable {
	return &MemoryAccountTable{
		accounts: make(map[uint16]*models.Account),
	}
}

// GetOrCreate returns the client's account, creating a zeroed unlocked one
// the first time the client is referenced. The returned pointer is live.
func (m *MemoryAccountTable) GetOrCreate(clientID uint16) *models.Account {
	acc, ok := m.accounts[clientID]
	if !ok {
		acc = models.NewAccount(clientID)
		m.accounts[clientID] = acc
	}
	return acc
}

// Snapshot returns copies of all accounts ordered by client id.
func (m *MemoryAccountTable) Snapshot() []models.Account {
	out := make([]models.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		out = append(out, *acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

var _ interfaces.AccountStore = (*MemoryAccountTable)(nil)
