package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/payments-engine/internal/models"
	"github.com/sheikh-saqib/payments-engine/internal/money"
	"github.com/sheikh-saqib/payments-engine/internal/storage/memory"
)

func deposit(id uint32, client uint16, amount string) models.Transaction {
	return models.Transaction{ID: id, ClientID: client, Kind: models.KindDeposit, Amount: money.MustParse(amount)}
}

func TestMemoryLedger_Record(t *testing.T) {
	l := memory.NewMemoryLedger()

	require.True(t, l.Record(deposit(1, 1, "10")))
	assert.True(t, l.Record(models.Transaction{ID: 2, ClientID: 1, Kind: models.KindWithdrawal, Amount: money.MustParse("1")}))
	assert.Equal(t, 2, l.Len())

	// duplicate id keeps the original entry
	assert.False(t, l.Record(deposit(1, 9, "99")))
	got, ok := l.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, uint16(1), got.ClientID)
	assert.Equal(t, money.MustParse("10"), got.Amount)
	assert.Equal(t, 2, l.Len())
}

func TestMemoryLedger_RecordSkipsDisputeFamily(t *testing.T) {
	l := memory.NewMemoryLedger()
	for _, k := range []models.Kind{models.KindDispute, models.KindResolve, models.KindChargeback} {
		assert.False(t, l.Record(models.Transaction{ID: 1, ClientID: 1, Kind: k}), k.String())
	}
	assert.Equal(t, 0, l.Len())
}

func TestMemoryLedger_RecordClearsDisputed(t *testing.T) {
	l := memory.NewMemoryLedger()
	tx := deposit(5, 1, "1")
	tx.Disputed = true
	require.True(t, l.Record(tx))

	got, _ := l.Lookup(5)
	assert.False(t, got.Disputed)
}

func TestMemoryLedger_SetDisputed(t *testing.T) {
	l := memory.NewMemoryLedger()
	require.True(t, l.Record(deposit(1, 1, "10")))

	assert.True(t, l.SetDisputed(1, true))
	got, _ := l.Lookup(1)
	assert.True(t, got.Disputed)

	assert.True(t, l.SetDisputed(1, false))
	got, _ = l.Lookup(1)
	assert.False(t, got.Disputed)

	assert.False(t, l.SetDisputed(42, true))
	_, ok := l.Lookup(42)
	assert.False(t, ok)
}

func TestMemoryLedger_LookupReturnsCopy(t *testing.T) {
	l := memory.NewMemoryLedger()
	require.True(t, l.Record(deposit(1, 1, "10")))

	got, _ := l.Lookup(1)
	got.Disputed = true
	got.Amount = 0

	again, _ := l.Lookup(1)
	assert.False(t, again.Disputed)
	assert.Equal(t, money.MustParse("10"), again.Amount)
}

func TestMemoryAccountTable_GetOrCreate(t *testing.T) {
	table := memory.NewMemoryAccountTable()

	acc := table.GetOrCreate(3)
	assert.Equal(t, models.Account{ClientID: 3}, *acc)

	acc.Available = money.MustParse("5")
	acc.Total = money.MustParse("5")

	same := table.GetOrCreate(3)
	assert.Same(t, acc, same)
	assert.Equal(t, money.MustParse("5"), same.Available)
}

func TestMemoryAccountTable_SnapshotSortedCopies(t *testing.T) {
	table := memory.NewMemoryAccountTable()
	for _, id := range []uint16{9, 1, 5} {
		table.GetOrCreate(id)
	}

	snap := table.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []uint16{1, 5, 9}, []uint16{snap[0].ClientID, snap[1].ClientID, snap[2].ClientID})

	snap[0].Locked = true
	assert.False(t, table.GetOrCreate(1).Locked)
}

func TestMemoryAccountTable_EmptySnapshot(t *testing.T) {
	assert.Empty(t, memory.NewMemoryAccountTable().Snapshot())
}
