package billing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStockIsAvailable(t *testing.T) {
	db := openTestDB(t)
	ledger := NewStockLedger(db)

	item := seedItem(t, db, "Clean Code", "45.00", 3)

	ok, err := ledger.IsAvailable(item.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ledger.IsAvailable(item.ID, 4)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = ledger.IsAvailable(9999, 1)
	require.True(t, errors.Is(err, ErrNotFound))
}

func TestStockIsAvailableInactiveItem(t *testing.T) {
	db := openTestDB(t)
	ledger := NewStockLedger(db)

	item := seedItem(t, db, "Out of Print", "10.00", 5)
	require.NoError(t, db.Model(&item).Update("is_active", false).Error)

	ok, err := ledger.IsAvailable(item.ID, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

// The conditional decrement is the serialization point: with one unit left,
// only one of two decrements can win and stock never goes negative.
func TestStockDecrementLastUnit(t *testing.T) {
	db := openTestDB(t)
	ledger := NewStockLedger(db)

	item := seedItem(t, db, "Last Copy", "20.00", 1)

	ok, err := ledger.Decrement(item.ID, 1)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = ledger.Decrement(item.ID, 1)
	require.NoError(t, err)
	require.False(t, ok, "second decrement must lose")

	require.Equal(t, 0, stockOf(t, db, item.ID))
}

func TestStockDecrementRejectsOversell(t *testing.T) {
	db := openTestDB(t)
	ledger := NewStockLedger(db)

	item := seedItem(t, db, "Thin Stock", "15.00", 2)

	ok, err := ledger.Decrement(item.ID, 3)
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, 2, stockOf(t, db, item.ID), "failed decrement must not change stock")

	_, err = ledger.Decrement(item.ID, 0)
	require.True(t, errors.Is(err, ErrValidation))
}

func TestStockRestore(t *testing.T) {
	db := openTestDB(t)
	ledger := NewStockLedger(db)

	item := seedItem(t, db, "Returns", "12.00", 5)

	ok, err := ledger.Decrement(item.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, ledger.Restore(item.ID, 4))
	require.Equal(t, 5, stockOf(t, db, item.ID))

	err = ledger.Restore(9999, 1)
	require.True(t, errors.Is(err, ErrNotFound))
}
