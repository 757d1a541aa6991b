package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidate_MergesDuplicates(t *testing.T) {
	items, err := Consolidate([]CartItem{
		{ProductID: "waffle", Quantity: 1},
		{ProductID: "brownie", Quantity: 2},
		{ProductID: "waffle", Quantity: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, []CartItem{
		{ProductID: "waffle", Quantity: 4},
		{ProductID: "brownie", Quantity: 2},
	}, items)
}

func TestConsolidate_KeepsFirstSeenOrder(t *testing.T) {
	items, err := Consolidate([]CartItem{
		{ProductID: "c", Quantity: 1},
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 1},
		{ProductID: "a", Quantity: 1},
		{ProductID: "c", Quantity: 1},
	})
	require.NoError(t, err)

	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestConsolidate_PreservesTotalQuantity(t *testing.T) {
	in := []CartItem{
		{ProductID: "a", Quantity: 2},
		{ProductID: "b", Quantity: 5},
		{ProductID: "a", Quantity: 7},
		{ProductID: "c", Quantity: 1},
		{ProductID: "b", Quantity: 4},
	}
	items, err := Consolidate(in)
	require.NoError(t, err)

	var want, got int
	for _, it := range in {
		want += it.Quantity
	}
	for _, it := range items {
		got += it.Quantity
	}
	assert.Equal(t, want, got)
}

func TestConsolidate_EmptyCart(t *testing.T) {
	_, err := Consolidate(nil)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Consolidate([]CartItem{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestConsolidate_InvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		_, err := Consolidate([]CartItem{
			{ProductID: "a", Quantity: 1},
			{ProductID: "b", Quantity: qty},
		})

		var invalid *InvalidQuantityError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "b", invalid.ProductID)
		assert.Equal(t, qty, invalid.Quantity)
	}
}
