package domain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/carts/domain"
	"github.com/vinialbano/alura-ddd-tatico-sub001/modules/shared/types"
)

func TestNewCart(t *testing.T) {
	customerID := types.NewCustomerID()

	cart := domain.NewCart(customerID)

	assert.False(t, cart.ID().IsZero())
	assert.Equal(t, customerID, cart.CustomerID())
	assert.Empty(t, cart.Items())
	assert.False(t, cart.IsConverted())
}

func TestCart_AddItem(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())

	require.NoError(t, cart.AddItem("prod-keyboard", 2))
	require.NoError(t, cart.AddItem("prod-mouse", 1))

	require.Len(t, cart.Items(), 2)
	assert.Equal(t, 2, cart.Items()[0].Quantity)
}

func TestCart_AddItem_MergesLines(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())

	require.NoError(t, cart.AddItem("prod-keyboard", 2))
	require.NoError(t, cart.AddItem("prod-keyboard", 3))

	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 5, cart.Items()[0].Quantity)
}

func TestCart_AddItem_Validation(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())

	assert.ErrorIs(t, cart.AddItem("", 1), domain.ErrProductIDRequired)
	assert.ErrorIs(t, cart.AddItem("prod-keyboard", 0), domain.ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem("prod-keyboard", -1), domain.ErrInvalidQuantity)
}

func TestCart_AddItem_QuantityCap(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())

	assert.ErrorIs(t, cart.AddItem("prod-keyboard", domain.MaxQuantityPerItem+1), domain.ErrQuantityCapExceeded)

	// Merging past the cap is rejected and the line is unchanged.
	require.NoError(t, cart.AddItem("prod-keyboard", domain.MaxQuantityPerItem))
	assert.ErrorIs(t, cart.AddItem("prod-keyboard", 1), domain.ErrQuantityCapExceeded)
	assert.Equal(t, domain.MaxQuantityPerItem, cart.Items()[0].Quantity)
}

func TestCart_AddItem_ItemCap(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())

	for i := 0; i < domain.MaxItems; i++ {
		require.NoError(t, cart.AddItem(fmt.Sprintf("prod-%d", i), 1))
	}

	assert.ErrorIs(t, cart.AddItem("prod-overflow", 1), domain.ErrTooManyItems)
	assert.Len(t, cart.Items(), domain.MaxItems)
}

func TestCart_MarkConverted(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())
	require.NoError(t, cart.AddItem("prod-keyboard", 1))

	require.NoError(t, cart.MarkConverted())
	assert.True(t, cart.IsConverted())

	// A cart converts at most once.
	assert.ErrorIs(t, cart.MarkConverted(), domain.ErrCartConverted)
}

func TestCart_MarkConverted_Empty(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())
	assert.ErrorIs(t, cart.MarkConverted(), domain.ErrCartEmpty)
}

func TestCart_AddItem_AfterConversion(t *testing.T) {
	cart := domain.NewCart(types.NewCustomerID())
	require.NoError(t, cart.AddItem("prod-keyboard", 1))
	require.NoError(t, cart.MarkConverted())

	assert.ErrorIs(t, cart.AddItem("prod-mouse", 1), domain.ErrCartConverted)
}
