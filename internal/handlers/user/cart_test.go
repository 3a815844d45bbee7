package user

import (
	"testing"

	"freshbasket_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestMergeCartItemAccumulates(t *testing.T) {
	cart := []models.CartItem{{ProductID: "PRDAAAA1111", Quantity: 2}}

	cart = mergeCartItem(cart, models.CartItem{ProductID: "PRDAAAA1111", Quantity: 3})

	assert.Len(t, cart, 1)
	assert.Equal(t, 5, cart[0].Quantity)
}

func TestMergeCartItemAppendsNewLine(t *testing.T) {
	cart := []models.CartItem{{ProductID: "PRDAAAA1111", Quantity: 2}}

	cart = mergeCartItem(cart, models.CartItem{ProductID: "PRDBBBB2222", Quantity: 1})

	assert.Len(t, cart, 2)
	assert.Equal(t, "PRDBBBB2222", cart[1].ProductID)
}

func TestMergeCartItemEmptyCart(t *testing.T) {
	cart := mergeCartItem(nil, models.CartItem{ProductID: "PRDAAAA1111", Quantity: 1})

	assert.Len(t, cart, 1)
}

func TestSetCartItemQuantityReplaces(t *testing.T) {
	cart := []models.CartItem{
		{ProductID: "PRDAAAA1111", Quantity: 2},
		{ProductID: "PRDBBBB2222", Quantity: 4},
	}

	cart = setCartItemQuantity(cart, "PRDBBBB2222", 7)

	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, 7, cart[1].Quantity)
}

func TestSetCartItemQuantityZeroRemovesLine(t *testing.T) {
	cart := []models.CartItem{
		{ProductID: "PRDAAAA1111", Quantity: 2},
		{ProductID: "PRDBBBB2222", Quantity: 4},
	}

	cart = setCartItemQuantity(cart, "PRDAAAA1111", 0)

	assert.Len(t, cart, 1)
	assert.Equal(t, "PRDBBBB2222", cart[0].ProductID)
}

func TestSetCartItemQuantityNegativeRemovesLine(t *testing.T) {
	cart := []models.CartItem{{ProductID: "PRDAAAA1111", Quantity: 2}}

	cart = setCartItemQuantity(cart, "PRDAAAA1111", -3)

	assert.Empty(t, cart)
}

func TestSetCartItemQuantityUnknownProductUntouched(t *testing.T) {
	cart := []models.CartItem{{ProductID: "PRDAAAA1111", Quantity: 2}}

	cart = setCartItemQuantity(cart, "PRDZZZZ9999", 5)

	assert.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}
