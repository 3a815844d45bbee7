package checkout

import (
	"errors"
	"testing"

	"freshbasket_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func fakeCatalog(products map[string]models.Product) func(string) (*models.Product, error) {
	return func(id string) (*models.Product, error) {
		p, ok := products[id]
		if !ok {
			return nil, errors.New("produit introuvable")
		}
		return &p, nil
	}
}

func TestRefreshCartLinesUsesLivePrices(t *testing.T) {
	// Le prix Redis est périmé, seul le prix catalogue compte
	lines := []models.CartItem{
		{ProductID: "PRDAAAA1111", Quantity: 2, Price: 10, Name: "Tomates (vieux nom)"},
	}
	catalog := fakeCatalog(map[string]models.Product{
		"PRDAAAA1111": {ID: "PRDAAAA1111", Name: "Tomates", Price: 12.5, Unit: "kg", IsActive: true},
	})

	refreshed := refreshCartLines(lines, catalog)

	assert.Len(t, refreshed, 1)
	assert.Equal(t, 12.5, refreshed[0].Price)
	assert.Equal(t, "Tomates", refreshed[0].Name)
	assert.Equal(t, 2, refreshed[0].Quantity)
}

func TestRefreshCartLinesDropsInactiveProducts(t *testing.T) {
	lines := []models.CartItem{
		{ProductID: "PRDAAAA1111", Quantity: 1, Price: 10},
		{ProductID: "PRDBBBB2222", Quantity: 3, Price: 5},
	}
	catalog := fakeCatalog(map[string]models.Product{
		"PRDAAAA1111": {ID: "PRDAAAA1111", Name: "Tomates", Price: 10, IsActive: false},
		"PRDBBBB2222": {ID: "PRDBBBB2222", Name: "Courgettes", Price: 5, IsActive: true},
	})

	refreshed := refreshCartLines(lines, catalog)

	// Le produit désactivé ne doit jamais être facturé
	assert.Len(t, refreshed, 1)
	assert.Equal(t, "PRDBBBB2222", refreshed[0].ProductID)
}

func TestRefreshCartLinesDropsUnknownProducts(t *testing.T) {
	lines := []models.CartItem{
		{ProductID: "PRDGONE0000", Quantity: 2, Price: 99},
	}
	catalog := fakeCatalog(map[string]models.Product{})

	refreshed := refreshCartLines(lines, catalog)

	// Jamais de prix Redis périmé quand le catalogue ne répond pas
	assert.Empty(t, refreshed)

	// Un panier sans ligne facturable équivaut à un panier vide
	assert.Equal(t, 0.0, calcSubtotal(refreshed))
}
