package catalog

import (
	"testing"
	"time"

	"freshbasket_back_end/internal/models"

	"github.com/stretchr/testify/assert"
)

func sampleProducts() []models.Product {
	old := time.Now().Add(-48 * time.Hour)
	recent := time.Now().Add(-time.Hour)
	return []models.Product{
		{ID: "PRDAAAA1111", Name: "Tomates", Price: 40, CreatedAt: &old},
		{ID: "PRDBBBB2222", Name: "aubergines", Price: 25, CreatedAt: &recent},
		{ID: "PRDCCCC3333", Name: "Courgettes", Price: 55, CreatedAt: nil},
	}
}

func TestSortProductsByName(t *testing.T) {
	sorted := SortProducts(sampleProducts(), "name_asc")

	// Tri insensible à la casse
	assert.Equal(t, "aubergines", sorted[0].Name)
	assert.Equal(t, "Courgettes", sorted[1].Name)
	assert.Equal(t, "Tomates", sorted[2].Name)

	sorted = SortProducts(sampleProducts(), "name_desc")
	assert.Equal(t, "Tomates", sorted[0].Name)
}

func TestSortProductsByPrice(t *testing.T) {
	sorted := SortProducts(sampleProducts(), "price_asc")
	assert.Equal(t, 25.0, sorted[0].Price)
	assert.Equal(t, 55.0, sorted[2].Price)

	sorted = SortProducts(sampleProducts(), "price_desc")
	assert.Equal(t, 55.0, sorted[0].Price)
	assert.Equal(t, 25.0, sorted[2].Price)
}

func TestSortProductsNewest(t *testing.T) {
	sorted := SortProducts(sampleProducts(), "newest")

	assert.Equal(t, "PRDBBBB2222", sorted[0].ID)
	assert.Equal(t, "PRDAAAA1111", sorted[1].ID)
	// Produit sans date en dernier
	assert.Equal(t, "PRDCCCC3333", sorted[2].ID)
}

func TestSortProductsUnknownKeepsOrder(t *testing.T) {
	products := sampleProducts()
	sorted := SortProducts(products, "bogus")

	for i := range products {
		assert.Equal(t, products[i].ID, sorted[i].ID)
	}
}

func TestSortProductsDoesNotMutateInput(t *testing.T) {
	products := sampleProducts()
	_ = SortProducts(products, "price_asc")

	assert.Equal(t, "PRDAAAA1111", products[0].ID)
}

func TestFilterByPriceRange(t *testing.T) {
	products := sampleProducts()

	// Bornes incluses
	filtered := FilterByPriceRange(products, 25, 40)
	assert.Len(t, filtered, 2)
	assert.Equal(t, "PRDAAAA1111", filtered[0].ID)
	assert.Equal(t, "PRDBBBB2222", filtered[1].ID)

	// max < 0 : pas de borne haute
	filtered = FilterByPriceRange(products, 30, -1)
	assert.Len(t, filtered, 2)

	filtered = FilterByPriceRange(products, 100, 200)
	assert.Empty(t, filtered)
}

func TestLimitResults(t *testing.T) {
	products := make([]models.Product, 60)
	for i := range products {
		products[i].ID = "PRD" + string(rune('A'+i%26))
	}

	// Sans limite explicite : plafond par défaut
	capped := LimitResults(products, 0)
	assert.Len(t, capped, DefaultListLimit)

	capped = LimitResults(products, 10)
	assert.Len(t, capped, 10)

	// Limite plus grande que la liste : inchangé
	capped = LimitResults(products, 200)
	assert.Len(t, capped, 60)

	// Limite négative : plafond par défaut
	capped = LimitResults(products, -3)
	assert.Len(t, capped, DefaultListLimit)
}
