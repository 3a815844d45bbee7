package catalog

import (
	"sort"
	"strings"

	"freshbasket_back_end/internal/models"
)

// SortProducts trie une copie de la liste selon le critère demandé.
// Critères supportés : name_asc, name_desc, price_asc, price_desc, newest.
// Un critère inconnu ou vide laisse l'ordre inchangé.
func SortProducts(products []models.Product, sortBy string) []models.Product {
	result := make([]models.Product, len(products))
	copy(result, products)

	switch sortBy {
	case "name_asc":
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
		})
	case "name_desc":
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(result[i].Name) > strings.ToLower(result[j].Name)
		})
	case "price_asc":
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price < result[j].Price
		})
	case "price_desc":
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Price > result[j].Price
		})
	case "newest":
		sort.SliceStable(result, func(i, j int) bool {
			if result[i].CreatedAt == nil || result[j].CreatedAt == nil {
				return result[j].CreatedAt == nil && result[i].CreatedAt != nil
			}
			return result[i].CreatedAt.After(*result[j].CreatedAt)
		})
	}

	return result
}

// DefaultListLimit plafonne les listings quand le client ne fixe pas de limite
const DefaultListLimit = 50

// LimitResults tronque la liste au plafond demandé.
// limit <= 0 applique le plafond par défaut.
func LimitResults(products []models.Product, limit int) []models.Product {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(products) > limit {
		return products[:limit]
	}
	return products
}

// FilterByPriceRange garde les produits dont le prix est dans [min, max],
// bornes incluses. max < 0 signifie pas de borne haute.
func FilterByPriceRange(products []models.Product, min, max float64) []models.Product {
	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Price < min {
			continue
		}
		if max >= 0 && p.Price > max {
			continue
		}
		result = append(result, p)
	}
	return result
}
