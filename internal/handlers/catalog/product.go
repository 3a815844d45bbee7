package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"
	"freshbasket_back_end/internal/services"
	"freshbasket_back_end/internal/utils"
)

// CreateProduct crée un produit au catalogue (admin)
// POST /api/admin/products
func CreateProduct(c *gin.Context) {
	var input struct {
		Name              string   `json:"name" binding:"required"`
		Description       string   `json:"description"`
		Price             float64  `json:"price" binding:"required,gt=0"`
		OriginalPrice     *float64 `json:"original_price"`
		Unit              string   `json:"unit" binding:"required"`
		StockQuantity     int      `json:"stock_quantity"`
		LowStockThreshold int      `json:"low_stock_threshold"`
		CategoryID        string   `json:"category_id" binding:"required"`
		ImageURL          string   `json:"image_url"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	categoryUUID, err := gocql.ParseUUID(input.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ Vérifie la catégorie
	var categoryName string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, categoryUUID).Scan(&categoryName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if input.LowStockThreshold <= 0 {
		input.LowStockThreshold = 5
	}

	now := time.Now()
	p := models.Product{
		ID:                utils.GenerateProductID(),
		Name:              input.Name,
		Description:       input.Description,
		Price:             input.Price,
		OriginalPrice:     input.OriginalPrice,
		Unit:              input.Unit,
		StockQuantity:     input.StockQuantity,
		LowStockThreshold: input.LowStockThreshold,
		CategoryID:        categoryUUID,
		CategoryName:      categoryName,
		ImageURL:          input.ImageURL,
		IsActive:          true,
		CreatedAt:         &now,
	}

	if err := session.Query(`INSERT INTO products (product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.OriginalPrice, p.Unit, p.StockQuantity,
		p.LowStockThreshold, p.CategoryID, p.ImageURL, p.IsActive, p.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit: " + err.Error()})
		return
	}

	// ✅ Table miroir pour les requêtes par catégorie
	if err := session.Query(`INSERT INTO products_by_category (category_id, product_id, name, price, unit, stock_quantity, image_url, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.CategoryID, p.ID, p.Name, p.Price, p.Unit, p.StockQuantity, p.ImageURL, p.IsActive).Exec(); err != nil {
		log.Printf("⚠️ Erreur indexation products_by_category: %v", err)
	}

	// 🔄 Indexation Elasticsearch
	go services.IndexProduct(p)
	cache.InvalidateCatalogCache()

	log.Printf("✅ Produit créé : %s (%s)", p.ID, p.Name)
	c.JSON(http.StatusCreated, p)
}

// GetAllProducts liste le catalogue actif, avec tri et filtre prix en option
// GET /api/products?sort=price_asc&min_price=10&max_price=50&limit=20
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "products:all"

	var products []models.Product

	// ✅ Cache Redis d'abord
	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		_ = json.Unmarshal([]byte(val), &products)
	}

	if products == nil {
		session, err := database.GetCatalogSession()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
			return
		}

		iter := session.Query(`SELECT product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at FROM products`).Iter()

		var p models.Product
		for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Unit,
			&p.StockQuantity, &p.LowStockThreshold, &p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt) {
			if p.IsActive {
				products = append(products, p)
			}
			p = models.Product{}
		}

		if err := iter.Close(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
			return
		}

		if data, err := json.Marshal(products); err == nil {
			database.Redis.Set(ctx, cacheKey, data, time.Hour)
		}
	}

	products = applyListParams(c, products)
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetProduct renvoie un produit par identifiant
// GET /api/products/:id
func GetProduct(c *gin.Context) {
	product, err := cache.GetProductFromCache(c.Param("id"))
	if err != nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// GetProductsByCategory liste les produits actifs d'une catégorie
// GET /api/categories/:id/products
func GetProductsByCategory(c *gin.Context) {
	catUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// ✅ Table products_by_category pour une requête par partition
	iter := session.Query(`SELECT product_id, name, price, unit, stock_quantity, image_url, is_active
		FROM products_by_category WHERE category_id = ?`, catUUID).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Price, &p.Unit, &p.StockQuantity, &p.ImageURL, &p.IsActive) {
		if p.IsActive {
			p.CategoryID = catUUID
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits: " + err.Error()})
		return
	}

	products = applyListParams(c, products)
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// SearchProducts cherche par nom/description, Elasticsearch d'abord
// GET /api/products/search?q=tomate
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	// 🔎 1️⃣ Elasticsearch (prioritaire)
	results, err := services.SearchProducts(query)
	if err == nil && len(results) > 0 {
		limit := limitFromQuery(c)
		if limit <= 0 {
			limit = DefaultListLimit
		}
		if len(results) > limit {
			results = results[:limit]
		}
		c.JSON(http.StatusOK, gin.H{"products": results, "count": len(results)})
		return
	}

	// 🔁 2️⃣ Fallback ScyllaDB si ES indisponible ou vide
	// Note: ScyllaDB ne supporte pas les recherches LIKE natives,
	// on charge le catalogue et on filtre en mémoire
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at FROM products`).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Unit,
		&p.StockQuantity, &p.LowStockThreshold, &p.CategoryID, &p.ImageURL, &p.IsActive, &p.CreatedAt) {
		if p.IsActive && (containsIgnoreCase(p.Name, query) || containsIgnoreCase(p.Description, query)) {
			products = append(products, p)
		}
		p = models.Product{}
	}

	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur recherche: " + err.Error()})
		return
	}

	products = LimitResults(products, limitFromQuery(c))
	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// UpdateProduct modifie un produit (admin)
// PUT /api/admin/products/:id
func UpdateProduct(c *gin.Context) {
	productID := c.Param("id")

	var input struct {
		Name              *string  `json:"name"`
		Description       *string  `json:"description"`
		Price             *float64 `json:"price"`
		OriginalPrice     *float64 `json:"original_price"`
		Unit              *string  `json:"unit"`
		LowStockThreshold *int     `json:"low_stock_threshold"`
		ImageURL          *string  `json:"image_url"`
		IsActive          *bool    `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var current models.Product
	err = session.Query(`SELECT product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at
		FROM products WHERE product_id = ?`, productID).Scan(
		&current.ID, &current.Name, &current.Description, &current.Price, &current.OriginalPrice,
		&current.Unit, &current.StockQuantity, &current.LowStockThreshold, &current.CategoryID,
		&current.ImageURL, &current.IsActive, &current.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Description != nil {
		current.Description = *input.Description
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		current.Price = *input.Price
	}
	if input.OriginalPrice != nil {
		current.OriginalPrice = input.OriginalPrice
	}
	if input.Unit != nil {
		current.Unit = *input.Unit
	}
	if input.LowStockThreshold != nil {
		current.LowStockThreshold = *input.LowStockThreshold
	}
	if input.ImageURL != nil {
		current.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}

	if err := session.Query(`UPDATE products SET name = ?, description = ?, price = ?, original_price = ?, unit = ?, low_stock_threshold = ?, image_url = ?, is_active = ?
		WHERE product_id = ?`,
		current.Name, current.Description, current.Price, current.OriginalPrice, current.Unit,
		current.LowStockThreshold, current.ImageURL, current.IsActive, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	// Table miroir + caches + index
	if err := session.Query(`UPDATE products_by_category SET name = ?, price = ?, unit = ?, image_url = ?, is_active = ?
		WHERE category_id = ? AND product_id = ?`,
		current.Name, current.Price, current.Unit, current.ImageURL, current.IsActive,
		current.CategoryID, productID).Exec(); err != nil {
		log.Printf("⚠️ products_by_category non synchronisée pour %s: %v", productID, err)
	}

	cache.InvalidateProductCache(productID)
	if current.IsActive {
		go services.IndexProduct(current)
	} else {
		go services.RemoveProductFromIndex(productID)
	}

	c.JSON(http.StatusOK, current)
}

// DeactivateProduct retire un produit de la vente sans effacer l'historique
// DELETE /api/admin/products/:id
func DeactivateProduct(c *gin.Context) {
	productID := c.Param("id")

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var categoryID gocql.UUID
	if err := session.Query(`SELECT category_id FROM products WHERE product_id = ?`,
		productID).Scan(&categoryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// Soft delete : les commandes passées gardent leurs snapshots
	if err := session.Query(`UPDATE products SET is_active = false WHERE product_id = ?`,
		productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation produit"})
		return
	}
	if err := session.Query(`UPDATE products_by_category SET is_active = false WHERE category_id = ? AND product_id = ?`,
		categoryID, productID).Exec(); err != nil {
		log.Printf("⚠️ products_by_category non synchronisée pour %s: %v", productID, err)
	}

	cache.InvalidateProductCache(productID)
	go services.RemoveProductFromIndex(productID)

	log.Printf("🗑️ Produit désactivé : %s", productID)
	c.JSON(http.StatusOK, gin.H{"message": "Produit désactivé"})
}

// UploadProductImage attache une image au produit via MinIO
// POST /api/admin/products/:id/image
func UploadProductImage(c *gin.Context) {
	productID := c.Param("id")

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	objectPath, err := services.UploadProductImage(productID, file)
	if err != nil {
		log.Printf("❌ Erreur upload MinIO: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur envoi image"})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET image_url = ? WHERE product_id = ?`,
		objectPath, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	cache.InvalidateProductCache(productID)

	// 🪣 URL signée pour l'affichage immédiat
	signedURL, err := services.GenerateSignedURL(context.Background(), objectPath, 24*time.Hour)
	if err != nil {
		signedURL = objectPath
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image envoyée", "image_url": signedURL})
}

// applyListParams applique tri, filtre prix et limite depuis la query string
func applyListParams(c *gin.Context, products []models.Product) []models.Product {
	minPrice, hasMin := parseFloatParam(c, "min_price")
	maxPrice, hasMax := parseFloatParam(c, "max_price")
	if hasMin || hasMax {
		if !hasMax {
			maxPrice = -1
		}
		products = FilterByPriceRange(products, minPrice, maxPrice)
	}

	products = SortProducts(products, c.Query("sort"))

	return LimitResults(products, limitFromQuery(c))
}

// limitFromQuery lit ?limit= ; 0 si absent ou invalide (plafond par défaut)
func limitFromQuery(c *gin.Context) int {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func parseFloatParam(c *gin.Context, name string) (float64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func containsIgnoreCase(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
