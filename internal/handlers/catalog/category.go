package catalog

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// 🟢 POST /api/admin/categories
func CreateCategory(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
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

	// Unicité du nom (insensible à la casse)
	iter := session.Query(`SELECT name FROM categories`).Iter()
	var existing string
	for iter.Scan(&existing) {
		if strings.EqualFold(existing, input.Name) {
			iter.Close()
			c.JSON(http.StatusConflict, gin.H{"error": "Une catégorie avec ce nom existe déjà"})
			return
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	now := time.Now()
	cat := models.Category{
		ID:          gocql.TimeUUID(),
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    true,
		CreatedAt:   &now,
	}

	if err := session.Query(`INSERT INTO categories (category_id, name, description, image_url, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.Description, cat.ImageURL, cat.IsActive, cat.CreatedAt).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création catégorie"})
		return
	}

	cache.InvalidateCatalogCache()
	log.Printf("✅ Catégorie créée : %s (%s)", cat.ID, cat.Name)
	c.JSON(http.StatusCreated, cat)
}

// 🔵 GET /api/categories
func GetAllCategories(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "categories:all"

	// Cache Redis
	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []models.Category
		if json.Unmarshal([]byte(val), &cached) == nil {
			c.JSON(http.StatusOK, gin.H{"categories": cached, "count": len(cached)})
			return
		}
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT category_id, name, description, image_url, is_active, created_at FROM categories`).Iter()

	cats := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.Description, &cat.ImageURL, &cat.IsActive, &cat.CreatedAt) {
		if cat.IsActive {
			cats = append(cats, cat)
		}
		cat = models.Category{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture catégories"})
		return
	}

	data, _ := json.Marshal(cats)
	database.Redis.Set(ctx, cacheKey, data, time.Hour)

	c.JSON(http.StatusOK, gin.H{"categories": cats, "count": len(cats)})
}

// 🟠 PUT /api/admin/categories/:id
func UpdateCategory(c *gin.Context) {
	catUUID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID de catégorie invalide"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
		IsActive    *bool   `json:"is_active"`
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

	var current models.Category
	err = session.Query(`SELECT category_id, name, description, image_url, is_active, created_at
		FROM categories WHERE category_id = ?`, catUUID).Scan(
		&current.ID, &current.Name, &current.Description, &current.ImageURL,
		&current.IsActive, &current.CreatedAt)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	if input.Name != nil {
		current.Name = *input.Name
	}
	if input.Description != nil {
		current.Description = *input.Description
	}
	if input.ImageURL != nil {
		current.ImageURL = *input.ImageURL
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}

	if err := session.Query(`UPDATE categories SET name = ?, description = ?, image_url = ?, is_active = ?
		WHERE category_id = ?`,
		current.Name, current.Description, current.ImageURL, current.IsActive, catUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour catégorie"})
		return
	}

	cache.InvalidateCatalogCache()
	c.JSON(http.StatusOK, current)
}

// 🗑️ DELETE /api/admin/categories/:id — désactivation, pas de suppression
func DeleteCategory(c *gin.Context) {
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

	var name string
	if err := session.Query(`SELECT name FROM categories WHERE category_id = ?`, catUUID).Scan(&name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Catégorie introuvable"})
		return
	}

	// Une catégorie avec des produits actifs ne se désactive pas
	iter := session.Query(`SELECT product_id, is_active FROM products_by_category WHERE category_id = ?`, catUUID).Iter()
	var productID string
	var isActive bool
	activeCount := 0
	for iter.Scan(&productID, &isActive) {
		if isActive {
			activeCount++
		}
	}
	_ = iter.Close()

	if activeCount > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error":           "Catégorie encore utilisée par des produits actifs",
			"active_products": activeCount,
		})
		return
	}

	if err := session.Query(`UPDATE categories SET is_active = false WHERE category_id = ?`, catUUID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur désactivation catégorie"})
		return
	}

	cache.InvalidateCatalogCache()
	log.Printf("🗑️ Catégorie désactivée : %s (%s)", catUUID, name)
	c.JSON(http.StatusOK, gin.H{"message": "Catégorie désactivée"})
}
