package user

import (
	"net/http"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// ❤️ GET /api/favorites
func GetFavorites(c *gin.Context) {
	userID := c.GetString("user_id")

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := usersSession.Query(`SELECT product_id FROM favorites WHERE user_id = ?`, userID).Iter()

	products := []models.Product{}
	var productID string
	for iter.Scan(&productID) {
		product, err := cache.GetProductFromCache(productID)
		if err != nil || !product.IsActive {
			continue
		}
		products = append(products, *product)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture favoris"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": products, "count": len(products)})
}

// 🟢 POST /api/favorites/:productId
func AddFavorite(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	product, err := cache.GetProductFromCache(productID)
	if err != nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// L'insertion est idempotente, re-favoriser ne change rien
	if err := usersSession.Query(`INSERT INTO favorites (user_id, product_id) VALUES (?, ?)`,
		userID, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur ajout favori"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit ajouté aux favoris"})
}

// ❌ DELETE /api/favorites/:productId
func RemoveFavorite(c *gin.Context) {
	userID := c.GetString("user_id")
	productID := c.Param("productId")

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := usersSession.Query(`DELETE FROM favorites WHERE user_id = ? AND product_id = ?`,
		userID, productID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression favori"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Produit retiré des favoris"})
}
