package catalog

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"
)

// UpdateStock ajuste le stock d'un produit (admin)
// PUT /api/admin/products/:id/stock
func UpdateStock(c *gin.Context) {
	productID := c.Param("id")

	var req struct {
		Quantity int    `json:"quantity" binding:"required"`
		Reason   string `json:"reason" binding:"required"`
		Type     string `json:"type" binding:"required"` // "restock", "adjustment"
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var currentStock int
	var productName string
	var categoryID gocql.UUID
	if err := session.Query(`SELECT stock_quantity, name, category_id FROM products WHERE product_id = ?`,
		productID).Scan(&currentStock, &productName, &categoryID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit non trouvé"})
		return
	}

	var newStock int
	switch req.Type {
	case "restock":
		newStock = currentStock + req.Quantity
	case "adjustment":
		newStock = req.Quantity // Quantité absolue
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type d'opération invalide"})
		return
	}

	if newStock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Le stock ne peut pas être négatif"})
		return
	}

	if err := session.Query(`UPDATE products SET stock_quantity = ? WHERE product_id = ?`,
		newStock, productID).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour stock: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour du stock"})
		return
	}

	if err := session.Query(`UPDATE products_by_category SET stock_quantity = ? WHERE category_id = ? AND product_id = ?`,
		newStock, categoryID, productID).Exec(); err != nil {
		log.Printf("⚠️ products_by_category non synchronisée pour %s: %v", productID, err)
	}

	// Trace du mouvement
	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: productID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		PrevStock: currentStock,
		NewStock:  newStock,
		Reason:    req.Reason,
		UserID:    c.GetString("user_id"),
		CreatedAt: time.Now(),
	}

	if err := session.Query(`INSERT INTO stock_movements (id, product_id, type, quantity, prev_stock, new_stock, reason, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity,
		movement.PrevStock, movement.NewStock, movement.Reason, movement.UserID,
		movement.CreatedAt).Exec(); err != nil {
		log.Printf("⚠️ Mouvement de stock non enregistré pour %s: %v", productID, err)
	}

	cache.InvalidateProductCache(productID)

	log.Printf("📦 Stock mis à jour : %s (%d → %d)", productName, currentStock, newStock)
	c.JSON(http.StatusOK, gin.H{
		"message":    "Stock mis à jour",
		"product_id": productID,
		"prev_stock": currentStock,
		"new_stock":  newStock,
	})
}

// GetLowStockProducts liste les produits sous leur seuil d'alerte (admin)
// GET /api/admin/products/low-stock
func GetLowStockProducts(c *gin.Context) {
	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT product_id, name, unit, stock_quantity, low_stock_threshold, category_id, is_active FROM products`).Iter()

	products := []models.Product{}
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Unit, &p.StockQuantity, &p.LowStockThreshold, &p.CategoryID, &p.IsActive) {
		if p.IsActive && p.StockQuantity <= p.LowStockThreshold {
			products = append(products, p)
		}
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture produits"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "count": len(products)})
}

// GetStockMovements renvoie l'historique des mouvements d'un produit (admin)
// GET /api/admin/products/:id/stock-movements
func GetStockMovements(c *gin.Context) {
	productID := c.Param("id")

	session, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := session.Query(`SELECT id, type, quantity, prev_stock, new_stock, reason, user_id, created_at
		FROM stock_movements WHERE product_id = ? ALLOW FILTERING`, productID).Iter()

	movements := []models.StockMovement{}
	var m models.StockMovement
	for iter.Scan(&m.ID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock, &m.Reason, &m.UserID, &m.CreatedAt) {
		m.ProductID = productID
		movements = append(movements, m)
		m = models.StockMovement{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture mouvements"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}
