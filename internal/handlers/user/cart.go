package user

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

const cartTTL = 30 * 24 * time.Hour

// mergeCartItem cumule la quantité si le produit est déjà dans le panier,
// sinon ajoute une ligne
func mergeCartItem(cart []models.CartItem, item models.CartItem) []models.CartItem {
	for i := range cart {
		if cart[i].ProductID == item.ProductID {
			cart[i].Quantity += item.Quantity
			return cart
		}
	}
	return append(cart, item)
}

// setCartItemQuantity remplace la quantité d'une ligne. Une quantité ≤ 0
// retire la ligne du panier.
func setCartItemQuantity(cart []models.CartItem, productID string, quantity int) []models.CartItem {
	result := make([]models.CartItem, 0, len(cart))
	for _, item := range cart {
		if item.ProductID == productID {
			if quantity <= 0 {
				continue
			}
			item.Quantity = quantity
		}
		result = append(result, item)
	}
	return result
}

// 🛒 GET /api/cart
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	key := "cart:" + userID
	data, err := database.Redis.Get(context.Background(), key).Result()
	if err != nil || data == "" {
		c.JSON(http.StatusOK, gin.H{"items": []models.CartItem{}, "subtotal": 0.0}) // panier vide
		return
	}

	var cart []models.CartItem
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur décodage panier"})
		return
	}

	// 🧩 Rejoint chaque ligne au prix catalogue courant
	subtotal := 0.0
	visible := make([]models.CartItem, 0, len(cart))
	for _, item := range cart {
		product, err := cache.GetProductFromCache(item.ProductID)
		if err != nil || !product.IsActive {
			// Produit retiré du catalogue : la ligne disparaît de la vue
			continue
		}
		item.Name = product.Name
		item.Price = product.Price
		item.Unit = product.Unit
		item.ImageURL = product.ImageURL
		subtotal += product.Price * float64(item.Quantity)
		visible = append(visible, item)
	}

	c.JSON(http.StatusOK, gin.H{"items": visible, "subtotal": subtotal})
}

// 🟢 POST /api/cart/add
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	key := "cart:" + userID

	var input struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantité invalide"})
		return
	}

	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil || !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	if product.StockQuantity < input.Quantity {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "Stock insuffisant",
			"available": product.StockQuantity,
		})
		return
	}

	item := models.CartItem{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Name:      product.Name,
		Price:     product.Price,
		Unit:      product.Unit,
		ImageURL:  product.ImageURL,
	}

	ctx := context.Background()
	data, _ := database.Redis.Get(ctx, key).Result()
	var cart []models.CartItem
	if data != "" {
		_ = json.Unmarshal([]byte(data), &cart)
	}

	cart = mergeCartItem(cart, item)

	jsonData, _ := json.Marshal(cart)
	database.Redis.Set(ctx, key, jsonData, cartTTL)

	// 🔌 Synchronisation des clients connectés
	database.Redis.Publish(ctx, key, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit ajouté au panier",
		"items":   cart,
	})
}

// 🔁 PUT /api/cart/:productId — remplace la quantité (0 = suppression)
func UpdateCartItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	key := "cart:" + userID

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	if input.Quantity > 0 {
		product, err := cache.GetProductFromCache(productID)
		if err != nil || !product.IsActive {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
			return
		}
		if product.StockQuantity < input.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"available": product.StockQuantity,
			})
			return
		}
	}

	ctx := context.Background()
	data, _ := database.Redis.Get(ctx, key).Result()
	var cart []models.CartItem
	if data != "" {
		_ = json.Unmarshal([]byte(data), &cart)
	}

	cart = setCartItemQuantity(cart, productID, input.Quantity)

	jsonData, _ := json.Marshal(cart)
	database.Redis.Set(ctx, key, jsonData, cartTTL)
	database.Redis.Publish(ctx, key, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier mis à jour",
		"items":   cart,
	})
}

// ❌ DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	productID := c.Param("productId")
	key := "cart:" + userID

	ctx := context.Background()
	data, _ := database.Redis.Get(ctx, key).Result()
	if data == "" {
		c.JSON(http.StatusOK, gin.H{"message": "Panier vide"})
		return
	}

	var cart []models.CartItem
	_ = json.Unmarshal([]byte(data), &cart)

	cart = setCartItemQuantity(cart, productID, 0)

	jsonData, _ := json.Marshal(cart)
	database.Redis.Set(ctx, key, jsonData, cartTTL)
	database.Redis.Publish(ctx, key, "updated")

	c.JSON(http.StatusOK, gin.H{
		"message": "Produit supprimé du panier",
		"items":   cart,
	})
}

// 🧹 DELETE /api/cart/clear
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return
	}

	key := "cart:" + userID

	ctx := context.Background()
	if err := database.Redis.Del(ctx, key).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors du vidage du panier"})
		return
	}
	database.Redis.Publish(ctx, key, "cleared")

	c.JSON(http.StatusOK, gin.H{
		"message": "Panier vidé avec succès",
	})
}
