package checkout

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"freshbasket_back_end/internal/config"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"
	"freshbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// GetQuote calcule le devis du panier courant sans rien créer
// GET /api/checkout/quote?coupon_code=XXX
func GetQuote(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	cartItems, err := loadCartWithPrices(userID)
	if err != nil || len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide ou introuvable"})
		return
	}

	subtotal := calcSubtotal(cartItems)

	var coupon *models.Coupon
	if code := c.Query("coupon_code"); code != "" {
		coupon, err = fetchCoupon(code)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo invalide"})
			return
		}
		if _, errMsg := ComputeDiscount(subtotal, coupon); errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
			return
		}
	}

	quote := BuildQuote(subtotal, coupon, config.DeliveryFee(), config.FreeDeliveryThreshold())
	c.JSON(http.StatusOK, quote)
}

// PlaceOrder crée une commande complète à partir de l'instantané du panier :
// en-tête + articles insérés en batch atomique, prix capturés à cet instant,
// panier vidé uniquement en cas de succès.
// POST /api/checkout
func PlaceOrder(c *gin.Context) {
	var req struct {
		AddressID     string `json:"address_id" binding:"required"`
		PaymentMethod string `json:"payment_method" binding:"required"` // "cod" ou "online"
		CouponCode    string `json:"coupon_code"`                       // Optionnel
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides", "details": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	phone := c.GetString("phone")
	email := c.GetString("email")

	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	if req.PaymentMethod != models.PaymentMethodCOD && req.PaymentMethod != models.PaymentMethodOnline {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mode de paiement invalide"})
		return
	}

	// ✅ 1. Récupérer le panier avec les prix catalogue actuels
	cartItems, err := loadCartWithPrices(userID)
	if err != nil || len(cartItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide ou introuvable"})
		return
	}

	// ✅ 2. Vérifier l'adresse existe et appartient à l'utilisateur
	deliveryAddress, err := resolveAddress(userID, req.AddressID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Adresse introuvable ou non autorisée"})
		return
	}

	// ✅ 3. Vérifier le stock pour chaque produit
	for _, item := range cartItems {
		product, err := fetchLiveProduct(item.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable: " + item.ProductID})
			return
		}
		if product.StockQuantity < item.Quantity {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     "Stock insuffisant",
				"product":   product.Name,
				"available": product.StockQuantity,
				"requested": item.Quantity,
			})
			return
		}
	}

	// ✅ 4. Calculer le devis
	subtotal := calcSubtotal(cartItems)

	var coupon *models.Coupon
	if req.CouponCode != "" {
		coupon, err = fetchCoupon(req.CouponCode)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code promo invalide"})
			return
		}
		if _, errMsg := ComputeDiscount(subtotal, coupon); errMsg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
			return
		}
	}

	quote := BuildQuote(subtotal, coupon, config.DeliveryFee(), config.FreeDeliveryThreshold())

	// ✅ 5. Créer la commande : en-tête + articles dans un batch loggé.
	// Si le batch échoue, aucun identifiant n'est retourné et le panier
	// reste intact.
	order, err := insertOrder(userID, phone, deliveryAddress, req.PaymentMethod, cartItems, quote)
	if err != nil {
		log.Printf("❌ Erreur création commande: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création de la commande"})
		return
	}

	// ✅ 6. Succès : vider le panier, comptabiliser le coupon, points fidélité
	ctx := context.Background()
	database.Redis.Del(ctx, "cart:"+userID)
	database.Redis.Publish(ctx, "cart:"+userID, "cleared")

	if coupon != nil {
		incrementCouponUsage(coupon)
	}

	awardLoyaltyPoints(userID, quote.Total)
	decrementStock(cartItems)

	// 📧 Confirmation par e-mail (best effort)
	if email != "" {
		go func(o models.Order, to string) {
			if err := utils.SendOrderConfirmationEmail(to, o, nil); err != nil {
				log.Printf("⚠️ Erreur envoi confirmation commande %s: %v", o.ID, err)
			}
		}(*order, email)
	}

	log.Printf("✅ Commande créée: %s (%.2f€) pour %s", order.ID, order.TotalAmount, userID)

	response := gin.H{
		"message":  "Commande créée avec succès",
		"order_id": order.ID,
		"quote":    quote,
	}

	// 💳 Paiement en ligne : créer le PaymentIntent Stripe
	if req.PaymentMethod == models.PaymentMethodOnline {
		clientSecret, paymentID, err := createPaymentIntent(order, email)
		if err != nil {
			// La commande existe, le paiement pourra être retenté
			log.Printf("❌ Erreur Stripe pour %s: %v", order.ID, err)
			response["payment_error"] = "Erreur création paiement, veuillez réessayer"
		} else {
			response["client_secret"] = clientSecret
			response["payment_id"] = paymentID
		}
	}

	c.JSON(http.StatusOK, response)
}

// loadCartWithPrices lit le panier Redis et rejoint chaque ligne avec le prix
// catalogue courant (jamais un prix figé)
func loadCartWithPrices(userID string) ([]models.CartItem, error) {
	ctx := context.Background()

	cartData, err := database.Redis.Get(ctx, "cart:"+userID).Result()
	if err != nil {
		return nil, err
	}

	var cartItems []models.CartItem
	if err := json.Unmarshal([]byte(cartData), &cartItems); err != nil {
		return nil, err
	}

	return refreshCartLines(cartItems, fetchLiveProduct), nil
}

// refreshCartLines rejoint chaque ligne avec l'état catalogue courant.
// Les produits introuvables ou désactivés sortent des lignes facturables,
// exactement comme dans la vue panier : jamais un prix Redis périmé.
func refreshCartLines(items []models.CartItem, lookup func(string) (*models.Product, error)) []models.CartItem {
	refreshed := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		product, err := lookup(item.ProductID)
		if err != nil || !product.IsActive {
			continue
		}
		item.Name = product.Name
		item.Price = product.Price
		item.Unit = product.Unit
		item.ImageURL = product.ImageURL
		refreshed = append(refreshed, item)
	}
	return refreshed
}

// fetchLiveProduct récupère l'état courant d'un produit actif
func fetchLiveProduct(productID string) (*models.Product, error) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return nil, err
	}

	var p models.Product
	err = session.Query(`SELECT product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at
		FROM products WHERE product_id = ?`, productID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice, &p.Unit,
		&p.StockQuantity, &p.LowStockThreshold, &p.CategoryID, &p.ImageURL,
		&p.IsActive, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// resolveAddress vérifie la propriété de l'adresse et construit l'instantané
// texte stocké sur la commande
func resolveAddress(userID, addressID string) (string, error) {
	addressUUID, err := uuid.Parse(addressID)
	if err != nil {
		return "", err
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		return "", err
	}

	var addr models.Address
	err = usersSession.Query(`SELECT user_id, full_address, landmark, pincode FROM addresses WHERE id = ?`,
		gocql.UUID(addressUUID)).Scan(&addr.UserID, &addr.FullAddress, &addr.Landmark, &addr.Pincode)
	if err != nil || addr.UserID != userID {
		return "", gocql.ErrNotFound
	}

	full := addr.FullAddress
	if addr.Landmark != "" {
		full += ", " + addr.Landmark
	}
	return full + ", " + addr.Pincode, nil
}

// insertOrder persiste l'en-tête + les articles en un batch loggé.
// Tout ou rien : un échec d'insertion d'article annule l'en-tête.
func insertOrder(userID, phone, deliveryAddress, paymentMethod string, cartItems []models.CartItem, quote Quote) (*models.Order, error) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	estimated := now.Add(2 * time.Hour)

	order := models.Order{
		ID:                utils.GenerateOrderID(config.StorePrefix()),
		UserID:            userID,
		TotalAmount:       quote.Total,
		DeliveryAddress:   deliveryAddress,
		Phone:             phone,
		PaymentMethod:     paymentMethod,
		PaymentStatus:     models.PaymentStatusPending,
		OrderStatus:       models.OrderStatusPending,
		DeliveryCharges:   quote.DeliveryCharges,
		DiscountAmount:    quote.DiscountAmount,
		CouponCode:        quote.CouponCode,
		EstimatedDelivery: &estimated,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	batch := ordersSession.NewBatch(gocql.LoggedBatch)

	batch.Query(`INSERT INTO orders (order_id, user_id, total_amount, delivery_address, phone,
			payment_method, payment_status, order_status, delivery_charges, discount_amount,
			coupon_code, estimated_delivery, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.UserID, order.TotalAmount, order.DeliveryAddress, order.Phone,
		order.PaymentMethod, order.PaymentStatus, order.OrderStatus, order.DeliveryCharges,
		order.DiscountAmount, order.CouponCode, order.EstimatedDelivery, order.CreatedAt, order.UpdatedAt)

	batch.Query(`INSERT INTO orders_by_user (user_id, created_at, order_id, total_amount, order_status, payment_status, estimated_delivery)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		order.UserID, order.CreatedAt, order.ID, order.TotalAmount, order.OrderStatus,
		order.PaymentStatus, order.EstimatedDelivery)

	// Un article par ligne de panier, prix capturé à cet instant
	for _, item := range cartItems {
		batch.Query(`INSERT INTO order_items (order_id, product_id, quantity, price, name, unit)
			VALUES (?, ?, ?, ?, ?, ?)`,
			order.ID, item.ProductID, item.Quantity, item.Price, item.Name, item.Unit)

		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
			Name:      item.Name,
			Unit:      item.Unit,
		})
	}

	if err := ordersSession.ExecuteBatch(batch); err != nil {
		return nil, err
	}

	return &order, nil
}

// awardLoyaltyPoints crédite 1 point par tranche de 10€ de commande
func awardLoyaltyPoints(userID string, total float64) {
	points := int(total / 10)
	if points <= 0 {
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		return
	}

	var current int
	if err := usersSession.Query(`SELECT loyalty_points FROM users WHERE user_id = ?`, userID).Scan(&current); err != nil {
		log.Printf("⚠️ Points fidélité non crédités pour %s: %v", userID, err)
		return
	}

	if err := usersSession.Query(`UPDATE users SET loyalty_points = ? WHERE user_id = ?`,
		current+points, userID).Exec(); err != nil {
		log.Printf("⚠️ Points fidélité non crédités pour %s: %v", userID, err)
		return
	}

	log.Printf("🎁 %d points fidélité crédités pour %s", points, userID)
}

// decrementStock décrémente le stock des produits commandés (best effort)
func decrementStock(cartItems []models.CartItem) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return
	}

	for _, item := range cartItems {
		var stock int
		if err := session.Query(`SELECT stock_quantity FROM products WHERE product_id = ?`,
			item.ProductID).Scan(&stock); err != nil {
			continue
		}

		newStock := stock - item.Quantity
		if newStock < 0 {
			newStock = 0
		}

		if err := session.Query(`UPDATE products SET stock_quantity = ? WHERE product_id = ?`,
			newStock, item.ProductID).Exec(); err != nil {
			log.Printf("⚠️ Stock non décrémenté pour %s: %v", item.ProductID, err)
		}
	}
}
