package admin

import (
	"context"
	"log"
	"net/http"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAllOrders liste toutes les commandes, filtre par statut en option
// GET /api/admin/orders?status=pending
func GetAllOrders(c *gin.Context) {
	statusFilter := c.Query("status")

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := ordersSession.Query(`SELECT order_id, user_id, total_amount, delivery_address, phone,
			payment_method, payment_status, order_status, delivery_charges, discount_amount,
			coupon_code, estimated_delivery, created_at, updated_at FROM orders`).Iter()

	orders := []models.Order{}
	var o models.Order
	for iter.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.Phone,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.DeliveryCharges,
		&o.DiscountAmount, &o.CouponCode, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt) {
		if statusFilter == "" || o.OrderStatus == statusFilter {
			orders = append(orders, o)
		}
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// UpdateOrderStatus fait avancer une commande dans son cycle de vie.
// Seule l'étape linéaire suivante (ou l'annulation en début de vie) est
// acceptée ; la condition LWT élimine les courses entre deux admins.
// PUT /api/admin/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var userID, currentStatus string
	var createdAt time.Time
	if err := ordersSession.Query(`SELECT user_id, order_status, created_at FROM orders WHERE order_id = ?`,
		orderID).Scan(&userID, &currentStatus, &createdAt); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if models.IsTerminalStatus(currentStatus) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Commande dans un état terminal",
			"status": currentStatus,
		})
		return
	}

	if !models.CanTransition(currentStatus, req.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error":    "Transition de statut invalide",
			"current":  currentStatus,
			"expected": models.NextOrderStatus(currentStatus),
		})
		return
	}

	var previousStatus string
	applied, err := ordersSession.Query(`UPDATE orders SET order_status = ?, updated_at = ?
		WHERE order_id = ? IF order_status = ?`,
		req.Status, time.Now(), orderID, currentStatus).ScanCAS(&previousStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour statut"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Statut modifié entre-temps, veuillez recharger",
			"status": previousStatus,
		})
		return
	}

	// Table miroir (best effort, la table orders fait foi)
	if err := ordersSession.Query(`UPDATE orders_by_user SET order_status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		req.Status, userID, createdAt, orderID).Exec(); err != nil {
		log.Printf("⚠️ orders_by_user non synchronisée pour %s: %v", orderID, err)
	}

	// COD : la livraison vaut encaissement
	if req.Status == models.OrderStatusDelivered {
		var paymentMethod string
		if err := ordersSession.Query(`SELECT payment_method FROM orders WHERE order_id = ?`,
			orderID).Scan(&paymentMethod); err == nil && paymentMethod == models.PaymentMethodCOD {
			if err := ordersSession.Query(`UPDATE orders SET payment_status = ? WHERE order_id = ?`,
				models.PaymentStatusPaid, orderID).Exec(); err != nil {
				log.Printf("⚠️ payment_status non mis à jour pour %s: %v", orderID, err)
			}
		}
	}

	// 🔌 Notifier le client connecté
	database.Redis.Publish(context.Background(), "orders:"+userID, orderID+":"+req.Status)

	log.Printf("✅ Commande %s : %s → %s", orderID, currentStatus, req.Status)
	c.JSON(http.StatusOK, gin.H{
		"message":  "Statut mis à jour",
		"order_id": orderID,
		"from":     currentStatus,
		"to":       req.Status,
	})
}
