package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"
	"freshbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetMyOrders liste les commandes de l'utilisateur, plus récentes d'abord
// GET /api/orders
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := ordersSession.Query(`SELECT order_id, created_at, total_amount, order_status, payment_status, estimated_delivery
		FROM orders_by_user WHERE user_id = ?`, userID).Iter()

	orders := []models.Order{}
	var o models.Order
	for iter.Scan(&o.ID, &o.CreatedAt, &o.TotalAmount, &o.OrderStatus, &o.PaymentStatus, &o.EstimatedDelivery) {
		o.UserID = userID
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

// GetOrderByID renvoie le détail d'une commande avec ses articles
// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrder(orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// CancelOrder annule une commande encore annulable (pending/confirmed).
// La condition LWT élimine la course avec la progression côté admin.
// POST /api/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrder(orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if !models.IsCancellable(order.OrderStatus) {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Commande non annulable à ce stade",
			"status": order.OrderStatus,
		})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var previousStatus string
	applied, err := ordersSession.Query(`UPDATE orders SET order_status = ?, updated_at = ?
		WHERE order_id = ? IF order_status = ?`,
		models.OrderStatusCancelled, time.Now(), orderID, order.OrderStatus).ScanCAS(&previousStatus)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur annulation commande"})
		return
	}
	if !applied {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Commande non annulable à ce stade",
			"status": previousStatus,
		})
		return
	}

	// Table miroir (best effort, la table orders fait foi)
	if err := ordersSession.Query(`UPDATE orders_by_user SET order_status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
		models.OrderStatusCancelled, userID, order.CreatedAt, orderID).Exec(); err != nil {
		log.Printf("⚠️ orders_by_user non synchronisée pour %s: %v", orderID, err)
	}

	restoreStock(order.Items)

	database.Redis.Publish(context.Background(), "orders:"+userID, orderID+":"+models.OrderStatusCancelled)
	log.Printf("✅ Commande annulée : %s", orderID)

	c.JSON(http.StatusOK, gin.H{"message": "Commande annulée", "order_id": orderID})
}

// GetOrderInvoice génère la facture PDF d'une commande
// GET /api/orders/:id/invoice
func GetOrderInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrder(orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	qrBase64, err := utils.GenerateOrderQRBase64(orderID)
	if err != nil {
		log.Printf("⚠️ QR non généré pour %s: %v", orderID, err)
		qrBase64 = ""
	}

	pdf, err := utils.RenderInvoicePDF(utils.GetFrontendInvoiceBaseURL(), orderID, qrBase64)
	if err != nil {
		log.Printf("❌ Erreur génération PDF pour %s: %v", orderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+orderID+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetOrderQR renvoie le QR code de suivi (PNG)
// GET /api/orders/:id/qr
func GetOrderQR(c *gin.Context) {
	userID := c.GetString("user_id")
	orderID := c.Param("id")

	order, err := loadOrder(orderID)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	png, err := utils.GenerateOrderQR(orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération QR"})
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// loadOrder charge l'en-tête + les articles d'une commande
func loadOrder(orderID string) (*models.Order, error) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var o models.Order
	err = ordersSession.Query(`SELECT order_id, user_id, total_amount, delivery_address, phone,
			payment_method, payment_status, order_status, delivery_charges, discount_amount,
			coupon_code, estimated_delivery, created_at, updated_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&o.ID, &o.UserID, &o.TotalAmount, &o.DeliveryAddress, &o.Phone,
		&o.PaymentMethod, &o.PaymentStatus, &o.OrderStatus, &o.DeliveryCharges,
		&o.DiscountAmount, &o.CouponCode, &o.EstimatedDelivery, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}

	iter := ordersSession.Query(`SELECT product_id, quantity, price, name, unit
		FROM order_items WHERE order_id = ?`, orderID).Iter()

	var item models.OrderItem
	for iter.Scan(&item.ProductID, &item.Quantity, &item.Price, &item.Name, &item.Unit) {
		item.OrderID = orderID
		o.Items = append(o.Items, item)
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}

	return &o, nil
}

// restoreStock recrédite le stock des articles d'une commande annulée
func restoreStock(items []models.OrderItem) {
	session, err := database.GetCatalogSession()
	if err != nil {
		return
	}

	for _, item := range items {
		var stock int
		if err := session.Query(`SELECT stock_quantity FROM products WHERE product_id = ?`,
			item.ProductID).Scan(&stock); err != nil {
			continue
		}
		if err := session.Query(`UPDATE products SET stock_quantity = ? WHERE product_id = ?`,
			stock+item.Quantity, item.ProductID).Exec(); err != nil {
			log.Printf("⚠️ Stock non restauré pour %s: %v", item.ProductID, err)
		}
	}
}
