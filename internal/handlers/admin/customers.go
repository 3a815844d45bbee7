package admin

import (
	"net/http"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAllCustomers liste les comptes clients (admin)
// GET /api/admin/customers
func GetAllCustomers(c *gin.Context) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := usersSession.Query(`SELECT user_id, name, email, phone, is_admin, loyalty_points, provider, created_at, last_login FROM users`).Iter()

	customers := []models.User{}
	var u models.User
	var createdAt, lastLogin *time.Time
	for iter.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.IsAdmin, &u.LoyaltyPoints, &u.Provider, &createdAt, &lastLogin) {
		u.CreatedAt = createdAt
		u.LastLogin = lastLogin
		if !u.IsAdmin {
			customers = append(customers, u)
		}
		u = models.User{}
		createdAt, lastLogin = nil, nil
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture clients"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers, "count": len(customers)})
}

// GetCustomerOrders renvoie l'historique d'un client (admin)
// GET /api/admin/customers/:id/orders
func GetCustomerOrders(c *gin.Context) {
	customerID := c.Param("id")

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := ordersSession.Query(`SELECT order_id, created_at, total_amount, order_status, payment_status, estimated_delivery
		FROM orders_by_user WHERE user_id = ?`, customerID).Iter()

	orders := []models.Order{}
	var o models.Order
	for iter.Scan(&o.ID, &o.CreatedAt, &o.TotalAmount, &o.OrderStatus, &o.PaymentStatus, &o.EstimatedDelivery) {
		o.UserID = customerID
		orders = append(orders, o)
		o = models.Order{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture commandes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}
