package admin

import (
	"log"
	"net/http"
	"time"

	"freshbasket_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats retourne les statistiques du tableau de bord admin
// GET /api/admin/dashboard
func GetDashboardStats(c *gin.Context) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Statistiques des commandes
	var totalOrders int
	var totalRevenue float64
	var todayOrders int
	var todayRevenue float64
	statusCount := make(map[string]int)
	startOfDay := time.Now().Truncate(24 * time.Hour)

	iter := ordersSession.Query(`SELECT order_status, total_amount, created_at FROM orders`).Iter()
	var status string
	var amount float64
	var createdAt time.Time

	for iter.Scan(&status, &amount, &createdAt) {
		totalOrders++
		statusCount[status]++
		if status != "cancelled" {
			totalRevenue += amount
			if createdAt.After(startOfDay) {
				todayOrders++
				todayRevenue += amount
			}
		}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur lecture stats commandes: %v", err)
	}

	// Statistiques des produits
	catalogSession, err := database.GetCatalogSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalProducts int
	var lowStockProducts int
	var outOfStockProducts int

	prodIter := catalogSession.Query(`SELECT stock_quantity, low_stock_threshold, is_active FROM products`).Iter()
	var stock, threshold int
	var isActive bool

	for prodIter.Scan(&stock, &threshold, &isActive) {
		if !isActive {
			continue
		}
		totalProducts++
		if stock == 0 {
			outOfStockProducts++
		} else if stock <= threshold {
			lowStockProducts++
		}
	}

	if err := prodIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture produits: %v", err)
	}

	// Statistiques des utilisateurs
	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var totalUsers int
	usersIter := usersSession.Query(`SELECT user_id FROM users`).Iter()
	var userID string

	for usersIter.Scan(&userID) {
		totalUsers++
	}

	if err := usersIter.Close(); err != nil {
		log.Printf("❌ Erreur lecture utilisateurs: %v", err)
	}

	var averageOrderValue float64
	if totalOrders > 0 {
		averageOrderValue = totalRevenue / float64(totalOrders)
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": gin.H{
			"total":               totalOrders,
			"today":               todayOrders,
			"total_revenue":       totalRevenue,
			"today_revenue":       todayRevenue,
			"average_order_value": averageOrderValue,
			"by_status":           statusCount,
		},
		"products": gin.H{
			"total":        totalProducts,
			"low_stock":    lowStockProducts,
			"out_of_stock": outOfStockProducts,
		},
		"users": gin.H{
			"total": totalUsers,
		},
	})
}
