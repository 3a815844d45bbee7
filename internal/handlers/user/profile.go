package user

import (
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"freshbasket_back_end/internal/cache"
	"freshbasket_back_end/internal/database"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// Les points se convertissent par paliers de 100 : 100 points = 10€
const (
	loyaltyRedeemBand  = 100
	loyaltyBandValue   = 10.0
	loyaltyCouponValid = 30 * 24 * time.Hour
)

// Me renvoie le profil et le solde fidélité
// GET /api/me
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	user, err := findUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	redeemableBands := user.LoyaltyPoints / loyaltyRedeemBand

	c.JSON(http.StatusOK, gin.H{
		"user_id":          user.ID,
		"name":             user.Name,
		"email":            user.Email,
		"phone":            user.Phone,
		"provider":         user.Provider,
		"loyalty_points":   user.LoyaltyPoints,
		"redeemable_value": float64(redeemableBands) * loyaltyBandValue,
		"created_at":       user.CreatedAt,
		"last_login":       user.LastLogin,
	})
}

// UpdateProfile modifie le nom et/ou l'e-mail
// PUT /api/me
func UpdateProfile(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := findUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := usersSession.Query(`UPDATE users SET name = ?, email = ? WHERE user_id = ?`,
		user.Name, user.Email, userID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour profil"})
		return
	}

	cache.InvalidateUserCache(userID)
	c.JSON(http.StatusOK, gin.H{"message": "Profil mis à jour"})
}

// loyaltyCouponCode génère un code de bon fidélité unique
func loyaltyCouponCode() string {
	return "LOYAL" + strings.ToUpper(uuid.NewString()[:8])
}

// RedeemLoyaltyPoints convertit des paliers de 100 points en un code promo
// personnel à montant fixe
// POST /api/me/loyalty/redeem
func RedeemLoyaltyPoints(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		Bands int `json:"bands" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := findUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Utilisateur introuvable"})
		return
	}

	pointsNeeded := input.Bands * loyaltyRedeemBand
	if user.LoyaltyPoints < pointsNeeded {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           "Points insuffisants",
			"loyalty_points":  user.LoyaltyPoints,
			"points_required": pointsNeeded,
		})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Le bon d'achat vit dans la table coupons comme un code flat classique.
	// Inséré AVANT le débit : si l'échange échoue ensuite, le bon est
	// supprimé et aucun point n'a bougé.
	code := loyaltyCouponCode()
	couponID := gocql.TimeUUID()
	value := float64(input.Bands) * loyaltyBandValue
	validUntil := time.Now().Add(loyaltyCouponValid)

	if err := ordersSession.Query(`INSERT INTO coupons (id, code, description, discount_type, discount_value, min_order_value, usage_limit, used_count, valid_until, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		couponID, code, fmt.Sprintf("Bon fidélité de %.2f€", value),
		"flat", value, 0.0, 1, 0, validUntil, true, time.Now()).Exec(); err != nil {
		log.Printf("❌ Erreur création bon fidélité pour %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création bon d'achat"})
		return
	}

	// Débit conditionnel : la LWT protège contre le double échange
	var previousPoints int
	applied, err := usersSession.Query(`UPDATE users SET loyalty_points = ? WHERE user_id = ? IF loyalty_points = ?`,
		user.LoyaltyPoints-pointsNeeded, userID, user.LoyaltyPoints).ScanCAS(&previousPoints)
	if err != nil || !applied {
		if delErr := ordersSession.Query(`DELETE FROM coupons WHERE id = ?`, couponID).Exec(); delErr != nil {
			log.Printf("⚠️ Bon fidélité %s non supprimé après échec du débit: %v", code, delErr)
		}
		c.JSON(http.StatusConflict, gin.H{"error": "Solde modifié entre-temps, veuillez réessayer"})
		return
	}

	log.Printf("🎁 %d points échangés contre %s (%.2f€) pour %s", pointsNeeded, code, value, userID)

	c.JSON(http.StatusOK, gin.H{
		"message":          "Points échangés",
		"coupon_code":      code,
		"value":            value,
		"valid_until":      validUntil,
		"remaining_points": user.LoyaltyPoints - pointsNeeded,
	})
}
