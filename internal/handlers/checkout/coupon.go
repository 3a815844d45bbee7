package checkout

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// CreateCoupon - Créer un nouveau coupon (Admin seulement)
func CreateCoupon(c *gin.Context) {
	var req struct {
		Code         string     `json:"code" binding:"required"`
		Description  string     `json:"description"`
		DiscountType string     `json:"discount_type" binding:"required"` // "percentage", "flat"
		Value        float64    `json:"discount_value" binding:"required"`
		MinOrder     float64    `json:"min_order_value"`
		MaxDiscount  *float64   `json:"max_discount"`
		UsageLimit   int        `json:"usage_limit"`
		ValidUntil   *time.Time `json:"valid_until"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides: " + err.Error()})
		return
	}

	// Validation du type
	if req.DiscountType != "percentage" && req.DiscountType != "flat" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type de coupon invalide"})
		return
	}

	if req.DiscountType == "percentage" && (req.Value <= 0 || req.Value > 100) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Pourcentage doit être entre 1 et 100"})
		return
	}

	if req.DiscountType == "flat" && req.Value <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant fixe doit être positif"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Vérifier si le code existe déjà
	var existingCode string
	query := `SELECT code FROM coupons WHERE code = ? LIMIT 1`
	if err := ordersSession.Query(query, strings.ToUpper(req.Code)).Scan(&existingCode); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Ce code coupon existe déjà"})
		return
	}

	coupon := models.Coupon{
		ID:           gocql.TimeUUID(),
		Code:         strings.ToUpper(req.Code),
		Description:  req.Description,
		DiscountType: req.DiscountType,
		Value:        req.Value,
		MinOrder:     req.MinOrder,
		MaxDiscount:  req.MaxDiscount,
		UsageLimit:   req.UsageLimit,
		UsedCount:    0,
		ValidUntil:   req.ValidUntil,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	insertQuery := `
		INSERT INTO coupons (
			id, code, description, discount_type, discount_value, min_order_value,
			max_discount, usage_limit, used_count, valid_until, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if err := ordersSession.Query(insertQuery,
		coupon.ID, coupon.Code, coupon.Description, coupon.DiscountType, coupon.Value,
		coupon.MinOrder, coupon.MaxDiscount, coupon.UsageLimit, coupon.UsedCount,
		coupon.ValidUntil, coupon.IsActive, coupon.CreatedAt,
	).Exec(); err != nil {
		log.Printf("❌ Erreur création coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la création du coupon"})
		return
	}

	log.Printf("✅ Coupon créé: %s", coupon.Code)
	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon créé avec succès",
		"coupon":  coupon,
	})
}

// GetAllCoupons - Récupérer tous les coupons (Admin)
func GetAllCoupons(c *gin.Context) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	query := `SELECT id, code, description, discount_type, discount_value, min_order_value,
			  max_discount, usage_limit, used_count, valid_until, is_active, created_at FROM coupons`

	iter := ordersSession.Query(query).Iter()

	var coupons []models.Coupon
	var coupon models.Coupon

	for iter.Scan(&coupon.ID, &coupon.Code, &coupon.Description, &coupon.DiscountType,
		&coupon.Value, &coupon.MinOrder, &coupon.MaxDiscount, &coupon.UsageLimit,
		&coupon.UsedCount, &coupon.ValidUntil, &coupon.IsActive, &coupon.CreatedAt) {
		coupons = append(coupons, coupon)
		coupon = models.Coupon{}
	}

	if err := iter.Close(); err != nil {
		log.Printf("❌ Erreur récupération coupons: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"total":   len(coupons),
	})
}

// UpdateCoupon - Mettre à jour un coupon (Admin)
func UpdateCoupon(c *gin.Context) {
	couponID := c.Param("id")

	var req struct {
		IsActive   *bool      `json:"is_active"`
		UsageLimit *int       `json:"usage_limit"`
		ValidUntil *time.Time `json:"valid_until"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	id, err := gocql.ParseUUID(couponID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID coupon invalide"})
		return
	}

	updates := []string{}
	values := []interface{}{}

	if req.IsActive != nil {
		updates = append(updates, "is_active = ?")
		values = append(values, *req.IsActive)
	}

	if req.UsageLimit != nil {
		updates = append(updates, "usage_limit = ?")
		values = append(values, *req.UsageLimit)
	}

	if req.ValidUntil != nil {
		updates = append(updates, "valid_until = ?")
		values = append(values, *req.ValidUntil)
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Aucune mise à jour fournie"})
		return
	}

	values = append(values, id)

	query := fmt.Sprintf("UPDATE coupons SET %s WHERE id = ?", strings.Join(updates, ", "))

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := ordersSession.Query(query, values...).Exec(); err != nil {
		log.Printf("❌ Erreur mise à jour coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la mise à jour"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon mis à jour avec succès"})
}

// DeleteCoupon - Supprimer un coupon (Admin)
func DeleteCoupon(c *gin.Context) {
	couponID := c.Param("id")

	id, err := gocql.ParseUUID(couponID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID coupon invalide"})
		return
	}

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := ordersSession.Query(`DELETE FROM coupons WHERE id = ?`, id).Exec(); err != nil {
		log.Printf("❌ Erreur suppression coupon: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lors de la suppression"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Coupon supprimé avec succès"})
}

// ValidateCoupon vérifie un code promo contre un montant de panier
// GET /api/coupons/validate?code=XXX&cart_total=123.45
func ValidateCoupon(c *gin.Context) {
	code := c.Query("code")
	cartTotalStr := c.Query("cart_total")

	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code coupon requis"})
		return
	}

	cartTotal, err := strconv.ParseFloat(cartTotalStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Montant du panier invalide"})
		return
	}

	validation := validateCoupon(code, cartTotal)
	c.JSON(http.StatusOK, validation)
}

// fetchCoupon récupère un coupon par code depuis ScyllaDB
func fetchCoupon(code string) (*models.Coupon, error) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var coupon models.Coupon
	query := `SELECT id, code, description, discount_type, discount_value, min_order_value,
			  max_discount, usage_limit, used_count, valid_until, is_active, created_at
			  FROM coupons WHERE code = ? LIMIT 1`

	if err := ordersSession.Query(query, strings.ToUpper(code)).Scan(
		&coupon.ID, &coupon.Code, &coupon.Description, &coupon.DiscountType,
		&coupon.Value, &coupon.MinOrder, &coupon.MaxDiscount, &coupon.UsageLimit,
		&coupon.UsedCount, &coupon.ValidUntil, &coupon.IsActive, &coupon.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &coupon, nil
}

// validateCoupon - récupère le coupon en base puis applique le calcul pur
func validateCoupon(code string, cartTotal float64) models.CouponValidation {
	coupon, err := fetchCoupon(code)
	if err != nil {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: "Code promo invalide",
		}
	}

	discount, errMsg := ComputeDiscount(cartTotal, coupon)
	if errMsg != "" {
		return models.CouponValidation{
			IsValid:      false,
			ErrorMessage: errMsg,
		}
	}

	return models.CouponValidation{
		IsValid:  true,
		Discount: discount,
		Code:     coupon.Code,
	}
}

// incrementCouponUsage comptabilise une utilisation après création de commande
func incrementCouponUsage(coupon *models.Coupon) {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return
	}

	if err := ordersSession.Query(`UPDATE coupons SET used_count = ? WHERE id = ?`,
		coupon.UsedCount+1, coupon.ID).Exec(); err != nil {
		log.Printf("⚠️ Erreur comptage utilisation coupon %s: %v", coupon.Code, err)
	}
}
