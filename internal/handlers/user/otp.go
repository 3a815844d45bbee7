package user

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	otpTTL         = 10 * time.Minute
	otpVerifiedTTL = 15 * time.Minute
)

// RequestOTP génère un code à 6 chiffres et l'envoie par e-mail.
// Un seul code actif par téléphone, le précédent est écrasé.
// POST /api/auth/otp/request
func RequestOTP(c *gin.Context) {
	var input struct {
		Phone string `json:"phone" binding:"required"`
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	otp, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération code"})
		return
	}

	ctx := context.Background()
	if err := database.Redis.Set(ctx, "otp:"+input.Phone, otp, otpTTL).Err(); err != nil {
		log.Printf("❌ Erreur stockage OTP: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur stockage code"})
		return
	}

	// 📧 Envoi en arrière-plan, la réponse n'attend pas le SMTP
	go func(email, code string) {
		if err := utils.SendOTPEmail(email, code); err != nil {
			log.Printf("⚠️ Erreur envoi OTP à %s: %v", email, err)
		}
	}(input.Email, otp)

	log.Printf("🔐 OTP généré pour %s", input.Phone)
	c.JSON(http.StatusOK, gin.H{"message": "Code envoyé", "expires_in": int(otpTTL.Seconds())})
}

// VerifyOTP consomme le code : valide une seule fois, puis pose le flag
// otp_verified consommé par Register.
// POST /api/auth/otp/verify
func VerifyOTP(c *gin.Context) {
	var input struct {
		Phone string `json:"phone" binding:"required"`
		OTP   string `json:"otp" binding:"required,len=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()
	stored, err := database.Redis.Get(ctx, "otp:"+input.Phone).Result()
	if err != nil || stored != input.OTP {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code invalide ou expiré"})
		return
	}

	// Usage unique
	database.Redis.Del(ctx, "otp:"+input.Phone)
	database.Redis.Set(ctx, "otp_verified:"+input.Phone, "1", otpVerifiedTTL)

	log.Printf("✅ OTP vérifié pour %s", input.Phone)
	c.JSON(http.StatusOK, gin.H{"message": "Numéro vérifié"})
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
