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

// ================== AUTH LOCALE ==================

// Register crée un compte client. Le numéro de téléphone doit avoir été
// vérifié par OTP au préalable (flag posé par VerifyOTP).
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := context.Background()

	// Téléphone vérifié par OTP ?
	verified, _ := database.Redis.Get(ctx, "otp_verified:"+input.Phone).Result()
	if verified != "1" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Numéro de téléphone non vérifié"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Téléphone déjà pris ?
	var existingID string
	if err := usersSession.Query(`SELECT user_id FROM users_by_phone WHERE phone = ?`,
		input.Phone).Scan(&existingID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Un compte avec ce numéro existe déjà"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	now := time.Now()
	user := models.User{
		ID:           utils.GenerateUserID(),
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: hashedPassword,
		IsAdmin:      false,
		Provider:     "local",
		CreatedAt:    &now,
	}

	if err := usersSession.Query(`INSERT INTO users (user_id, name, email, phone, password_hash, is_admin, loyalty_points, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.Phone, user.PasswordHash,
		user.IsAdmin, 0, user.Provider, user.CreatedAt).Exec(); err != nil {
		log.Printf("❌ Erreur insertion utilisateur: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création utilisateur"})
		return
	}

	// Table miroir pour la recherche par téléphone
	if err := usersSession.Query(`INSERT INTO users_by_phone (phone, user_id) VALUES (?, ?)`,
		user.Phone, user.ID).Exec(); err != nil {
		log.Printf("⚠️ users_by_phone non synchronisée pour %s: %v", user.ID, err)
	}

	// L'OTP vérifié est à usage unique
	database.Redis.Del(ctx, "otp_verified:"+input.Phone)

	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	log.Printf("🆕 Utilisateur créé : %s (%s)", user.ID, user.Phone)

	c.JSON(http.StatusCreated, gin.H{
		"token":   token,
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"phone":   user.Phone,
	})
}

// Login authentifie par téléphone + mot de passe
func Login(c *gin.Context) {
	var input struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := findUserByPhone(input.Phone)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Téléphone ou mot de passe incorrect"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Téléphone ou mot de passe incorrect"})
		return
	}

	token, err := utils.GenerateJWT(*user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	// Horodatage de connexion (best effort)
	if usersSession, err := database.GetUsersSession(); err == nil {
		_ = usersSession.Query(`UPDATE users SET last_login = ? WHERE user_id = ?`,
			time.Now(), user.ID).Exec()
	}

	log.Printf("✅ Connexion réussie : %s", user.ID)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"user_id":  user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"phone":    user.Phone,
		"is_admin": user.IsAdmin,
	})
}

// findUserByPhone résout téléphone → user via la table miroir
func findUserByPhone(phone string) (*models.User, error) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var userID string
	if err := usersSession.Query(`SELECT user_id FROM users_by_phone WHERE phone = ?`,
		phone).Scan(&userID); err != nil {
		return nil, err
	}

	return findUserByID(userID)
}

func findUserByID(userID string) (*models.User, error) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	user := models.User{ID: userID}
	var lastLogin *time.Time
	err = usersSession.Query(`SELECT name, email, phone, password_hash, is_admin, loyalty_points, provider, created_at, last_login
		FROM users WHERE user_id = ?`, userID).Scan(
		&user.Name, &user.Email, &user.Phone, &user.PasswordHash,
		&user.IsAdmin, &user.LoyaltyPoints, &user.Provider, &user.CreatedAt, &lastLogin)
	if err != nil {
		return nil, err
	}
	user.LastLogin = lastLogin

	return &user, nil
}
