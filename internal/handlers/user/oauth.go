package user

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"freshbasket_back_end/internal/config"
	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"
	"freshbasket_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/facebook"
	"github.com/markbates/goth/providers/google"
)

// ================== AUTH SOCIALE (WEB) ==================

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "aucun provider spécifié"})
		return
	}

	redirectURL := c.Query("redirect_url")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	callbackURL := baseURL + "/api/auth/" + provider + "/callback"

	switch provider {
	case "google":
		goth.UseProviders(google.New(
			os.Getenv("GOOGLE_CLIENT_ID"),
			os.Getenv("GOOGLE_CLIENT_SECRET"),
			callbackURL,
		))
	case "facebook":
		goth.UseProviders(facebook.New(
			os.Getenv("FACEBOOK_CLIENT_ID"),
			os.Getenv("FACEBOOK_CLIENT_SECRET"),
			callbackURL,
		))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provider non supporté"})
		return
	}

	ctx := context.Background()
	state := generateRandomState()
	if redirectURL != "" {
		_ = database.Redis.Set(ctx, "oauth_redirect:"+state, redirectURL, 10*time.Minute).Err()
	}

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	q.Set("state", state)
	c.Request.URL.RawQuery = q.Encode()
	gothic.BeginAuthHandler(c.Writer, c.Request)
}

func generateRandomState() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")

	q := c.Request.URL.Query()
	q.Set("provider", provider)
	c.Request.URL.RawQuery = q.Encode()

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		log.Printf("❌ Erreur OAuth %s: %v", provider, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentification échouée"})
		return
	}

	user := findOrCreateOAuthUser(provider, gothUser.Email, gothUser.Name)
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	ctx := context.Background()
	redirectURI, _ := database.Redis.Get(ctx, "oauth_redirect:"+state).Result()
	database.Redis.Del(ctx, "oauth_redirect:"+state)

	if redirectURI == "" {
		redirectURI = os.Getenv("FRONTEND_URL")
		if redirectURI == "" {
			redirectURI = "http://localhost:5173"
		}
	}

	sep := "?"
	if strings.Contains(redirectURI, "?") {
		sep = "&"
	}
	final := redirectURI + sep + "token=" + url.QueryEscape(token)
	log.Printf("✅ Redirection finale: %s", final)
	c.Redirect(http.StatusTemporaryRedirect, final)
}

// ================== AUTH SOCIALE (MOBILE) ==================

// GoogleMobileLogin échange le code d'autorisation envoyé par l'app mobile
// contre un token Google, puis connecte (ou crée) l'utilisateur
func GoogleMobileLogin(c *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code manquant"})
		return
	}

	ctx := context.Background()
	oauthToken, err := config.GoogleOAuthConfig.Exchange(ctx, body.Code)
	if err != nil {
		log.Printf("❌ Échange code Google échoué: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Code Google invalide"})
		return
	}

	client := config.GoogleOAuthConfig.Client(ctx, oauthToken)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur vérification Google"})
		return
	}
	defer resp.Body.Close()

	var gu struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil || gu.Email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profil Google illisible"})
		return
	}

	user := findOrCreateOAuthUser("google", gu.Email, gu.Name)
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "email": user.Email, "name": user.Name})
}

// findOrCreateOAuthUser rattache le compte social à un compte existant par
// e-mail, ou en crée un nouveau sans mot de passe
func findOrCreateOAuthUser(provider, email, name string) models.User {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return models.User{}
	}

	// Recherche par e-mail sur l'index secondaire
	var user models.User
	var createdAt time.Time
	err = usersSession.Query(`SELECT user_id, name, email, phone, is_admin, loyalty_points, provider, created_at
		FROM users WHERE email = ? LIMIT 1 ALLOW FILTERING`, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.IsAdmin,
		&user.LoyaltyPoints, &user.Provider, &createdAt)
	if err == nil {
		if user.Provider != provider {
			_ = usersSession.Query(`UPDATE users SET provider = ? WHERE user_id = ?`,
				provider, user.ID).Exec()
			log.Printf("🔄 Compte existant fusionné avec provider %s : %s", provider, email)
		} else {
			log.Printf("✅ Utilisateur OAuth existant trouvé : %s", email)
		}
		user.CreatedAt = &createdAt
		return user
	}

	now := time.Now()
	user = models.User{
		ID:        utils.GenerateUserID(),
		Name:      name,
		Email:     email,
		Provider:  provider,
		CreatedAt: &now,
	}

	if err := usersSession.Query(`INSERT INTO users (user_id, name, email, phone, password_hash, is_admin, loyalty_points, provider, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, "", "", false, 0, provider, now).Exec(); err != nil {
		log.Printf("❌ Erreur création utilisateur OAuth: %v", err)
	} else {
		log.Printf("🆕 Utilisateur OAuth créé (%s) : %s", provider, email)
	}

	return user
}
