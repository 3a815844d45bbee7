package checkout

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"
)

// createPaymentIntent crée le PaymentIntent Stripe pour une commande déjà
// enregistrée. La commande sert de source de vérité pour le montant, le
// webhook ne fait que basculer le statut de paiement.
func createPaymentIntent(order *models.Order, email string) (clientSecret, paymentID string, err error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(order.TotalAmount * 100)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id": order.ID,
			"user_id":  order.UserID,
			"email":    email,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", "", err
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour la commande %s", intent.ID, order.TotalAmount, order.ID)
	return intent.ClientSecret, intent.ID, nil
}

// RetryPayment recrée un PaymentIntent pour une commande en ligne impayée
// POST /api/orders/:id/pay
func RetryPayment(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	orderID := c.Param("id")

	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	var order models.Order
	err = ordersSession.Query(`SELECT order_id, user_id, total_amount, payment_method, payment_status FROM orders WHERE order_id = ?`,
		orderID).Scan(&order.ID, &order.UserID, &order.TotalAmount, &order.PaymentMethod, &order.PaymentStatus)
	if err != nil || order.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	if order.PaymentMethod != models.PaymentMethodOnline {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commande payable à la livraison"})
		return
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Commande déjà payée"})
		return
	}

	clientSecret, paymentID, err := createPaymentIntent(&order, email)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": clientSecret,
		"paymentId":    paymentID,
	})
}

// StripeWebhook reçoit les événements Stripe et marque les commandes payées
// POST /api/webhook/stripe
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)
	handleStripeEvent(event)

	c.Status(http.StatusOK)
}

func handleStripeEvent(event stripe.Event) {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return
	}

	orderID := pi.Metadata["order_id"]
	userID := pi.Metadata["user_id"]
	if orderID == "" || userID == "" {
		log.Println("⚠️ Métadonnées incomplètes")
		return
	}

	if err := markOrderPaid(orderID, userID, pi.ID); err != nil {
		log.Printf("❌ Erreur mise à jour paiement pour %s: %v", orderID, err)
		return
	}

	log.Printf("✅ Paiement confirmé pour la commande %s", orderID)

	// 🔌 Notifier le client connecté
	database.Redis.Publish(context.Background(), "orders:"+userID, orderID+":paid")
}

// markOrderPaid bascule payment_status sur les deux tables. Idempotent :
// la condition LWT ignore les webhooks rejoués.
func markOrderPaid(orderID, userID, paymentIntentID string) error {
	ordersSession, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	var previousStatus string
	applied, err := ordersSession.Query(`UPDATE orders SET payment_status = ?, payment_intent_id = ?
		WHERE order_id = ? IF payment_status = ?`,
		models.PaymentStatusPaid, paymentIntentID, orderID, models.PaymentStatusPending).ScanCAS(&previousStatus)
	if err != nil {
		return err
	}
	if !applied {
		log.Printf("🔁 Commande %s déjà payée, webhook ignoré", orderID)
		return nil
	}

	var createdAt time.Time
	if err := ordersSession.Query(`SELECT created_at FROM orders WHERE order_id = ?`, orderID).Scan(&createdAt); err == nil {
		if err := ordersSession.Query(`UPDATE orders_by_user SET payment_status = ? WHERE user_id = ? AND created_at = ? AND order_id = ?`,
			models.PaymentStatusPaid, userID, createdAt, orderID).Exec(); err != nil {
			log.Printf("⚠️ orders_by_user non synchronisée pour %s: %v", orderID, err)
		}
	}

	return nil
}
