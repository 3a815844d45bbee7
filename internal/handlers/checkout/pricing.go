package checkout

import (
	"fmt"
	"time"

	"freshbasket_back_end/internal/models"
)

// Quote détaille le calcul d'un panier : sous-total, réduction,
// frais de livraison et total à payer.
type Quote struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountAmount  float64 `json:"discount_amount"`
	DeliveryCharges float64 `json:"delivery_charges"`
	Total           float64 `json:"total"`
	CouponCode      string  `json:"coupon_code,omitempty"`
}

// calcSubtotal calcule le montant total des lignes d'un panier
func calcSubtotal(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// ComputeDiscount calcule la réduction d'un coupon sur un sous-total.
// Fonction pure : aucune lecture en base, aucun effet de bord.
// Retourne (réduction, "") si le coupon s'applique, (0, message) sinon.
// La réduction ne dépasse jamais le sous-total.
func ComputeDiscount(subtotal float64, coupon *models.Coupon) (float64, string) {
	if coupon == nil {
		return 0, "Code promo invalide"
	}

	if !coupon.IsActive {
		return 0, "Ce code promo n'est plus actif"
	}

	if coupon.ValidUntil != nil && time.Now().After(*coupon.ValidUntil) {
		return 0, "Ce code promo a expiré"
	}

	if coupon.UsageLimit > 0 && coupon.UsedCount >= coupon.UsageLimit {
		return 0, "Ce code promo a atteint sa limite d'utilisation"
	}

	if subtotal < coupon.MinOrder {
		return 0, fmt.Sprintf("Montant minimum de %.2f€ requis", coupon.MinOrder)
	}

	var discount float64
	switch coupon.DiscountType {
	case "percentage":
		discount = subtotal * (coupon.Value / 100)
		if coupon.MaxDiscount != nil && discount > *coupon.MaxDiscount {
			discount = *coupon.MaxDiscount
		}
	case "flat":
		discount = coupon.Value
	default:
		return 0, "Code promo invalide"
	}

	// La réduction ne peut pas dépasser le sous-total
	if discount > subtotal {
		discount = subtotal
	}

	return discount, ""
}

// DeliveryCharges retourne les frais de livraison : montant fixe sous le
// seuil de livraison gratuite, zéro au-dessus.
func DeliveryCharges(subtotal, fee, freeThreshold float64) float64 {
	if subtotal >= freeThreshold {
		return 0
	}
	return fee
}

// BuildQuote assemble le devis complet d'un panier.
// Total = sous-total + livraison − réduction, plancher à zéro.
func BuildQuote(subtotal float64, coupon *models.Coupon, fee, freeThreshold float64) Quote {
	q := Quote{
		Subtotal:        subtotal,
		DeliveryCharges: DeliveryCharges(subtotal, fee, freeThreshold),
	}

	if coupon != nil {
		if discount, errMsg := ComputeDiscount(subtotal, coupon); errMsg == "" {
			q.DiscountAmount = discount
			q.CouponCode = coupon.Code
		}
	}

	q.Total = q.Subtotal + q.DeliveryCharges - q.DiscountAmount
	if q.Total < 0 {
		q.Total = 0
	}

	return q
}
