package checkout

import (
	"testing"
	"time"

	"freshbasket_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func percentCoupon(code string, value, minOrder float64) *models.Coupon {
	return &models.Coupon{
		Code:         code,
		DiscountType: "percentage",
		Value:        value,
		MinOrder:     minOrder,
		IsActive:     true,
	}
}

func flatCoupon(code string, value, minOrder float64) *models.Coupon {
	return &models.Coupon{
		Code:         code,
		DiscountType: "flat",
		Value:        value,
		MinOrder:     minOrder,
		IsActive:     true,
	}
}

func TestCalcSubtotal(t *testing.T) {
	items := []models.CartItem{
		{ProductID: "PRDAAAA1111", Price: 40, Quantity: 5},
		{ProductID: "PRDBBBB2222", Price: 25, Quantity: 2},
	}
	assert.Equal(t, 250.0, calcSubtotal(items))
	assert.Equal(t, 0.0, calcSubtotal(nil))
}

func TestComputeDiscountPercentage(t *testing.T) {
	coupon := percentCoupon("WELCOME10", 10, 200)

	discount, errMsg := ComputeDiscount(250, coupon)
	require.Empty(t, errMsg)
	assert.Equal(t, 25.0, discount)
}

func TestComputeDiscountMinOrderNotReached(t *testing.T) {
	coupon := percentCoupon("WELCOME10", 10, 200)

	discount, errMsg := ComputeDiscount(150, coupon)
	assert.Equal(t, 0.0, discount)
	assert.Equal(t, "Montant minimum de 200.00€ requis", errMsg)
}

func TestComputeDiscountMinOrderBoundary(t *testing.T) {
	coupon := percentCoupon("WELCOME10", 10, 200)

	// Le minimum est inclusif
	discount, errMsg := ComputeDiscount(200, coupon)
	require.Empty(t, errMsg)
	assert.Equal(t, 20.0, discount)
}

func TestComputeDiscountFlat(t *testing.T) {
	coupon := flatCoupon("FLAT50", 50, 300)

	discount, errMsg := ComputeDiscount(350, coupon)
	require.Empty(t, errMsg)
	assert.Equal(t, 50.0, discount)
}

func TestComputeDiscountFlatClampedToSubtotal(t *testing.T) {
	coupon := flatCoupon("FLAT50", 50, 0)

	// La réduction ne dépasse jamais le sous-total
	discount, errMsg := ComputeDiscount(30, coupon)
	require.Empty(t, errMsg)
	assert.Equal(t, 30.0, discount)
}

func TestComputeDiscountMaxCap(t *testing.T) {
	coupon := percentCoupon("FIRST20", 20, 0)
	coupon.MaxDiscount = floatPtr(100)

	discount, errMsg := ComputeDiscount(1000, coupon)
	require.Empty(t, errMsg)
	assert.Equal(t, 100.0, discount)
}

func TestComputeDiscountNilCoupon(t *testing.T) {
	discount, errMsg := ComputeDiscount(500, nil)
	assert.Equal(t, 0.0, discount)
	assert.Equal(t, "Code promo invalide", errMsg)
}

func TestComputeDiscountInactive(t *testing.T) {
	coupon := percentCoupon("OLD", 10, 0)
	coupon.IsActive = false

	_, errMsg := ComputeDiscount(500, coupon)
	assert.Equal(t, "Ce code promo n'est plus actif", errMsg)
}

func TestComputeDiscountExpired(t *testing.T) {
	coupon := percentCoupon("EXPIRED", 10, 0)
	past := time.Now().Add(-time.Hour)
	coupon.ValidUntil = &past

	_, errMsg := ComputeDiscount(500, coupon)
	assert.Equal(t, "Ce code promo a expiré", errMsg)
}

func TestComputeDiscountUsageLimitReached(t *testing.T) {
	coupon := flatCoupon("LIMITED", 50, 0)
	coupon.UsageLimit = 100
	coupon.UsedCount = 100

	_, errMsg := ComputeDiscount(500, coupon)
	assert.Equal(t, "Ce code promo a atteint sa limite d'utilisation", errMsg)
}

func TestComputeDiscountUnknownType(t *testing.T) {
	coupon := &models.Coupon{Code: "WEIRD", DiscountType: "bogo", Value: 1, IsActive: true}

	_, errMsg := ComputeDiscount(500, coupon)
	assert.Equal(t, "Code promo invalide", errMsg)
}

func TestDeliveryCharges(t *testing.T) {
	assert.Equal(t, 30.0, DeliveryCharges(250, 30, 500))
	assert.Equal(t, 30.0, DeliveryCharges(499.99, 30, 500))
	// Le seuil de livraison gratuite est inclusif
	assert.Equal(t, 0.0, DeliveryCharges(500, 30, 500))
	assert.Equal(t, 0.0, DeliveryCharges(600, 30, 500))
}

func TestBuildQuoteWithCoupon(t *testing.T) {
	// Panier 250€ + WELCOME10 : -25€ de remise, 30€ de livraison → 255€
	q := BuildQuote(250, percentCoupon("WELCOME10", 10, 200), 30, 500)

	assert.Equal(t, 250.0, q.Subtotal)
	assert.Equal(t, 25.0, q.DiscountAmount)
	assert.Equal(t, 30.0, q.DeliveryCharges)
	assert.Equal(t, 255.0, q.Total)
	assert.Equal(t, "WELCOME10", q.CouponCode)
}

func TestBuildQuoteFreeDelivery(t *testing.T) {
	// Panier 600€ sans coupon : livraison offerte → 600€
	q := BuildQuote(600, nil, 30, 500)

	assert.Equal(t, 600.0, q.Subtotal)
	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Equal(t, 0.0, q.DeliveryCharges)
	assert.Equal(t, 600.0, q.Total)
	assert.Empty(t, q.CouponCode)
}

func TestBuildQuoteRejectedCouponIgnored(t *testing.T) {
	// Coupon sous le minimum : le devis repart sans remise
	q := BuildQuote(150, percentCoupon("WELCOME10", 10, 200), 30, 500)

	assert.Equal(t, 0.0, q.DiscountAmount)
	assert.Empty(t, q.CouponCode)
	assert.Equal(t, 180.0, q.Total)
}

func TestBuildQuoteTotalNeverNegative(t *testing.T) {
	q := BuildQuote(20, flatCoupon("FLAT50", 50, 0), 0, 500)

	assert.Equal(t, 20.0, q.DiscountAmount)
	assert.Equal(t, 0.0, q.Total)
}
