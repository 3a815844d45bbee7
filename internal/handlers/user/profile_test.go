package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoyaltyCouponCodeFormat(t *testing.T) {
	code := loyaltyCouponCode()

	assert.True(t, strings.HasPrefix(code, "LOYAL"))
	assert.Len(t, code, len("LOYAL")+8)
	assert.Equal(t, strings.ToUpper(code), code)
}

func TestLoyaltyCouponCodeUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := loyaltyCouponCode()
		assert.False(t, seen[code], "code dupliqué: %s", code)
		seen[code] = true
	}
}

func TestLoyaltyBandValue(t *testing.T) {
	// 100 points = 10€, l'échange se fait par paliers entiers
	assert.Equal(t, 10.0, float64(1)*loyaltyBandValue)
	assert.Equal(t, 30.0, float64(3)*loyaltyBandValue)
	assert.Equal(t, 300, 3*loyaltyRedeemBand)
}
