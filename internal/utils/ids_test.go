package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	id := GenerateOrderID("FBK")

	assert.True(t, strings.HasPrefix(id, "FBK"))
	assert.Len(t, id, 3+8+8) // préfixe + date + suffixe

	datePart := id[3:11]
	assert.Equal(t, time.Now().Format("20060102"), datePart)

	suffix := id[11:]
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}

func TestGenerateOrderIDUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateOrderID("FBK")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestGenerateProductIDFormat(t *testing.T) {
	id := GenerateProductID()

	assert.True(t, strings.HasPrefix(id, "PRD"))
	assert.Len(t, id, 11)
	assert.Equal(t, strings.ToUpper(id), id)
}

func TestGenerateUserID(t *testing.T) {
	id := GenerateUserID()
	assert.Len(t, id, 36) // UUID v4
	assert.NotEqual(t, id, GenerateUserID())
}
