package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gocql/gocql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreatedAtOptional(t *testing.T) {
	now := time.Now()
	cat := Category{
		ID:        gocql.TimeUUID(),
		Name:      "Légumes",
		IsActive:  true,
		CreatedAt: &now,
	}

	data, err := json.Marshal(cat)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "created_at"))

	// Sans date : le champ disparaît de la réponse
	cat.CreatedAt = nil
	data, err = json.Marshal(cat)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), "created_at"))
}
