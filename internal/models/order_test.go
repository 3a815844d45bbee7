package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextOrderStatus(t *testing.T) {
	assert.Equal(t, OrderStatusConfirmed, NextOrderStatus(OrderStatusPending))
	assert.Equal(t, OrderStatusPacked, NextOrderStatus(OrderStatusConfirmed))
	assert.Equal(t, OrderStatusOutForDelivery, NextOrderStatus(OrderStatusPacked))
	assert.Equal(t, OrderStatusDelivered, NextOrderStatus(OrderStatusOutForDelivery))

	// Les états terminaux n'ont pas de suite
	assert.Empty(t, NextOrderStatus(OrderStatusDelivered))
	assert.Empty(t, NextOrderStatus(OrderStatusCancelled))
	assert.Empty(t, NextOrderStatus("inconnu"))
}

func TestCanTransitionLinearOnly(t *testing.T) {
	// Étape suivante : autorisée
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusConfirmed))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusPacked))
	assert.True(t, CanTransition(OrderStatusPacked, OrderStatusOutForDelivery))
	assert.True(t, CanTransition(OrderStatusOutForDelivery, OrderStatusDelivered))

	// Saut d'étape : refusé
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusPacked))
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusDelivered))
	assert.False(t, CanTransition(OrderStatusConfirmed, OrderStatusOutForDelivery))

	// Retour en arrière : refusé
	assert.False(t, CanTransition(OrderStatusPacked, OrderStatusConfirmed))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusOutForDelivery))
}

func TestCanTransitionCancellation(t *testing.T) {
	// Annulable uniquement en début de vie
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusConfirmed, OrderStatusCancelled))

	assert.False(t, CanTransition(OrderStatusPacked, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusOutForDelivery, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusCancelled))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))

	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusConfirmed))
	assert.False(t, IsTerminalStatus(OrderStatusPacked))
	assert.False(t, IsTerminalStatus(OrderStatusOutForDelivery))
}

func TestIsCancellable(t *testing.T) {
	assert.True(t, IsCancellable(OrderStatusPending))
	assert.True(t, IsCancellable(OrderStatusConfirmed))

	assert.False(t, IsCancellable(OrderStatusPacked))
	assert.False(t, IsCancellable(OrderStatusOutForDelivery))
	assert.False(t, IsCancellable(OrderStatusDelivered))
	assert.False(t, IsCancellable(OrderStatusCancelled))
}
