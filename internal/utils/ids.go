package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUserID génère un identifiant utilisateur unique
func GenerateUserID() string {
	return uuid.NewString()
}

// GenerateOrderID génère un numéro de commande lisible :
// <préfixe><AAAAMMJJ><suffixe aléatoire de 8 caractères>
func GenerateOrderID(storePrefix string) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("%s%s%s", storePrefix, time.Now().Format("20060102"), suffix)
}

// GenerateProductID génère un identifiant produit : PRD<suffixe de 8 caractères>
func GenerateProductID() string {
	return "PRD" + strings.ToUpper(uuid.NewString()[:8])
}
