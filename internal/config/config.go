package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé — on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

// StorePrefix retourne le préfixe des numéros de commande (ex: FBK20251104A1B2C3D4)
func StorePrefix() string {
	if p := os.Getenv("STORE_PREFIX"); p != "" {
		return p
	}
	return "FBK"
}

// DeliveryFee retourne les frais de livraison appliqués sous le seuil
func DeliveryFee() float64 {
	return envFloat("DELIVERY_FEE", 30)
}

// FreeDeliveryThreshold retourne le montant à partir duquel la livraison est offerte
func FreeDeliveryThreshold() float64 {
	return envFloat("FREE_DELIVERY_THRESHOLD", 500)
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("⚠️ Valeur invalide pour %s, utilisation du défaut %.2f", key, fallback)
	}
	return fallback
}
