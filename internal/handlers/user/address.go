package user

import (
	"log"
	"net/http"

	"freshbasket_back_end/internal/database"
	"freshbasket_back_end/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// GetAddresses liste les adresses de l'utilisateur, défaut en premier
// GET /api/addresses
func GetAddresses(c *gin.Context) {
	userID := c.GetString("user_id")

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	iter := usersSession.Query(`SELECT id, address_type, full_address, landmark, pincode, is_default
		FROM addresses WHERE user_id = ?`, userID).Iter()

	var addresses []models.Address
	var addr models.Address
	for iter.Scan(&addr.ID, &addr.AddressType, &addr.FullAddress, &addr.Landmark, &addr.Pincode, &addr.IsDefault) {
		addr.UserID = userID
		if addr.IsDefault {
			addresses = append([]models.Address{addr}, addresses...)
		} else {
			addresses = append(addresses, addr)
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur lecture adresses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"addresses": addresses, "count": len(addresses)})
}

// AddAddress crée une adresse. La première adresse devient le défaut.
// POST /api/addresses
func AddAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		AddressType string `json:"address_type"`
		FullAddress string `json:"full_address" binding:"required"`
		Landmark    string `json:"landmark"`
		Pincode     string `json:"pincode" binding:"required"`
		IsDefault   bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.AddressType == "" {
		input.AddressType = "home"
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Première adresse → défaut d'office
	var existing int
	_ = usersSession.Query(`SELECT COUNT(*) FROM addresses WHERE user_id = ?`, userID).Scan(&existing)
	if existing == 0 {
		input.IsDefault = true
	}

	if input.IsDefault {
		clearDefaultAddress(userID)
	}

	addr := models.Address{
		ID:          gocql.TimeUUID(),
		UserID:      userID,
		AddressType: input.AddressType,
		FullAddress: input.FullAddress,
		Landmark:    input.Landmark,
		Pincode:     input.Pincode,
		IsDefault:   input.IsDefault,
	}

	if err := usersSession.Query(`INSERT INTO addresses (user_id, id, address_type, full_address, landmark, pincode, is_default)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		addr.UserID, addr.ID, addr.AddressType, addr.FullAddress, addr.Landmark,
		addr.Pincode, addr.IsDefault).Exec(); err != nil {
		log.Printf("❌ Erreur création adresse: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création adresse"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Adresse ajoutée", "address": addr})
}

// UpdateAddress modifie une adresse existante
// PUT /api/addresses/:id
func UpdateAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant d'adresse invalide"})
		return
	}

	var input struct {
		AddressType *string `json:"address_type"`
		FullAddress *string `json:"full_address"`
		Landmark    *string `json:"landmark"`
		Pincode     *string `json:"pincode"`
		IsDefault   *bool   `json:"is_default"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// Charge l'existante, vérifie la propriété via la clé de partition
	var current models.Address
	err = usersSession.Query(`SELECT address_type, full_address, landmark, pincode, is_default
		FROM addresses WHERE user_id = ? AND id = ?`, userID, addressID).Scan(
		&current.AddressType, &current.FullAddress, &current.Landmark, &current.Pincode, &current.IsDefault)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	if input.AddressType != nil {
		current.AddressType = *input.AddressType
	}
	if input.FullAddress != nil {
		current.FullAddress = *input.FullAddress
	}
	if input.Landmark != nil {
		current.Landmark = *input.Landmark
	}
	if input.Pincode != nil {
		current.Pincode = *input.Pincode
	}
	if input.IsDefault != nil && *input.IsDefault && !current.IsDefault {
		clearDefaultAddress(userID)
		current.IsDefault = true
	}

	if err := usersSession.Query(`UPDATE addresses SET address_type = ?, full_address = ?, landmark = ?, pincode = ?, is_default = ?
		WHERE user_id = ? AND id = ?`,
		current.AddressType, current.FullAddress, current.Landmark, current.Pincode,
		current.IsDefault, userID, addressID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse mise à jour"})
}

// DeleteAddress supprime une adresse de l'utilisateur
// DELETE /api/addresses/:id
func DeleteAddress(c *gin.Context) {
	userID := c.GetString("user_id")

	addressID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Identifiant d'adresse invalide"})
		return
	}

	usersSession, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	// La clé de partition user_id garantit qu'on ne supprime que chez soi
	var exists gocql.UUID
	if err := usersSession.Query(`SELECT id FROM addresses WHERE user_id = ? AND id = ?`,
		userID, addressID).Scan(&exists); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Adresse introuvable"})
		return
	}

	if err := usersSession.Query(`DELETE FROM addresses WHERE user_id = ? AND id = ?`,
		userID, addressID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur suppression adresse"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Adresse supprimée"})
}

// clearDefaultAddress retire le flag défaut de toutes les adresses (une seule
// adresse par défaut à la fois)
func clearDefaultAddress(userID string) {
	usersSession, err := database.GetUsersSession()
	if err != nil {
		return
	}

	iter := usersSession.Query(`SELECT id, is_default FROM addresses WHERE user_id = ?`, userID).Iter()
	var id gocql.UUID
	var isDefault bool
	for iter.Scan(&id, &isDefault) {
		if isDefault {
			_ = usersSession.Query(`UPDATE addresses SET is_default = false WHERE user_id = ? AND id = ?`,
				userID, id).Exec()
		}
	}
	_ = iter.Close()
}
