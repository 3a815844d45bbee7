package database

import (
	"log"
	"sync"

	"github.com/gocql/gocql"
)

var (
	// Prepared statements pour les requêtes fréquentes
	stmtGetUserByPhone  *gocql.Query
	stmtGetUserByID     *gocql.Query
	stmtInsertUser      *gocql.Query
	stmtInsertUserPhone *gocql.Query
	stmtGetProductByID  *gocql.Query

	preparedOnce sync.Once
)

// InitPreparedStatements initialise les prepared statements
func InitPreparedStatements() {
	preparedOnce.Do(func() {
		usersSession, err := GetUsersSession()
		if err != nil {
			log.Printf("⚠️ Impossible d'initialiser les prepared statements: %v", err)
			return
		}

		// Requête pour récupérer user_id par téléphone
		stmtGetUserByPhone = usersSession.Query("SELECT user_id FROM users_by_phone WHERE phone = ?")

		// Requête pour récupérer un utilisateur par ID
		stmtGetUserByID = usersSession.Query(`SELECT name, email, phone, password_hash, is_admin, loyalty_points, created_at, last_login
			FROM users WHERE user_id = ?`)

		// Requête pour insérer un utilisateur
		stmtInsertUser = usersSession.Query(`INSERT INTO users (user_id, name, email, phone, password_hash, is_admin, loyalty_points, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

		// Requête pour insérer dans users_by_phone
		stmtInsertUserPhone = usersSession.Query("INSERT INTO users_by_phone (phone, user_id) VALUES (?, ?)")

		catalogSession, err := GetCatalogSession()
		if err != nil {
			log.Printf("⚠️ Prepared statements catalogue indisponibles: %v", err)
			return
		}

		stmtGetProductByID = catalogSession.Query(`SELECT product_id, name, description, price, original_price, unit, stock_quantity, low_stock_threshold, category_id, image_url, is_active, created_at
			FROM products WHERE product_id = ?`)

		log.Println("✅ Prepared statements initialisés")
	})
}

func GetPreparedGetUserByPhone() *gocql.Query {
	return stmtGetUserByPhone
}

func GetPreparedGetUserByID() *gocql.Query {
	return stmtGetUserByID
}

func GetPreparedInsertUser() *gocql.Query {
	return stmtInsertUser
}

func GetPreparedInsertUserPhone() *gocql.Query {
	return stmtInsertUserPhone
}

func GetPreparedGetProductByID() *gocql.Query {
	return stmtGetProductByID
}
