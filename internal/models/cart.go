package models

type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem est une ligne de panier : l'intention d'achat (user, produit, quantité).
// Le prix n'est jamais figé ici — il est rejoint au prix catalogue courant à la
// lecture. Seuls les articles de commande capturent un prix (voir OrderItem).
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	ImageURL  string  `json:"image_url,omitempty"`
}
