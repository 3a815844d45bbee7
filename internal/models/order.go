package models

import "time"

// Statuts de commande — progression linéaire, annulation possible en début de vie.
const (
	OrderStatusPending        = "pending"
	OrderStatusConfirmed      = "confirmed"
	OrderStatusPacked         = "packed"
	OrderStatusOutForDelivery = "out_for_delivery"
	OrderStatusDelivered      = "delivered"
	OrderStatusCancelled      = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

// nextOrderStatus encode la séquence pending → confirmed → packed →
// out_for_delivery → delivered. Aucune étape ne peut être sautée.
var nextOrderStatus = map[string]string{
	OrderStatusPending:        OrderStatusConfirmed,
	OrderStatusConfirmed:      OrderStatusPacked,
	OrderStatusPacked:         OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

// NextOrderStatus retourne le statut suivant dans la séquence, ou "" si le
// statut est terminal.
func NextOrderStatus(current string) string {
	return nextOrderStatus[current]
}

// IsTerminalStatus indique si une commande ne peut plus évoluer.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

// IsCancellable indique si une commande peut encore être annulée.
func IsCancellable(status string) bool {
	return status == OrderStatusPending || status == OrderStatusConfirmed
}

// CanTransition valide une transition de statut : soit l'étape linéaire
// suivante, soit l'annulation depuis pending/confirmed.
func CanTransition(from, to string) bool {
	if to == OrderStatusCancelled {
		return IsCancellable(from)
	}
	return nextOrderStatus[from] == to
}

type Order struct {
	ID                string      `json:"order_id"`
	UserID            string      `json:"user_id"`
	TotalAmount       float64     `json:"total_amount"`
	DeliveryAddress   string      `json:"delivery_address"`
	Phone             string      `json:"phone"`
	PaymentMethod     string      `json:"payment_method"`
	PaymentStatus     string      `json:"payment_status"`
	PaymentIntentID   string      `json:"payment_intent_id,omitempty"`
	OrderStatus       string      `json:"order_status"`
	DeliveryCharges   float64     `json:"delivery_charges"`
	DiscountAmount    float64     `json:"discount_amount"`
	CouponCode        string      `json:"coupon_code,omitempty"`
	EstimatedDelivery *time.Time  `json:"estimated_delivery,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
	Items             []OrderItem `json:"items,omitempty"`
	CustomerName      string      `json:"customer_name,omitempty"`
}

// OrderItem est un instantané immuable pris à la création de la commande :
// le prix capturé ici ne bouge plus même si le catalogue change.
type OrderItem struct {
	OrderID   string  `json:"order_id,omitempty"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Name      string  `json:"name,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}
