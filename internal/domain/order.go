package domain

import "time"

// Payment status constants. Payment state is independent of the fulfillment
// state machine.
const (
	PaymentStatusPending  = "Pending"
	PaymentStatusPaid     = "Paid"
	PaymentStatusRefunded = "Refunded"
)

// ValidPaymentStatuses returns all valid payment statuses.
func ValidPaymentStatuses() []string {
	return []string{PaymentStatusPending, PaymentStatusPaid, PaymentStatusRefunded}
}

// IsValidPaymentStatus checks if a payment status string is valid.
func IsValidPaymentStatus(s string) bool {
	for _, v := range ValidPaymentStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// Order references the placing user, a delivery address, a server-computed
// total, and an ordered list of line items. Line-item identity is immutable
// once the order is created; only Status and PaymentStatus change over the
// order's life.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Status        Status      `json:"status"`
	PaymentStatus string      `json:"payment_status"`
	Items         []OrderItem `json:"items"`
	TotalPrice    int64       `json:"total_price"`
	Address       *Address    `json:"address,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// OrderItem is one product entry within an order. SellerID and Price are
// snapshotted from the product at order time and never re-looked-up.
type OrderItem struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	SellerID  string `json:"seller_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns the total price for this line item.
func (i *OrderItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

// Address is the delivery address captured with the order.
type Address struct {
	FullName    string `json:"full_name"`
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	Region      string `json:"region,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
	Country     string `json:"country"`
	Phone       string `json:"phone,omitempty"`
}

// HasSellerItems reports whether at least one line item belongs to the given
// seller. Orders can span multiple sellers, so seller-scoped decisions are
// made per line item, never from a single top-level field.
func (o *Order) HasSellerItems(sellerID string) bool {
	for i := range o.Items {
		if o.Items[i].SellerID == sellerID {
			return true
		}
	}
	return false
}

// SellerItems returns the line items belonging to the given seller.
func (o *Order) SellerItems(sellerID string) []OrderItem {
	var items []OrderItem
	for i := range o.Items {
		if o.Items[i].SellerID == sellerID {
			items = append(items, o.Items[i])
		}
	}
	return items
}
