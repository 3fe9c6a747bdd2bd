package domain

import "time"

// MaxProductImages caps the number of images a product may carry.
const MaxProductImages = 5

// Product is owned by exactly one seller. SellerID is immutable after
// creation; only the owning seller (or SuperAdmin/ContentAdmin for moderation
// deletes) may mutate the record.
type Product struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"seller_id"`
	CategoryID    string    `json:"category_id"`
	SubcategoryID *string   `json:"subcategory_id,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Price         int64     `json:"price"` // minor currency units, always positive
	Quantity      int       `json:"quantity"`
	Images        []string  `json:"images"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
