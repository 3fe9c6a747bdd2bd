package repository

import (
	"context"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
)

// OrderFilter defines filter criteria for listing orders. SellerID filters to
// orders containing at least one line item snapshotted from that seller.
type OrderFilter struct {
	UserID   *string
	SellerID *string
	Status   *string
	Page     int
	PerPage  int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts the order and its items and decrements the snapshotted
	// product quantities, all within a single transaction.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the given filter along with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus atomically moves the order from the expected current
	// status to the new one (compare-and-swap on the status column).
	// Returns ErrConflict when the order was transitioned concurrently and
	// ErrNotFound when the id does not resolve.
	UpdateStatus(ctx context.Context, id string, from, to domain.Status) error

	// UpdatePaymentStatus sets the payment status of an order.
	UpdatePaymentStatus(ctx context.Context, id string, paymentStatus string) error

	// Delete removes an order and its items.
	Delete(ctx context.Context, id string) error
}

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	SellerID   *string
	CategoryID *string
	Search     *string
	Page       int
	PerPage    int
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	// Update modifies an existing product. The seller_id column is never
	// touched; ownership is immutable after creation.
	Update(ctx context.Context, product *domain.Product) error

	Delete(ctx context.Context, id string) error
}

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
}

// RefreshTokenRepository stores revocable refresh tokens. Tokens are stored
// hashed; possession of the database does not yield usable tokens.
type RefreshTokenRepository interface {
	Store(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
}

// PromotionRepository defines the interface for promotion persistence operations.
type PromotionRepository interface {
	Create(ctx context.Context, promotion *domain.Promotion) error
	GetByID(ctx context.Context, id string) (*domain.Promotion, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Promotion, error)
	Update(ctx context.Context, promotion *domain.Promotion) error
	Delete(ctx context.Context, id string) error
}
