package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/errors"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/authz"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/event"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/repository"
)

// OrderService implements the business logic for order operations, including
// the fulfillment state machine and per-role visibility scoping.
type OrderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	events   *event.OrderPublisher
	logger   *slog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	events *event.OrderPublisher,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		events:   events,
		logger:   logger,
	}
}

// CreateOrderItemInput holds the parameters for an order line item. Only the
// product reference and quantity come from the client; name, price and seller
// are snapshotted server side.
type CreateOrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderInput holds the parameters for creating an order.
type CreateOrderInput struct {
	Items   []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
	Address *domain.Address        `json:"address" validate:"required"`
}

// CreateOrder places a new order for the acting customer. Prices, item names
// and seller ownership are read from the current product records, and the
// total is recomputed here so a client can never dictate what it pays.
func (s *OrderService) CreateOrder(ctx context.Context, actor authz.Identity, input CreateOrderInput) (*domain.Order, error) {
	if err := authz.Authorize(actor, authz.Policy{Roles: []domain.Role{domain.RoleCustomer}}); err != nil {
		return nil, err
	}
	if len(input.Items) == 0 {
		return nil, apperrors.InvalidInput("order must contain at least one item")
	}

	now := time.Now().UTC()
	orderID := uuid.New().String()

	var total int64
	items := make([]domain.OrderItem, len(input.Items))
	for i, itemInput := range input.Items {
		if itemInput.Quantity <= 0 {
			return nil, apperrors.InvalidInput("item quantity must be positive")
		}

		product, err := s.products.GetByID(ctx, itemInput.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("product %s does not exist", itemInput.ProductID))
			}
			return nil, fmt.Errorf("load product for order: %w", err)
		}
		if product.Quantity < itemInput.Quantity {
			return nil, apperrors.InvalidInput(fmt.Sprintf("insufficient stock for product %s", product.ID))
		}

		items[i] = domain.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  itemInput.Quantity,
		}
		total += items[i].LineTotal()
	}

	order := &domain.Order{
		ID:            orderID,
		UserID:        actor.ID,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Items:         items,
		TotalPrice:    total,
		Address:       input.Address,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.events.OrderCreated(ctx, order)

	s.logger.InfoContext(ctx, "order created",
		slog.String("order_id", order.ID),
		slog.String("user_id", order.UserID),
		slog.Int64("total_price", order.TotalPrice),
	)

	return order, nil
}

// GetOrder retrieves an order visible to the acting identity. Customers see
// their own orders, sellers see orders containing their items, admins see all.
func (s *OrderService) GetOrder(ctx context.Context, actor authz.Identity, id string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}

	if err := s.authorizeView(actor, order); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrdersInput holds the list parameters before role scoping is applied.
type ListOrdersInput struct {
	Status  *string
	Page    int
	PerPage int
}

// ListOrders returns a paginated order list scoped to the acting identity:
// customers are pinned to their own orders, sellers to orders containing
// their items, admin roles see everything.
func (s *OrderService) ListOrders(ctx context.Context, actor authz.Identity, input ListOrdersInput) ([]domain.Order, int, error) {
	if input.Status != nil && !domain.IsValidStatus(domain.Status(*input.Status)) {
		return nil, 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", *input.Status))
	}

	filter := repository.OrderFilter{
		Status:  input.Status,
		Page:    input.Page,
		PerPage: input.PerPage,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	switch {
	case actor.Role == domain.RoleCustomer:
		userID := actor.ID
		filter.UserID = &userID
	case actor.Role == domain.RoleSeller:
		sellerID := actor.ID
		filter.SellerID = &sellerID
	case actor.Role.IsAdmin():
		// Unscoped.
	default:
		return nil, 0, apperrors.Forbidden("role may not list orders")
	}

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus transitions an order through the fulfillment state machine on
// behalf of the acting identity. For a caller permitted to act on the order,
// requesting the current status is an idempotent no-op.
// The persist step is a compare-and-swap against the status
// the decision was made on, so concurrent transitions surface as conflicts
// instead of lost updates.
func (s *OrderService) UpdateStatus(ctx context.Context, actor authz.Identity, id string, next domain.Status) (*domain.Order, error) {
	if !domain.IsValidStatus(next) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q", next))
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order for status update: %w", err)
	}

	if err := s.authorizeTransition(actor, order); err != nil {
		return nil, err
	}

	// Requesting the status the order is already in is an idempotent no-op,
	// but only for callers allowed to act on the order in the first place.
	if order.Status == next {
		return order, nil
	}

	if err := domain.ValidateTransition(order.Status, next, actor.Role); err != nil {
		switch {
		case errors.Is(err, domain.ErrIllegalTransition):
			return nil, apperrors.InvalidInput(err.Error())
		case errors.Is(err, domain.ErrTransitionForbidden):
			return nil, apperrors.Forbidden(err.Error())
		default:
			return nil, err
		}
	}

	from := order.Status
	if err := s.orders.UpdateStatus(ctx, id, from, next); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.events.StatusChanged(ctx, id, from, next, actor.ID, actor.Role)

	s.logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", id),
		slog.String("from", string(from)),
		slog.String("to", string(next)),
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
	)

	order.Status = next
	order.UpdatedAt = time.Now().UTC()

	return order, nil
}

// CancelOrder transitions an order to Cancelled through the same state
// machine as any other transition.
func (s *OrderService) CancelOrder(ctx context.Context, actor authz.Identity, id string) (*domain.Order, error) {
	return s.UpdateStatus(ctx, actor, id, domain.StatusCancelled)
}

// UpdatePaymentStatus sets the payment status of an order. Restricted to
// SuperAdmin and DeliveryAdmin; payment state is reconciled manually in the
// back office, usually by the delivery staff collecting on handover.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, actor authz.Identity, id string, paymentStatus string) (*domain.Order, error) {
	if err := authz.Authorize(actor, authz.Policy{Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleDeliveryAdmin}}); err != nil {
		return nil, err
	}
	if !domain.IsValidPaymentStatus(paymentStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid payment status %q", paymentStatus))
	}

	if err := s.orders.UpdatePaymentStatus(ctx, id, paymentStatus); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload order after payment update: %w", err)
	}

	s.logger.InfoContext(ctx, "order payment status updated",
		slog.String("order_id", id),
		slog.String("payment_status", paymentStatus),
	)

	return order, nil
}

// DeleteOrder removes an order. Only SuperAdmin may delete, and only orders
// that have reached a terminal state; active orders must be driven through
// the state machine instead.
func (s *OrderService) DeleteOrder(ctx context.Context, actor authz.Identity, id string) error {
	if err := authz.Authorize(actor, authz.Policy{Roles: []domain.Role{domain.RoleSuperAdmin}}); err != nil {
		return err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order for delete: %w", err)
	}
	if !order.Status.IsTerminal() {
		return apperrors.InvalidInput(fmt.Sprintf("cannot delete order in %q status", order.Status))
	}

	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.logger.InfoContext(ctx, "order deleted",
		slog.String("order_id", id),
		slog.String("actor_id", actor.ID),
	)

	return nil
}

// authorizeView checks whether the actor may read the order at all.
func (s *OrderService) authorizeView(actor authz.Identity, order *domain.Order) error {
	switch {
	case actor.Role.IsAdmin():
		return nil
	case actor.Role == domain.RoleCustomer:
		if order.UserID == actor.ID {
			return nil
		}
	case actor.Role == domain.RoleSeller:
		if order.HasSellerItems(actor.ID) {
			return nil
		}
	}
	return apperrors.NotFound("order", order.ID)
}

// authorizeTransition checks the ownership side of a transition before the
// state machine checks the role side. Sellers must have at least one line
// item in the order; customers must be the placing user. Admin roles pass
// and are constrained only by the per-edge role table.
func (s *OrderService) authorizeTransition(actor authz.Identity, order *domain.Order) error {
	switch actor.Role {
	case domain.RoleSeller:
		if !order.HasSellerItems(actor.ID) {
			return apperrors.Forbidden("seller has no items in this order")
		}
	case domain.RoleCustomer:
		if order.UserID != actor.ID {
			return apperrors.NotFound("order", order.ID)
		}
	}
	return nil
}
