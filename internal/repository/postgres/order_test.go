package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/database"
	apperrors "github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/errors"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/repository"
)

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func setupOrderRepo(t *testing.T) (*OrderRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	repo := NewOrderRepository(mock)
	return repo, mock
}

func sampleOrder() *domain.Order {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Order{
		ID:            "order-001",
		UserID:        "user-001",
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Items: []domain.OrderItem{
			{
				ID:        "item-001",
				OrderID:   "order-001",
				ProductID: "prod-001",
				SellerID:  "seller-001",
				Name:      "Ceramic Mug",
				Price:     1500,
				Quantity:  2,
			},
			{
				ID:        "item-002",
				OrderID:   "order-001",
				ProductID: "prod-002",
				SellerID:  "seller-002",
				Name:      "Wool Scarf",
				Price:     4500,
				Quantity:  1,
			},
		},
		TotalPrice: 7500,
		Address: &domain.Address{
			FullName:    "Abebe Kebede",
			AddressLine: "12 Market Lane",
			City:        "Addis Ababa",
			Country:     "ET",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func orderColumns() []string {
	return []string{
		"id", "user_id", "status", "payment_status", "total_price",
		"address", "created_at", "updated_at",
	}
}

func orderRow(o *domain.Order) *pgxmock.Rows {
	addressJSON, _ := json.Marshal(o.Address)
	return pgxmock.NewRows(orderColumns()).
		AddRow(
			o.ID, o.UserID, o.Status, o.PaymentStatus, o.TotalPrice,
			addressJSON, o.CreatedAt, o.UpdatedAt,
		)
}

func orderListRow(o *domain.Order, totalCount int) *pgxmock.Rows {
	addressJSON, _ := json.Marshal(o.Address)
	return pgxmock.NewRows(append(orderColumns(), "total_count")).
		AddRow(
			o.ID, o.UserID, o.Status, o.PaymentStatus, o.TotalPrice,
			addressJSON, o.CreatedAt, o.UpdatedAt,
			totalCount,
		)
}

func orderItemColumns() []string {
	return []string{"id", "order_id", "product_id", "seller_id", "name", "price", "quantity"}
}

func orderItemRows(items []domain.OrderItem) *pgxmock.Rows {
	rows := pgxmock.NewRows(orderItemColumns())
	for _, item := range items {
		rows.AddRow(item.ID, item.OrderID, item.ProductID, item.SellerID,
			item.Name, item.Price, item.Quantity)
	}
	return rows
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestOrderRepository_Create_Success(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()
	addressJSON, _ := json.Marshal(o.Address)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.Status, o.PaymentStatus, o.TotalPrice,
			addressJSON, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	for _, item := range o.Items {
		mock.ExpectExec("UPDATE products").
			WithArgs(item.Quantity, pgxmock.AnyArg(), item.ProductID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO order_items").
			WithArgs(item.ID, item.OrderID, item.ProductID, item.SellerID,
				item.Name, item.Price, item.Quantity).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	err := repo.Create(context.Background(), o)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_InsufficientStock(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()
	addressJSON, _ := json.Marshal(o.Address)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(
			o.ID, o.UserID, o.Status, o.PaymentStatus, o.TotalPrice,
			addressJSON, o.CreatedAt, o.UpdatedAt,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	// First item's stock decrement matches zero rows: quantity fell below
	// the requested amount between validation and commit.
	mock.ExpectExec("UPDATE products").
		WithArgs(o.Items[0].Quantity, pgxmock.AnyArg(), o.Items[0].ProductID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), o)
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "insufficient stock")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Create_BeginError(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), sampleOrder())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// GetByID
// ---------------------------------------------------------------------------

func TestOrderRepository_GetByID_Success(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))
	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(orderItemRows(o.Items))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, o.ID, result.ID)
	assert.Equal(t, o.UserID, result.UserID)
	assert.Equal(t, domain.StatusPending, result.Status)
	assert.Equal(t, o.TotalPrice, result.TotalPrice)
	require.NotNil(t, result.Address)
	assert.Equal(t, "Addis Ababa", result.Address.City)
	require.Len(t, result.Items, 2)
	assert.Equal(t, "seller-001", result.Items[0].SellerID)
	assert.Equal(t, "seller-002", result.Items[1].SellerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs("nonexistent-id").
		WillReturnError(pgx.ErrNoRows)

	result, err := repo.GetByID(context.Background(), "nonexistent-id")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_GetByID_NoItems(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()

	mock.ExpectQuery("SELECT .+ FROM orders WHERE id").
		WithArgs(o.ID).
		WillReturnRows(orderRow(o))
	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(orderItemRows(nil))

	result, err := repo.GetByID(context.Background(), o.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotNil(t, result.Items)
	assert.Empty(t, result.Items)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestOrderRepository_List_ByUser(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()
	userID := o.UserID

	mock.ExpectQuery("SELECT .+ FROM orders WHERE user_id").
		WithArgs(userID, 20, 0).
		WillReturnRows(orderListRow(o, 1))
	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(orderItemRows(o.Items))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		UserID: &userID, Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
	assert.Len(t, orders[0].Items, 2)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_BySellerUsesExistsSubquery(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	o := sampleOrder()
	sellerID := "seller-001"

	mock.ExpectQuery(`SELECT .+ FROM orders WHERE EXISTS \(SELECT 1 FROM order_items`).
		WithArgs(sellerID, 20, 0).
		WillReturnRows(orderListRow(o, 1))
	mock.ExpectQuery("SELECT .+ FROM order_items").
		WithArgs([]string{o.ID}).
		WillReturnRows(orderItemRows(o.Items))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		SellerID: &sellerID, Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_List_Empty(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	status := string(domain.StatusDelivered)

	mock.ExpectQuery("SELECT .+ FROM orders WHERE status").
		WithArgs(status, 20, 0).
		WillReturnRows(pgxmock.NewRows(append(orderColumns(), "total_count")))

	orders, total, err := repo.List(context.Background(), repository.OrderFilter{
		Status: &status, Page: 1, PerPage: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdateStatus
// ---------------------------------------------------------------------------

func TestOrderRepository_UpdateStatus_Success(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.StatusReadytoDelivery, pgxmock.AnyArg(), "order-001", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateStatus(context.Background(), "order-001",
		domain.StatusPending, domain.StatusReadytoDelivery)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_ConcurrentTransition(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	// Zero rows matched but the order exists: the status column no longer
	// holds the expected value, so someone else won the race.
	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.StatusReadytoDelivery, pgxmock.AnyArg(), "order-001", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("order-001").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	err := repo.UpdateStatus(context.Background(), "order-001",
		domain.StatusPending, domain.StatusReadytoDelivery)
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus_NotFound(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.StatusReadytoDelivery, pgxmock.AnyArg(), "ghost-order", domain.StatusPending).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("ghost-order").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	err := repo.UpdateStatus(context.Background(), "ghost-order",
		domain.StatusPending, domain.StatusReadytoDelivery)
	assert.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ---------------------------------------------------------------------------
// UpdatePaymentStatus / Delete
// ---------------------------------------------------------------------------

func TestOrderRepository_UpdatePaymentStatus_Success(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.PaymentStatusPaid, pgxmock.AnyArg(), "order-001").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdatePaymentStatus(context.Background(), "order-001", domain.PaymentStatusPaid)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Delete_Success(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM orders").
		WithArgs("order-001").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := repo.Delete(context.Background(), "order-001")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Delete_NotFound(t *testing.T) {
	repo, mock := setupOrderRepo(t)
	defer mock.Close()

	mock.ExpectExec("DELETE FROM orders").
		WithArgs("ghost-order").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "ghost-order")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
