package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/database"
	apperrors "github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/errors"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
)

// PromotionRepository implements repository.PromotionRepository using PostgreSQL.
type PromotionRepository struct {
	pool database.DBTX
}

// NewPromotionRepository creates a new PostgreSQL-backed promotion repository.
func NewPromotionRepository(pool database.DBTX) *PromotionRepository {
	return &PromotionRepository{pool: pool}
}

// Create inserts a new promotion.
func (r *PromotionRepository) Create(ctx context.Context, p *domain.Promotion) error {
	query := `
		INSERT INTO promotions (id, title, description, image_url, starts_at, ends_at, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.ImageURL,
		p.StartsAt,
		p.EndsAt,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert promotion: %w", err)
	}

	return nil
}

// GetByID retrieves a promotion by its ID.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*domain.Promotion, error) {
	query := `
		SELECT id, title, description, image_url, starts_at, ends_at, active, created_at, updated_at
		FROM promotions
		WHERE id = $1`

	var p domain.Promotion
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.ImageURL,
		&p.StartsAt,
		&p.EndsAt,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("promotion", id)
		}
		return nil, fmt.Errorf("scan promotion: %w", err)
	}

	return &p, nil
}

// List returns promotions, optionally restricted to ones running right now.
func (r *PromotionRepository) List(ctx context.Context, activeOnly bool) ([]domain.Promotion, error) {
	query := `
		SELECT id, title, description, image_url, starts_at, ends_at, active, created_at, updated_at
		FROM promotions`

	var args []any
	if activeOnly {
		query += `
		WHERE active = true AND starts_at <= $1 AND ends_at > $1`
		args = append(args, time.Now().UTC())
	}
	query += `
		ORDER BY starts_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	promotions := make([]domain.Promotion, 0)
	for rows.Next() {
		var p domain.Promotion
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.Description,
			&p.ImageURL,
			&p.StartsAt,
			&p.EndsAt,
			&p.Active,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan promotion row: %w", err)
		}
		promotions = append(promotions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion rows: %w", err)
	}

	return promotions, nil
}

// Update modifies an existing promotion.
func (r *PromotionRepository) Update(ctx context.Context, p *domain.Promotion) error {
	query := `
		UPDATE promotions
		SET title = $1, description = $2, image_url = $3, starts_at = $4, ends_at = $5,
			active = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Description,
		p.ImageURL,
		p.StartsAt,
		p.EndsAt,
		p.Active,
		time.Now().UTC(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("promotion", p.ID)
	}

	return nil
}

// Delete removes a promotion.
func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("promotion", id)
	}

	return nil
}
