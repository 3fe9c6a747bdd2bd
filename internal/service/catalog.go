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
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/cache"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/repository"
)

// ProductCache is the read-through cache surface used by the catalog service.
type ProductCache interface {
	Get(ctx context.Context, id string) (*domain.Product, error)
	Set(ctx context.Context, p *domain.Product) error
	Invalidate(ctx context.Context, id string) error
}

// CatalogService implements product, category and promotion management.
type CatalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	promotions repository.PromotionRepository
	cache      ProductCache
	logger     *slog.Logger
}

// NewCatalogService creates a new catalog service. The cache is optional; a
// nil cache disables read-through behavior.
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	promotions repository.PromotionRepository,
	productCache ProductCache,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		promotions: promotions,
		cache:      productCache,
		logger:     logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	CategoryID    string   `json:"category_id" validate:"required"`
	SubcategoryID *string  `json:"subcategory_id"`
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" validate:"required,gt=0"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
	Images        []string `json:"images" validate:"max=5,dive,url"`
	Latitude      float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude     float64  `json:"longitude" validate:"omitempty,longitude"`
}

// CreateProduct creates a product owned by the acting seller.
func (s *CatalogService) CreateProduct(ctx context.Context, actor authz.Identity, input CreateProductInput) (*domain.Product, error) {
	if err := authz.Authorize(actor, authz.Policy{Roles: []domain.Role{domain.RoleSeller}}); err != nil {
		return nil, err
	}
	if len(input.Images) > domain.MaxProductImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf("a product may carry at most %d images", domain.MaxProductImages))
	}

	if _, err := s.categories.GetByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("category %s does not exist", input.CategoryID))
		}
		return nil, fmt.Errorf("load category: %w", err)
	}

	now := time.Now().UTC()
	images := input.Images
	if images == nil {
		images = []string{}
	}

	product := &domain.Product{
		ID:            uuid.New().String(),
		SellerID:      actor.ID,
		CategoryID:    input.CategoryID,
		SubcategoryID: input.SubcategoryID,
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		Quantity:      input.Quantity,
		Images:        images,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("seller_id", product.SellerID),
	)

	return product, nil
}

// GetProduct retrieves a product, serving from cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.Get(ctx, id); err == nil {
			return p, nil
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "product cache read failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			s.logger.WarnContext(ctx, "product cache write failed",
				slog.String("product_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	return product, nil
}

// ListProducts returns a filtered, paginated product list.
func (s *CatalogService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = 20
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// UpdateProductInput holds the mutable product fields.
type UpdateProductInput struct {
	CategoryID    string   `json:"category_id" validate:"required"`
	SubcategoryID *string  `json:"subcategory_id"`
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" validate:"required,gt=0"`
	Quantity      int      `json:"quantity" validate:"gte=0"`
	Images        []string `json:"images" validate:"max=5,dive,url"`
	Latitude      float64  `json:"latitude" validate:"omitempty,latitude"`
	Longitude     float64  `json:"longitude" validate:"omitempty,longitude"`
}

// UpdateProduct modifies a product. Only the owning seller may update;
// ownership itself never changes.
func (s *CatalogService) UpdateProduct(ctx context.Context, actor authz.Identity, id string, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if err := authz.AuthorizeOwner(actor, product.SellerID); err != nil {
		return nil, err
	}
	if len(input.Images) > domain.MaxProductImages {
		return nil, apperrors.InvalidInput(fmt.Sprintf("a product may carry at most %d images", domain.MaxProductImages))
	}

	product.CategoryID = input.CategoryID
	product.SubcategoryID = input.SubcategoryID
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Quantity = input.Quantity
	if input.Images != nil {
		product.Images = input.Images
	}
	product.Latitude = input.Latitude
	product.Longitude = input.Longitude
	product.UpdatedAt = time.Now().UTC()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidate(ctx, id)

	return product, nil
}

// DeleteProduct removes a product. The owning seller may delete their own;
// SuperAdmin and ContentAdmin may delete any product.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor authz.Identity, id string) error {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := authz.AuthorizeOwner(actor, product.SellerID, domain.RoleSuperAdmin, domain.RoleContentAdmin); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	s.invalidate(ctx, id)

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
		slog.String("actor_id", actor.ID),
		slog.String("actor_role", string(actor.Role)),
	)

	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, productID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, productID); err != nil {
		s.logger.WarnContext(ctx, "product cache invalidation failed",
			slog.String("product_id", productID),
			slog.String("error", err.Error()),
		)
	}
}

// CategoryInput holds the parameters for creating or updating a category.
type CategoryInput struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

var categoryAdmins = authz.Policy{Roles: []domain.Role{domain.RoleSuperAdmin, domain.RoleContentAdmin}}

// CreateCategory creates a category or subcategory.
func (s *CatalogService) CreateCategory(ctx context.Context, actor authz.Identity, input CategoryInput) (*domain.Category, error) {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.categories.GetByID(ctx, *input.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.InvalidInput(fmt.Sprintf("parent category %s does not exist", *input.ParentID))
			}
			return nil, fmt.Errorf("load parent category: %w", err)
		}
		// Two levels only: a subcategory cannot itself be a parent.
		if parent.ParentID != nil {
			return nil, apperrors.InvalidInput("subcategories cannot be nested")
		}
	}

	now := time.Now().UTC()
	category := &domain.Category{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		ParentID:    input.ParentID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	return category, nil
}

// GetCategory retrieves a category by ID.
func (s *CatalogService) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory modifies a category.
func (s *CatalogService) UpdateCategory(ctx context.Context, actor authz.Identity, id string, input CategoryInput) (*domain.Category, error) {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category for update: %w", err)
	}

	category.Name = input.Name
	category.Description = input.Description
	category.ParentID = input.ParentID
	category.UpdatedAt = time.Now().UTC()

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	return category, nil
}

// DeleteCategory removes a category.
func (s *CatalogService) DeleteCategory(ctx context.Context, actor authz.Identity, id string) error {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return err
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return nil
}

// PromotionInput holds the parameters for creating or updating a promotion.
type PromotionInput struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url" validate:"omitempty,url"`
	StartsAt    time.Time `json:"starts_at" validate:"required"`
	EndsAt      time.Time `json:"ends_at" validate:"required"`
	Active      bool      `json:"active"`
}

// CreatePromotion creates a promotion banner.
func (s *CatalogService) CreatePromotion(ctx context.Context, actor authz.Identity, input PromotionInput) (*domain.Promotion, error) {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return nil, err
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.InvalidInput("promotion must end after it starts")
	}

	now := time.Now().UTC()
	promotion := &domain.Promotion{
		ID:          uuid.New().String(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		StartsAt:    input.StartsAt,
		EndsAt:      input.EndsAt,
		Active:      input.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.promotions.Create(ctx, promotion); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	return promotion, nil
}

// ListPromotions returns promotions, optionally only ones currently running.
func (s *CatalogService) ListPromotions(ctx context.Context, activeOnly bool) ([]domain.Promotion, error) {
	promotions, err := s.promotions.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	return promotions, nil
}

// UpdatePromotion modifies a promotion.
func (s *CatalogService) UpdatePromotion(ctx context.Context, actor authz.Identity, id string, input PromotionInput) (*domain.Promotion, error) {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return nil, err
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, apperrors.InvalidInput("promotion must end after it starts")
	}

	promotion, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get promotion for update: %w", err)
	}

	promotion.Title = input.Title
	promotion.Description = input.Description
	promotion.ImageURL = input.ImageURL
	promotion.StartsAt = input.StartsAt
	promotion.EndsAt = input.EndsAt
	promotion.Active = input.Active
	promotion.UpdatedAt = time.Now().UTC()

	if err := s.promotions.Update(ctx, promotion); err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}

	return promotion, nil
}

// DeletePromotion removes a promotion.
func (s *CatalogService) DeletePromotion(ctx context.Context, actor authz.Identity, id string) error {
	if err := authz.Authorize(actor, categoryAdmins); err != nil {
		return err
	}

	if err := s.promotions.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}

	return nil
}
