// Package http wires the REST API: routing, request decoding and the
// translation of service errors into response envelopes.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/health"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/pkg/middleware"

	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/domain"
	"github.com/NaimaAhmedin/mern-stack-e-commerce-admin-dashboard-sub000/internal/service"
)

const serviceName = "marketplace-backoffice"

// RouterConfig carries the dependencies and settings for the API router.
type RouterConfig struct {
	UserService    *service.UserService
	CatalogService *service.CatalogService
	OrderService   *service.OrderService
	TokenValidator middleware.TokenValidator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	PprofCIDRs     []string
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	}

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	authHandler := NewAuthHandler(cfg.UserService, cfg.Logger)
	userHandler := NewUserHandler(cfg.UserService, cfg.Logger)
	productHandler := NewProductHandler(cfg.CatalogService, cfg.Logger)
	categoryHandler := NewCategoryHandler(cfg.CatalogService, cfg.Logger)
	promotionHandler := NewPromotionHandler(cfg.CatalogService, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.OrderService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public and token-lifecycle endpoints.
		r.Route("/auth", func(r chi.Router) {
			// Register accepts anonymous self-registration and authenticated
			// SuperAdmin role assignment through the same endpoint.
			r.With(middleware.OptionalAuth(cfg.TokenValidator)).Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
			r.With(middleware.Auth(cfg.TokenValidator)).Post("/logout", authHandler.Logout)
		})

		// Public catalog reads.
		r.Get("/products", productHandler.ListProducts)
		r.Get("/products/{id}", productHandler.GetProduct)
		r.Get("/categories", categoryHandler.ListCategories)
		r.Get("/categories/{id}", categoryHandler.GetCategory)
		r.Get("/promotions", promotionHandler.ListPromotions)

		// Everything below requires a valid token. Routes with a static role
		// set carry a coarse RequireRole gate; ownership and per-edge role
		// decisions still happen in the service layer.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.TokenValidator))

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", userHandler.GetProfile)
				r.Put("/", userHandler.UpdateProfile)
				r.Put("/password", userHandler.ChangePassword)
			})

			r.Post("/products", productHandler.CreateProduct)
			r.Put("/products/{id}", productHandler.UpdateProduct)
			r.Delete("/products/{id}", productHandler.DeleteProduct)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(
					string(domain.RoleContentAdmin), string(domain.RoleSuperAdmin),
				))

				r.Post("/categories", categoryHandler.CreateCategory)
				r.Put("/categories/{id}", categoryHandler.UpdateCategory)
				r.Delete("/categories/{id}", categoryHandler.DeleteCategory)

				r.Post("/promotions", promotionHandler.CreatePromotion)
				r.Put("/promotions/{id}", promotionHandler.UpdatePromotion)
				r.Delete("/promotions/{id}", promotionHandler.DeletePromotion)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", orderHandler.CreateOrder)
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{id}", orderHandler.GetOrder)
				r.Patch("/{id}/status", orderHandler.UpdateStatus)
				r.Post("/{id}/cancel", orderHandler.CancelOrder)
				r.With(middleware.RequireRole(
					string(domain.RoleDeliveryAdmin), string(domain.RoleSuperAdmin),
				)).Patch("/{id}/payment", orderHandler.UpdatePaymentStatus)
				r.With(middleware.RequireRole(
					string(domain.RoleSuperAdmin),
				)).Delete("/{id}", orderHandler.DeleteOrder)
			})
		})
	})

	return r
}
