// Package routes assembles the HTTP surface: middleware stack, public
// catalog endpoints, authenticated inquiry intake, and the admin group.
package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmreyes-dev/partstream-backend/api/controllers"
	"github.com/dmreyes-dev/partstream-backend/api/middleware"
	"github.com/dmreyes-dev/partstream-backend/internal/auth"
	category "github.com/dmreyes-dev/partstream-backend/internal/categories"
	inquiry "github.com/dmreyes-dev/partstream-backend/internal/inquiries"
	product "github.com/dmreyes-dev/partstream-backend/internal/products"
	"github.com/dmreyes-dev/partstream-backend/internal/stats"
	"github.com/dmreyes-dev/partstream-backend/pkg/auth/session"
	"github.com/dmreyes-dev/partstream-backend/pkg/cache"
	"github.com/dmreyes-dev/partstream-backend/pkg/config"
	"github.com/dmreyes-dev/partstream-backend/pkg/logger"
	"github.com/dmreyes-dev/partstream-backend/pkg/metrics"
	"github.com/dmreyes-dev/partstream-backend/pkg/redis"
)

// Deps carries everything the router needs wired in.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DB    controllers.Pinger
	Redis *redis.Client
	GCS   controllers.Pinger

	Sessions   session.Checker
	CacheStore cache.Store

	HTTPMetrics  *metrics.HTTPMetrics
	CacheMetrics *metrics.CacheMetrics
	Gatherer     prometheus.Gatherer

	AuthService     auth.Service
	CategoryService category.Service
	ProductService  product.Service
	InquiryService  inquiry.Service
	StatsService    stats.Service
}

// NewRouter builds the chi handler serving the whole API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	cached := func(ttl time.Duration) func(http.Handler) http.Handler {
		if !cfg.Cache.Enabled || deps.CacheStore == nil {
			return passthrough
		}
		if ttl <= 0 {
			ttl = cfg.Cache.DefaultTTL
		}
		return middleware.CachePage(deps.CacheStore, ttl, deps.CacheMetrics, logg)
	}

	loginLimiter := passthrough
	signupLimiter := passthrough
	if deps.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthLimits.LoginWindow,
			cfg.AuthLimits.LoginIPLimit,
			cfg.AuthLimits.LoginEmailLimit,
		), deps.Redis, logg)
		signupLimiter = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"signup",
			cfg.AuthLimits.SignupWindow,
			cfg.AuthLimits.SignupIPLimit,
			cfg.AuthLimits.SignupEmailLimit,
		), deps.Redis, logg)
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    redisPinger(deps.Redis),
			"storage":  deps.GCS,
		}))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(signupLimiter).Post("/signup", controllers.Signup(deps.AuthService, logg))
			r.With(loginLimiter).Post("/login", controllers.Login(deps.AuthService, logg))
			r.With(requireAuth).Get("/logout", controllers.Logout(deps.AuthService, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.With(cached(cfg.Cache.CategoryListTTL)).Get("/", controllers.ListCategories(deps.CategoryService, logg))
			r.With(cached(cfg.Cache.CategoryListTTL)).Get("/parents", controllers.ListParentCategories(deps.CategoryService, logg))
			r.With(cached(cfg.Cache.CategoryDetailTTL)).Get("/{idOrSlug}", controllers.GetCategory(deps.CategoryService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireRole("admin", logg))
				r.Post("/", controllers.CreateCategory(deps.CategoryService, logg))
				r.Patch("/{id}", controllers.UpdateCategory(deps.CategoryService, logg))
				r.Delete("/{id}", controllers.DeleteCategory(deps.CategoryService, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.With(cached(cfg.Cache.ProductListTTL)).Get("/", controllers.ListProducts(deps.ProductService, logg))
			r.With(cached(cfg.Cache.ProductDetailTTL)).Get("/{id}", controllers.GetProduct(deps.ProductService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireRole("admin", logg))
				r.Post("/", controllers.CreateProduct(deps.ProductService, logg))
				r.Patch("/{id}", controllers.UpdateProduct(deps.ProductService, logg))
				r.Delete("/{id}", controllers.DeleteProduct(deps.ProductService, logg))
				r.Post("/{id}/image", controllers.UploadProductImage(deps.ProductService, cfg.Uploads.MaxImageBytes, logg))
			})
		})

		r.Route("/inquiries", func(r chi.Router) {
			r.With(requireAuth).Post("/", controllers.CreateInquiry(deps.InquiryService, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireRole("admin", logg))
				r.Get("/", controllers.ListInquiries(deps.InquiryService, logg))
				r.Get("/{id}", controllers.GetInquiry(deps.InquiryService, logg))
				r.Patch("/{id}", controllers.UpdateInquiry(deps.InquiryService, logg))
				r.Delete("/{id}", controllers.DeleteInquiry(deps.InquiryService, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth, middleware.RequireRole("admin", logg))
			r.Get("/stats", controllers.AdminStats(deps.StatsService, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// redisPinger keeps a nil *redis.Client from becoming a non-nil Pinger
// interface value in the readiness map.
func redisPinger(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
