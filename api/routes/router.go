package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/londonshop-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/londonshop-backend/api/controllers/cart"
	"github.com/angelmondragon/londonshop-backend/api/middleware"
	"github.com/angelmondragon/londonshop-backend/internal/admin"
	"github.com/angelmondragon/londonshop-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/londonshop-backend/internal/checkout"
	"github.com/angelmondragon/londonshop-backend/internal/feedback"
	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/logger"
	"github.com/angelmondragon/londonshop-backend/pkg/metrics"
	"github.com/angelmondragon/londonshop-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient *redis.Client,
	storefrontMetrics *metrics.Storefront,
	gatherer prometheus.Gatherer,
	catalog controllers.CatalogReader,
	carts *cart.Sessions,
	checkoutService checkoutsvc.Service,
	feedbackService feedback.Service,
	adminService admin.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, storefrontMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	secureCookies := cfg.App.IsProd()
	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"admin-login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
	)

	readiness := map[string]controllers.Pinger{"db": dbP, "redis": nil}
	if redisClient != nil {
		readiness["redis"] = redisClient
	}

	var adminLogin http.Handler = controllers.AdminLogin(adminService, cfg.Admin, secureCookies, logg)
	if redisClient != nil {
		adminLogin = middleware.AuthRateLimit(loginPolicy, redisClient, logg)(adminLogin)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, secureCookies, logg))

		r.Get("/categories", controllers.CatalogCategories(catalog, logg))
		r.Get("/categories/{category}/products", controllers.CatalogCategoryProducts(catalog, logg))
		r.Get("/categories/{category}/products/{slug}", controllers.CatalogProduct(catalog, logg))
		r.Get("/products", controllers.CatalogProducts(catalog, logg))
		r.Get("/search", controllers.CatalogSearch(catalog, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.CartFetch(carts, logg))
			r.Delete("/", cartcontrollers.CartClear(carts, logg))
			r.Put("/open", cartcontrollers.CartSetOpen(carts, logg))
			r.Post("/items", cartcontrollers.CartAddItem(carts, catalog, logg))
			r.Patch("/items", cartcontrollers.CartUpdateItem(carts, logg))
			r.Delete("/items", cartcontrollers.CartRemoveItem(carts, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, carts, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Method(http.MethodPost, "/login", adminLogin)
		r.Post("/logout", controllers.AdminLogout(adminService, cfg.Admin, secureCookies, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(adminService, cfg.Admin.CookieName, logg))
			r.Get("/check", controllers.AdminCheck(logg))
			r.Get("/feedback", controllers.AdminListFeedback(feedbackService, logg))
			r.Get("/customers", controllers.AdminListCustomers(feedbackService, logg))
		})
	})

	return r
}
