package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/sellerbazaar-backend/api/controllers"
	"github.com/angelmondragon/sellerbazaar-backend/api/middleware"
	"github.com/angelmondragon/sellerbazaar-backend/internal/address"
	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout"
	"github.com/angelmondragon/sellerbazaar-backend/internal/delivery"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/auth"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/metrics"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/redis"
)

// Services groups the domain services the storefront API exposes.
type Services struct {
	Cart      cart.Service
	Delivery  delivery.Service
	Addresses address.Service
	Checkout  checkout.Service
	Orders    orders.Service
}

// Infra groups the shared clients used by middleware and health checks.
type Infra struct {
	DB          db.Pinger
	Redis       redis.Pinger
	Idempotency redis.IdempotencyStore
	Tokens      *auth.Verifier
	Gatherer    prometheus.Gatherer
	HTTPMetrics *metrics.HTTPMetrics
}

func NewRouter(cfg *config.Config, logg *logger.Logger, infra Infra, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(infra.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg,
			controllers.ReadinessCheck{Name: "db", Pinger: infra.DB},
			controllers.ReadinessCheck{Name: "redis", Pinger: infra.Redis},
		))
	})

	if infra.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(infra.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(infra.Tokens, logg),
			middleware.Idempotency(infra.Idempotency, middleware.StorefrontIdempotentRoutes(cfg.Idempotency), logg),
		)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svc.Cart, logg))
			r.Delete("/", controllers.CartClear(svc.Cart, logg))
			r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
			r.Patch("/items/{productId}", controllers.CartUpdateQuantity(svc.Cart, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveItem(svc.Cart, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(svc.Cart, logg))
			r.Put("/{productId}", controllers.WishlistAdd(svc.Cart, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(svc.Cart, logg))
		})

		r.Get("/products/{productId}/delivery-estimate", controllers.DeliveryEstimate(svc.Delivery, logg))

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", controllers.AddressList(svc.Addresses, logg))
			r.Post("/", controllers.AddressCreate(svc.Addresses, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutSubmit(svc.Checkout, logg))
			r.Route("/session", func(r chi.Router) {
				r.Post("/", controllers.CheckoutStart(svc.Checkout, logg))
				r.Get("/", controllers.CheckoutGet(svc.Checkout, logg))
				r.Put("/address", controllers.CheckoutSelectAddress(svc.Checkout, logg))
				r.Post("/charges", controllers.CheckoutRefreshCharges(svc.Checkout, logg))
				r.Put("/payment-method", controllers.CheckoutChoosePayment(svc.Checkout, logg))
				r.Post("/review", controllers.CheckoutReview(svc.Checkout, logg))
				r.Post("/back", controllers.CheckoutBack(svc.Checkout, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(svc.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svc.Orders, logg))
		})
	})

	return r
}
