package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Cristian668/VentaX/internal/cart"
	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/orders"
	"github.com/Cristian668/VentaX/internal/payment"
	"github.com/Cristian668/VentaX/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	CatalogHandler *catalog.Handler
	CartHandler    *cart.Handler
	OrdersHandler  *orders.Handler
	PaymentHandler *payment.Handler
	JobHandler     *jobs.Handler
}

// NewRouter constructs the chi.Router with storefront defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", params.CatalogHandler.MountRoutes)
		r.Route("/cart", params.CartHandler.MountRoutes)
		r.Route("/checkout", params.OrdersHandler.MountCheckout)
		r.Route("/orders", params.OrdersHandler.MountRoutes)
		r.Route("/payment", params.PaymentHandler.MountRoutes)
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	return r
}
