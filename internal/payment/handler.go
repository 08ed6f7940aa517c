package payment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

// Handler wires the payment info endpoint.
type Handler struct {
	service *Service
}

// NewHandler constructs the payment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// MountRoutes registers payment routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/bank-info", h.handleBankInfo)
}

func (h *Handler) handleBankInfo(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, h.service.Info())
}
