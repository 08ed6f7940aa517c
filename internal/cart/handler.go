package cart

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Cristian668/VentaX/internal/platform/httpx"
	"github.com/Cristian668/VentaX/internal/shared"
)

// Handler wires the cart HTTP endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the cart handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountRoutes registers cart routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleGet)
	r.Post("/add", h.handleAdd)
	r.Post("/update", h.handleUpdate)
	r.Post("/remove", h.handleRemove)
	r.Post("/clear", h.handleClear)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), shared.SessionID(r.Context()))
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "no se pudo cargar el carrito")
		return
	}
	httpx.OK(w, view)
}

func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
	var item AddItem
	if err := httpx.DecodeJSON(r, &item); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "solicitud invalida")
		return
	}
	if err := h.validate.Struct(item); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "cantidad o producto invalido")
		return
	}
	view, err := h.service.Add(r.Context(), shared.SessionID(r.Context()), item)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.OK(w, view)
}

type updateRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "solicitud invalida")
		return
	}
	view, err := h.service.Update(r.Context(), shared.SessionID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.OK(w, view)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "solicitud invalida")
		return
	}
	view, err := h.service.Remove(r.Context(), shared.SessionID(r.Context()), req.ProductID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	httpx.OK(w, view)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), shared.SessionID(r.Context())); err != nil {
		h.logger.Error("clear cart", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "no se pudo vaciar el carrito")
		return
	}
	httpx.OK(w, View{Items: []ResolvedLine{}})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidProduct):
		httpx.Fail(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("cart operation", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "operacion de carrito fallida")
	}
}
