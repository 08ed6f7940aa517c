package orders

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Cristian668/VentaX/internal/platform/httpx"
	"github.com/Cristian668/VentaX/internal/shared"
)

const historyPerPage = 20

// Handler wires checkout and order history endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the orders handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// MountCheckout registers the checkout endpoint.
func (h *Handler) MountCheckout(r chi.Router) {
	r.Post("/", h.handleCheckout)
}

// MountRoutes registers order history endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/{id}", h.handleGet)
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "solicitud invalida")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "complete todos los campos obligatorios")
		return
	}

	order, err := h.service.Checkout(r.Context(), shared.SessionID(r.Context()), req)
	if err != nil {
		if errors.Is(err, ErrEmptyCart) {
			httpx.Fail(w, http.StatusBadRequest, "el carrito esta vacio")
			return
		}
		if errors.Is(err, ErrDuplicateCheckout) {
			httpx.Fail(w, http.StatusConflict, "el pedido ya fue registrado")
			return
		}
		h.logger.Error("checkout", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "no se pudo registrar el pedido")
		return
	}
	httpx.JSON(w, http.StatusCreated, checkoutResponse{
		Success: true,
		Data:    order,
		Message: fmt.Sprintf("Pedido %s registrado. Total a pagar: %s", order.Code, shared.FormatMoney(order.Total)),
	})
}

type checkoutResponse struct {
	Success bool   `json:"success"`
	Data    Order  `json:"data"`
	Message string `json:"message"`
}

type historyResponse struct {
	Success    bool              `json:"success"`
	Data       []Order           `json:"data"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), shared.SessionID(r.Context()))
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "no se pudieron cargar los pedidos")
		return
	}
	if list == nil {
		list = []Order{}
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	p := shared.NewPagination(page, historyPerPage, len(list))
	start := p.Offset()
	if start > len(list) {
		start = len(list)
	}
	end := start + p.PerPage
	if end > len(list) {
		end = len(list)
	}
	httpx.JSON(w, http.StatusOK, historyResponse{Success: true, Data: list[start:end], Pagination: p})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.Get(r.Context(), shared.SessionID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "pedido no encontrado")
			return
		}
		h.logger.Error("get order", slog.Any("error", err))
		httpx.Fail(w, http.StatusInternalServerError, "no se pudo cargar el pedido")
		return
	}
	httpx.OK(w, order)
}
