package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

// Handler wires HTTP endpoints for the product catalog.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the catalog handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/load-more", h.handleLoadMore)
	r.Get("/{token}", h.handleGet)
}

// listResponse extends the plain envelope with pagination metadata; data
// stays a bare product array for client compatibility.
type listResponse struct {
	Success bool      `json:"success"`
	Data    []Product `json:"data"`
	HasMore bool      `json:"has_more"`
	Total   int       `json:"total"`
	Hint    string    `json:"hint,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if search := strings.TrimSpace(q.Get("search")); search != "" {
		products, err := h.service.Search(r.Context(), search)
		if err != nil {
			h.logger.Error("search products", slog.String("query", search), slog.Any("error", err))
			httpx.Fail(w, http.StatusBadGateway, "busqueda no disponible")
			return
		}
		httpx.JSON(w, http.StatusOK, listResponse{Success: true, Data: products, Total: len(products)})
		return
	}

	view := SupplierFromCode(q.Get("supplier"))
	if err := h.service.SwitchView(r.Context(), view); err != nil {
		// keep whatever is cached on screen; only an empty view is an error
		if storeErr := h.service.Store().Err(); errors.Is(storeErr, ErrEmptyCatalog) {
			httpx.JSON(w, http.StatusOK, listResponse{Success: false, Data: []Product{}, Hint: emptyStateHint(storeErr)})
			return
		}
	}

	if anchor := strings.TrimSpace(q.Get("anchor")); anchor != "" {
		if _, err := h.service.Resolve(r.Context(), anchor); err != nil {
			h.logger.Info("deep link unresolved", slog.String("anchor", anchor))
		}
	}

	page, hasMore := h.service.Store().Page()
	httpx.JSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    page,
		HasMore: hasMore,
		Total:   len(h.service.Products()),
	})
}

func (h *Handler) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	h.service.Store().LoadMore()
	page, hasMore := h.service.Store().Page()
	httpx.JSON(w, http.StatusOK, listResponse{
		Success: true,
		Data:    page,
		HasMore: hasMore,
		Total:   len(h.service.Products()),
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	product, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		if errors.Is(err, httpx.ErrNotFound) {
			httpx.Fail(w, http.StatusNotFound, "producto no encontrado")
			return
		}
		h.logger.Error("resolve product", slog.String("token", token), slog.Any("error", err))
		httpx.Fail(w, http.StatusBadGateway, "producto no disponible")
		return
	}
	httpx.OK(w, product)
}

// emptyStateHint picks the contextual message for an empty listing, keyed on
// what actually failed.
func emptyStateHint(err error) string {
	if err == nil {
		return "Pronto agregaremos nuevos productos"
	}
	var remote *httpx.RemoteError
	switch {
	case errors.Is(err, httpx.ErrNotFound),
		errors.As(err, &remote) && remote.Status == http.StatusNotFound:
		return "Inicie el servidor API del carrito (puerto 5000)"
	case errors.Is(err, httpx.ErrMalformedResponse):
		return "El servidor API no responde o esta iniciando. Espere 1-2 min y reintente"
	default:
		return "Error de red, por favor intente mas tarde"
	}
}
