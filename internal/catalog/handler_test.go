package catalog

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

func newTestRouter(t *testing.T, up *fakeUpstream) chi.Router {
	t.Helper()
	svc, _ := newTestService(t, up)
	r := chi.NewRouter()
	NewHandler(slog.Default(), svc).MountRoutes(r)
	return r
}

func TestListEndpointReturnsEnvelope(t *testing.T) {
	up := &fakeUpstream{lists: map[Supplier][]Product{
		SupplierFirstParty: {{ID: "1", ProductCode: "A", Name: "Vaso", Price: 5}},
	}}
	r := newTestRouter(t, up)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool      `json:"success"`
		Data    []Product `json:"data"`
		HasMore bool      `json:"has_more"`
		Total   int       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Data, 1)
	require.Equal(t, 1, body.Total)
}

func TestGetEndpointMapsNotFound(t *testing.T) {
	up := &fakeUpstream{singleErr: httpx.ErrNotFound}
	r := newTestRouter(t, up)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Success)
	require.Equal(t, "producto no encontrado", body.Error)
}

func TestEmptyStateHintClassifiesFailures(t *testing.T) {
	require.Contains(t, emptyStateHint(httpx.ErrNotFound), "puerto 5000")
	require.Contains(t, emptyStateHint(&httpx.RemoteError{Status: http.StatusNotFound}), "puerto 5000")
	require.Contains(t, emptyStateHint(httpx.ErrMalformedResponse), "Espere 1-2 min")
	require.Contains(t, emptyStateHint(&httpx.RemoteError{Status: http.StatusBadGateway}), "Error de red")
}
