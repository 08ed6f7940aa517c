package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Cristian668/VentaX/internal/catalog"
	"github.com/Cristian668/VentaX/internal/platform/httpx"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	retry := RetryPolicy{MaxAttempts: 2, Backoff: time.Millisecond, Retryable: IsTransient}
	return NewClient(srv.URL, time.Second, retry, nil)
}

func TestListProductsDecodesMixedIDTypes(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Cristy", r.URL.Query().Get("supplier"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[
			{"id":101,"product_code":"X27","name":"Vaso","price":5},
			{"id":"18bf4405","product_code":"2202._AI","name":"Plato","bulk_price":3}
		]}`))
	})

	products, err := c.ListProducts(context.Background(), catalog.SupplierFirstParty, 500)
	require.NoError(t, err)
	require.Len(t, products, 2)
	require.Equal(t, catalog.ID("101"), products[0].ID)
	require.Equal(t, catalog.ID("18bf4405"), products[1].ID)
}

func TestGetProductNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"error":"producto no encontrado"}`))
	})

	_, err := c.GetProduct(context.Background(), "nope")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestHTMLResponseIsMalformedNotRetried(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>502</body></html>"))
	})

	_, err := c.ListProducts(context.Background(), catalog.SupplierFirstParty, 500)
	require.ErrorIs(t, err, httpx.ErrMalformedResponse)
	require.Equal(t, 1, calls)
}

func TestEnvelopeFailureSurfacesRemoteError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"catalogo en mantenimiento"}`))
	})

	_, err := c.ListProducts(context.Background(), catalog.SupplierThirdParty, 500)
	var remote *httpx.RemoteError
	require.ErrorAs(t, err, &remote)
	require.Contains(t, remote.Message, "mantenimiento")
}

func TestGetOrderStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/orders/ORD-1A2B3C4D", r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"status":"CONFIRMED"}}`))
	})

	status, err := c.GetOrderStatus(context.Background(), "ORD-1A2B3C4D")
	require.NoError(t, err)
	require.Equal(t, "CONFIRMED", status)
}

func TestGetOrderStatusUnmirroredOrderIsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{}}`))
	})

	_, err := c.GetOrderStatus(context.Background(), "ORD-FFFFFFFF")
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestListWithoutSuccessFlagButWithDataIsAccepted(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":"a1","name":"Taza","price":2}]}`))
	})

	products, err := c.ListProducts(context.Background(), catalog.SupplierFirstParty, 500)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestTransientServerErrorRetriedOnce(t *testing.T) {
	calls := 0
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"success":false,"error":"arrancando"}`))
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"1","name":"Olla","price":9}]}`))
	})

	products, err := c.ListProducts(context.Background(), catalog.SupplierFirstParty, 500)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, 2, calls)
}
