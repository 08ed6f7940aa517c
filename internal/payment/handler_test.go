package payment

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestBankInfoEndpoint(t *testing.T) {
	svc := NewService(Info{
		Accounts: []BankAccount{
			{Bank: "Banco Pichincha", AccountType: "Ahorros", Number: "2203456789", Holder: "Cristina Lopez", HolderID: "1712345678"},
		},
		ContactChannel: "https://t.me/ventax_pedidos",
	})

	r := chi.NewRouter()
	NewHandler(svc).MountRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bank-info", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    Info `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Success)
	require.Len(t, body.Data.Accounts, 1)
	require.Equal(t, "Banco Pichincha", body.Data.Accounts[0].Bank)
	require.NotEmpty(t, body.Data.Instructions)
}
