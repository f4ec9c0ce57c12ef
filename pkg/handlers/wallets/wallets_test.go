package wallets_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/handlers/wallets"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage/memory"
	"github.com/chris/wallet-kiosk/pkg/topup"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anaID = int64(1710034065)

func newHandler(t *testing.T) *wallets.WalletsHandler {
	t.Helper()
	ledger := memory.NewLedgerStore()
	_, err := ledger.CreateCustomer(context.Background(), &models.Customer{
		ID: anaID, Name: "Ana Torres", Email: "ana@example.com", Phone: "0991234567",
		QRCredential: "qr-ana", Balance: decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	return wallets.NewWalletsHandler(directory.NewService(memory.NewInventoryStore(), ledger), topup.NewService(ledger))
}

func TestListCustomers(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/clientes", nil)
	rr := httptest.NewRecorder()

	h.ListCustomers(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var customers []api.Customer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customers))
	require.Len(t, customers, 1)
	assert.Equal(t, "qr-ana", customers[0].CodigoQr)
}

func TestGetCustomerBalance(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/clientes/1710034065/balance", nil)
		rr := httptest.NewRecorder()

		h.GetCustomerBalance(rr, req, anaID)

		assert.Equal(t, http.StatusOK, rr.Code)
		var balance api.Balance
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &balance))
		assert.True(t, balance.BalanceMonedero.Equal(decimal.NewFromInt(50)))
	})

	t.Run("Not Found", func(t *testing.T) {
		h := newHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/clientes/1/balance", nil)
		rr := httptest.NewRecorder()

		h.GetCustomerBalance(rr, req, 1)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "CustomerNotFound")
	})
}

func TestSearchCustomers(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/search/torres", nil)
	rr := httptest.NewRecorder()

	h.SearchCustomers(rr, req, "torres")

	assert.Equal(t, http.StatusOK, rr.Code)
	var customers []api.Customer
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customers))
	assert.Len(t, customers, 1)
}

func TestRegisterCustomer(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewCustomer{Nombre: "Luis", Email: "luis@example.com", NumTelefono: "0987654321"})
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.RegisterCustomer(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var customer api.Customer
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &customer))
		assert.NotEmpty(t, customer.CodigoQr)
		assert.True(t, customer.BalanceMonedero.IsZero())
	})

	t.Run("Taken Id", func(t *testing.T) {
		h := newHandler(t)

		id := anaID
		body, _ := json.Marshal(api.NewCustomer{Cedula: &id, Nombre: "Ana", Email: "ana@example.com", NumTelefono: "0991234567"})
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.RegisterCustomer(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestTopUpWallet(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.TopUpRequest{ClienteId: anaID, Cantidad: decimal.NewFromInt(25)})
		req := httptest.NewRequest(http.MethodPost, "/recargar-monedero", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUpWallet(rr, req, api.TopUpWalletParams{})

		assert.Equal(t, http.StatusOK, rr.Code)
		var result api.TopUpResult
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.True(t, result.NuevoBalance.Equal(decimal.NewFromInt(75)))
	})

	t.Run("Same Key Applies Once", func(t *testing.T) {
		h := newHandler(t)
		key := "till-2-0001"

		for i := 0; i < 2; i++ {
			body, _ := json.Marshal(api.TopUpRequest{ClienteId: anaID, Cantidad: decimal.NewFromInt(25)})
			req := httptest.NewRequest(http.MethodPost, "/recargar-monedero", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			h.TopUpWallet(rr, req, api.TopUpWalletParams{IdempotencyKey: &key})

			require.Equal(t, http.StatusOK, rr.Code)
			var result api.TopUpResult
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
			assert.True(t, result.NuevoBalance.Equal(decimal.NewFromInt(75)))
		}
	})

	t.Run("Non Positive Amount", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.TopUpRequest{ClienteId: anaID, Cantidad: decimal.NewFromInt(-5)})
		req := httptest.NewRequest(http.MethodPost, "/recargar-monedero", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUpWallet(rr, req, api.TopUpWalletParams{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Unknown Customer", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.TopUpRequest{ClienteId: 42, Cantidad: decimal.NewFromInt(5)})
		req := httptest.NewRequest(http.MethodPost, "/recargar-monedero", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.TopUpWallet(rr, req, api.TopUpWalletParams{})

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
