package catalog_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/handlers/catalog"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) *catalog.CatalogHandler {
	t.Helper()
	inventory := memory.NewInventoryStore()
	_, err := inventory.CreateProduct(context.Background(), &models.Product{ID: 1, Name: "Coffee", Description: "Black", Price: decimal.NewFromInt(10), AvailableStock: 5})
	require.NoError(t, err)
	return catalog.NewCatalogHandler(directory.NewService(inventory, memory.NewLedgerStore()))
}

func TestListProducts(t *testing.T) {
	h := newHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/productos", nil)
	rr := httptest.NewRecorder()

	h.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var products []api.Product
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Coffee", products[0].Nombre)
	assert.Equal(t, int64(5), products[0].Cantidad)
}

func TestGetProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/productos/1", nil)
		rr := httptest.NewRecorder()

		h.GetProduct(rr, req, 1)

		assert.Equal(t, http.StatusOK, rr.Code)
		var product api.Product
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
		assert.True(t, product.Precio.Equal(decimal.NewFromInt(10)))
	})

	t.Run("Not Found", func(t *testing.T) {
		h := newHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/productos/99", nil)
		rr := httptest.NewRecorder()

		h.GetProduct(rr, req, 99)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "ProductNotFound")
	})
}

func TestAddProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewProduct{Nombre: "Cookie", Descripcion: "Oat", Precio: decimal.RequireFromString("2.50"), Cantidad: 20})
		req := httptest.NewRequest(http.MethodPost, "/agregar-producto", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.AddProduct(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var product api.Product
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
		assert.Equal(t, int64(2), product.Id)
		assert.Equal(t, "Cookie", product.Nombre)
	})

	t.Run("Invalid Price", func(t *testing.T) {
		h := newHandler(t)

		body, _ := json.Marshal(api.NewProduct{Nombre: "Cookie", Descripcion: "Oat", Precio: decimal.Zero, Cantidad: 20})
		req := httptest.NewRequest(http.MethodPost, "/agregar-producto", bytes.NewReader(body))
		rr := httptest.NewRecorder()

		h.AddProduct(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
