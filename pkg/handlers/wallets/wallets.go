package wallets

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/handlers/purchases"
	"github.com/chris/wallet-kiosk/pkg/handlers/respond"
	"github.com/chris/wallet-kiosk/pkg/mapping"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/shopspring/decimal"
)

// Customers reads and registers wallet holders.
type Customers interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	SearchCustomers(ctx context.Context, key string) ([]models.Customer, error)
	RegisterCustomer(ctx context.Context, c directory.NewCustomer) (*models.Customer, error)
}

// TopUpper credits wallets.
type TopUpper interface {
	TopUp(ctx context.Context, customerID int64, amount decimal.Decimal, idempotencyKey string) (decimal.Decimal, error)
}

// WalletsHandler holds the dependencies for customer and wallet handlers.
type WalletsHandler struct {
	Customers Customers
	TopUps    TopUpper
}

// NewWalletsHandler creates a new WalletsHandler.
func NewWalletsHandler(customers Customers, topUps TopUpper) *WalletsHandler {
	return &WalletsHandler{Customers: customers, TopUps: topUps}
}

// ListCustomers returns every registered customer.
func (h *WalletsHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Customers.ListCustomers(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCustomers(customers))
}

// GetCustomerBalance returns a customer's wallet balance.
func (h *WalletsHandler) GetCustomerBalance(w http.ResponseWriter, r *http.Request, customerId int64) {
	customer, err := h.Customers.GetCustomer(r.Context(), customerId)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiBalance(customer))
}

// SearchCustomers returns customers whose id or name contains key.
func (h *WalletsHandler) SearchCustomers(w http.ResponseWriter, r *http.Request, key string) {
	customers, err := h.Customers.SearchCustomers(r.Context(), key)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiCustomers(customers))
}

// RegisterCustomer registers a customer with an empty wallet.
func (h *WalletsHandler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var newCustomer api.NewCustomer
	if err := json.NewDecoder(r.Body).Decode(&newCustomer); err != nil {
		respond.BadRequest(w, "invalid request body: %v", err)
		return
	}

	customer, err := h.Customers.RegisterCustomer(r.Context(), mapping.ToDomainNewCustomer(&newCustomer))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiCustomer(customer))
}

// TopUpWallet credits a customer's wallet.
func (h *WalletsHandler) TopUpWallet(w http.ResponseWriter, r *http.Request, params api.TopUpWalletParams) {
	var req api.TopUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: %v", err)
		return
	}

	key, ok := purchases.IdempotencyKey(params.IdempotencyKey, req.IdempotencyKey)
	if !ok {
		respond.BadRequest(w, "Idempotency-Key header and idempotency_key differ")
		return
	}

	balance, err := h.TopUps.TopUp(r.Context(), req.ClienteId, req.Cantidad, key)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, api.TopUpResult{NuevoBalance: balance})
}
