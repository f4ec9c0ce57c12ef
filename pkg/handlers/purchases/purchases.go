package purchases

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/handlers/respond"
	"github.com/chris/wallet-kiosk/pkg/mapping"
	"github.com/chris/wallet-kiosk/pkg/settlement"
)

// Settler settles purchases.
type Settler interface {
	SettlePurchase(ctx context.Context, req settlement.PurchaseRequest) (*settlement.PurchaseResult, error)
}

// PurchasesHandler holds the dependencies for purchase handlers.
type PurchasesHandler struct {
	Settler Settler
}

// NewPurchasesHandler creates a new PurchasesHandler.
func NewPurchasesHandler(settler Settler) *PurchasesHandler {
	return &PurchasesHandler{Settler: settler}
}

// PurchaseProducts settles a purchase. The idempotency key may come from the
// Idempotency-Key header or the body; when both are set they must match.
func (h *PurchasesHandler) PurchaseProducts(w http.ResponseWriter, r *http.Request, params api.PurchaseProductsParams) {
	var req api.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, "invalid request body: %v", err)
		return
	}

	key, ok := IdempotencyKey(params.IdempotencyKey, req.IdempotencyKey)
	if !ok {
		respond.BadRequest(w, "Idempotency-Key header and idempotency_key differ")
		return
	}

	result, err := h.Settler.SettlePurchase(r.Context(), mapping.ToDomainPurchase(&req, key))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiPurchaseResult(result))
}

// IdempotencyKey resolves the key given in a header and a body field. It
// reports false when both are set and differ.
func IdempotencyKey(header, body *string) (string, bool) {
	switch {
	case header != nil && body != nil && *header != *body:
		return "", false
	case header != nil:
		return *header, true
	case body != nil:
		return *body, true
	default:
		return "", true
	}
}
