package settlements

import (
	"context"
	"errors"
	"net/http"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/errs"
	"github.com/chris/wallet-kiosk/pkg/handlers/respond"
	"github.com/chris/wallet-kiosk/pkg/mapping"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// SettlementReader reads persisted settlement intents.
type SettlementReader interface {
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)
}

// SettlementsHandler holds the dependencies for settlement handlers.
type SettlementsHandler struct {
	Store SettlementReader
}

// NewSettlementsHandler creates a new SettlementsHandler.
func NewSettlementsHandler(store SettlementReader) *SettlementsHandler {
	return &SettlementsHandler{Store: store}
}

// GetSettlement returns the intent of a purchase, including its failure
// reason once aborted.
func (h *SettlementsHandler) GetSettlement(w http.ResponseWriter, r *http.Request, settlementId openapi_types.UUID) {
	st, err := h.Store.GetSettlement(r.Context(), settlementId.String())
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respond.JSON(w, http.StatusNotFound, api.Error{Message: "settlement not found", Error: "NotFound"})
		return
	case err != nil:
		respond.Error(w, errs.New(errs.KindStoreUnavailable, "failed to read settlement", err))
		return
	}

	respond.JSON(w, http.StatusOK, mapping.ToApiSettlement(st))
}
