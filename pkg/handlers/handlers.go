package handlers

import (
	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/handlers/catalog"
	"github.com/chris/wallet-kiosk/pkg/handlers/purchases"
	"github.com/chris/wallet-kiosk/pkg/handlers/settlements"
	"github.com/chris/wallet-kiosk/pkg/handlers/wallets"
)

// ApiHandler implements the generated server interface by composing the
// handlers of each resource.
type ApiHandler struct {
	*purchases.PurchasesHandler
	*catalog.CatalogHandler
	*wallets.WalletsHandler
	*settlements.SettlementsHandler
}

// NewApiHandler creates a new ApiHandler.
func NewApiHandler(
	settler purchases.Settler,
	catalogSvc catalog.Catalog,
	customers wallets.Customers,
	topUps wallets.TopUpper,
	settlementStore settlements.SettlementReader,
) *ApiHandler {
	return &ApiHandler{
		PurchasesHandler:   purchases.NewPurchasesHandler(settler),
		CatalogHandler:     catalog.NewCatalogHandler(catalogSvc),
		WalletsHandler:     wallets.NewWalletsHandler(customers, topUps),
		SettlementsHandler: settlements.NewSettlementsHandler(settlementStore),
	}
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)
