package catalog

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/handlers/respond"
	"github.com/chris/wallet-kiosk/pkg/mapping"
	"github.com/chris/wallet-kiosk/pkg/models"
)

// Catalog reads and extends the product catalog.
type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	AddProduct(ctx context.Context, p directory.NewProduct) (*models.Product, error)
}

// CatalogHandler holds the dependencies for catalog handlers.
type CatalogHandler struct {
	Catalog Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(c Catalog) *CatalogHandler {
	return &CatalogHandler{Catalog: c}
}

// ListProducts returns the catalog.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.ListProducts(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	apiProducts := make([]*api.Product, len(products))
	for i := range products {
		apiProducts[i] = mapping.ToApiProduct(&products[i])
	}
	respond.JSON(w, http.StatusOK, apiProducts)
}

// GetProduct returns one product.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request, productId int64) {
	product, err := h.Catalog.GetProduct(r.Context(), productId)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiProduct(product))
}

// AddProduct adds a product to the catalog.
func (h *CatalogHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var newProduct api.NewProduct
	if err := json.NewDecoder(r.Body).Decode(&newProduct); err != nil {
		respond.BadRequest(w, "invalid request body: %v", err)
		return
	}

	product, err := h.Catalog.AddProduct(r.Context(), mapping.ToDomainNewProduct(&newProduct))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiProduct(product))
}
