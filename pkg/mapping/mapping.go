package mapping

import (
	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/directory"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/settlement"
	"github.com/google/uuid"
)

// ToApiProduct converts a domain Product model to an API Product model.
func ToApiProduct(p *models.Product) *api.Product {
	return &api.Product{
		Id:          p.ID,
		Nombre:      p.Name,
		Descripcion: p.Description,
		Precio:      p.Price,
		Cantidad:    p.AvailableStock,
	}
}

// ToDomainNewProduct converts an API NewProduct model to a catalog addition.
func ToDomainNewProduct(p *api.NewProduct) directory.NewProduct {
	return directory.NewProduct{
		Name:        p.Nombre,
		Description: p.Descripcion,
		Price:       p.Precio,
		Stock:       p.Cantidad,
	}
}

// ToApiCustomer converts a domain Customer model to an API Customer model.
func ToApiCustomer(c *models.Customer) *api.Customer {
	return &api.Customer{
		Cedula:          c.ID,
		Nombre:          c.Name,
		Email:           c.Email,
		NumTelefono:     c.Phone,
		CodigoQr:        c.QRCredential,
		BalanceMonedero: c.Balance,
	}
}

// ToApiCustomers converts a slice of domain customers.
func ToApiCustomers(customers []models.Customer) []*api.Customer {
	out := make([]*api.Customer, len(customers))
	for i := range customers {
		out[i] = ToApiCustomer(&customers[i])
	}
	return out
}

// ToApiBalance converts a domain Customer model to its wallet balance.
func ToApiBalance(c *models.Customer) *api.Balance {
	return &api.Balance{Cedula: c.ID, BalanceMonedero: c.Balance}
}

// ToDomainNewCustomer converts an API NewCustomer model to a registration.
func ToDomainNewCustomer(c *api.NewCustomer) directory.NewCustomer {
	return directory.NewCustomer{
		ID:    c.Cedula,
		Name:  c.Nombre,
		Email: c.Email,
		Phone: c.NumTelefono,
	}
}

// ToDomainPurchase converts an API PurchaseRequest to a settlement request.
func ToDomainPurchase(req *api.PurchaseRequest, idempotencyKey string) settlement.PurchaseRequest {
	lines := make([]models.PurchaseLine, len(req.Items))
	for i, item := range req.Items {
		lines[i] = models.PurchaseLine{ProductID: item.ProductId, Quantity: item.Cantidad}
	}
	return settlement.PurchaseRequest{
		Lines:          lines,
		Credential:     req.ClienteId,
		IdempotencyKey: idempotencyKey,
	}
}

// ToApiPurchaseResult converts a settled purchase to an API PurchaseResult.
func ToApiPurchaseResult(res *settlement.PurchaseResult) *api.PurchaseResult {
	items := make([]api.PurchaseItem, len(res.Lines))
	for i, l := range res.Lines {
		items[i] = api.PurchaseItem{ProductId: l.ProductID, Cantidad: l.Quantity}
	}
	return &api.PurchaseResult{
		SettlementId: parseID(res.SettlementID),
		Items:        items,
		TotalCosto:   res.TotalCost,
		NuevoBalance: res.NewBalance,
	}
}

// ToApiSettlement converts a persisted settlement intent to an API Settlement.
func ToApiSettlement(st *models.Settlement) *api.Settlement {
	items := make([]api.SettlementLine, len(st.Lines))
	for i, l := range st.Lines {
		items[i] = api.SettlementLine{ProductId: l.ProductID, Cantidad: l.Quantity, PrecioUnitario: l.UnitPrice}
	}
	out := &api.Settlement{
		Id:           parseID(st.ID),
		Status:       api.SettlementStatus(st.Status),
		ClienteId:    st.CustomerID,
		Items:        items,
		TotalCosto:   st.TotalCost,
		NuevoBalance: st.NewBalance,
		CreatedAt:    st.CreatedAt,
		UpdatedAt:    st.UpdatedAt,
	}
	if st.FailureReason != "" {
		reason := st.FailureReason
		out.FailureReason = &reason
	}
	return out
}

// parseID returns uuid.Nil for ids that are not UUIDs.
func parseID(id string) uuid.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
