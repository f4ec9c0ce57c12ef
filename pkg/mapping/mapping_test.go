package mapping

import (
	"testing"
	"time"

	"github.com/chris/wallet-kiosk/pkg/api"
	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/settlement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainPurchase(t *testing.T) {
	req := &api.PurchaseRequest{
		ClienteId: "qr-ana",
		Items: []api.PurchaseItem{
			{ProductId: 1, Cantidad: 2},
			{ProductId: 1, Cantidad: 1},
		},
	}

	got := ToDomainPurchase(req, "kiosk-1-0001")

	assert.Equal(t, "qr-ana", got.Credential)
	assert.Equal(t, "kiosk-1-0001", got.IdempotencyKey)
	assert.Equal(t, []models.PurchaseLine{{ProductID: 1, Quantity: 2}, {ProductID: 1, Quantity: 1}}, got.Lines)
}

func TestToApiPurchaseResult(t *testing.T) {
	id := uuid.New()
	res := &settlement.PurchaseResult{
		SettlementID: id.String(),
		TotalCost:    decimal.RequireFromString("27.50"),
		NewBalance:   decimal.RequireFromString("72.50"),
		Lines:        []models.PurchaseLine{{ProductID: 2, Quantity: 3}},
	}

	got := ToApiPurchaseResult(res)

	assert.Equal(t, id, got.SettlementId)
	assert.True(t, got.TotalCosto.Equal(decimal.RequireFromString("27.5")))
	assert.Equal(t, []api.PurchaseItem{{ProductId: 2, Cantidad: 3}}, got.Items)
}

func TestToApiSettlement(t *testing.T) {
	t.Run("Aborted", func(t *testing.T) {
		st := &models.Settlement{
			ID:            uuid.NewString(),
			Status:        models.ABORTED,
			Lines:         []models.SettlementLine{{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}},
			TotalCost:     decimal.NewFromInt(10),
			FailureReason: "InsufficientFunds: balance 5 is below total 10",
			CreatedAt:     time.Now(),
			UpdatedAt:     time.Now(),
		}

		got := ToApiSettlement(st)

		assert.Equal(t, api.ABORTED, got.Status)
		require.NotNil(t, got.FailureReason)
		assert.Equal(t, st.FailureReason, *got.FailureReason)
		assert.Nil(t, got.NuevoBalance)
		assert.Nil(t, got.ClienteId)
	})

	t.Run("Non UUID Id", func(t *testing.T) {
		got := ToApiSettlement(&models.Settlement{ID: "s-1", Status: models.RESERVED})
		assert.Equal(t, uuid.Nil, got.Id)
		assert.Nil(t, got.FailureReason)
	})
}

func TestToApiCustomer(t *testing.T) {
	c := &models.Customer{ID: 1710034065, Name: "Ana", Email: "ana@example.com", Phone: "0991234567", QRCredential: "qr-ana", Balance: decimal.NewFromInt(50)}

	got := ToApiCustomer(c)

	assert.Equal(t, int64(1710034065), got.Cedula)
	assert.Equal(t, "qr-ana", got.CodigoQr)
	assert.Equal(t, "0991234567", got.NumTelefono)
	assert.Equal(t, &api.Balance{Cedula: c.ID, BalanceMonedero: c.Balance}, ToApiBalance(c))
}
