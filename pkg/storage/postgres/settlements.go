package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/chris/wallet-kiosk/pkg/models"
	"github.com/chris/wallet-kiosk/pkg/storage"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const stuckBatchSize = 100

var openStatuses = []models.SettlementStatus{models.RESERVED, models.PARTIAL}

// ReserveStock locks the referenced products in ID order, prices and checks
// every line against that snapshot, applies the conditional decrements and
// inserts the intent. Any failure rolls the whole transaction back.
func (s *Store) ReserveStock(ctx context.Context, settlement *models.Settlement) error {
	quantities := sumQuantities(settlement.Lines)
	ids := sortedIDs(quantities)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products []models.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
			return fmt.Errorf("failed to lock products: %w", err)
		}
		byID := make(map[int64]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		staged := make(map[int64]int64, len(ids))
		lines := make([]models.SettlementLine, len(settlement.Lines))
		total := decimal.Zero
		for i, line := range settlement.Lines {
			p, ok := byID[line.ProductID]
			if !ok {
				return fmt.Errorf("product %d: %w", line.ProductID, storage.ErrNotFound)
			}
			if staged[line.ProductID]+line.Quantity > p.AvailableStock {
				return fmt.Errorf("product %d: %w", line.ProductID, storage.ErrInsufficientStock)
			}
			staged[line.ProductID] += line.Quantity
			lines[i] = models.SettlementLine{ProductID: line.ProductID, Quantity: line.Quantity, UnitPrice: p.Price}
			total = total.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		now := time.Now()
		for _, id := range ids {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND available_stock >= ?", id, staged[id]).
				UpdateColumns(map[string]any{
					"available_stock": gorm.Expr("available_stock - ?", staged[id]),
					"updated_at":      now,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to decrement stock of product %d: %w", id, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %d: %w", id, storage.ErrInsufficientStock)
			}
		}

		settlement.Lines = lines
		settlement.TotalCost = total
		settlement.Status = models.RESERVED
		if err := tx.Create(settlement).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return storage.ErrDuplicateSettlement
			}
			return fmt.Errorf("failed to insert settlement intent: %w", err)
		}
		return nil
	})
}

// ReleaseStock re-increments the lines of an open settlement and marks it ABORTED.
func (s *Store) ReleaseStock(ctx context.Context, settlementID, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var settlement models.Settlement
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", settlementID).First(&settlement).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrNotFound)
			}
			return fmt.Errorf("failed to lock settlement: %w", err)
		}

		switch settlement.Status {
		case models.ABORTED:
			return nil
		case models.COMPLETED:
			return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementClosed)
		}

		quantities := sumQuantities(settlement.Lines)
		now := time.Now()
		for _, id := range sortedIDs(quantities) {
			err := tx.Model(&models.Product{}).Where("id = ?", id).
				UpdateColumns(map[string]any{
					"available_stock": gorm.Expr("available_stock + ?", quantities[id]),
					"updated_at":      now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to restore stock of product %d: %w", id, err)
			}
		}

		err := tx.Model(&settlement).Updates(map[string]any{
			"status":         models.ABORTED,
			"failure_reason": reason,
		}).Error
		if err != nil {
			return fmt.Errorf("failed to mark settlement aborted: %w", err)
		}

		s.logger.Info("settlement stock released",
			zap.String("settlement_id", settlementID),
			zap.String("reason", reason),
		)
		return nil
	})
}

// CompleteSettlement moves an open settlement to COMPLETED.
func (s *Store) CompleteSettlement(ctx context.Context, settlementID string, customerID int64, newBalance decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&models.Settlement{}).
		Where("id = ? AND status IN ?", settlementID, openStatuses).
		Updates(map[string]any{
			"status":         models.COMPLETED,
			"customer_id":    customerID,
			"new_balance":    newBalance,
			"failure_reason": "",
		})
	if res.Error != nil {
		return fmt.Errorf("failed to mark settlement completed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.notOpen(ctx, settlementID)
	}
	return nil
}

// FlagSettlement moves a RESERVED settlement to PARTIAL.
func (s *Store) FlagSettlement(ctx context.Context, settlementID string, customerID *int64, reason string) error {
	res := s.db.WithContext(ctx).Model(&models.Settlement{}).
		Where("id = ? AND status = ?", settlementID, models.RESERVED).
		Updates(map[string]any{
			"status":         models.PARTIAL,
			"customer_id":    customerID,
			"failure_reason": reason,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to flag settlement: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return s.notOpen(ctx, settlementID)
	}
	return nil
}

// GetSettlement retrieves a settlement by its ID.
func (s *Store) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	return s.findSettlement(ctx, "id = ?", settlementID)
}

// GetSettlementByIdempotencyKey retrieves the settlement created with key.
func (s *Store) GetSettlementByIdempotencyKey(ctx context.Context, key string) (*models.Settlement, error) {
	return s.findSettlement(ctx, "idempotency_key = ?", key)
}

// ListStuckSettlements retrieves the oldest open settlements not updated within maxAge.
func (s *Store) ListStuckSettlements(ctx context.Context, maxAge time.Duration) ([]models.Settlement, error) {
	var settlements []models.Settlement
	err := s.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?", openStatuses, time.Now().Add(-maxAge)).
		Order("created_at").
		Limit(stuckBatchSize).
		Find(&settlements).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query stuck settlements: %w", err)
	}
	return settlements, nil
}

func (s *Store) findSettlement(ctx context.Context, query string, arg any) (*models.Settlement, error) {
	var settlement models.Settlement
	if err := s.db.WithContext(ctx).Where(query, arg).First(&settlement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("settlement %v: %w", arg, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get settlement from Postgres: %w", err)
	}
	return &settlement, nil
}

// notOpen explains why a conditional status update matched no row.
func (s *Store) notOpen(ctx context.Context, settlementID string) error {
	if _, err := s.GetSettlement(ctx, settlementID); err != nil {
		return err
	}
	return fmt.Errorf("settlement %s: %w", settlementID, storage.ErrSettlementClosed)
}

func sumQuantities(lines []models.SettlementLine) map[int64]int64 {
	quantities := make(map[int64]int64, len(lines))
	for _, line := range lines {
		quantities[line.ProductID] += line.Quantity
	}
	return quantities
}

func sortedIDs(quantities map[int64]int64) []int64 {
	ids := make([]int64, 0, len(quantities))
	for id := range quantities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
