package repositories

import (
	"context"
	"fmt"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
	"github.com/uptrace/bun"
)

type SettlementRepository interface {
	GetByAuctionID(ctx context.Context, auctionID string) (*models.SettlementRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*models.SettlementRecord, error)
}

type settlementRepository struct {
	db *bun.DB
}

func NewSettlementRepository(db *bun.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) GetByAuctionID(ctx context.Context, auctionID string) (*models.SettlementRecord, error) {
	record := new(models.SettlementRecord)
	err := r.db.NewSelect().
		Model(record).
		Where("auction_id = ?", auctionID).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}
	return record, nil
}

func (r *settlementRepository) ListRecent(ctx context.Context, limit int) ([]*models.SettlementRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var records []*models.SettlementRecord
	err := r.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	return records, nil
}
