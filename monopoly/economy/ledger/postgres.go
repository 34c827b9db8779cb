package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
	"github.com/uptrace/bun"
)

const settleTimeout = 30 * time.Second

// PostgresLedger implements Ledger and CommunityFund on top of bun.
type PostgresLedger struct {
	db *bun.DB
}

func NewPostgresLedger(db *bun.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) GetFunds(ctx context.Context, playerID string) (int64, error) {
	var player models.Player
	err := l.db.NewSelect().
		Model(&player).
		Column("balance").
		Where("id = ?", playerID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
		}
		return 0, fmt.Errorf("failed to get funds: %w", err)
	}
	return player.Balance, nil
}

func (l *PostgresLedger) GetPropertyListPrice(ctx context.Context, propertyID string) (int64, error) {
	property, err := l.getProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return property.ListPrice, nil
}

func (l *PostgresLedger) GetLien(ctx context.Context, propertyID string) (int64, error) {
	property, err := l.getProperty(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	return property.Lien, nil
}

func (l *PostgresLedger) GetPropertyOwner(ctx context.Context, propertyID string) (string, error) {
	property, err := l.getProperty(ctx, propertyID)
	if err != nil {
		return "", err
	}
	return property.OwnerID, nil
}

func (l *PostgresLedger) getProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	property := new(models.Property)
	err := l.db.NewSelect().
		Model(property).
		Where("id = ?", propertyID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	return property, nil
}

// Settle executes fn inside a serializable transaction. The defer'd rollback
// is a no-op once the transaction commits.
func (l *PostgresLedger) Settle(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	tx, err := l.db.BeginTx(timeoutCtx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, &pgSettlementTx{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Add(ctx context.Context, amount int64, reason string) error {
	_, err := l.db.NewInsert().
		Model(&models.FundEntry{
			Amount:    amount,
			Reason:    reason,
			CreatedAt: time.Now(),
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to add fund entry: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Balance(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := l.db.NewSelect().
		Model((*models.FundEntry)(nil)).
		ColumnExpr("SUM(amount)").
		Scan(ctx, &total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum fund entries: %w", err)
	}
	return total.Int64, nil
}

type pgSettlementTx struct {
	tx bun.Tx
}

func (s *pgSettlementTx) Debit(ctx context.Context, playerID string, amount int64) error {
	// Lock the row first so the balance check and the update see the same
	// value even under concurrent spends.
	var player models.Player
	err := s.tx.NewSelect().
		Model(&player).
		Where("id = ?", playerID).
		For("UPDATE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
		}
		return fmt.Errorf("failed to lock player: %w", err)
	}

	if player.Balance < amount {
		return fmt.Errorf("player %s has %d, needs %d: %w",
			playerID, player.Balance, amount, ErrInsufficientFunds)
	}

	_, err = s.tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("balance = balance - ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit player: %w", err)
	}
	return nil
}

func (s *pgSettlementTx) TransferProperty(ctx context.Context, propertyID, newOwnerID string) error {
	result, err := s.tx.NewUpdate().
		Model((*models.Property)(nil)).
		Set("owner_id = ?", newOwnerID).
		Set("lien = 0").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", propertyID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to transfer property: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil || affected == 0 {
		return fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
	}
	return nil
}

func (s *pgSettlementTx) RouteToFund(ctx context.Context, amount int64, reason string) error {
	_, err := s.tx.NewInsert().
		Model(&models.FundEntry{
			Amount:    amount,
			Reason:    reason,
			CreatedAt: time.Now(),
		}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to route to fund: %w", err)
	}
	return nil
}

func (s *pgSettlementTx) RecordSettlement(ctx context.Context, record *models.SettlementRecord) error {
	record.CreatedAt = time.Now()
	_, err := s.tx.NewInsert().
		Model(record).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to record settlement: %w", err)
	}
	return nil
}
