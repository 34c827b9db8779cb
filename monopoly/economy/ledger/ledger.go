// Package ledger holds the funds and ownership collaborators the auction
// engine settles against. The engine only sees the interfaces below; the
// Postgres implementation is the production one, the in-memory implementation
// backs tests and embedded use.
package ledger

import (
	"context"
	"errors"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
)

var (
	ErrUnknownPlayer     = errors.New("unknown player")
	ErrUnknownProperty   = errors.New("unknown property")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Ledger is the player-funds and property-ownership record. Reads are
// point-in-time; all writes happen inside a Settle scope.
type Ledger interface {
	GetFunds(ctx context.Context, playerID string) (int64, error)
	GetPropertyListPrice(ctx context.Context, propertyID string) (int64, error)
	GetLien(ctx context.Context, propertyID string) (int64, error)
	GetPropertyOwner(ctx context.Context, propertyID string) (string, error)

	// Settle runs fn as a single atomic unit: either every mutation fn makes
	// through the SettlementTx is applied, or none are.
	Settle(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error
}

// SettlementTx is the write surface available inside a Settle scope.
type SettlementTx interface {
	Debit(ctx context.Context, playerID string, amount int64) error
	TransferProperty(ctx context.Context, propertyID, newOwnerID string) error
	RouteToFund(ctx context.Context, amount int64, reason string) error
	RecordSettlement(ctx context.Context, record *models.SettlementRecord) error
}

// CommunityFund is the shared pool receiving overbid proceeds.
type CommunityFund interface {
	Add(ctx context.Context, amount int64, reason string) error
	Balance(ctx context.Context) (int64, error)
}
