package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/Kgreeven-max/monopoly/monopoly/database/models"
)

// MemoryLedger is a process-local Ledger and CommunityFund. It backs the
// engine's tests and embedded use without Postgres.
type MemoryLedger struct {
	mu          sync.Mutex
	balances    map[string]int64
	properties  map[string]*memoryProperty
	fundEntries []models.FundEntry
	settlements []models.SettlementRecord
}

type memoryProperty struct {
	listPrice int64
	ownerID   string
	lien      int64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances:   make(map[string]int64),
		properties: make(map[string]*memoryProperty),
	}
}

// AddPlayer seats a player with a starting balance.
func (l *MemoryLedger) AddPlayer(playerID string, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] = balance
}

// AddProperty registers a deed. ownerID may be empty for bank-held deeds.
func (l *MemoryLedger) AddProperty(propertyID string, listPrice int64, ownerID string, lien int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.properties[propertyID] = &memoryProperty{
		listPrice: listPrice,
		ownerID:   ownerID,
		lien:      lien,
	}
}

// SetFunds overwrites a player's balance, simulating spends that happen
// outside the auction engine.
func (l *MemoryLedger) SetFunds(playerID string, balance int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[playerID] = balance
}

func (l *MemoryLedger) GetFunds(_ context.Context, playerID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	balance, ok := l.balances[playerID]
	if !ok {
		return 0, fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	return balance, nil
}

func (l *MemoryLedger) GetPropertyListPrice(_ context.Context, propertyID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	property, ok := l.properties[propertyID]
	if !ok {
		return 0, fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
	}
	return property.listPrice, nil
}

func (l *MemoryLedger) GetLien(_ context.Context, propertyID string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	property, ok := l.properties[propertyID]
	if !ok {
		return 0, fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
	}
	return property.lien, nil
}

func (l *MemoryLedger) GetPropertyOwner(_ context.Context, propertyID string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	property, ok := l.properties[propertyID]
	if !ok {
		return "", fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
	}
	return property.ownerID, nil
}

// Settle applies fn against a staged copy of the ledger and swaps it in only
// when fn succeeds, so a failure partway leaves nothing applied.
func (l *MemoryLedger) Settle(ctx context.Context, fn func(ctx context.Context, tx SettlementTx) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	staged := &memorySettlementTx{
		balances:   make(map[string]int64, len(l.balances)),
		properties: make(map[string]*memoryProperty, len(l.properties)),
	}
	for id, balance := range l.balances {
		staged.balances[id] = balance
	}
	for id, property := range l.properties {
		clone := *property
		staged.properties[id] = &clone
	}

	if err := fn(ctx, staged); err != nil {
		return err
	}

	l.balances = staged.balances
	l.properties = staged.properties
	l.fundEntries = append(l.fundEntries, staged.fundEntries...)
	l.settlements = append(l.settlements, staged.settlements...)
	return nil
}

func (l *MemoryLedger) Add(_ context.Context, amount int64, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fundEntries = append(l.fundEntries, models.FundEntry{Amount: amount, Reason: reason})
	return nil
}

func (l *MemoryLedger) Balance(_ context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var total int64
	for _, entry := range l.fundEntries {
		total += entry.Amount
	}
	return total, nil
}

// Settlements returns the recorded settlement rows, oldest first.
func (l *MemoryLedger) Settlements() []models.SettlementRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.SettlementRecord, len(l.settlements))
	copy(out, l.settlements)
	return out
}

type memorySettlementTx struct {
	balances    map[string]int64
	properties  map[string]*memoryProperty
	fundEntries []models.FundEntry
	settlements []models.SettlementRecord
}

func (s *memorySettlementTx) Debit(_ context.Context, playerID string, amount int64) error {
	balance, ok := s.balances[playerID]
	if !ok {
		return fmt.Errorf("player %s: %w", playerID, ErrUnknownPlayer)
	}
	if balance < amount {
		return fmt.Errorf("player %s has %d, needs %d: %w",
			playerID, balance, amount, ErrInsufficientFunds)
	}
	s.balances[playerID] = balance - amount
	return nil
}

func (s *memorySettlementTx) TransferProperty(_ context.Context, propertyID, newOwnerID string) error {
	property, ok := s.properties[propertyID]
	if !ok {
		return fmt.Errorf("property %s: %w", propertyID, ErrUnknownProperty)
	}
	property.ownerID = newOwnerID
	property.lien = 0
	return nil
}

func (s *memorySettlementTx) RouteToFund(_ context.Context, amount int64, reason string) error {
	s.fundEntries = append(s.fundEntries, models.FundEntry{Amount: amount, Reason: reason})
	return nil
}

func (s *memorySettlementTx) RecordSettlement(_ context.Context, record *models.SettlementRecord) error {
	s.settlements = append(s.settlements, *record)
	return nil
}
