package auction

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Kgreeven-max/monopoly/monopoly/economy/ledger"
	lru "github.com/hashicorp/golang-lru"
)

const resolveTimeout = 30 * time.Second

// Options tunes the manager's countdown windows and caches.
type Options struct {
	// InitialCountdown is the window at auction start (T0).
	InitialCountdown time.Duration
	// BidCountdown is the window the clock resets to after every accepted
	// bid (T1).
	BidCountdown time.Duration
	// RecentCacheSize bounds the cache of ended auctions kept for lookups
	// after registry eviction.
	RecentCacheSize int
}

func (o *Options) applyDefaults() {
	if o.InitialCountdown <= 0 {
		o.InitialCountdown = 30 * time.Second
	}
	if o.BidCountdown <= 0 {
		o.BidCountdown = 10 * time.Second
	}
	if o.RecentCacheSize <= 0 {
		o.RecentCacheSize = 256
	}
}

// Manager orchestrates auction start, bidding, passing, timer expiry and
// cancellation. It is the only component that mutates records, and every
// operation on a record runs under that record's exclusive section;
// operations on different records proceed in parallel.
type Manager struct {
	registry    *Registry
	ledger      ledger.Ledger
	settlement  *SettlementEngine
	broadcaster Broadcaster
	clock       Clock
	opts        Options

	recent  *lru.Cache // auction id -> Snapshot of ended auctions
	usedIDs sync.Map
}

func NewManager(registry *Registry, l ledger.Ledger, settlement *SettlementEngine, broadcaster Broadcaster, clock Clock, opts Options) *Manager {
	if registry == nil {
		panic("auction registry cannot be nil")
	}
	if l == nil {
		panic("ledger cannot be nil")
	}
	if settlement == nil {
		panic("settlement engine cannot be nil")
	}
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	if clock == nil {
		clock = SystemClock
	}
	opts.applyDefaults()

	m := &Manager{
		registry:    registry,
		ledger:      l,
		settlement:  settlement,
		broadcaster: broadcaster,
		clock:       clock,
		opts:        opts,
	}

	// An id stays reserved while its snapshot is still queryable; once the
	// cache lets the snapshot go the id returns to the pool.
	recent, err := lru.NewWithEvict(opts.RecentCacheSize, func(key, _ interface{}) {
		m.usedIDs.Delete(key)
	})
	if err != nil {
		panic(fmt.Sprintf("invalid recent cache size: %v", err))
	}
	m.recent = recent

	return m
}

// StartAuction opens an auction for a property and starts its countdown at
// T0. A minimumBid of zero selects the default for the kind: half the list
// price for standard auctions, the outstanding lien plus 10% for
// foreclosures. Foreclosure auctions exclude the foreclosed owner.
func (m *Manager) StartAuction(ctx context.Context, propertyID string, kind Kind, eligibleBidders []string, minimumBid int64) (Snapshot, error) {
	owner, err := m.ledger.GetPropertyOwner(ctx, propertyID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
	}

	switch kind {
	case KindStandard:
		if owner != "" {
			return Snapshot{}, fmt.Errorf("property %s is owned by %s: %w", propertyID, owner, ErrConflict)
		}
		if minimumBid <= 0 {
			listPrice, err := m.ledger.GetPropertyListPrice(ctx, propertyID)
			if err != nil {
				return Snapshot{}, fmt.Errorf("failed to get list price: %w", err)
			}
			minimumBid = listPrice / 2
		}
	case KindForeclosure:
		if minimumBid <= 0 {
			lien, err := m.ledger.GetLien(ctx, propertyID)
			if err != nil {
				return Snapshot{}, fmt.Errorf("failed to get lien: %w", err)
			}
			minimumBid = lien * 110 / 100
		}
	default:
		return Snapshot{}, fmt.Errorf("unknown auction kind %q", kind)
	}

	bidders := eligibleBidders
	if kind == KindForeclosure && owner != "" {
		bidders = make([]string, 0, len(eligibleBidders))
		for _, playerID := range eligibleBidders {
			if playerID != owner {
				bidders = append(bidders, playerID)
			}
		}
	}
	if len(bidders) == 0 {
		return Snapshot{}, fmt.Errorf("auction for %s has no eligible bidders", propertyID)
	}

	id, err := newAuctionID(&m.usedIDs)
	if err != nil {
		return Snapshot{}, err
	}

	rec := newRecord(id, propertyID, kind, minimumBid, bidders, m.clock.Now())
	rec.countdown = NewCountdown(m.clock, func(gen uint64) {
		m.onTimerExpire(id, gen)
	})

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := m.registry.Register(rec); err != nil {
		return Snapshot{}, err
	}
	rec.countdown.Start(m.opts.InitialCountdown)

	slog.Info("Auction started",
		slog.String("type", "auction"),
		slog.String("auction_id", id),
		slog.String("property_id", propertyID),
		slog.String("kind", string(kind)),
		slog.Int64("minimum_bid", minimumBid),
		slog.Int("eligible_bidders", len(bidders)))

	m.broadcaster.Broadcast(Event{Type: EventAuctionStarted, Payload: StartedPayload{
		AuctionID:    id,
		PropertyID:   propertyID,
		Kind:         kind,
		MinimumBid:   minimumBid,
		CountdownSec: int64(m.opts.InitialCountdown.Seconds()),
	}})

	return rec.snapshotLocked(), nil
}

// PlaceBid validates and applies a bid. An accepted bid takes the lead,
// appends to the audit history and resets the countdown to T1. A rejected
// bid changes nothing, not even the timer.
func (m *Manager) PlaceBid(ctx context.Context, auctionID, playerID string, amount int64) error {
	rec, err := m.registry.Get(auctionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := ValidateBid(rec, playerID, amount); err != nil {
		return err
	}

	rec.currentBid = amount
	rec.currentBidder = playerID
	rec.bidHistory = append(rec.bidHistory, BidEntry{
		PlayerID:  playerID,
		Amount:    amount,
		Timestamp: m.clock.Now(),
	})
	rec.countdown.Reset(m.opts.BidCountdown)

	slog.Info("Bid accepted",
		slog.String("type", "auction"),
		slog.String("auction_id", auctionID),
		slog.String("player_id", playerID),
		slog.Int64("amount", amount))

	m.broadcaster.Broadcast(Event{Type: EventAuctionBid, Payload: BidPayload{
		AuctionID:         auctionID,
		PlayerID:          playerID,
		Amount:            amount,
		CountdownResetSec: int64(m.opts.BidCountdown.Seconds()),
	}})

	return nil
}

// PassBid validates and applies a withdrawal. Once every eligible bidder
// other than the leader has passed the auction resolves immediately rather
// than waiting out a dead clock.
func (m *Manager) PassBid(ctx context.Context, auctionID, playerID string) error {
	rec, err := m.registry.Get(auctionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err := ValidatePass(rec, playerID); err != nil {
		return err
	}

	rec.passed[playerID] = struct{}{}

	slog.Info("Bidder passed",
		slog.String("type", "auction"),
		slog.String("auction_id", auctionID),
		slog.String("player_id", playerID))

	m.broadcaster.Broadcast(Event{Type: EventAuctionPass, Payload: PassPayload{
		AuctionID: auctionID,
		PlayerID:  playerID,
	}})

	if rec.allNonLeadersPassed() {
		m.resolveLocked(rec)
	}

	return nil
}

// CancelAuction is the administrative short-circuit: the countdown stops,
// no settlement runs and ownership is left unchanged.
func (m *Manager) CancelAuction(ctx context.Context, auctionID, actor string) error {
	rec, err := m.registry.Get(auctionID)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.status != StatusActive {
		return rejected(ReasonNotActive)
	}

	rec.status = StatusResolving
	rec.countdown.Cancel()
	rec.status = StatusCancelled
	rec.resolvedAt = m.clock.Now()

	slog.Warn("Auction cancelled",
		slog.String("type", "auction"),
		slog.String("auction_id", auctionID),
		slog.String("actor", actor))

	m.broadcaster.Broadcast(Event{Type: EventAuctionEnded, Payload: EndedPayload{
		AuctionID:  auctionID,
		PropertyID: rec.propertyID,
		Status:     OutcomeCancelled,
	}})

	m.evictLocked(rec)
	return nil
}

// onTimerExpire is invoked by the countdown. The generation check under the
// record lock guarantees a fire that raced a reset or cancel is dropped.
func (m *Manager) onTimerExpire(auctionID string, gen uint64) {
	rec, err := m.registry.Get(auctionID)
	if err != nil {
		return
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if !rec.countdown.Live(gen) || rec.status != StatusActive {
		return
	}

	m.resolveLocked(rec)
}

// resolveLocked transitions Active -> Resolving, settles, broadcasts the
// terminal outcome and evicts the record. Caller must hold the record lock,
// which keeps any second operation on this record out until settlement is
// done. Settlement runs on a detached context: the resolve may have been
// triggered by another player's request, and that caller disconnecting must
// not void the sale.
func (m *Manager) resolveLocked(rec *Record) {
	rec.status = StatusResolving
	rec.countdown.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
	defer cancel()
	result := m.settlement.Execute(ctx, rec)

	rec.status = StatusCompleted
	rec.resolvedAt = m.clock.Now()

	slog.Info("Auction resolved",
		slog.String("type", "auction"),
		slog.String("auction_id", rec.id),
		slog.String("status", string(result.Outcome)),
		slog.String("winner_id", result.WinnerID),
		slog.Int64("winning_bid", result.WinningBid))

	m.broadcaster.Broadcast(Event{Type: EventAuctionEnded, Payload: EndedPayload{
		AuctionID:     rec.id,
		PropertyID:    rec.propertyID,
		Status:        result.Outcome,
		WinnerID:      result.WinnerID,
		WinningBid:    result.WinningBid,
		OverbidToFund: result.OverbidToFund,
	}})

	m.evictLocked(rec)
}

// evictLocked moves a terminal record out of the live registry and into the
// recently-ended cache.
func (m *Manager) evictLocked(rec *Record) {
	m.recent.Add(rec.id, rec.snapshotLocked())
	m.registry.Remove(rec.id)
}

// GetAuction returns a snapshot of a live or recently ended auction.
func (m *Manager) GetAuction(auctionID string) (Snapshot, error) {
	if rec, err := m.registry.Get(auctionID); err == nil {
		rec.mu.Lock()
		defer rec.mu.Unlock()
		return rec.snapshotLocked(), nil
	}

	if snap, ok := m.recent.Get(auctionID); ok {
		return snap.(Snapshot), nil
	}

	return Snapshot{}, fmt.Errorf("auction %s: %w", auctionID, ErrNotFound)
}

// ListActive snapshots all currently Active auctions.
func (m *Manager) ListActive() []Snapshot {
	return m.registry.ListActive()
}

// Shutdown cancels every live countdown. In-flight auctions stay in memory
// only and are lost with the process.
func (m *Manager) Shutdown() {
	for _, snap := range m.registry.ListActive() {
		rec, err := m.registry.Get(snap.ID)
		if err != nil {
			continue
		}
		rec.mu.Lock()
		rec.countdown.Cancel()
		rec.mu.Unlock()
	}
	slog.Info("Auction manager shutdown completed")
}
