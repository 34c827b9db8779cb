package auction

import (
	"sync"
	"time"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusResolving Status = "resolving"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Kind string

const (
	KindStandard    Kind = "standard"
	KindForeclosure Kind = "foreclosure"
)

// BidEntry is one accepted bid, kept for audit only.
type BidEntry struct {
	PlayerID  string    `json:"player_id"`
	Amount    int64     `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Record is the state of one auction. All mutable fields are guarded by mu;
// only the Manager mutates them, one operation at a time per record.
type Record struct {
	mu sync.Mutex

	id         string
	propertyID string
	kind       Kind
	minimumBid int64

	eligible map[string]struct{}
	passed   map[string]struct{}

	currentBid    int64
	currentBidder string
	bidHistory    []BidEntry

	status     Status
	createdAt  time.Time
	resolvedAt time.Time

	countdown *Countdown
}

func newRecord(id, propertyID string, kind Kind, minimumBid int64, eligibleBidders []string, now time.Time) *Record {
	eligible := make(map[string]struct{}, len(eligibleBidders))
	for _, playerID := range eligibleBidders {
		eligible[playerID] = struct{}{}
	}
	return &Record{
		id:         id,
		propertyID: propertyID,
		kind:       kind,
		minimumBid: minimumBid,
		eligible:   eligible,
		passed:     make(map[string]struct{}),
		status:     StatusActive,
		createdAt:  now,
	}
}

// allNonLeadersPassed reports whether every eligible bidder other than the
// current leader has withdrawn. With no leader it means everyone passed.
// Caller must hold mu.
func (r *Record) allNonLeadersPassed() bool {
	for playerID := range r.eligible {
		if playerID == r.currentBidder {
			continue
		}
		if _, ok := r.passed[playerID]; !ok {
			return false
		}
	}
	return true
}

// Snapshot is an immutable copy of a record, safe to hand to callers.
type Snapshot struct {
	ID            string     `json:"id"`
	PropertyID    string     `json:"property_id"`
	Kind          Kind       `json:"kind"`
	MinimumBid    int64      `json:"minimum_bid"`
	Eligible      []string   `json:"eligible_bidders"`
	Passed        []string   `json:"passed_bidders"`
	CurrentBid    int64      `json:"current_bid"`
	CurrentBidder string     `json:"current_bidder,omitempty"`
	BidHistory    []BidEntry `json:"bid_history"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// snapshotLocked copies the record. Caller must hold mu.
func (r *Record) snapshotLocked() Snapshot {
	snap := Snapshot{
		ID:            r.id,
		PropertyID:    r.propertyID,
		Kind:          r.kind,
		MinimumBid:    r.minimumBid,
		Eligible:      make([]string, 0, len(r.eligible)),
		Passed:        make([]string, 0, len(r.passed)),
		CurrentBid:    r.currentBid,
		CurrentBidder: r.currentBidder,
		BidHistory:    make([]BidEntry, len(r.bidHistory)),
		Status:        r.status,
		CreatedAt:     r.createdAt,
	}
	for playerID := range r.eligible {
		snap.Eligible = append(snap.Eligible, playerID)
	}
	for playerID := range r.passed {
		snap.Passed = append(snap.Passed, playerID)
	}
	copy(snap.BidHistory, r.bidHistory)
	if !r.resolvedAt.IsZero() {
		resolved := r.resolvedAt
		snap.ResolvedAt = &resolved
	}
	return snap
}
