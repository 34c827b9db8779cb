package auction

// Broadcaster is the push channel for auction events. Implementations must
// not block: events are fire-and-forget and emitted while the record's
// exclusive section is held.
type Broadcaster interface {
	Broadcast(event Event)
}

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

const (
	EventAuctionStarted = "auction_started"
	EventAuctionBid     = "auction_bid"
	EventAuctionPass    = "auction_pass"
	EventAuctionEnded   = "auction_ended"
)

type StartedPayload struct {
	AuctionID    string `json:"auction_id"`
	PropertyID   string `json:"property_id"`
	Kind         Kind   `json:"kind"`
	MinimumBid   int64  `json:"minimum_bid"`
	CountdownSec int64  `json:"countdown_sec"`
}

type BidPayload struct {
	AuctionID         string `json:"auction_id"`
	PlayerID          string `json:"player_id"`
	Amount            int64  `json:"amount"`
	CountdownResetSec int64  `json:"countdown_reset_sec"`
}

type PassPayload struct {
	AuctionID string `json:"auction_id"`
	PlayerID  string `json:"player_id"`
}

type EndedPayload struct {
	AuctionID     string  `json:"auction_id"`
	PropertyID    string  `json:"property_id"`
	Status        Outcome `json:"status"`
	WinnerID      string  `json:"winner_id,omitempty"`
	WinningBid    int64   `json:"winning_bid,omitempty"`
	OverbidToFund int64   `json:"overbid_to_fund,omitempty"`
}

// NopBroadcaster drops every event. Useful when no push channel is wired.
type NopBroadcaster struct{}

func (NopBroadcaster) Broadcast(Event) {}
