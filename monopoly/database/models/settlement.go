package models

import (
	"time"

	"github.com/uptrace/bun"
)

// SettlementRecord is the durable audit row written inside the settlement
// transaction of every auction that reaches a terminal outcome.
type SettlementRecord struct {
	bun.BaseModel `bun:"table:settlements,alias:s"`

	ID         int64  `bun:"id,pk,autoincrement"`
	AuctionID  string `bun:"auction_id,notnull"`
	PropertyID string `bun:"property_id,notnull"`
	Outcome    string `bun:"outcome,notnull"`

	WinnerID      string `bun:"winner_id"`
	WinningBid    int64  `bun:"winning_bid"`
	OverbidToFund int64  `bun:"overbid_to_fund"`
	BidCount      int    `bun:"bid_count"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
