package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FundEntry is one contribution to the community fund. The fund balance is
// the sum of entries; keeping individual rows preserves the audit trail.
type FundEntry struct {
	bun.BaseModel `bun:"table:fund_entries,alias:fe"`

	ID     int64  `bun:"id,pk,autoincrement"`
	Amount int64  `bun:"amount,notnull"`
	Reason string `bun:"reason,notnull"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
