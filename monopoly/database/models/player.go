package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID      string `bun:"id,pk"`
	Name    string `bun:"name,notnull"`
	Balance int64  `bun:"balance,notnull,default:0"`

	// InGame marks players currently seated at the board; only they are
	// considered when building default bidder lists.
	InGame bool `bun:"in_game,notnull,default:true"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
