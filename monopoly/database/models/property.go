package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Property struct {
	bun.BaseModel `bun:"table:properties,alias:pr"`

	ID        string `bun:"id,pk"`
	Name      string `bun:"name,notnull"`
	ListPrice int64  `bun:"list_price,notnull"`

	// OwnerID is empty while the bank holds the deed.
	OwnerID string `bun:"owner_id"`

	// Lien is the outstanding secured debt against the property; a
	// foreclosure auction's minimum bid is derived from it.
	Lien int64 `bun:"lien,notnull,default:0"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
