package models

import (
	"time"

	"github.com/uptrace/bun"
)

type PlayerStatus string

const (
	PlayerStatusAvailable PlayerStatus = "AVAILABLE"
	PlayerStatusSold      PlayerStatus = "SOLD"

	// PlayerStatusUnsold is only ever a settlement verdict. An unsold player
	// is stored as AVAILABLE with the was_unsold flag set.
	PlayerStatusUnsold PlayerStatus = "UNSOLD"
)

// Player is a lot in the auction catalog. SerialNumber is a nullable display
// ordering, unique among non-null values; renumbering keeps it dense.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID           int64        `bun:"id,pk,autoincrement" json:"id"`
	Name         string       `bun:"name,notnull" json:"name"`
	Image        string       `bun:"image" json:"image"`
	Role         string       `bun:"role,notnull" json:"role"`
	Country      string       `bun:"country" json:"country"`
	BasePrice    int64        `bun:"base_price,notnull" json:"base_price"`
	Status       PlayerStatus `bun:"status,notnull,default:'AVAILABLE'" json:"status"`
	SoldPrice    *int64       `bun:"sold_price" json:"sold_price"`
	SoldToTeam   *int64       `bun:"sold_to_team" json:"sold_to_team"`
	WasUnsold    bool         `bun:"was_unsold,notnull,default:false" json:"was_unsold"`
	SerialNumber *int64       `bun:"serial_number" json:"serial_number"`
	CreatedAt    time.Time    `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	// Filled by joins for listings, not a column.
	TeamName string `bun:"team_name,scanonly" json:"team_name,omitempty"`
}
