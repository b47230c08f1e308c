package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Bid amounts are strictly increasing per player, so the highest bid is
// always the most recent accepted one.
type Bid struct {
	bun.BaseModel `bun:"table:bids,alias:b"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	PlayerID  int64     `bun:"player_id,notnull" json:"player_id"`
	TeamID    int64     `bun:"team_id,notnull" json:"team_id"`
	Amount    int64     `bun:"amount,notnull" json:"amount"`
	Timestamp time.Time `bun:"timestamp,notnull,default:current_timestamp" json:"timestamp"`

	TeamName string `bun:"team_name,scanonly" json:"team_name,omitempty"`
}
