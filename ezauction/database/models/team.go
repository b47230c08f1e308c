package models

import (
	"time"

	"github.com/uptrace/bun"
)

// DefaultTeamBudget is the opening purse for a team created without an
// explicit budget.
const DefaultTeamBudget int64 = 1_000_000

type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID            int64     `bun:"id,pk,autoincrement" json:"id"`
	Name          string    `bun:"name,notnull,unique" json:"name"`
	OwnerName     string    `bun:"owner_name" json:"owner_name"`
	Logo          string    `bun:"logo" json:"logo"`
	Budget        int64     `bun:"budget,notnull,default:1000000" json:"budget"`
	BiddingLocked bool      `bun:"bidding_locked,notnull,default:false" json:"bidding_locked"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
