package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AuctionStatus string

const (
	AuctionStatusStopped AuctionStatus = "STOPPED"
	AuctionStatusLive    AuctionStatus = "LIVE"
	AuctionStatusPaused  AuctionStatus = "PAUSED"
)

// AuctionStateID is the primary key of the singleton auction_state row.
const AuctionStateID = 1

// AuctionState is a singleton (id = 1) coordinating the whole auction:
// lifecycle status, the active lot, the global bid lock (checked before any
// per-team lock), the increment schedule and the squad-size cap.
type AuctionState struct {
	bun.BaseModel `bun:"table:auction_state,alias:s"`

	ID                int64         `bun:"id,pk" json:"id"`
	Status            AuctionStatus `bun:"status,notnull,default:'STOPPED'" json:"status"`
	CurrentPlayerID   *int64        `bun:"current_player_id" json:"current_player_id"`
	BiddingLocked     bool          `bun:"bidding_locked,notnull,default:false" json:"bidding_locked"`
	BidIncrement1     int64         `bun:"bid_increment_1,notnull,default:500" json:"bid_increment_1"`
	BidIncrement2     int64         `bun:"bid_increment_2,notnull,default:1000" json:"bid_increment_2"`
	BidIncrement3     int64         `bun:"bid_increment_3,notnull,default:5000" json:"bid_increment_3"`
	MaxPlayersPerTeam int           `bun:"max_players_per_team,notnull,default:10" json:"max_players_per_team"`
	UpdatedAt         time.Time     `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// MinIncrement returns the floor applied on top of the current highest bid.
func (s *AuctionState) MinIncrement() int64 {
	m := s.BidIncrement1
	if s.BidIncrement2 < m {
		m = s.BidIncrement2
	}
	if s.BidIncrement3 < m {
		m = s.BidIncrement3
	}
	return m
}
