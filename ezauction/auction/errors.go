package auction

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount        = errors.New("bid amount must be a positive value")
	ErrAuctionNotLive       = errors.New("auction is not live")
	ErrBiddingLocked        = errors.New("bidding is currently locked")
	ErrNoActiveLot          = errors.New("no player is currently up for auction")
	ErrAlreadyHighestBidder = errors.New("team already holds the highest bid")
	ErrTeamBiddingLocked    = errors.New("team is locked from bidding")
	ErrNoBidsToUndo         = errors.New("no bids to undo for this player")
	ErrNoBids               = errors.New("cannot mark sold without any bids")
	ErrPlayerNotSold        = errors.New("player is not sold to any team")
	ErrLotNotActive         = errors.New("player is not the active lot")
	ErrInvalidStatus        = errors.New("invalid status value")
	ErrPlayerOnAuction      = errors.New("player is currently up for auction")
	ErrInvalidIncrement     = errors.New("bid increments must be positive values")
	ErrInvalidMaxPlayers    = errors.New("max players per team must be at least 1")
	ErrInvalidBudget        = errors.New("budget must not be negative")
)

// MinimumBidError is returned when a bid falls below the current floor. It
// carries the floor so clients can surface the exact amount to beat.
type MinimumBidError struct {
	MinimumBid int64
}

func (e *MinimumBidError) Error() string {
	return fmt.Sprintf("bid must be at least %d", e.MinimumBid)
}

// SquadFullError is returned when a team has already filled its roster.
type SquadFullError struct {
	MaxPlayersPerTeam int
}

func (e *SquadFullError) Error() string {
	return fmt.Sprintf("team has reached the maximum of %d players", e.MaxPlayersPerTeam)
}

// MaxBidExceededError is returned when a bid would leave a team unable to
// cover the reserve held back for its remaining roster slots.
type MaxBidExceededError struct {
	MaxBidAllowed       int64
	MinimumAmountToKeep int64
	RemainingPlayers    int
}

func (e *MaxBidExceededError) Error() string {
	return fmt.Sprintf("bid exceeds the maximum allowed %d (must keep %d in reserve for %d remaining players)",
		e.MaxBidAllowed, e.MinimumAmountToKeep, e.RemainingPlayers)
}
