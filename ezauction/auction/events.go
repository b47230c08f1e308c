package auction

import "github.com/ezauction/ezauction/ezauction/database/models"

// EventName identifies a broadcast event. Names are part of the wire contract
// with connected dashboards.
type EventName string

const (
	EventPlayerLoaded          EventName = "player-loaded"
	EventBidPlaced             EventName = "bid-placed"
	EventBidUpdated            EventName = "bid-updated"
	EventBiddingReset          EventName = "bidding-reset"
	EventPlayerMarked          EventName = "player-marked"
	EventPlayerAdded           EventName = "player-added"
	EventPlayerUpdated         EventName = "player-updated"
	EventPlayerDeleted         EventName = "player-deleted"
	EventPlayerRemovedFromTeam EventName = "player-removed-from-team"
	EventTeamAdded             EventName = "team-added"
	EventTeamUpdated           EventName = "team-updated"
	EventTeamDeleted           EventName = "team-deleted"
	EventTeamBudgetUpdated     EventName = "team-budget-updated"
	EventTeamBiddingLocked     EventName = "team-bidding-locked"
	EventBiddingLocked         EventName = "bidding-locked"
	EventAuctionStatusChanged  EventName = "auction-status-changed"
	EventBidIncrementsChanged  EventName = "bid-increments-changed"
	EventMaxPlayersChanged     EventName = "max-players-changed"
)

type Event struct {
	Name EventName `json:"event"`
	Data any       `json:"data"`
}

// PlayerLoadedData carries the full player payload so reconnecting clients
// can render the lot without a follow-up fetch. Player is nil when the pool
// is exhausted and the auction stopped.
type PlayerLoadedData struct {
	Player *models.Player `json:"player"`
}

// BidPlacedData includes the previous highest amount (base price for a first
// bid) so displays can compute the bid delta without racing each other.
type BidPlacedData struct {
	Bid         *models.Bid `json:"bid"`
	PlayerID    int64       `json:"playerId"`
	PreviousBid int64       `json:"previousBid"`
}

type BidUpdatedData struct {
	HighestBid *models.Bid `json:"highestBid"`
	PlayerID   int64       `json:"playerId"`
}

type BiddingResetData struct {
	PlayerID int64 `json:"playerId"`
}

type PlayerMarkedData struct {
	PlayerID   int64               `json:"playerId"`
	Status     models.PlayerStatus `json:"status"`
	SoldPrice  *int64              `json:"soldPrice"`
	SoldToTeam *int64              `json:"soldToTeam"`
}

type PlayerData struct {
	Player *models.Player `json:"player"`
}

type PlayerDeletedData struct {
	PlayerID int64 `json:"playerId"`
}

type PlayerRemovedFromTeamData struct {
	PlayerID int64          `json:"playerId"`
	TeamID   int64          `json:"teamId"`
	Player   *models.Player `json:"player"`
}

type TeamData struct {
	Team *models.Team `json:"team"`
}

type TeamDeletedData struct {
	TeamID int64 `json:"teamId"`
}

type TeamBudgetUpdatedData struct {
	TeamID int64 `json:"teamId"`
	Budget int64 `json:"budget"`
}

type TeamBiddingLockedData struct {
	TeamID int64 `json:"teamId"`
	Locked bool  `json:"locked"`
}

type BiddingLockedData struct {
	Locked bool `json:"locked"`
}

type AuctionStatusChangedData struct {
	Status models.AuctionStatus `json:"status"`
}

type BidIncrementsChangedData struct {
	Increment1 int64 `json:"increment1"`
	Increment2 int64 `json:"increment2"`
	Increment3 int64 `json:"increment3"`
}

type MaxPlayersChangedData struct {
	MaxPlayersPerTeam int `json:"maxPlayersPerTeam"`
}
