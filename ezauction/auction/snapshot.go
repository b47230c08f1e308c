package auction

import (
	"context"

	"github.com/ezauction/ezauction/ezauction/database/models"
)

// PoolStats summarizes catalog progress for spectator displays.
type PoolStats struct {
	SoldPlayers      int `json:"soldPlayers"`
	AvailablePlayers int `json:"availablePlayers"`
}

// Snapshot is the full spectator view of the auction at one instant. New
// websocket clients fetch it once and then follow events.
type Snapshot struct {
	State         *models.AuctionState `json:"state"`
	CurrentPlayer *models.Player       `json:"currentPlayer"`
	HighestBid    *models.Bid          `json:"highestBid"`
	CurrentBid    int64                `json:"currentBid"`
	MinimumBid    int64                `json:"minimumBid"`
	Bids          []*models.Bid        `json:"bids"`
	Stats         PoolStats            `json:"stats"`
}

// OwnerSnapshot extends the spectator view with one team's wallet position
// against the active lot, mirroring the bid engine's reserve math.
type OwnerSnapshot struct {
	Snapshot

	Team                *models.Team     `json:"team"`
	Squad               []*models.Player `json:"squad"`
	PlayersBought       int              `json:"playersBought"`
	IsHighestBidder     bool             `json:"isHighestBidder"`
	CommittedAmount     int64            `json:"committedAmount"`
	WalletBalance       int64            `json:"walletBalance"`
	RemainingPlayers    int              `json:"remainingPlayers"`
	MinimumAmountToKeep int64            `json:"minimumAmountToKeep"`
	MaxBidAllowed       int64            `json:"maxBidAllowed"`
}

// Snapshot assembles the spectator view under the auction lock so the state,
// lot and bid list are mutually consistent.
func (m *Manager) Snapshot(ctx context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked(ctx)
}

func (m *Manager) snapshotLocked(ctx context.Context) (*Snapshot, error) {
	state, err := m.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{State: state, Bids: []*models.Bid{}}

	if state.CurrentPlayerID != nil {
		player, err := m.playerRepo.GetByID(ctx, *state.CurrentPlayerID)
		if err != nil {
			return nil, err
		}
		snap.CurrentPlayer = player

		highest, err := m.bidRepo.HighestForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}
		snap.HighestBid = highest

		snap.CurrentBid = player.BasePrice
		snap.MinimumBid = player.BasePrice
		if highest != nil {
			snap.CurrentBid = highest.Amount
			snap.MinimumBid = highest.Amount + state.MinIncrement()
		}

		bids, err := m.bidRepo.ListForPlayer(ctx, player.ID)
		if err != nil {
			return nil, err
		}
		snap.Bids = bids
	}

	sold, available, err := m.playerRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	snap.Stats = PoolStats{SoldPlayers: sold, AvailablePlayers: available}

	return snap, nil
}

// OwnerSnapshot assembles the bidding view for one team, including the
// reserve-adjusted cap the engine would apply to its next bid.
func (m *Manager) OwnerSnapshot(ctx context.Context, teamID int64) (*OwnerSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	base, err := m.snapshotLocked(ctx)
	if err != nil {
		return nil, err
	}

	team, err := m.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}

	squad, err := m.playerRepo.SquadFor(ctx, teamID)
	if err != nil {
		return nil, err
	}

	remaining := base.State.MaxPlayersPerTeam - len(squad)
	if remaining < 0 {
		remaining = 0
	}
	keep := int64(remaining) * ReservePerSlot
	maxBid := team.Budget - keep
	if maxBid < 0 {
		maxBid = 0
	}

	// Only a team's own leading bid is committed money.
	isHighest := base.HighestBid != nil && base.HighestBid.TeamID == teamID
	var committed int64
	if isHighest {
		committed = base.HighestBid.Amount
	}

	return &OwnerSnapshot{
		Snapshot:            *base,
		Team:                team,
		Squad:               squad,
		PlayersBought:       len(squad),
		IsHighestBidder:     isHighest,
		CommittedAmount:     committed,
		WalletBalance:       team.Budget - committed,
		RemainingPlayers:    remaining,
		MinimumAmountToKeep: keep,
		MaxBidAllowed:       maxBid,
	}, nil
}
