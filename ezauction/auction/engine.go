package auction

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/ezauction/database/repositories"
)

// ReservePerSlot is the amount a team must keep in reserve for every roster
// slot it has yet to fill. A bid may never dip the wallet below this floor.
const ReservePerSlot int64 = 1000

// BidEngine validates and records bids against the active lot. All bid
// mutations run under the mutex shared with the Manager, so bid placement,
// undo and settlement are serialized with each other.
type BidEngine struct {
	mu          *sync.Mutex
	stateRepo   repositories.AuctionStateRepository
	playerRepo  repositories.PlayerRepository
	teamRepo    repositories.TeamRepository
	bidRepo     repositories.BidRepository
	broadcaster *Broadcaster
}

// BidResult reports the outcome of an accepted bid along with the bidding
// team's wallet position after the bid.
type BidResult struct {
	Bid             *models.Bid `json:"bid"`
	WalletBalance   int64       `json:"walletBalance"`
	TotalBudget     int64       `json:"totalBudget"`
	CommittedAmount int64       `json:"committedAmount"`
}

// PlaceBid validates a bid from teamID against the active lot and records it
// when every constraint passes. Checks run in a fixed order so the most
// fundamental failure is always the one reported.
func (e *BidEngine) PlaceBid(ctx context.Context, teamID int64, amount int64) (*BidResult, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.Status != models.AuctionStatusLive {
		return nil, ErrAuctionNotLive
	}
	if state.BiddingLocked {
		return nil, ErrBiddingLocked
	}
	if state.CurrentPlayerID == nil {
		return nil, ErrNoActiveLot
	}
	playerID := *state.CurrentPlayerID

	player, err := e.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	highest, err := e.bidRepo.HighestForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	minimumBid := player.BasePrice
	if highest != nil {
		minimumBid = highest.Amount + state.MinIncrement()
	}
	if amount < minimumBid {
		return nil, &MinimumBidError{MinimumBid: minimumBid}
	}

	if highest != nil && highest.TeamID == teamID {
		return nil, ErrAlreadyHighestBidder
	}

	team, err := e.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.BiddingLocked {
		return nil, ErrTeamBiddingLocked
	}

	bought, err := e.playerRepo.CountSoldTo(ctx, teamID)
	if err != nil {
		return nil, err
	}
	remaining := state.MaxPlayersPerTeam - bought
	if remaining <= 0 {
		return nil, &SquadFullError{MaxPlayersPerTeam: state.MaxPlayersPerTeam}
	}

	minimumToKeep := int64(remaining) * ReservePerSlot
	maxBidAllowed := team.Budget - minimumToKeep
	if maxBidAllowed < 0 {
		maxBidAllowed = 0
	}
	if amount > maxBidAllowed {
		return nil, &MaxBidExceededError{
			MaxBidAllowed:       maxBidAllowed,
			MinimumAmountToKeep: minimumToKeep,
			RemainingPlayers:    remaining,
		}
	}

	bid := &models.Bid{
		PlayerID: playerID,
		TeamID:   teamID,
		Amount:   amount,
	}
	if err := e.bidRepo.Create(ctx, bid); err != nil {
		return nil, err
	}
	bid.TeamName = team.Name

	previousBid := player.BasePrice
	if highest != nil {
		previousBid = highest.Amount
	}

	slog.Info("Bid placed",
		slog.Int64("player_id", playerID),
		slog.Int64("team_id", teamID),
		slog.Int64("amount", amount),
		slog.Int64("previous_bid", previousBid),
	)

	e.broadcaster.Publish(EventBidPlaced, BidPlacedData{
		Bid:         bid,
		PlayerID:    playerID,
		PreviousBid: previousBid,
	})

	return &BidResult{
		Bid:             bid,
		WalletBalance:   team.Budget - amount,
		TotalBudget:     team.Budget,
		CommittedAmount: amount,
	}, nil
}

// UndoLastBid removes the most recently placed bid on the active lot and
// returns the bid that became highest afterwards, or nil when none remain.
func (e *BidEngine) UndoLastBid(ctx context.Context) (*models.Bid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentPlayerID == nil {
		return nil, ErrNoActiveLot
	}
	playerID := *state.CurrentPlayerID

	latest, err := e.bidRepo.LatestForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNoBidsToUndo
	}

	if err := e.bidRepo.Delete(ctx, latest.ID); err != nil {
		return nil, err
	}

	highest, err := e.bidRepo.HighestForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}

	slog.Info("Bid undone",
		slog.Int64("player_id", playerID),
		slog.Int64("removed_bid_id", latest.ID),
		slog.Int64("removed_amount", latest.Amount),
	)

	e.broadcaster.Publish(EventBidUpdated, BidUpdatedData{
		HighestBid: highest,
		PlayerID:   playerID,
	})

	return highest, nil
}

// ResetBidding clears every bid on the active lot, returning it to a clean
// base-price state without changing the lot itself.
func (e *BidEngine) ResetBidding(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.stateRepo.Get(ctx)
	if err != nil {
		return err
	}
	if state.CurrentPlayerID == nil {
		return ErrNoActiveLot
	}
	playerID := *state.CurrentPlayerID

	if err := e.bidRepo.DeleteForPlayer(ctx, playerID); err != nil {
		return err
	}

	slog.Info("Bidding reset", slog.Int64("player_id", playerID))

	e.broadcaster.Publish(EventBiddingReset, BiddingResetData{PlayerID: playerID})
	return nil
}
