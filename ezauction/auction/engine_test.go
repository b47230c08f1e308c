package auction

import (
	"context"
	"testing"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func putOnAuction(store *memStore, p *models.Player) {
	store.state.Status = models.AuctionStatusLive
	store.state.CurrentPlayerID = &p.ID
}

func TestPlaceBid_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		_, engine, _ := newTestManager()
		_, err := engine.PlaceBid(ctx, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
		_, err = engine.PlaceBid(ctx, 1, -500)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("rejects when the auction is not live", func(t *testing.T) {
		_, engine, store := newTestManager()
		store.addTeam("Strikers", 100000)
		_, err := engine.PlaceBid(ctx, 1, 1000)
		assert.ErrorIs(t, err, ErrAuctionNotLive)

		store.state.Status = models.AuctionStatusPaused
		_, err = engine.PlaceBid(ctx, 1, 1000)
		assert.ErrorIs(t, err, ErrAuctionNotLive)
	})

	t.Run("global lock beats every other check", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		team.BiddingLocked = true
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)
		store.state.BiddingLocked = true

		_, err := engine.PlaceBid(ctx, team.ID, 1000)
		assert.ErrorIs(t, err, ErrBiddingLocked)
	})

	t.Run("rejects when no lot is active", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		store.state.Status = models.AuctionStatusLive

		_, err := engine.PlaceBid(ctx, team.ID, 1000)
		assert.ErrorIs(t, err, ErrNoActiveLot)
	})

	t.Run("team lock applies after the bid floor", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		team.BiddingLocked = true
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		// Below the floor, the floor error wins even though the team is locked.
		_, err := engine.PlaceBid(ctx, team.ID, 500)
		var minErr *MinimumBidError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, int64(1000), minErr.MinimumBid)

		_, err = engine.PlaceBid(ctx, team.ID, 1000)
		assert.ErrorIs(t, err, ErrTeamBiddingLocked)
	})
}

func TestPlaceBid_Floor(t *testing.T) {
	ctx := context.Background()

	t.Run("first bid must reach the base price", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		_, err := engine.PlaceBid(ctx, team.ID, 999)
		var minErr *MinimumBidError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, int64(1000), minErr.MinimumBid)

		res, err := engine.PlaceBid(ctx, team.ID, 1000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), res.Bid.Amount)
		assert.Equal(t, team.ID, res.Bid.TeamID)
	})

	t.Run("later bids must clear highest plus the smallest increment", func(t *testing.T) {
		_, engine, store := newTestManager()
		a := store.addTeam("Strikers", 100000)
		b := store.addTeam("Blasters", 100000)
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		_, err := engine.PlaceBid(ctx, a.ID, 1000)
		require.NoError(t, err)

		// Floor is 1000 + min(500, 1000, 5000) = 1500.
		_, err = engine.PlaceBid(ctx, b.ID, 1400)
		var minErr *MinimumBidError
		require.ErrorAs(t, err, &minErr)
		assert.Equal(t, int64(1500), minErr.MinimumBid)

		res, err := engine.PlaceBid(ctx, b.ID, 1500)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), res.Bid.Amount)
	})

	t.Run("highest bidder cannot raise itself", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		_, err := engine.PlaceBid(ctx, team.ID, 1000)
		require.NoError(t, err)

		_, err = engine.PlaceBid(ctx, team.ID, 2000)
		assert.ErrorIs(t, err, ErrAlreadyHighestBidder)
	})
}

func TestPlaceBid_WalletConstraints(t *testing.T) {
	ctx := context.Background()

	t.Run("full squad cannot bid", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 100000)
		store.state.MaxPlayersPerTeam = 2
		for i := 0; i < 2; i++ {
			p := store.addPlayer("Squad", 1000)
			p.Status = models.PlayerStatusSold
			price := int64(1000)
			p.SoldPrice = &price
			p.SoldToTeam = &team.ID
		}
		lot := store.addPlayer("Kohli", 1000)
		putOnAuction(store, lot)

		_, err := engine.PlaceBid(ctx, team.ID, 1000)
		var fullErr *SquadFullError
		require.ErrorAs(t, err, &fullErr)
		assert.Equal(t, 2, fullErr.MaxPlayersPerTeam)
	})

	t.Run("bid cannot eat the reserve for unfilled slots", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 5000)
		store.state.MaxPlayersPerTeam = 1
		lot := store.addPlayer("Kohli", 1000)
		putOnAuction(store, lot)

		// One open slot keeps 1000 in reserve, capping the bid at 4000.
		_, err := engine.PlaceBid(ctx, team.ID, 4500)
		var capErr *MaxBidExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, int64(4000), capErr.MaxBidAllowed)
		assert.Equal(t, int64(1000), capErr.MinimumAmountToKeep)
		assert.Equal(t, 1, capErr.RemainingPlayers)

		res, err := engine.PlaceBid(ctx, team.ID, 4000)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), res.WalletBalance)
		assert.Equal(t, int64(5000), res.TotalBudget)
		assert.Equal(t, int64(4000), res.CommittedAmount)
	})

	t.Run("cap never goes negative", func(t *testing.T) {
		_, engine, store := newTestManager()
		team := store.addTeam("Strikers", 500)
		store.state.MaxPlayersPerTeam = 1
		lot := store.addPlayer("Kohli", 100)
		putOnAuction(store, lot)

		_, err := engine.PlaceBid(ctx, team.ID, 100)
		var capErr *MaxBidExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, int64(0), capErr.MaxBidAllowed)
	})
}

func TestPlaceBid_BroadcastsPreviousBid(t *testing.T) {
	ctx := context.Background()
	mgr, engine, store := newTestManager()
	a := store.addTeam("Strikers", 100000)
	b := store.addTeam("Blasters", 100000)
	player := store.addPlayer("Kohli", 1000)
	putOnAuction(store, player)

	_, events := mgr.Broadcaster().Subscribe()

	_, err := engine.PlaceBid(ctx, a.ID, 1000)
	require.NoError(t, err)
	_, err = engine.PlaceBid(ctx, b.ID, 1500)
	require.NoError(t, err)

	evt := <-events
	require.Equal(t, EventBidPlaced, evt.Name)
	data := evt.Data.(BidPlacedData)
	assert.Equal(t, player.BasePrice, data.PreviousBid)

	evt = <-events
	data = evt.Data.(BidPlacedData)
	assert.Equal(t, int64(1000), data.PreviousBid)
	assert.Equal(t, int64(1500), data.Bid.Amount)
}

func TestUndoLastBid(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the latest bid and restores the previous highest", func(t *testing.T) {
		_, engine, store := newTestManager()
		a := store.addTeam("Strikers", 100000)
		b := store.addTeam("Blasters", 100000)
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		_, err := engine.PlaceBid(ctx, a.ID, 1000)
		require.NoError(t, err)
		_, err = engine.PlaceBid(ctx, b.ID, 1500)
		require.NoError(t, err)

		highest, err := engine.UndoLastBid(ctx)
		require.NoError(t, err)
		require.NotNil(t, highest)
		assert.Equal(t, int64(1000), highest.Amount)
		assert.Equal(t, a.ID, highest.TeamID)

		// Team A can now be outbid again at the original floor.
		_, err = engine.PlaceBid(ctx, b.ID, 1500)
		require.NoError(t, err)
	})

	t.Run("undoing the only bid leaves no highest", func(t *testing.T) {
		_, engine, store := newTestManager()
		a := store.addTeam("Strikers", 100000)
		player := store.addPlayer("Kohli", 1000)
		putOnAuction(store, player)

		_, err := engine.PlaceBid(ctx, a.ID, 1000)
		require.NoError(t, err)

		highest, err := engine.UndoLastBid(ctx)
		require.NoError(t, err)
		assert.Nil(t, highest)

		_, err = engine.UndoLastBid(ctx)
		assert.ErrorIs(t, err, ErrNoBidsToUndo)
	})

	t.Run("requires an active lot", func(t *testing.T) {
		_, engine, _ := newTestManager()
		_, err := engine.UndoLastBid(ctx)
		assert.ErrorIs(t, err, ErrNoActiveLot)
	})
}

func TestResetBidding(t *testing.T) {
	ctx := context.Background()
	_, engine, store := newTestManager()
	a := store.addTeam("Strikers", 100000)
	b := store.addTeam("Blasters", 100000)
	player := store.addPlayer("Kohli", 1000)
	putOnAuction(store, player)

	_, err := engine.PlaceBid(ctx, a.ID, 1000)
	require.NoError(t, err)
	_, err = engine.PlaceBid(ctx, b.ID, 1500)
	require.NoError(t, err)

	require.NoError(t, engine.ResetBidding(ctx))
	assert.Empty(t, store.bids)

	// Bidding restarts from the base price.
	res, err := engine.PlaceBid(ctx, a.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), res.Bid.Amount)
}
