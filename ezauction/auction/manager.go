package auction

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/ezauction/database/repositories"
)

// Manager coordinates the auction lifecycle: loading lots, settling them,
// and every admin mutation that must stay consistent with in-flight bids.
// All mutating methods run under a single mutex shared with the BidEngine.
type Manager struct {
	mu          sync.Mutex
	stateRepo   repositories.AuctionStateRepository
	playerRepo  repositories.PlayerRepository
	teamRepo    repositories.TeamRepository
	bidRepo     repositories.BidRepository
	broadcaster *Broadcaster
}

func NewManager(
	stateRepo repositories.AuctionStateRepository,
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	bidRepo repositories.BidRepository,
	broadcaster *Broadcaster,
) *Manager {
	return &Manager{
		stateRepo:   stateRepo,
		playerRepo:  playerRepo,
		teamRepo:    teamRepo,
		bidRepo:     bidRepo,
		broadcaster: broadcaster,
	}
}

// BidEngine returns a bid engine sharing this manager's mutex, so bids and
// settlements can never interleave.
func (m *Manager) BidEngine() *BidEngine {
	return &BidEngine{
		mu:          &m.mu,
		stateRepo:   m.stateRepo,
		playerRepo:  m.playerRepo,
		teamRepo:    m.teamRepo,
		bidRepo:     m.bidRepo,
		broadcaster: m.broadcaster,
	}
}

// Broadcaster exposes the event fan-out for websocket handlers.
func (m *Manager) Broadcaster() *Broadcaster {
	return m.broadcaster
}

// State returns the current auction state row.
func (m *Manager) State(ctx context.Context) (*models.AuctionState, error) {
	return m.stateRepo.Get(ctx)
}

// SetStatus transitions the auction between STOPPED, LIVE and PAUSED.
func (m *Manager) SetStatus(ctx context.Context, status models.AuctionStatus) error {
	switch status {
	case models.AuctionStatusStopped, models.AuctionStatusLive, models.AuctionStatusPaused:
	default:
		return ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stateRepo.SetStatus(ctx, status); err != nil {
		return err
	}

	slog.Info("Auction status changed", slog.String("status", string(status)))
	m.broadcaster.Publish(EventAuctionStatusChanged, AuctionStatusChangedData{Status: status})
	return nil
}

// LoadPlayer puts a player up as the active lot, clears any stale bids on it
// and moves the auction to LIVE.
func (m *Manager) LoadPlayer(ctx context.Context, playerID int64) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, err := m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if err := m.bidRepo.DeleteForPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	if err := m.stateRepo.SetCurrentPlayer(ctx, &playerID, models.AuctionStatusLive); err != nil {
		return nil, err
	}

	slog.Info("Player loaded for auction",
		slog.Int64("player_id", playerID),
		slog.String("player_name", player.Name),
	)

	m.broadcaster.Publish(EventPlayerLoaded, PlayerLoadedData{Player: player})
	return player, nil
}

// SettleResult reports the outcome of a settlement and the lot that was
// auto-loaded afterwards, nil when the pool ran out.
type SettleResult struct {
	Player     *models.Player `json:"player"`
	NextPlayer *models.Player `json:"nextPlayer"`
}

// MarkPlayer settles the active lot as SOLD or UNSOLD. A SOLD settlement
// defaults to the highest bid but accepts price and team overrides; the
// buying team's budget is debited with the insufficient-funds guard applied
// again at settlement time. Either way the next available player is loaded
// automatically, favouring lots already passed over once.
func (m *Manager) MarkPlayer(ctx context.Context, playerID int64, status models.PlayerStatus, priceOverride, teamOverride *int64) (*SettleResult, error) {
	if status != models.PlayerStatusSold && status != models.PlayerStatusUnsold {
		return nil, ErrInvalidStatus
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.stateRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if state.CurrentPlayerID == nil || *state.CurrentPlayerID != playerID {
		return nil, ErrLotNotActive
	}

	player, err := m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if status == models.PlayerStatusSold {
		highest, err := m.bidRepo.HighestForPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		if highest == nil {
			return nil, ErrNoBids
		}
		if priceOverride != nil && *priceOverride <= 0 {
			return nil, ErrInvalidAmount
		}

		soldPrice := priceOverride
		if soldPrice == nil {
			soldPrice = &highest.Amount
		}
		soldToTeam := teamOverride
		if soldToTeam == nil {
			soldToTeam = &highest.TeamID
		}

		if err := m.teamRepo.Debit(ctx, *soldToTeam, *soldPrice); err != nil {
			return nil, err
		}
		if err := m.playerRepo.MarkSold(ctx, playerID, *soldPrice, *soldToTeam); err != nil {
			// The debit already landed; credit it back so a failed sale
			// write leaves the budget untouched.
			if cerr := m.teamRepo.Credit(ctx, *soldToTeam, *soldPrice); cerr != nil {
				slog.Error("Failed to refund after sale write error",
					slog.Int64("team_id", *soldToTeam),
					slog.Int64("amount", *soldPrice),
					slog.String("error", cerr.Error()))
			}
			return nil, err
		}

		team, err := m.teamRepo.GetByID(ctx, *soldToTeam)
		if err != nil {
			return nil, err
		}

		slog.Info("Player sold",
			slog.Int64("player_id", playerID),
			slog.Int64("team_id", *soldToTeam),
			slog.Int64("price", *soldPrice),
		)

		m.broadcaster.Publish(EventPlayerMarked, PlayerMarkedData{
			PlayerID:   playerID,
			Status:     models.PlayerStatusSold,
			SoldPrice:  soldPrice,
			SoldToTeam: soldToTeam,
		})
		m.broadcaster.Publish(EventTeamBudgetUpdated, TeamBudgetUpdatedData{
			TeamID: team.ID,
			Budget: team.Budget,
		})
	} else {
		if err := m.playerRepo.MarkAvailable(ctx, playerID, true); err != nil {
			return nil, err
		}

		slog.Info("Player passed unsold", slog.Int64("player_id", playerID))

		m.broadcaster.Publish(EventPlayerMarked, PlayerMarkedData{
			PlayerID: playerID,
			Status:   models.PlayerStatusUnsold,
		})
	}

	next, err := m.advanceLocked(ctx)
	if err != nil {
		return nil, err
	}

	player, err = m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return &SettleResult{Player: player, NextPlayer: next}, nil
}

// advanceLocked loads the next available player or stops the auction when
// the pool is exhausted. Passed-over lots come back before fresh ones.
// Callers must hold m.mu.
func (m *Manager) advanceLocked(ctx context.Context) (*models.Player, error) {
	next, err := m.playerRepo.NextAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if next == nil {
		if err := m.stateRepo.SetCurrentPlayer(ctx, nil, models.AuctionStatusStopped); err != nil {
			return nil, err
		}
		slog.Info("Player pool exhausted, auction stopped")
		m.broadcaster.Publish(EventPlayerLoaded, PlayerLoadedData{Player: nil})
		m.broadcaster.Publish(EventAuctionStatusChanged, AuctionStatusChangedData{
			Status: models.AuctionStatusStopped,
		})
		return nil, nil
	}

	if err := m.bidRepo.DeleteForPlayer(ctx, next.ID); err != nil {
		return nil, err
	}
	if err := m.stateRepo.SetCurrentPlayer(ctx, &next.ID, models.AuctionStatusLive); err != nil {
		return nil, err
	}

	slog.Info("Next player loaded",
		slog.Int64("player_id", next.ID),
		slog.String("player_name", next.Name),
		slog.Bool("was_unsold", next.WasUnsold),
	)

	m.broadcaster.Publish(EventPlayerLoaded, PlayerLoadedData{Player: next})
	return next, nil
}

// RemovePlayerFromTeam reverses a completed sale: the sale price is credited
// back to the buying team and the player rejoins the pool flagged for an
// early re-auction.
func (m *Manager) RemovePlayerFromTeam(ctx context.Context, playerID int64) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	player, err := m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.Status != models.PlayerStatusSold || player.SoldToTeam == nil || player.SoldPrice == nil {
		return nil, ErrPlayerNotSold
	}
	teamID := *player.SoldToTeam
	refund := *player.SoldPrice

	if err := m.teamRepo.Credit(ctx, teamID, refund); err != nil {
		return nil, err
	}
	if err := m.playerRepo.MarkAvailable(ctx, playerID, true); err != nil {
		return nil, err
	}

	team, err := m.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	player, err = m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	slog.Info("Player removed from team",
		slog.Int64("player_id", playerID),
		slog.Int64("team_id", teamID),
		slog.Int64("refund", refund),
	)

	m.broadcaster.Publish(EventPlayerRemovedFromTeam, PlayerRemovedFromTeamData{
		PlayerID: playerID,
		TeamID:   teamID,
		Player:   player,
	})
	m.broadcaster.Publish(EventTeamBudgetUpdated, TeamBudgetUpdatedData{
		TeamID: team.ID,
		Budget: team.Budget,
	})
	return player, nil
}

// ResetUnsoldTag clears the early-requeue flag so the player rejoins the
// pool in normal order.
func (m *Manager) ResetUnsoldTag(ctx context.Context, playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.playerRepo.ClearUnsoldTag(ctx, playerID); err != nil {
		return err
	}

	player, err := m.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		return err
	}
	m.broadcaster.Publish(EventPlayerUpdated, PlayerData{Player: player})
	return nil
}

// SetBiddingLocked toggles the global bidding lock.
func (m *Manager) SetBiddingLocked(ctx context.Context, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stateRepo.SetBiddingLocked(ctx, locked); err != nil {
		return err
	}

	slog.Info("Global bidding lock changed", slog.Bool("locked", locked))
	m.broadcaster.Publish(EventBiddingLocked, BiddingLockedData{Locked: locked})
	return nil
}

// SetIncrements updates the three configured bid increments. The smallest
// of the three is what actually raises the bid floor.
func (m *Manager) SetIncrements(ctx context.Context, inc1, inc2, inc3 int64) error {
	if inc1 <= 0 || inc2 <= 0 || inc3 <= 0 {
		return ErrInvalidIncrement
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stateRepo.SetIncrements(ctx, inc1, inc2, inc3); err != nil {
		return err
	}

	m.broadcaster.Publish(EventBidIncrementsChanged, BidIncrementsChangedData{
		Increment1: inc1,
		Increment2: inc2,
		Increment3: inc3,
	})
	return nil
}

// SetMaxPlayersPerTeam updates the roster cap used by the squad and reserve
// checks.
func (m *Manager) SetMaxPlayersPerTeam(ctx context.Context, max int) error {
	if max < 1 {
		return ErrInvalidMaxPlayers
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.stateRepo.SetMaxPlayersPerTeam(ctx, max); err != nil {
		return err
	}

	m.broadcaster.Publish(EventMaxPlayersChanged, MaxPlayersChangedData{MaxPlayersPerTeam: max})
	return nil
}

// CreatePlayer adds a player to the catalog, shifting serial numbers to make
// room when the requested slot is taken.
func (m *Manager) CreatePlayer(ctx context.Context, player *models.Player) error {
	if err := m.playerRepo.Create(ctx, player); err != nil {
		return err
	}
	m.broadcaster.Publish(EventPlayerAdded, PlayerData{Player: player})
	return nil
}

// UpdatePlayer rewrites a catalog entry, renumbering serials when the entry
// moved.
func (m *Manager) UpdatePlayer(ctx context.Context, player *models.Player) error {
	if err := m.playerRepo.Update(ctx, player); err != nil {
		return err
	}
	m.broadcaster.Publish(EventPlayerUpdated, PlayerData{Player: player})
	return nil
}

// DeletePlayer removes a player and its bid history. The active lot cannot
// be deleted, the auctioneer must settle or load another player first.
func (m *Manager) DeletePlayer(ctx context.Context, playerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, err := m.stateRepo.Get(ctx)
	if err != nil {
		return err
	}
	if state.CurrentPlayerID != nil && *state.CurrentPlayerID == playerID {
		return ErrPlayerOnAuction
	}

	if err := m.playerRepo.Delete(ctx, playerID); err != nil {
		return err
	}
	m.broadcaster.Publish(EventPlayerDeleted, PlayerDeletedData{PlayerID: playerID})
	return nil
}

// CreateTeam registers a team. A zero budget falls back to the default
// opening purse.
func (m *Manager) CreateTeam(ctx context.Context, team *models.Team) error {
	if team.Budget == 0 {
		team.Budget = models.DefaultTeamBudget
	}
	if err := m.teamRepo.Create(ctx, team); err != nil {
		return err
	}
	m.broadcaster.Publish(EventTeamAdded, TeamData{Team: team})
	return nil
}

func (m *Manager) UpdateTeam(ctx context.Context, team *models.Team) error {
	if err := m.teamRepo.Update(ctx, team); err != nil {
		return err
	}
	m.broadcaster.Publish(EventTeamUpdated, TeamData{Team: team})
	return nil
}

func (m *Manager) DeleteTeam(ctx context.Context, teamID int64) error {
	if err := m.teamRepo.Delete(ctx, teamID); err != nil {
		return err
	}
	m.broadcaster.Publish(EventTeamDeleted, TeamDeletedData{TeamID: teamID})
	return nil
}

// SetTeamBudget overrides a team's budget directly, bypassing the debit and
// credit flow. Settlement still applies the insufficient-funds guard.
func (m *Manager) SetTeamBudget(ctx context.Context, teamID int64, budget int64) error {
	if budget < 0 {
		return ErrInvalidBudget
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.teamRepo.SetBudget(ctx, teamID, budget); err != nil {
		return err
	}
	m.broadcaster.Publish(EventTeamBudgetUpdated, TeamBudgetUpdatedData{
		TeamID: teamID,
		Budget: budget,
	})
	return nil
}

// SetTeamLock toggles a single team's bidding lock.
func (m *Manager) SetTeamLock(ctx context.Context, teamID int64, locked bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.teamRepo.SetBiddingLock(ctx, teamID, locked); err != nil {
		return err
	}
	m.broadcaster.Publish(EventTeamBiddingLocked, TeamBiddingLockedData{
		TeamID: teamID,
		Locked: locked,
	})
	return nil
}
