package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/uptrace/bun"
)

type AuctionStateRepository interface {
	Get(ctx context.Context) (*models.AuctionState, error)
	SetStatus(ctx context.Context, status models.AuctionStatus) error
	SetCurrentPlayer(ctx context.Context, playerID *int64, status models.AuctionStatus) error
	SetBiddingLocked(ctx context.Context, locked bool) error
	SetIncrements(ctx context.Context, inc1, inc2, inc3 int64) error
	SetMaxPlayersPerTeam(ctx context.Context, max int) error
}

type auctionStateRepository struct {
	db *bun.DB
}

func NewAuctionStateRepository(db *bun.DB) AuctionStateRepository {
	return &auctionStateRepository{db: db}
}

// Get returns the singleton state row, creating it with defaults when a fresh
// database has not been seeded yet.
func (r *auctionStateRepository) Get(ctx context.Context) (*models.AuctionState, error) {
	state := new(models.AuctionState)
	err := r.db.NewSelect().
		Model(state).
		Where("id = ?", models.AuctionStateID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			state = &models.AuctionState{
				ID:                models.AuctionStateID,
				Status:            models.AuctionStatusStopped,
				BidIncrement1:     500,
				BidIncrement2:     1000,
				BidIncrement3:     5000,
				MaxPlayersPerTeam: 10,
				UpdatedAt:         time.Now(),
			}
			if _, err := r.db.NewInsert().
				Model(state).
				On("CONFLICT (id) DO NOTHING").
				Exec(ctx); err != nil {
				return nil, fmt.Errorf("failed to initialize auction state: %w", err)
			}
			return state, nil
		}
		return nil, fmt.Errorf("failed to get auction state: %w", err)
	}
	return state, nil
}

func (r *auctionStateRepository) SetStatus(ctx context.Context, status models.AuctionStatus) error {
	_, err := r.db.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.AuctionStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set auction status: %w", err)
	}
	return nil
}

func (r *auctionStateRepository) SetCurrentPlayer(ctx context.Context, playerID *int64, status models.AuctionStatus) error {
	_, err := r.db.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("current_player_id = ?", playerID).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.AuctionStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set current player: %w", err)
	}
	return nil
}

func (r *auctionStateRepository) SetBiddingLocked(ctx context.Context, locked bool) error {
	_, err := r.db.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("bidding_locked = ?", locked).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.AuctionStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set bidding lock: %w", err)
	}
	return nil
}

func (r *auctionStateRepository) SetIncrements(ctx context.Context, inc1, inc2, inc3 int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("bid_increment_1 = ?", inc1).
		Set("bid_increment_2 = ?", inc2).
		Set("bid_increment_3 = ?", inc3).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.AuctionStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set bid increments: %w", err)
	}
	return nil
}

func (r *auctionStateRepository) SetMaxPlayersPerTeam(ctx context.Context, max int) error {
	_, err := r.db.NewUpdate().
		Model((*models.AuctionState)(nil)).
		Set("max_players_per_team = ?", max).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", models.AuctionStateID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set max players per team: %w", err)
	}
	return nil
}
