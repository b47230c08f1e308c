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

type BidRepository interface {
	Create(ctx context.Context, bid *models.Bid) error
	HighestForPlayer(ctx context.Context, playerID int64) (*models.Bid, error)
	LatestForPlayer(ctx context.Context, playerID int64) (*models.Bid, error)
	ListForPlayer(ctx context.Context, playerID int64) ([]*models.Bid, error)
	Delete(ctx context.Context, id int64) error
	DeleteForPlayer(ctx context.Context, playerID int64) error
}

type bidRepository struct {
	db *bun.DB
}

func NewBidRepository(db *bun.DB) BidRepository {
	return &bidRepository{db: db}
}

func (r *bidRepository) Create(ctx context.Context, bid *models.Bid) error {
	if bid.Timestamp.IsZero() {
		bid.Timestamp = time.Now()
	}
	_, err := r.db.NewInsert().Model(bid).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create bid: %w", err)
	}
	return nil
}

// HighestForPlayer returns the bid with the greatest amount for the lot, with
// the bidding team's name joined in, or (nil, nil) when no bids exist.
func (r *bidRepository) HighestForPlayer(ctx context.Context, playerID int64) (*models.Bid, error) {
	bid := new(models.Bid)
	err := r.db.NewSelect().
		Model(bid).
		ColumnExpr("b.*").
		ColumnExpr("t.name AS team_name").
		Join("JOIN teams AS t ON b.team_id = t.id").
		Where("b.player_id = ?", playerID).
		Order("b.amount DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get highest bid: %w", err)
	}
	return bid, nil
}

// LatestForPlayer returns the most recently placed bid for the lot, the one
// an undo removes, or (nil, nil) when no bids exist.
func (r *bidRepository) LatestForPlayer(ctx context.Context, playerID int64) (*models.Bid, error) {
	bid := new(models.Bid)
	err := r.db.NewSelect().
		Model(bid).
		Where("player_id = ?", playerID).
		Order("timestamp DESC", "id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest bid: %w", err)
	}
	return bid, nil
}

func (r *bidRepository) ListForPlayer(ctx context.Context, playerID int64) ([]*models.Bid, error) {
	var bids []*models.Bid
	err := r.db.NewSelect().
		Model(&bids).
		ColumnExpr("b.*").
		ColumnExpr("t.name AS team_name").
		Join("JOIN teams AS t ON b.team_id = t.id").
		Where("b.player_id = ?", playerID).
		Order("b.amount DESC", "b.timestamp DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	return bids, nil
}

func (r *bidRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Bid)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete bid: %w", err)
	}
	return nil
}

func (r *bidRepository) DeleteForPlayer(ctx context.Context, playerID int64) error {
	_, err := r.db.NewDelete().
		Model((*models.Bid)(nil)).
		Where("player_id = ?", playerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete player bids: %w", err)
	}
	return nil
}
