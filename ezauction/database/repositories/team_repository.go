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

var (
	ErrTeamNotFound       = errors.New("team not found")
	ErrInsufficientBudget = errors.New("team does not have enough budget")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	GetAll(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int64) error
	Debit(ctx context.Context, id int64, amount int64) error
	Credit(ctx context.Context, id int64, amount int64) error
	SetBudget(ctx context.Context, id int64, budget int64) error
	SetBiddingLock(ctx context.Context, id int64, locked bool) error
}

type teamRepository struct {
	db *bun.DB
}

func NewTeamRepository(db *bun.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) Create(ctx context.Context, team *models.Team) error {
	team.CreatedAt = time.Now()
	_, err := r.db.NewInsert().Model(team).Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*models.Team, error) {
	team := new(models.Team)
	err := r.db.NewSelect().
		Model(team).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *teamRepository) GetAll(ctx context.Context) ([]*models.Team, error) {
	var teams []*models.Team
	err := r.db.NewSelect().
		Model(&teams).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get teams: %w", err)
	}
	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, team *models.Team) error {
	res, err := r.db.NewUpdate().
		Model(team).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*models.Team)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// Debit subtracts amount from the team's budget. The budget guard lives in
// the WHERE clause so a concurrent settlement can never drive it negative.
func (r *teamRepository) Debit(ctx context.Context, id int64, amount int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Team)(nil)).
		Set("budget = budget - ?", amount).
		Where("id = ? AND budget >= ?", id, amount).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to debit team budget: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish the missing team from the guard rejecting the debit.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrInsufficientBudget
	}
	return nil
}

func (r *teamRepository) Credit(ctx context.Context, id int64, amount int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Team)(nil)).
		Set("budget = budget + ?", amount).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to credit team budget: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) SetBudget(ctx context.Context, id int64, budget int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Team)(nil)).
		Set("budget = ?", budget).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set team budget: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) SetBiddingLock(ctx context.Context, id int64, locked bool) error {
	res, err := r.db.NewUpdate().
		Model((*models.Team)(nil)).
		Set("bidding_locked = ?", locked).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set team bidding lock: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrTeamNotFound
	}
	return nil
}
