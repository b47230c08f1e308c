package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/uptrace/bun"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository interface {
	Create(ctx context.Context, player *models.Player) error
	GetByID(ctx context.Context, id int64) (*models.Player, error)
	GetAll(ctx context.Context) ([]*models.Player, error)
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, id int64) error
	GetByStatus(ctx context.Context, status models.PlayerStatus, soldToTeam *int64) ([]*models.Player, error)
	SoldHistory(ctx context.Context) ([]*models.Player, error)
	CountSoldTo(ctx context.Context, teamID int64) (int, error)
	CountByStatus(ctx context.Context) (sold int, available int, err error)
	NextAvailable(ctx context.Context) (*models.Player, error)
	MarkSold(ctx context.Context, id int64, price int64, teamID int64) error
	MarkAvailable(ctx context.Context, id int64, wasUnsold bool) error
	ClearUnsoldTag(ctx context.Context, id int64) error
	SquadFor(ctx context.Context, teamID int64) ([]*models.Player, error)
}

type playerRepository struct {
	db *bun.DB
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	return &playerRepository{db: db}
}

// Create inserts a player, shifting existing serial numbers up by one when
// the requested serial is already taken. The shift and the insert run in one
// transaction so concurrent catalog edits cannot interleave.
func (r *playerRepository) Create(ctx context.Context, player *models.Player) error {
	player.CreatedAt = time.Now()
	if player.Status == "" {
		player.Status = models.PlayerStatusAvailable
	}

	return r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		if player.SerialNumber != nil {
			occupied, err := serialOccupied(ctx, tx, *player.SerialNumber, 0)
			if err != nil {
				return err
			}
			if shift, ok := ComputeSerialShift(nil, player.SerialNumber, occupied); ok {
				if err := applySerialShift(ctx, tx, shift, 0); err != nil {
					return err
				}
			}
		}

		if _, err := tx.NewInsert().Model(player).Exec(ctx); err != nil {
			return fmt.Errorf("failed to create player: %w", err)
		}
		return nil
	})
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (*models.Player, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return player, nil
}

func (r *playerRepository) GetAll(ctx context.Context) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		ColumnExpr("p.*").
		ColumnExpr("t.name AS team_name").
		Join("LEFT JOIN teams AS t ON p.sold_to_team = t.id").
		OrderExpr("p.serial_number ASC NULLS LAST, p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	return players, nil
}

// Update writes the full player row. When the serial number changes, the
// affected interval is renumbered first, inside the same transaction.
func (r *playerRepository) Update(ctx context.Context, player *models.Player) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(ctx context.Context, tx bun.Tx) error {
		var current models.Player
		err := tx.NewSelect().
			Model(&current).
			Column("serial_number").
			Where("id = ?", player.ID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to get player: %w", err)
		}

		occupied := false
		if player.SerialNumber != nil {
			occupied, err = serialOccupied(ctx, tx, *player.SerialNumber, player.ID)
			if err != nil {
				return err
			}
		}
		if shift, ok := ComputeSerialShift(current.SerialNumber, player.SerialNumber, occupied); ok {
			if err := applySerialShift(ctx, tx, shift, player.ID); err != nil {
				return err
			}
		}

		res, err := tx.NewUpdate().
			Model(player).
			WherePK().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to update player: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrPlayerNotFound
		}
		return nil
	})
}

// Delete removes a player and its bid log in one transaction. The caller is
// responsible for rejecting a delete of the active lot.
func (r *playerRepository) Delete(ctx context.Context, id int64) error {
	return r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*models.Bid)(nil)).
			Where("player_id = ?", id).
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to delete player bids: %w", err)
		}

		res, err := tx.NewDelete().
			Model((*models.Player)(nil)).
			Where("id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete player: %w", err)
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			return ErrPlayerNotFound
		}
		return nil
	})
}

func (r *playerRepository) GetByStatus(ctx context.Context, status models.PlayerStatus, soldToTeam *int64) ([]*models.Player, error) {
	var players []*models.Player
	q := r.db.NewSelect().
		Model(&players).
		ColumnExpr("p.*").
		ColumnExpr("t.name AS team_name").
		Join("LEFT JOIN teams AS t ON p.sold_to_team = t.id").
		Where("p.status = ?", status)
	if soldToTeam != nil {
		q = q.Where("p.sold_to_team = ?", *soldToTeam)
	}
	err := q.OrderExpr("p.serial_number ASC NULLS LAST, p.id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get players by status: %w", err)
	}
	return players, nil
}

func (r *playerRepository) SoldHistory(ctx context.Context) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		ColumnExpr("p.*").
		ColumnExpr("t.name AS team_name").
		Join("LEFT JOIN teams AS t ON p.sold_to_team = t.id").
		Where("p.status = ?", models.PlayerStatusSold).
		Order("p.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get sold history: %w", err)
	}
	return players, nil
}

func (r *playerRepository) CountSoldTo(ctx context.Context, teamID int64) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.Player)(nil)).
		Where("sold_to_team = ? AND status = ?", teamID, models.PlayerStatusSold).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count sold players: %w", err)
	}
	return count, nil
}

func (r *playerRepository) CountByStatus(ctx context.Context) (int, int, error) {
	sold, err := r.db.NewSelect().
		Model((*models.Player)(nil)).
		Where("status = ?", models.PlayerStatusSold).
		Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count sold players: %w", err)
	}
	available, err := r.db.NewSelect().
		Model((*models.Player)(nil)).
		Where("status = ?", models.PlayerStatusAvailable).
		Count(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count available players: %w", err)
	}
	return sold, available, nil
}

// NextAvailable returns the next lot to offer: previously unsold players
// first, then by insertion order. Returns (nil, nil) when the pool is empty.
func (r *playerRepository) NextAvailable(ctx context.Context) (*models.Player, error) {
	player := new(models.Player)
	err := r.db.NewSelect().
		Model(player).
		Where("status = ?", models.PlayerStatusAvailable).
		Order("was_unsold DESC", "id ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next available player: %w", err)
	}
	return player, nil
}

func (r *playerRepository) MarkSold(ctx context.Context, id int64, price int64, teamID int64) error {
	res, err := r.db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("status = ?", models.PlayerStatusSold).
		Set("sold_price = ?", price).
		Set("sold_to_team = ?", teamID).
		Set("was_unsold = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark player sold: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrPlayerNotFound
	}
	slog.Debug("Player marked sold",
		slog.String("type", "db"),
		slog.Int64("player_id", id),
		slog.Int64("price", price),
		slog.Int64("team_id", teamID))
	return nil
}

func (r *playerRepository) MarkAvailable(ctx context.Context, id int64, wasUnsold bool) error {
	res, err := r.db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("status = ?", models.PlayerStatusAvailable).
		Set("sold_price = NULL").
		Set("sold_to_team = NULL").
		Set("was_unsold = ?", wasUnsold).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark player available: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *playerRepository) ClearUnsoldTag(ctx context.Context, id int64) error {
	_, err := r.db.NewUpdate().
		Model((*models.Player)(nil)).
		Set("was_unsold = ?", false).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear unsold tag: %w", err)
	}
	return nil
}

func (r *playerRepository) SquadFor(ctx context.Context, teamID int64) ([]*models.Player, error) {
	var players []*models.Player
	err := r.db.NewSelect().
		Model(&players).
		Where("status = ? AND sold_to_team = ?", models.PlayerStatusSold, teamID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get team squad: %w", err)
	}
	return players, nil
}

func serialOccupied(ctx context.Context, tx bun.Tx, serial int64, excludeID int64) (bool, error) {
	exists, err := tx.NewSelect().
		Model((*models.Player)(nil)).
		Where("serial_number = ? AND id != ?", serial, excludeID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check serial number: %w", err)
	}
	return exists, nil
}

func applySerialShift(ctx context.Context, tx bun.Tx, shift SerialShift, excludeID int64) error {
	q := tx.NewUpdate().
		Model((*models.Player)(nil)).
		Set("serial_number = serial_number + ?", shift.Delta).
		Where("serial_number >= ? AND id != ?", shift.MinSerial, excludeID)
	if shift.Bounded {
		q = q.Where("serial_number <= ?", shift.MaxSerial)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to renumber serials: %w", err)
	}
	return nil
}
