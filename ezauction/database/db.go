package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"time"

	"log/slog"

	"github.com/ezauction/ezauction/ezauction/database/models"
	"github.com/ezauction/ezauction/ezauction/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// queryHook feeds every executed statement through the query logger.
// Missing rows are routine lookups, not failures, and stay quiet.
type queryHook struct{}

func (queryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (queryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	err := event.Err
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	logger.LogQuery(event.Query, time.Since(event.StartTime), err)
}

const (
	defaultConnTimeout   = 5 * time.Second
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
	SSLMode  string `toml:"ssl_mode"`
}

type DB struct {
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	// Fail fast when the server is unreachable instead of hanging on the
	// first query.
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))
	var conn net.Conn
	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, sslMode)

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	bunDB.AddQueryHook(queryHook{})

	if err := bunDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{bunDB: bunDB}, nil
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Close() {
	if db.bunDB != nil {
		if err := db.bunDB.Close(); err != nil {
			slog.Error("Failed to close database",
				slog.String("type", "db"),
				slog.String("error", err.Error()))
		}
	}
}

func (db *DB) Ping(ctx context.Context) error {
	return db.bunDB.PingContext(ctx)
}

// InitializeSchema creates all required tables and indexes and seeds the
// singleton auction_state row.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.Team)(nil),
		(*models.Player)(nil),
		(*models.Bid)(nil),
		(*models.AuctionState)(nil),
	}

	for _, model := range tables {
		_, err := db.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_bids_player_amount ON bids (player_id, amount DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_bids_player_timestamp ON bids (player_id, timestamp DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_players_status ON players (status)`,
		`CREATE INDEX IF NOT EXISTS idx_players_sold_to_team ON players (sold_to_team)`,
		// Not unique: the renumbering UPDATE shifts a whole range in place,
		// which a non-deferrable unique index would reject mid-statement.
		// Uniqueness is maintained by the serializable renumbering transaction.
		`CREATE INDEX IF NOT EXISTS idx_players_serial_number ON players (serial_number) WHERE serial_number IS NOT NULL`,
	}
	for _, idx := range indexes {
		if _, err := db.bunDB.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	// Seed the singleton state row; repeated startups are a no-op.
	state := &models.AuctionState{
		ID:                models.AuctionStateID,
		Status:            models.AuctionStatusStopped,
		BidIncrement1:     500,
		BidIncrement2:     1000,
		BidIncrement3:     5000,
		MaxPlayersPerTeam: 10,
		UpdatedAt:         time.Now(),
	}
	_, err := db.bunDB.NewInsert().
		Model(state).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed auction state: %w", err)
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("tables", len(tables)))
	return nil
}
