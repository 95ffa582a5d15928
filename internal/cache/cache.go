// Package cache keeps a local SQLite snapshot of the last successfully
// fetched feed and batch lists. The snapshot is read exactly once, on a cold
// start with the backend unreachable; afterwards it is write-only.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"

	"github.com/agrotrace/cropboard/internal/logger"
	"github.com/agrotrace/cropboard/migrations"
	"github.com/agrotrace/cropboard/models"
)

// Store satisfies feed.Snapshotter and batches.Snapshotter over one SQLite
// file.
type Store struct {
	db     *sql.DB
	logger *logger.Logger
}

// Open opens (creating if needed) the snapshot database at path and applies
// migrations. ":memory:" is accepted for throwaway stores.
func Open(ctx context.Context, path string, log *logger.Logger) (*Store, error) {
	if path != ":memory:" {
		if err := createLocalDBFileIfNotExists(path); err != nil {
			log.Err(err).Str("func", "Open").Msg("error creating snapshot database file")
			return nil, fmt.Errorf("create snapshot database file: %w", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping snapshot database: %w", err)
	}

	if err = migrations.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}

	log.Debug().Str("func", "Open").Str("path", path).Msg("snapshot database ready")
	return &Store{db: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB directory: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveNotifications replaces the notification snapshot with items in one
// transaction.
func (s *Store) SaveNotifications(ctx context.Context, items []models.Notification) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		statement, args, err := sq.Delete("notification_snapshot").ToSql()
		if err != nil {
			return fmt.Errorf("build delete statement: %w", err)
		}
		if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
			return fmt.Errorf("clear notification snapshot: %w", err)
		}

		for _, n := range items {
			statement, args, err = sq.
				Insert("notification_snapshot").
				Columns("id", "title", "message", "author", "created_at").
				Values(n.ID, n.Title, n.Message, n.Author, n.CreatedAt).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert statement: %w", err)
			}
			if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
				return fmt.Errorf("insert notification snapshot row: %w", err)
			}
		}

		return nil
	})
}

// LoadNotifications returns the stored notification snapshot, newest first.
func (s *Store) LoadNotifications(ctx context.Context) ([]models.Notification, error) {
	statement, args, err := sq.
		Select("id", "title", "message", "author", "created_at").
		From("notification_snapshot").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select statement: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("query notification snapshot: %w", err)
	}
	defer rows.Close()

	var items []models.Notification
	for rows.Next() {
		var n models.Notification
		if err = rows.Scan(&n.ID, &n.Title, &n.Message, &n.Author, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification snapshot row: %w", err)
		}
		items = append(items, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification snapshot: %w", err)
	}

	return items, nil
}

// SaveBatches replaces the batch snapshot with items in one transaction.
func (s *Store) SaveBatches(ctx context.Context, items []models.Batch) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		statement, args, err := sq.Delete("batch_snapshot").ToSql()
		if err != nil {
			return fmt.Errorf("build delete statement: %w", err)
		}
		if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
			return fmt.Errorf("clear batch snapshot: %w", err)
		}

		for _, b := range items {
			statement, args, err = sq.
				Insert("batch_snapshot").
				Columns("id", "crop_type", "variety", "sowing_date", "notes", "blockchain_hash", "is_finalized", "created_at").
				Values(b.ID, b.CropType, b.Variety, b.SowingDate, b.Notes, b.BlockchainHash, b.IsFinalized, b.CreatedAt).
				ToSql()
			if err != nil {
				return fmt.Errorf("build insert statement: %w", err)
			}
			if _, err = tx.ExecContext(ctx, statement, args...); err != nil {
				return fmt.Errorf("insert batch snapshot row: %w", err)
			}
		}

		return nil
	})
}

// LoadBatches returns the stored batch snapshot, newest first.
func (s *Store) LoadBatches(ctx context.Context) ([]models.Batch, error) {
	statement, args, err := sq.
		Select("id", "crop_type", "variety", "sowing_date", "notes", "blockchain_hash", "is_finalized", "created_at").
		From("batch_snapshot").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select statement: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, fmt.Errorf("query batch snapshot: %w", err)
	}
	defer rows.Close()

	var items []models.Batch
	for rows.Next() {
		var b models.Batch
		if err = rows.Scan(&b.ID, &b.CropType, &b.Variety, &b.SowingDate, &b.Notes, &b.BlockchainHash, &b.IsFinalized, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan batch snapshot row: %w", err)
		}
		items = append(items, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch snapshot: %w", err)
	}

	return items, nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Err(rbErr).Str("func", "inTx").Msg("rollback failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}

	return nil
}
