package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
)

// ErrBackupUnsupported is returned when the driver connection does not expose
// SQLite's online backup API.
var ErrBackupUnsupported = errors.New("driver connection does not support online backup")

// DB wraps the sql.DB for connection management
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// New creates a new DB connection
func New(ctx context.Context, dsn string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return &DB{conn: conn, logger: logger}, nil
}

// DSN builds a file URI for the database at path. A read-only DSN never
// creates the file.
func DSN(path string, readOnly bool, busyTimeout time.Duration) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	q := url.Values{}
	if readOnly {
		q.Set("mode", "ro")
	}
	if busyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", busyTimeout.Milliseconds()))
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs), RawQuery: q.Encode()}
	return u.String(), nil
}

// Close closes the DB connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Exec executes a query
func (db *DB) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return db.conn.ExecContext(ctx, query, args...)
}

// QueryRow executes a query that is expected to return at most one row
func (db *DB) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return db.conn.QueryRowContext(ctx, query, args...)
}

// GetConn returns the underlying sql.DB
func (db *DB) GetConn() *sql.DB {
	return db.conn
}

// BackupOptions controls how pages are copied by Backup.
type BackupOptions struct {
	// StepPages is the number of pages copied per step; zero or negative
	// copies the whole database in a single step.
	StepPages int
	// StepDelay is the pause between two steps.
	StepDelay time.Duration
}

type backuper interface {
	NewBackup(dstURI string) (*sqlite.Backup, error)
}

// Backup copies the main database into the database addressed by dstDSN
// using SQLite's online backup API and returns the number of steps taken.
// The context is checked between steps only; a running step is not interrupted.
func (db *DB) Backup(ctx context.Context, dstDSN string, opts BackupOptions) (int, error) {
	n := int32(opts.StepPages)
	if n <= 0 {
		n = -1
	}

	c, err := db.conn.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("acquire conn: %w", err)
	}
	defer c.Close()

	steps := 0
	err = c.Raw(func(driverConn any) error {
		b, ok := driverConn.(backuper)
		if !ok {
			return ErrBackupUnsupported
		}
		bk, err := b.NewBackup(dstDSN)
		if err != nil {
			return fmt.Errorf("init backup: %w", err)
		}

		for more := true; more; {
			if err := ctx.Err(); err != nil {
				_ = bk.Finish()
				return err
			}
			more, err = bk.Step(n)
			steps++
			if err != nil {
				_ = bk.Finish()
				return fmt.Errorf("backup step %d: %w", steps, err)
			}
			db.logger.Debug("backup step", slog.Int("step", steps), slog.Bool("more", more))
			if more && opts.StepDelay > 0 {
				if err := sleep(ctx, opts.StepDelay); err != nil {
					_ = bk.Finish()
					return err
				}
			}
		}

		if err := bk.Finish(); err != nil {
			return fmt.Errorf("finish backup: %w", err)
		}
		return nil
	})
	return steps, err
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
