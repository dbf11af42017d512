package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/garnizeh/sqlite3backup/internal/config"
	"github.com/garnizeh/sqlite3backup/internal/db"
	"github.com/garnizeh/sqlite3backup/pkg/engine"
)

// ErrForeignHandle is returned by Copy for handles not produced by this engine.
var ErrForeignHandle = errors.New("handle was not opened by the sqlite engine")

// Engine implements engine.Engine on top of modernc.org/sqlite.
type Engine struct {
	cfg    config.EngineConfig
	logger *slog.Logger
}

var _ engine.Engine = (*Engine)(nil)

func New(cfg config.EngineConfig, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{cfg: cfg, logger: logger}
}

type handle struct {
	path string
	dsn  string
	db   *db.DB
}

func (h *handle) Path() string { return h.path }

func (h *handle) Close() error { return h.db.Close() }

// Open opens an existing database read-only and reads its schema, so a file
// that is not a SQLite database fails here rather than mid-copy.
func (e *Engine) Open(ctx context.Context, path string) (engine.Handle, error) {
	h, err := e.open(ctx, path, true)
	if err != nil {
		return nil, err
	}

	var tables int
	if err := h.db.QueryRow(ctx, `SELECT COUNT(1) FROM sqlite_master`).Scan(&tables); err != nil {
		_ = h.db.Close()
		return nil, fmt.Errorf("read schema of %s: %w", path, err)
	}
	e.logger.Debug("opened source", slog.String("path", path), slog.Int("objects", tables))
	return h, nil
}

// Create opens the database at path for writing. SQLite creates the file
// when it does not exist.
func (e *Engine) Create(ctx context.Context, path string) (engine.Handle, error) {
	return e.open(ctx, path, false)
}

func (e *Engine) open(ctx context.Context, path string, readOnly bool) (*handle, error) {
	dsn, err := db.DSN(path, readOnly, e.cfg.BusyTimeout)
	if err != nil {
		return nil, err
	}
	d, err := db.New(ctx, dsn, e.logger)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &handle{path: path, dsn: dsn, db: d}, nil
}

// Copy replaces the whole content of dst with src. Any previous content of
// dst is overwritten, never merged.
func (e *Engine) Copy(ctx context.Context, src, dst engine.Handle) (engine.Stats, error) {
	s, ok := src.(*handle)
	if !ok {
		return engine.Stats{}, ErrForeignHandle
	}
	d, ok := dst.(*handle)
	if !ok {
		return engine.Stats{}, ErrForeignHandle
	}

	// the backup writes through its own connection to the destination URI
	steps, err := s.db.Backup(ctx, d.dsn, db.BackupOptions{
		StepPages: e.cfg.StepPages,
		StepDelay: e.cfg.StepDelay,
	})
	if err != nil {
		return engine.Stats{Steps: steps}, err
	}

	stats := engine.Stats{Steps: steps}
	if err := d.db.QueryRow(ctx, `PRAGMA page_count`).Scan(&stats.Pages); err != nil {
		return stats, fmt.Errorf("read page count of %s: %w", d.path, err)
	}

	if e.cfg.Verify {
		var result string
		if err := d.db.QueryRow(ctx, `PRAGMA quick_check`).Scan(&result); err != nil {
			return stats, fmt.Errorf("quick_check %s: %w", d.path, err)
		}
		if result != "ok" {
			return stats, fmt.Errorf("quick_check %s: %s", d.path, result)
		}
	}

	e.logger.Debug("copy finished",
		slog.String("src", s.path),
		slog.String("dst", d.path),
		slog.Int("pages", stats.Pages),
		slog.Int("steps", stats.Steps),
	)
	return stats, nil
}
