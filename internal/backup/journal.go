package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Journal appends one line per run to the backup log. The file is opened in
// append mode and never truncated; concurrent runs rely on O_APPEND.
type Journal struct {
	w io.Writer
	h slog.Handler
}

// OpenJournal opens path for appending, creating it when absent.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLogWriteFailed, err)
	}
	return NewJournal(f), nil
}

// NewJournal writes entries to w.
func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w, h: slog.NewTextHandler(w, nil)}
}

// Record writes the entry for res. The handler is called directly because
// slog.Logger drops write errors.
func (j *Journal) Record(ctx context.Context, res *Result) error {
	level, msg := slog.LevelInfo, "backup complete"
	if res.Err != nil {
		level, msg = slog.LevelError, "backup failed"
	}

	rec := slog.NewRecord(res.Finished, level, msg, 0)
	rec.AddAttrs(
		slog.String("run", res.RunID),
		slog.String("src", res.Source),
		slog.String("dst", res.Destination),
		slog.Duration("elapsed", res.Elapsed()),
	)
	if res.Err != nil {
		rec.AddAttrs(
			slog.String("kind", Kind(res.Err)),
			slog.String("reason", res.Err.Error()),
		)
	} else {
		rec.AddAttrs(
			slog.String("size", humanize.Bytes(uint64(res.Size))),
			slog.Int("pages", res.Pages),
			slog.Int("steps", res.Steps),
		)
	}

	if err := j.h.Handle(ctx, rec); err != nil {
		return fmt.Errorf("%w: %w", ErrLogWriteFailed, err)
	}
	return nil
}

// Close closes the underlying file, if any.
func (j *Journal) Close() error {
	if c, ok := j.w.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("%w: %w", ErrLogWriteFailed, err)
		}
	}
	return nil
}
