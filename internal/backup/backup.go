// Package backup copies one SQLite database into another through the engine's
// online backup primitive and journals the outcome of every run.
//
// A run is linear: validate paths, open the source, open or create the
// destination, copy, close both handles, append one journal entry. Errors are
// terminal for the run; nothing is retried.
package backup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/garnizeh/sqlite3backup/pkg/engine"
)

// Result describes one run.
type Result struct {
	RunID       string
	Source      string
	Destination string
	Started     time.Time
	Finished    time.Time
	// Size is the destination file size after a successful copy.
	Size  int64
	Pages int
	Steps int
	// Err is the backup outcome; LogErr is set when the journal entry
	// could not be written and never changes Err.
	Err    error
	LogErr error
}

func (r *Result) OK() bool { return r.Err == nil }

func (r *Result) Elapsed() time.Duration {
	if r.Finished.IsZero() {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// Runner performs backups with an injected engine.
type Runner struct {
	eng     engine.Engine
	journal *Journal
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Runner)

// WithLogger sets the diagnostics logger; the journal is separate.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New returns a Runner. journal may be nil, in which case nothing is recorded.
func New(eng engine.Engine, journal *Journal, opts ...Option) *Runner {
	r := &Runner{
		eng:     eng,
		journal: journal,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run copies src into dst and records the outcome. The returned error is the
// backup outcome only; journal failures are reported on Result.LogErr.
func (r *Runner) Run(ctx context.Context, src, dst string) (*Result, error) {
	res := &Result{
		RunID:       uuid.NewString(),
		Source:      src,
		Destination: dst,
		Started:     r.now(),
	}
	res.Err = r.run(ctx, res)
	res.Finished = r.now()

	if res.Err != nil {
		r.logger.Error("backup failed", slog.String("run", res.RunID), slog.Any("err", res.Err))
	} else {
		r.logger.Info("backup complete", slog.String("run", res.RunID), slog.Duration("elapsed", res.Elapsed()))
	}

	if r.journal != nil {
		if err := r.journal.Record(ctx, res); err != nil {
			res.LogErr = err
			r.logger.Warn("journal write failed", slog.Any("err", err))
		}
	}
	return res, res.Err
}

func (r *Runner) run(ctx context.Context, res *Result) error {
	if err := checkSource(res.Source); err != nil {
		return err
	}
	if err := checkDestination(res.Source, res.Destination); err != nil {
		return err
	}

	src, err := r.eng.Open(ctx, res.Source)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceInvalid, err)
	}
	// the destination path passed validation, so a failure here comes from
	// the engine, e.g. an existing file that is not a database
	dst, err := r.eng.Create(ctx, res.Destination)
	if err != nil {
		r.closeSource(src)
		return fmt.Errorf("%w: %w", ErrCopyFailed, err)
	}

	stats, copyErr := r.eng.Copy(ctx, src, dst)
	closeErr := dst.Close()
	r.closeSource(src)

	if copyErr != nil {
		return fmt.Errorf("%w: %w", ErrCopyFailed, copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("%w: close destination: %w", ErrCopyFailed, closeErr)
	}

	res.Pages, res.Steps = stats.Pages, stats.Steps
	if fi, err := os.Stat(res.Destination); err == nil {
		res.Size = fi.Size()
	}
	return nil
}

// closeSource logs close errors; a read-only handle cannot lose data.
func (r *Runner) closeSource(h engine.Handle) {
	if err := h.Close(); err != nil {
		r.logger.Warn("close source", slog.String("path", h.Path()), slog.Any("err", err))
	}
}
