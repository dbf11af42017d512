package mock

import (
	"context"

	"github.com/garnizeh/sqlite3backup/pkg/engine"
)

// Engine is an in-memory engine.Engine for tests. Set the *Err fields to make
// the matching call fail.
type Engine struct {
	OpenErr   error
	CreateErr error
	CopyErr   error
	CloseErr  error
	Stats     engine.Stats

	Calls   []string
	Handles []*Handle
}

var _ engine.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{Stats: engine.Stats{Pages: 1, Steps: 1}}
}

func (m *Engine) Open(ctx context.Context, path string) (engine.Handle, error) {
	m.Calls = append(m.Calls, "open")
	if m.OpenErr != nil {
		return nil, m.OpenErr
	}
	return m.handle(path), nil
}

func (m *Engine) Create(ctx context.Context, path string) (engine.Handle, error) {
	m.Calls = append(m.Calls, "create")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.handle(path), nil
}

func (m *Engine) Copy(ctx context.Context, src, dst engine.Handle) (engine.Stats, error) {
	m.Calls = append(m.Calls, "copy")
	if m.CopyErr != nil {
		return engine.Stats{}, m.CopyErr
	}
	return m.Stats, nil
}

func (m *Engine) handle(path string) *Handle {
	h := &Handle{path: path, closeErr: m.CloseErr}
	m.Handles = append(m.Handles, h)
	return h
}

// AllClosed reports whether every handle handed out has been closed.
func (m *Engine) AllClosed() bool {
	for _, h := range m.Handles {
		if !h.Closed {
			return false
		}
	}
	return true
}

type Handle struct {
	path     string
	closeErr error
	Closed   bool
}

func (h *Handle) Path() string { return h.path }

func (h *Handle) Close() error {
	h.Closed = true
	return h.closeErr
}
