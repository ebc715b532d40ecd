// Package memory provides an in-memory snapshot writer for tests and for
// running without Google credentials.
package memory

import (
	"context"
	"sync"

	"financx/internal/export"
)

// Writer stores the most recent snapshot in memory.
type Writer struct {
	mu     sync.Mutex
	last   export.Snapshot
	writes int
}

var _ export.Writer = (*Writer)(nil)

// New creates an empty in-memory writer.
func New() *Writer {
	return &Writer{}
}

// WriteSnapshot replaces the stored snapshot.
func (w *Writer) WriteSnapshot(_ context.Context, snap export.Snapshot) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = snap
	w.writes++
	return nil
}

// Last returns the most recently written snapshot and the total write count.
func (w *Writer) Last() (export.Snapshot, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last, w.writes
}
