// Package export builds full-ledger snapshots and pushes them to an
// external spreadsheet for ad-hoc analysis outside the app.
package export

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"financx/internal/core"
)

// Snapshot is a point-in-time copy of the whole ledger.
type Snapshot struct {
	Accounts     []core.Account
	Transactions []core.Transaction
	Categories   []core.Category
}

// Source is the slice of the ledger service the exporter reads from.
type Source interface {
	ListAccounts(ctx context.Context) ([]core.Account, error)
	ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error)
	ListCategories(ctx context.Context, typ string) ([]core.Category, error)
}

// Writer persists a snapshot to its destination, replacing any previous
// export wholesale.
type Writer interface {
	WriteSnapshot(ctx context.Context, snap Snapshot) error
}

// BuildSnapshot reads the three collections concurrently and returns them
// as one snapshot. The store holds a single SQLite connection, so the
// reads serialize on it and no write can interleave mid-snapshot.
func BuildSnapshot(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Accounts, err = src.ListAccounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		snap.Transactions, err = src.ListTransactions(gctx, nil, 0)
		return err
	})
	g.Go(func() (err error) {
		snap.Categories, err = src.ListCategories(gctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("build snapshot: %w", err)
	}
	return snap, nil
}

// Exporter couples a snapshot source with a destination writer.
type Exporter struct {
	src    Source
	writer Writer
	logger *slog.Logger
}

// NewExporter creates an Exporter writing snapshots of src to writer.
func NewExporter(src Source, writer Writer, logger *slog.Logger) *Exporter {
	return &Exporter{src: src, writer: writer, logger: logger}
}

// Export snapshots the ledger and writes it out.
func (e *Exporter) Export(ctx context.Context) error {
	snap, err := BuildSnapshot(ctx, e.src)
	if err != nil {
		return err
	}
	e.logger.InfoContext(ctx, "exporting ledger snapshot",
		"accounts", len(snap.Accounts),
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories))
	if err := e.writer.WriteSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
