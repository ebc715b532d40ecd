package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"financx/internal/core"
)

func TestOpenBootstrapsSchema(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	id, err := store.UncategorizedID(ctx)
	if err != nil {
		t.Fatalf("uncategorized lookup: %v", err)
	}
	if id == 0 {
		t.Error("uncategorized id should be assigned")
	}

	theme, err := store.GetSetting(ctx, "theme", "")
	if err != nil {
		t.Fatalf("get theme: %v", err)
	}
	if theme != "light" {
		t.Errorf("bootstrap theme = %q, want light", theme)
	}
}

func TestOpenIsIdempotentOnExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	ctx := context.Background()
	if _, err := first.CreateAccount(ctx, "Checking", core.Money{Cents: 1000}); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening applies no migrations and keeps the data.
	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer second.Close()

	accounts, err := second.ListAccounts(ctx)
	if err != nil {
		t.Fatalf("list accounts: %v", err)
	}
	if len(accounts) != 1 || accounts[0].Name != "Checking" {
		t.Errorf("accounts after reopen = %+v, want the created account", accounts)
	}
}

func TestGetSettingFallback(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	got, err := store.GetSetting(ctx, "no_such_key", "default")
	if err != nil {
		t.Fatalf("get setting: %v", err)
	}
	if got != "default" {
		t.Errorf("fallback = %q, want default", got)
	}

	if err := store.SetSetting(ctx, "no_such_key", "value"); err != nil {
		t.Fatalf("set setting: %v", err)
	}
	got, _ = store.GetSetting(ctx, "no_such_key", "default")
	if got != "value" {
		t.Errorf("stored value = %q, want value", got)
	}
}

func TestNotFoundMapping(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()
	ctx := context.Background()

	if _, err := store.GetAccount(ctx, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get unknown account: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetCategory(ctx, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get unknown category: got %v, want ErrNotFound", err)
	}
	if _, err := store.GetTransaction(ctx, 12345); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get unknown transaction: got %v, want ErrNotFound", err)
	}
}
