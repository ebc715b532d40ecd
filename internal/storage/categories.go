package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"financx/internal/core"
)

// CreateCategory inserts a new category and returns its id. Names are
// unique case-insensitively; a clash fails with core.ErrDuplicateName.
func (s *Store) CreateCategory(ctx context.Context, name string, typ core.CategoryType) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, type) VALUES (?, ?)`, name, string(typ))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, core.ErrDuplicateName
		}
		return 0, fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("category insert id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", name, "type", typ)
	return id, nil
}

// GetCategory returns one category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	var cat core.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, type FROM categories WHERE id = ?`, id).
		Scan(&cat.ID, &cat.Name, &cat.Type)
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, mapNotFound(err))
	}
	return cat, nil
}

// ListCategories returns all categories ordered by name. When typ is a
// valid category type the result is filtered to it.
func (s *Store) ListCategories(ctx context.Context, typ core.CategoryType) ([]core.Category, error) {
	query := `SELECT id, name, type FROM categories`
	args := []any{}
	if typ.Valid() {
		query += ` WHERE type = ?`
		args = append(args, string(typ))
	}
	query += ` ORDER BY name COLLATE NOCASE`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var cat core.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Type); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategory changes a category's name and type.
func (s *Store) UpdateCategory(ctx context.Context, id int64, name string, typ core.CategoryType) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, type = ? WHERE id = ?`,
		name, string(typ), id)
	if err != nil {
		if isUniqueViolation(err) {
			return core.ErrDuplicateName
		}
		return fmt.Errorf("update category %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category %d: %w", id, err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteCategoryCascade deletes a category as one atomic unit: its
// transactions are reassigned to the Uncategorized category, its budget
// rows removed, and finally the category itself deleted. Transactions are
// reassigned, never deleted.
func (s *Store) DeleteCategoryCascade(ctx context.Context, id, uncategorizedID int64) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE transactions SET category_id = ? WHERE category_id = ?`,
			uncategorizedID, id); err != nil {
			return fmt.Errorf("reassign transactions: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM budgets WHERE category_id = ?`, id); err != nil {
			return fmt.Errorf("delete category budgets: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if affected == 0 {
			return core.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Category deleted, transactions reassigned",
		"id", id, "reassigned_to", uncategorizedID)
	return nil
}

// UncategorizedID returns the id of the system-owned fallback category.
// The row is created by migrations, so a missing row is a corrupt store.
func (s *Store) UncategorizedID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM categories WHERE name = ? COLLATE NOCASE`,
		core.UncategorizedName).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup uncategorized: %w", mapNotFound(err))
	}
	return id, nil
}
