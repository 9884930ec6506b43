// Package categories provides the PostgreSQL-backed repository for
// artefact categories.
package categories

import (
	"context"
	"fmt"

	"github.com/avolkovs/artefactreg/internal/dbx"
	"github.com/avolkovs/artefactreg/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert resolves-or-creates a category in one statement. The no-op
// DO UPDATE makes the conflicting row visible to RETURNING.
func (r *PostgresRepository) Upsert(ctx context.Context, name string) (*models.Category, error) {
	query := `
		INSERT INTO categories (category_name)
		VALUES ($1)
		ON CONFLICT (category_name)
		DO UPDATE SET category_name = EXCLUDED.category_name
		RETURNING id, category_name
	`

	c := &models.Category{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&c.ID, &c.CategoryName)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Category, error) {
	query := `SELECT id, category_name FROM categories ORDER BY category_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Category
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.CategoryName); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
