// Package associated provides the PostgreSQL-backed repository for
// associated-person records.
package associated

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

func (r *PostgresRepository) Upsert(ctx context.Context, person string) (*models.Associated, error) {
	query := `
		INSERT INTO associated (person)
		VALUES ($1)
		ON CONFLICT (person)
		DO UPDATE SET person = EXCLUDED.person
		RETURNING id, person
	`

	a := &models.Associated{}
	err := r.db.QueryRowContext(ctx, query, person).Scan(&a.ID, &a.Person)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Associated, error) {
	query := `SELECT id, person FROM associated ORDER BY person`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Associated
	for rows.Next() {
		var item models.Associated
		if err := rows.Scan(&item.ID, &item.Person); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
