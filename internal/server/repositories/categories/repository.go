package categories

import (
	"context"

	"github.com/avolkovs/artefactreg/internal/server/models"
)

// Repository persists category records.
type Repository interface {
	// Upsert resolves a category by exact name, creating it when absent.
	// The operation is a single atomic statement, so concurrent identical
	// calls converge on one row.
	Upsert(ctx context.Context, name string) (*models.Category, error)

	// List returns all categories.
	List(ctx context.Context) ([]*models.Category, error)
}
