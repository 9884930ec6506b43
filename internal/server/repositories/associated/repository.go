package associated

import (
	"context"

	"github.com/avolkovs/artefactreg/internal/server/models"
)

// Repository persists associated-person records.
type Repository interface {
	// Upsert resolves a person by exact name, creating the record when
	// absent, in a single atomic statement.
	Upsert(ctx context.Context, person string) (*models.Associated, error)

	// List returns all associated-person records.
	List(ctx context.Context) ([]*models.Associated, error)
}
