package artefacts

import (
	"context"

	"github.com/avolkovs/artefactreg/internal/server/models"
)

// Repository persists artefact records and serves the paged listing and
// search queries behind the dashboard.
type Repository interface {
	// Create inserts a new artefact row. Category and Associated references
	// start out unset; they are attached afterwards via SetCategory and
	// SetAssociated.
	Create(ctx context.Context, artefact *models.Artefact) (*models.Artefact, error)

	// GetByID returns a single artefact with its resolved category and
	// associated records, or common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Artefact, error)

	// UpdateFields overwrites the editable scalar fields of an artefact.
	// Returns common.ErrorNotFound when no row matches.
	UpdateFields(ctx context.Context, id int64, name, description, memories, location string) error

	// SetCategory points the artefact at a resolved category record.
	SetCategory(ctx context.Context, artefactID, categoryID int64) error

	// SetAssociated points the artefact at a resolved associated record.
	SetAssociated(ctx context.Context, artefactID, associatedID int64) error

	// DeleteByID removes an artefact row. Returns common.ErrorNotFound when
	// no row matches.
	DeleteByID(ctx context.Context, id int64) error

	// CountByUser returns the number of artefacts owned by a user.
	CountByUser(ctx context.Context, userID int64) (int64, error)

	// SelectPage returns a page of a user's artefacts ordered newest-first
	// (descending id).
	SelectPage(ctx context.Context, userID int64, offset, limit int) ([]*models.Artefact, error)

	// CountCategoryMatches returns how many artefacts have a category whose
	// name contains the query (case-insensitive).
	CountCategoryMatches(ctx context.Context, query string) (int64, error)

	// SearchByCategory returns a sorted page of artefacts matched the same
	// way as CountCategoryMatches.
	SearchByCategory(ctx context.Context, query string, offset, limit int) ([]*models.Artefact, error)

	// CountAssociatedMatches returns how many artefacts have an associated
	// person whose name contains the query (case-insensitive).
	CountAssociatedMatches(ctx context.Context, query string) (int64, error)

	// SearchByAssociated returns a sorted page of artefacts matched the same
	// way as CountAssociatedMatches.
	SearchByAssociated(ctx context.Context, query string, offset, limit int) ([]*models.Artefact, error)
}
