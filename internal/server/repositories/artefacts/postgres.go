// Package artefacts provides the PostgreSQL-backed repository for artefact
// records, including the paged listing and category/person search queries.
package artefacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/dbx"
	"github.com/avolkovs/artefactreg/internal/server/models"
)

// artefactColumns is the SELECT list shared by every query that returns full
// artefact rows, joined with their category and associated records.
const artefactColumns = `
	a.id, a.user_id, a.artefact_name, a.description, a.memories, a.location,
	a.artefact_date, a.img_url, a.img_name, a.img_type, a.img_size, a.local_path,
	a.created_at, c.id, c.category_name, p.id, p.person
`

const artefactJoins = `
	FROM artefacts a
	LEFT JOIN categories c ON c.id = a.category_id
	LEFT JOIN associated p ON p.id = a.associated_id
`

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, artefact *models.Artefact) (*models.Artefact, error) {
	query := `
		INSERT INTO artefacts
			(user_id, artefact_name, description, memories, location, artefact_date,
			 img_url, img_name, img_type, img_size, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	var date sql.NullTime
	if artefact.ArtefactDate != nil {
		date = sql.NullTime{Time: *artefact.ArtefactDate, Valid: true}
	}

	err := r.db.QueryRowContext(ctx, query,
		artefact.UserID, artefact.ArtefactName, artefact.Description, artefact.Memories,
		artefact.Location, date,
		artefact.Image.URL, artefact.Image.Name, artefact.Image.Type, artefact.Image.Size,
		artefact.Image.LocalPath,
	).Scan(&artefact.ID, &artefact.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return artefact, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Artefact, error) {
	query := `SELECT ` + artefactColumns + artefactJoins + ` WHERE a.id = $1`

	artefact, err := scanArtefact(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return artefact, nil
}

func (r *PostgresRepository) UpdateFields(ctx context.Context, id int64, name, description, memories, location string) error {
	query := `
		UPDATE artefacts
		SET artefact_name = $2, description = $3, memories = $4, location = $5
		WHERE id = $1
	`

	res, err := r.db.ExecContext(ctx, query, id, name, description, memories, location)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) SetCategory(ctx context.Context, artefactID, categoryID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artefacts SET category_id = $2 WHERE id = $1`, artefactID, categoryID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) SetAssociated(ctx context.Context, artefactID, associatedID int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE artefacts SET associated_id = $2 WHERE id = $1`, artefactID, associatedID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) DeleteByID(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artefacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artefacts WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SelectPage(ctx context.Context, userID int64, offset, limit int) ([]*models.Artefact, error) {
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + artefactColumns + artefactJoins + `
		WHERE a.user_id = $1
		ORDER BY a.id DESC
		OFFSET $2 LIMIT $3`

	return r.selectArtefacts(ctx, query, userID, offset, limit)
}

func (r *PostgresRepository) CountCategoryMatches(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM artefacts a
		JOIN categories c ON c.id = a.category_id
		WHERE c.category_name ILIKE '%' || $1 || '%'`, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SearchByCategory(ctx context.Context, query string, offset, limit int) ([]*models.Artefact, error) {
	if offset < 0 {
		offset = 0
	}
	q := `SELECT ` + artefactColumns + artefactJoins + `
		WHERE c.category_name ILIKE '%' || $1 || '%'
		ORDER BY a.id DESC
		OFFSET $2 LIMIT $3`

	return r.selectArtefacts(ctx, q, query, offset, limit)
}

func (r *PostgresRepository) CountAssociatedMatches(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM artefacts a
		JOIN associated p ON p.id = a.associated_id
		WHERE p.person ILIKE '%' || $1 || '%'`, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

func (r *PostgresRepository) SearchByAssociated(ctx context.Context, query string, offset, limit int) ([]*models.Artefact, error) {
	if offset < 0 {
		offset = 0
	}
	q := `SELECT ` + artefactColumns + artefactJoins + `
		WHERE p.person ILIKE '%' || $1 || '%'
		ORDER BY a.id DESC
		OFFSET $2 LIMIT $3`

	return r.selectArtefacts(ctx, q, query, offset, limit)
}

func (r *PostgresRepository) selectArtefacts(ctx context.Context, query string, args ...any) ([]*models.Artefact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Artefact
	for rows.Next() {
		artefact, err := scanArtefact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, artefact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtefact(row rowScanner) (*models.Artefact, error) {
	var (
		artefact   models.Artefact
		date       sql.NullTime
		categoryID sql.NullInt64
		category   sql.NullString
		personID   sql.NullInt64
		person     sql.NullString
	)

	err := row.Scan(
		&artefact.ID, &artefact.UserID, &artefact.ArtefactName, &artefact.Description,
		&artefact.Memories, &artefact.Location, &date,
		&artefact.Image.URL, &artefact.Image.Name, &artefact.Image.Type,
		&artefact.Image.Size, &artefact.Image.LocalPath,
		&artefact.CreatedAt, &categoryID, &category, &personID, &person,
	)
	if err != nil {
		return nil, err
	}

	if date.Valid {
		artefact.ArtefactDate = &date.Time
	}
	if categoryID.Valid {
		artefact.Category = &models.Category{ID: categoryID.Int64, CategoryName: category.String}
	}
	if personID.Valid {
		artefact.Associated = &models.Associated{ID: personID.Int64, Person: person.String}
	}

	return &artefact, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
