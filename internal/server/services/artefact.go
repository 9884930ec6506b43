// This file implements ArtefactService: the register/edit/delete/list/search
// workflow over the artefact, category, and associated repositories plus the
// image storage backend.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/logging"
	"github.com/avolkovs/artefactreg/internal/server/config"
	"github.com/avolkovs/artefactreg/internal/server/models"
	"github.com/avolkovs/artefactreg/internal/server/repositories/repomanager"
	"github.com/avolkovs/artefactreg/internal/server/storage"
)

// ArtefactInput is the submitted artefact payload: scalar fields, free-text
// category/associated names, and the image as a data URI plus its metadata.
type ArtefactInput struct {
	ArtefactName string `json:"artefactName"`
	Description  string `json:"description"`
	Memories     string `json:"memories"`
	Location     string `json:"location"`
	Category     string `json:"category"`
	Associated   string `json:"associated"`
	ArtefactImg  string `json:"artefactImg"`
	NameImg      string `json:"nameImg"`
	TypeImg      string `json:"typeImg"`
	SizeImg      string `json:"sizeImg"`
}

// PageResult is one page of a user's artefacts.
type PageResult struct {
	Items         []*models.Artefact
	TotalPages    int64
	TotalArtefact int64
}

// SearchResult is one page of search matches. Items is never nil, so the
// zero-match response carries an empty list rather than a different shape.
type SearchResult struct {
	Items         []*models.Artefact
	TotalPages    int64
	TotalSearched int64
}

// ArtefactService orchestrates the artefact workflow.
type ArtefactService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.Backend
	logger      logging.Logger
	pageSize    int
}

// NewArtefactService constructs an ArtefactService.
func NewArtefactService(db *sql.DB, m repomanager.RepositoryManager, store storage.Backend, logger logging.Logger, cfg *config.Config) *ArtefactService {
	return &ArtefactService{
		db:          db,
		repomanager: m,
		store:       store,
		logger:      logger.With("module", "artefact_service"),
		pageSize:    cfg.PageSize,
	}
}

// decodeImagePayload extracts the raw bytes from a data-URI image payload
// ("data:image/png;base64,...." or a bare "...,payload" pair).
func decodeImagePayload(payload string) ([]byte, error) {
	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return nil, fmt.Errorf("%w: image payload is not a data URI", common.ErrorValidation)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: image payload is not valid base64", common.ErrorValidation)
	}
	return data, nil
}

// Register stores the image, creates the artefact row, and then resolves the
// category and associated references. The image write deliberately precedes
// the database writes; a failure in between leaves the stored image orphaned.
func (s *ArtefactService) Register(ctx context.Context, userID int64, in *ArtefactInput) (*models.Artefact, error) {
	if in.ArtefactName == "" {
		return nil, fmt.Errorf("%w: artefact name is required", common.ErrorValidation)
	}

	data, err := decodeImagePayload(in.ArtefactImg)
	if err != nil {
		return nil, err
	}

	url, localPath, err := s.store.Save(ctx, in.NameImg, data)
	if err != nil {
		return nil, fmt.Errorf("error storing image: %w", err)
	}

	artefact := &models.Artefact{
		UserID:       userID,
		ArtefactName: in.ArtefactName,
		Description:  in.Description,
		Memories:     in.Memories,
		Location:     in.Location,
		Image: models.ArtefactImage{
			URL:       url,
			Name:      in.NameImg,
			Type:      in.TypeImg,
			Size:      in.SizeImg,
			LocalPath: localPath,
		},
	}

	artefact, err = s.repomanager.Artefacts(s.db).Create(ctx, artefact)
	if err != nil {
		return nil, fmt.Errorf("error creating artefact: %w", err)
	}

	if err := s.resolveReferences(ctx, artefact, in.Category, in.Associated); err != nil {
		return nil, err
	}

	return artefact, nil
}

// Edit overwrites the editable scalar fields and re-resolves the category and
// associated references from the submitted names.
func (s *ArtefactService) Edit(ctx context.Context, id int64, in *ArtefactInput) (*models.Artefact, error) {
	repo := s.repomanager.Artefacts(s.db)

	err := repo.UpdateFields(ctx, id, in.ArtefactName, in.Description, in.Memories, in.Location)
	if err != nil {
		return nil, err
	}

	artefact := &models.Artefact{ID: id}
	if err := s.resolveReferences(ctx, artefact, in.Category, in.Associated); err != nil {
		return nil, err
	}

	return repo.GetByID(ctx, id)
}

// Delete removes the artefact row and then makes a best-effort attempt to
// remove a locally stored image. The committed row deletion stands even if
// the file cleanup fails.
func (s *ArtefactService) Delete(ctx context.Context, id int64) (*models.Artefact, error) {
	repo := s.repomanager.Artefacts(s.db)

	artefact, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := repo.DeleteByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.store.Delete(ctx, artefact.Image.LocalPath); err != nil {
		s.logger.Warn(ctx, "image cleanup failed", "artefact_id", id, "error", err.Error())
	}

	return artefact, nil
}

// Get returns a single artefact by id.
func (s *ArtefactService) Get(ctx context.Context, id int64) (*models.Artefact, error) {
	return s.repomanager.Artefacts(s.db).GetByID(ctx, id)
}

// Page returns one page of the user's artefacts, newest first.
func (s *ArtefactService) Page(ctx context.Context, userID int64, page int) (*PageResult, error) {
	repo := s.repomanager.Artefacts(s.db)

	total, err := repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error counting artefacts: %w", err)
	}

	items, err := repo.SelectPage(ctx, userID, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("error selecting page: %w", err)
	}
	if items == nil {
		items = []*models.Artefact{}
	}

	return &PageResult{
		Items:         items,
		TotalPages:    pageCount(total, s.pageSize),
		TotalArtefact: total,
	}, nil
}

// SearchByCategory runs the two-phase category search: an unpaged count of
// matches first, then a paged sorted fetch.
func (s *ArtefactService) SearchByCategory(ctx context.Context, query string, page int) (*SearchResult, error) {
	repo := s.repomanager.Artefacts(s.db)

	total, err := repo.CountCategoryMatches(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting matches: %w", err)
	}
	if total == 0 {
		return &SearchResult{Items: []*models.Artefact{}}, nil
	}

	items, err := repo.SearchByCategory(ctx, query, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("error searching: %w", err)
	}
	if items == nil {
		items = []*models.Artefact{}
	}

	return &SearchResult{
		Items:         items,
		TotalPages:    pageCount(total, s.pageSize),
		TotalSearched: total,
	}, nil
}

// SearchByAssociated runs the two-phase associated-person search.
func (s *ArtefactService) SearchByAssociated(ctx context.Context, query string, page int) (*SearchResult, error) {
	repo := s.repomanager.Artefacts(s.db)

	total, err := repo.CountAssociatedMatches(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error counting matches: %w", err)
	}
	if total == 0 {
		return &SearchResult{Items: []*models.Artefact{}}, nil
	}

	items, err := repo.SearchByAssociated(ctx, query, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("error searching: %w", err)
	}
	if items == nil {
		items = []*models.Artefact{}
	}

	return &SearchResult{
		Items:         items,
		TotalPages:    pageCount(total, s.pageSize),
		TotalSearched: total,
	}, nil
}

// Categories returns all known categories.
func (s *ArtefactService) Categories(ctx context.Context) ([]*models.Category, error) {
	result, err := s.repomanager.Categories(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	if result == nil {
		result = []*models.Category{}
	}
	return result, nil
}

// Associated returns all known associated-person records.
func (s *ArtefactService) Associated(ctx context.Context) ([]*models.Associated, error) {
	result, err := s.repomanager.Associated(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing associated: %w", err)
	}
	if result == nil {
		result = []*models.Associated{}
	}
	return result, nil
}

// resolveReferences upserts the category and associated records by their
// submitted names and points the artefact at them. Each resolution is an
// atomic find-or-create, so repeated names reuse one record.
func (s *ArtefactService) resolveReferences(ctx context.Context, artefact *models.Artefact, categoryName, person string) error {
	artefactRepo := s.repomanager.Artefacts(s.db)

	category, err := s.repomanager.Categories(s.db).Upsert(ctx, categoryName)
	if err != nil {
		return fmt.Errorf("error resolving category: %w", err)
	}
	if err := artefactRepo.SetCategory(ctx, artefact.ID, category.ID); err != nil {
		return fmt.Errorf("error linking category: %w", err)
	}
	artefact.Category = category

	associated, err := s.repomanager.Associated(s.db).Upsert(ctx, person)
	if err != nil {
		return fmt.Errorf("error resolving associated: %w", err)
	}
	if err := artefactRepo.SetAssociated(ctx, artefact.ID, associated.ID); err != nil {
		return fmt.Errorf("error linking associated: %w", err)
	}
	artefact.Associated = associated

	return nil
}

func pageCount(total int64, pageSize int) int64 {
	if pageSize <= 0 {
		return 0
	}
	return (total + int64(pageSize) - 1) / int64(pageSize)
}
