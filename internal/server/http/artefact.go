package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/avolkovs/artefactreg/internal/common"
	"github.com/avolkovs/artefactreg/internal/server/models"
	"github.com/avolkovs/artefactreg/internal/server/services"
)

// ArtefactService is the artefact workflow surface the handlers need.
type ArtefactService interface {
	Register(ctx context.Context, userID int64, in *services.ArtefactInput) (*models.Artefact, error)
	Edit(ctx context.Context, id int64, in *services.ArtefactInput) (*models.Artefact, error)
	Delete(ctx context.Context, id int64) (*models.Artefact, error)
	Get(ctx context.Context, id int64) (*models.Artefact, error)
	Page(ctx context.Context, userID int64, page int) (*services.PageResult, error)
	SearchByCategory(ctx context.Context, query string, page int) (*services.SearchResult, error)
	SearchByAssociated(ctx context.Context, query string, page int) (*services.SearchResult, error)
	Categories(ctx context.Context) ([]*models.Category, error)
	Associated(ctx context.Context) ([]*models.Associated, error)
}

// ArtefactHandler handles the artefact CRUD, paging, and search endpoints.
type ArtefactHandler struct {
	Artefacts ArtefactService
}

// recordRequest wraps the artefact payload the way the client submits it.
type recordRequest struct {
	Record services.ArtefactInput `json:"record"`
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// GetPage serves one page of the signed-in user's artefacts. An out-of-range
// page is still a 200, flagged by the message, so the client can render it.
func (h *ArtefactHandler) GetPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid Page Number"})
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid Token", "isValid": false})
		return
	}

	result, err := h.Artefacts.Page(r.Context(), userID, page)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	message := fmt.Sprintf("Successfully retrieved page %d", page)
	if len(result.Items) == 0 && result.TotalPages > 0 {
		message = "Invalid Page Number"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       message,
		"dataPerPage":   len(result.Items),
		"dataInPage":    result.Items,
		"totalPages":    result.TotalPages,
		"totalArtefact": result.TotalArtefact,
	})
}

// Register stores a new artefact with its image.
func (h *ArtefactHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}

	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid Token", "isValid": false})
		return
	}

	artefact, err := h.Artefacts.Register(r.Context(), userID, &req.Record)
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	case err != nil:
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Artefact registered successfully",
		"artefact": artefact,
	})
}

// Edit updates an artefact's fields and its category/associated references.
func (h *ArtefactHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "invalid request body"})
		return
	}

	artefact, err := h.Artefacts.Edit(r.Context(), id, &req.Record)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	case err != nil:
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Edit artefact successfully",
		"artefact": artefact,
	})
}

// Delete removes an artefact and its locally stored image.
func (h *ArtefactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	}

	artefact, err := h.Artefacts.Delete(r.Context(), id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	case err != nil:
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "Deleted artefact successfully",
		"artefact": artefact,
	})
}

// Get serves a single artefact by id.
func (h *ArtefactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	}

	artefact, err := h.Artefacts.Get(r.Context(), id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Artefact not found"})
		return
	case err != nil:
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Artefact retrieved successfully",
		"result":  artefact,
	})
}

// Categories serves the full category list for form dropdowns.
func (h *ArtefactHandler) Categories(w http.ResponseWriter, r *http.Request) {
	result, err := h.Artefacts.Categories(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Categories retrieved successfully",
		"result":  result,
	})
}

// Associated serves the full associated-person list.
func (h *ArtefactHandler) Associated(w http.ResponseWriter, r *http.Request) {
	result, err := h.Artefacts.Associated(r.Context())
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Associated retrieved successfully",
		"result":  result,
	})
}

func (h *ArtefactHandler) search(w http.ResponseWriter, r *http.Request,
	run func(ctx context.Context, query string, page int) (*services.SearchResult, error)) {

	query := chi.URLParam(r, "query")
	page, err := strconv.Atoi(chi.URLParam(r, "page"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid Page Number"})
		return
	}

	result, err := run(r.Context(), query, page)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":       fmt.Sprintf("%d artefacts matched the query: %s", result.TotalSearched, query),
		"totalPages":    result.TotalPages,
		"totalSearched": result.TotalSearched,
		"searched":      result.Items,
		"query":         query,
	})
}

// SearchCategory serves the category-name substring search.
func (h *ArtefactHandler) SearchCategory(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.Artefacts.SearchByCategory)
}

// SearchAssociated serves the associated-person substring search.
func (h *ArtefactHandler) SearchAssociated(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, h.Artefacts.SearchByAssociated)
}
