// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"servicedir/internal/directory"
	"servicedir/internal/models"
	"servicedir/internal/ranking"
)

// Audit log listing limits.
const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Ranker applies rank-changing writes. Implemented by position.Mutator.
type Ranker interface {
	MoveUp(ctx context.Context, id uuid.UUID) error
	MoveDown(ctx context.Context, id uuid.UUID) error
	SetPriority(ctx context.Context, id uuid.UUID, order int) error
	PromoteToTop(ctx context.Context, id uuid.UUID) error
	PromoteToTopN(ctx context.Context, id uuid.UUID, n int) error
	SetStatus(ctx context.Context, id uuid.UUID, field models.StatusField, value bool) error
}

// Directory serves listings and category administration. Implemented by
// directory.Service.
type Directory interface {
	ListProviders(ctx context.Context, q directory.ListQuery) (*directory.Page, error)
	CategoryProviders(ctx context.Context, slug string, sort ranking.SortMode, page, perPage int) (*directory.Page, error)
	CategoryTree(ctx context.Context, includeInactive bool) ([]models.Category, error)
	CreateCategory(ctx context.Context, in directory.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, in directory.CategoryUpdate) (*models.Category, error)
	CreateProvider(ctx context.Context, p *models.Provider) (*models.Provider, error)
	AddService(ctx context.Context, svc *models.ProviderService) (*models.ProviderService, error)
}

// AuditReader lists recent ranking mutations. Implemented by
// store.AuditLogStore.
type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]models.AuditEntry, error)
}

// Admin groups the administrative JSON API handlers.
type Admin struct {
	ranker    Ranker
	directory Directory
	audit     AuditReader
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(ranker Ranker, dir Directory, audit AuditReader) *Admin {
	return &Admin{ranker: ranker, directory: dir, audit: audit}
}

// --- Providers ---

// ListProviders returns a filtered, ranked, paginated provider listing.
// Inactive providers are shown only with include_inactive=true.
func (a *Admin) ListProviders(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	page, err := a.directory.ListProviders(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// parseListQuery reads the admin listing filters from the query string.
func parseListQuery(r *http.Request) (directory.ListQuery, error) {
	values := r.URL.Query()
	q := directory.ListQuery{
		Search: values.Get("q"),
		Sort:   ranking.ParseSortMode(values.Get("sort")),
	}

	if raw := values.Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return q, fmt.Errorf("invalid category %q: %w", raw, models.ErrInvalidArgument)
		}
		q.CategoryID = &id
	}
	if raw := values.Get("min_rating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("invalid min_rating %q: %w", raw, models.ErrInvalidArgument)
		}
		q.MinRating = &f
	}

	var err error
	if q.IncludeInactive, err = boolQuery(r, "include_inactive"); err != nil {
		return q, err
	}
	if q.VerifiedOnly, err = boolQuery(r, "verified"); err != nil {
		return q, err
	}
	if q.PremiumOnly, err = boolQuery(r, "premium"); err != nil {
		return q, err
	}
	if q.Page, err = intQuery(r, "page", 1); err != nil {
		return q, err
	}
	if q.PerPage, err = intQuery(r, "per_page", directory.DefaultPerPage); err != nil {
		return q, err
	}
	return q, nil
}

// CreateProvider adds a provider to the directory.
func (a *Admin) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.directory.CreateProvider(r.Context(), req.provider())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// AddService links the provider to a category.
func (a *Admin) AddService(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req serviceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	svc, err := a.directory.AddService(r.Context(), &models.ProviderService{
		ProviderID:  id,
		CategoryID:  uuid.MustParse(req.CategoryID),
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, svc)
}

// --- Ranking ---

// MoveUp swaps the provider with its predecessor in priority order.
func (a *Admin) MoveUp(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, a.ranker.MoveUp)
}

// MoveDown swaps the provider with its successor in priority order.
func (a *Admin) MoveDown(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, a.ranker.MoveDown)
}

// PromoteToTop assigns sort order 1.
func (a *Admin) PromoteToTop(w http.ResponseWriter, r *http.Request) {
	a.mutate(w, r, a.ranker.PromoteToTop)
}

// PromoteToTopN assigns sort order n from the path.
func (a *Admin) PromoteToTopN(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		writeError(w, r, fmt.Errorf("invalid position %q: %w", chi.URLParam(r, "n"), models.ErrInvalidArgument))
		return
	}
	a.mutate(w, r, func(ctx context.Context, id uuid.UUID) error {
		return a.ranker.PromoteToTopN(ctx, id, n)
	})
}

// SetPriority assigns an absolute sort order from the request body.
func (a *Admin) SetPriority(w http.ResponseWriter, r *http.Request) {
	var req priorityRequest
	a.mutateWithBody(w, r, &req, func(ctx context.Context, id uuid.UUID) error {
		return a.ranker.SetPriority(ctx, id, req.SortOrder)
	})
}

// SetStatus toggles one status badge from the request body.
func (a *Admin) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	a.mutateWithBody(w, r, &req, func(ctx context.Context, id uuid.UUID) error {
		return a.ranker.SetStatus(ctx, id, models.StatusField(req.Field), *req.Value)
	})
}

// mutate runs a ranking write against the {id} path parameter and answers
// 204 on success.
func (a *Admin) mutate(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) error) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mutateWithBody decodes and validates req before calling mutate.
func (a *Admin) mutateWithBody(w http.ResponseWriter, r *http.Request, req any, fn func(context.Context, uuid.UUID) error) {
	if err := decodeJSON(w, r, req); err != nil {
		writeError(w, r, err)
		return
	}
	a.mutate(w, r, fn)
}

// --- Categories ---

// CategoryTree returns every category, active or not, nested with
// provider counts.
func (a *Admin) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.directory.CategoryTree(r.Context(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CreateCategory adds a category to the taxonomy.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	in := directory.CategoryInput{
		Name:        strings.TrimSpace(req.Name),
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		Level:       models.Level(req.Level),
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	}
	if req.ParentID != nil {
		parent := uuid.MustParse(*req.ParentID)
		in.ParentID = &parent
	}

	c, err := a.directory.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory changes the editable fields of a category.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoryUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.directory.UpdateCategory(r.Context(), id, directory.CategoryUpdate{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		Active:      req.Active,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// --- Audit ---

// AuditLog returns the most recent ranking mutations, newest first.
func (a *Admin) AuditLog(w http.ResponseWriter, r *http.Request) {
	limit, err := intQuery(r, "limit", defaultAuditLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit < 1 || limit > maxAuditLimit {
		writeError(w, r, fmt.Errorf("limit must be between 1 and %d: %w", maxAuditLimit, models.ErrInvalidArgument))
		return
	}

	entries, err := a.audit.Recent(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
