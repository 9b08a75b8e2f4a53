// Package directory implements the read paths of the provider directory
// and the administrative glue around them: category-scoped provider
// listings, the category tree with provider counts, and creation of
// categories, providers, and service links.
//
// Every listing resolves the requested category to its full descendant
// set, filters in memory, ranks with the comparator, and only then
// paginates, so page boundaries are stable for a given store snapshot.
package directory

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"servicedir/internal/models"
	"servicedir/internal/ranking"
	"servicedir/internal/store"
	"servicedir/internal/taxonomy"
)

// Pagination defaults.
const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// CategoryStore is the category persistence the service reads and writes.
type CategoryStore interface {
	taxonomy.CategoryReader
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, includeInactive bool) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}

// ProviderStore is the provider persistence the service reads and writes.
type ProviderStore interface {
	ListProviders(ctx context.Context, q store.ProviderQuery) ([]models.Provider, error)
	FindProvider(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	Create(ctx context.Context, p *models.Provider) (*models.Provider, error)
	AddService(ctx context.Context, svc *models.ProviderService) (*models.ProviderService, error)
	CountProviderServices(ctx context.Context, set models.CategorySet) (int, error)
}

// Service serves provider listings and category administration.
type Service struct {
	categories CategoryStore
	providers  ProviderStore
	resolver   *taxonomy.Resolver
}

// NewService creates a Service. The resolver must read from the same
// category store.
func NewService(categories CategoryStore, providers ProviderStore, resolver *taxonomy.Resolver) *Service {
	return &Service{categories: categories, providers: providers, resolver: resolver}
}

// ListQuery describes one provider listing request.
type ListQuery struct {
	// CategoryID scopes the listing to a category and its descendants.
	CategoryID *uuid.UUID

	IncludeInactive bool
	VerifiedOnly    bool
	PremiumOnly     bool
	MinRating       *float64
	Search          string
	Sort            ranking.SortMode

	Page    int
	PerPage int
}

// normalize clamps pagination into range.
func (q *ListQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = DefaultPerPage
	}
	if q.PerPage > MaxPerPage {
		q.PerPage = MaxPerPage
	}
	if q.Sort == "" {
		q.Sort = ranking.SortPriority
	}
}

// Listing is a provider together with the rating shown for it.
type Listing struct {
	models.Provider
	DisplayRating ranking.Rating `json:"display_rating"`
}

// Page is one page of a ranked listing.
type Page struct {
	Items   []Listing        `json:"items"`
	Total   int              `json:"total"`
	Page    int              `json:"page"`
	PerPage int              `json:"per_page"`
	Sort    ranking.SortMode `json:"sort"`
}

// ListProviders returns a filtered, ranked, paginated provider listing.
func (s *Service) ListProviders(ctx context.Context, q ListQuery) (*Page, error) {
	q.normalize()

	var set models.CategorySet
	if q.CategoryID != nil {
		var err error
		set, err = s.resolver.Resolve(ctx, *q.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("list providers: %w", err)
		}
	}

	candidates, err := s.providers.ListProviders(ctx, store.ProviderQuery{
		Categories:      set,
		IncludeInactive: q.IncludeInactive,
	})
	if err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}

	matched := ranking.Filter(candidates, ranking.Criteria{
		Categories:   set,
		ActiveOnly:   !q.IncludeInactive,
		VerifiedOnly: q.VerifiedOnly,
		PremiumOnly:  q.PremiumOnly,
		MinRating:    q.MinRating,
		SearchText:   q.Search,
	})
	ranking.Sort(matched, q.Sort)

	page := &Page{
		Items:   []Listing{},
		Total:   len(matched),
		Page:    q.Page,
		PerPage: q.PerPage,
		Sort:    q.Sort,
	}
	start := (q.Page - 1) * q.PerPage
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+q.PerPage, len(matched))
	for i := start; i < end; i++ {
		page.Items = append(page.Items, Listing{
			Provider:      matched[i],
			DisplayRating: ranking.ResolveRating(&matched[i]),
		})
	}
	return page, nil
}

// CategoryProviders is the public listing for a category page. Only active
// providers are shown, and an inactive category is treated as missing.
func (s *Service) CategoryProviders(ctx context.Context, slug string, sort ranking.SortMode, page, perPage int) (*Page, error) {
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", slug, err)
	}
	if c == nil || !c.Active {
		return nil, fmt.Errorf("category %q: %w", slug, models.ErrNotFound)
	}

	return s.ListProviders(ctx, ListQuery{
		CategoryID: &c.ID,
		Sort:       sort,
		Page:       page,
		PerPage:    perPage,
	})
}

// CategoryTree returns the category hierarchy with ProviderCount set on
// every node to the number of active providers serving the category or any
// of its descendants. Inactive descendants still contribute, as they do in
// Resolve, so the whole taxonomy is loaded and resolved in memory before
// inactive nodes are dropped.
func (s *Service) CategoryTree(ctx context.Context, includeInactive bool) ([]models.Category, error) {
	all, err := s.categories.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("category tree: %w", err)
	}
	closures := taxonomy.Closures(all)

	flat := all
	if !includeInactive {
		flat = slices.DeleteFunc(slices.Clone(all), func(c models.Category) bool { return !c.Active })
	}
	for i := range flat {
		n, err := s.providers.CountProviderServices(ctx, closures[flat[i].ID])
		if err != nil {
			return nil, fmt.Errorf("category tree: %w", err)
		}
		flat[i].ProviderCount = n
	}
	return taxonomy.BuildTree(flat), nil
}

// CreateCategory validates and stores a new category. A blank slug is
// derived from the name; a nil sort order appends after the siblings.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	c := &models.Category{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Icon:        in.Icon,
		Level:       in.Level,
		ParentID:    in.ParentID,
		Active:      in.Active == nil || *in.Active,
	}
	if err := fillSlug(&c.Slug, c.Name); err != nil {
		return nil, err
	}

	var parent *models.Category
	if c.ParentID != nil {
		var err error
		parent, err = s.categories.FindCategory(ctx, *c.ParentID)
		if err != nil {
			return nil, fmt.Errorf("find parent category: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("parent category %s: %w", *c.ParentID, models.ErrNotFound)
		}
	}
	if err := c.Validate(parent); err != nil {
		return nil, err
	}

	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	} else {
		next, err := s.categories.NextSortOrder(ctx, c.ParentID)
		if err != nil {
			return nil, fmt.Errorf("create category: %w", err)
		}
		c.SortOrder = next
	}

	created, err := s.categories.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.resolver.Invalidate(ctx)

	slog.Info("category created", "category_id", created.ID, "slug", created.Slug, "level", created.Level)
	return created, nil
}

// UpdateCategory changes the editable fields of a category. Fields left
// nil in the input keep their stored values.
func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryUpdate) (*models.Category, error) {
	c, err := s.categories.FindCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", id, models.ErrNotFound)
	}

	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		c.Slug = *in.Slug
		if err := fillSlug(&c.Slug, c.Name); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if in.Icon != nil {
		c.Icon = *in.Icon
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.Active != nil {
		c.Active = *in.Active
	}

	if err := s.categories.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	s.resolver.Invalidate(ctx)

	slog.Info("category updated", "category_id", c.ID, "slug", c.Slug)
	return c, nil
}

// CreateProvider stores a new provider. A blank slug is derived from the
// business name; a zero sort order places it last in the global ranking.
func (s *Service) CreateProvider(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	if p.SortOrder < 0 || p.SortOrder > models.MaxSortOrder {
		return nil, fmt.Errorf("sort order %d must be between 0 and %d: %w", p.SortOrder, models.MaxSortOrder, models.ErrInvalidArgument)
	}
	if err := fillSlug(&p.Slug, p.BusinessName); err != nil {
		return nil, err
	}

	created, err := s.providers.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	slog.Info("provider created", "provider_id", created.ID, "slug", created.Slug, "sort_order", created.SortOrder)
	return created, nil
}

// AddService links a provider to a category. Both must exist.
func (s *Service) AddService(ctx context.Context, svc *models.ProviderService) (*models.ProviderService, error) {
	p, err := s.providers.FindProvider(ctx, svc.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("find provider: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("provider %s: %w", svc.ProviderID, models.ErrNotFound)
	}

	c, err := s.categories.FindCategory(ctx, svc.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("category %s: %w", svc.CategoryID, models.ErrNotFound)
	}

	created, err := s.providers.AddService(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("add provider service: %w", err)
	}

	slog.Info("provider service added", "provider_id", p.ID, "category_id", c.ID)
	return created, nil
}
