package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"servicedir/internal/models"
)

// ProviderStore manages providers and their service links.
type ProviderStore struct {
	db *sqlx.DB
}

// NewProviderStore returns a new ProviderStore.
func NewProviderStore(db *sqlx.DB) *ProviderStore {
	return &ProviderStore{db: db}
}

const providerColumns = `id, business_name, slug, description, phone, email, website, address, city,
	active, featured, premium, verified, sort_order,
	rating, review_count, google_rating, google_review_count, google_places_id,
	created_at, updated_at`

// ProviderQuery narrows ListProviders at the database level.
type ProviderQuery struct {
	// Categories restricts the result to providers with at least one
	// service in the set. Nil means every provider.
	Categories models.CategorySet

	// IncludeInactive returns inactive providers as well.
	IncludeInactive bool
}

// ListProviders returns the matching providers with CategoryIDs populated.
// Order is unspecified; callers rank the result in memory.
func (s *ProviderStore) ListProviders(ctx context.Context, q ProviderQuery) ([]models.Provider, error) {
	var (
		where []string
		args  []any
	)
	if !q.IncludeInactive {
		where = append(where, "p.active")
	}
	if q.Categories != nil {
		if len(q.Categories) == 0 {
			return []models.Provider{}, nil
		}
		where = append(where, `EXISTS (
			SELECT 1 FROM provider_services ps
			WHERE ps.provider_id = p.id AND ps.category_id IN (?))`)
		args = append(args, q.Categories.IDs())
	}

	query := `SELECT ` + qualified("p", providerColumns) + ` FROM providers p`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("expand provider query: %w", err)
	}

	var items []models.Provider
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(query), args...); err != nil {
		return nil, failure("list providers", err)
	}
	if err := s.loadCategoryIDs(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// FindProvider retrieves a provider by ID. Returns nil if not found.
func (s *ProviderStore) FindProvider(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	var p models.Provider
	err := s.db.GetContext(ctx, &p, `SELECT `+providerColumns+` FROM providers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, failure("find provider by id", err)
	}

	one := []models.Provider{p}
	if err := s.loadCategoryIDs(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// Create inserts a provider. A zero SortOrder places it after every
// existing provider.
func (s *ProviderStore) Create(ctx context.Context, p *models.Provider) (*models.Provider, error) {
	var created models.Provider
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO providers (
			business_name, slug, description, phone, email, website, address, city,
			active, featured, premium, verified, sort_order,
			rating, review_count, google_rating, google_review_count, google_places_id
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			CASE WHEN $13 > 0 THEN $13 ELSE (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM providers) END,
			$14, $15, $16, $17, $18
		)
		RETURNING `+providerColumns,
		p.BusinessName, p.Slug, p.Description, p.Phone, p.Email, p.Website, p.Address, p.City,
		p.Active, p.Featured, p.Premium, p.Verified, p.SortOrder,
		p.Rating, p.ReviewCount, p.GoogleRating, p.GoogleReviewCount, p.GooglePlacesID,
	).StructScan(&created)
	if err != nil {
		return nil, failure("create provider", err)
	}
	created.CategoryIDs = []uuid.UUID{}
	return &created, nil
}

// AddService links a provider to a category.
func (s *ProviderStore) AddService(ctx context.Context, svc *models.ProviderService) (*models.ProviderService, error) {
	var created models.ProviderService
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO provider_services (provider_id, category_id, price, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, provider_id, category_id, price, description, created_at`,
		svc.ProviderID, svc.CategoryID, svc.Price, svc.Description,
	).StructScan(&created)
	if err != nil {
		return nil, failure("add provider service", err)
	}
	return &created, nil
}

// CountProviderServices returns the number of distinct active providers
// with at least one service in the set.
func (s *ProviderStore) CountProviderServices(ctx context.Context, set models.CategorySet) (int, error) {
	if len(set) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`
		SELECT COUNT(DISTINCT ps.provider_id)
		FROM provider_services ps
		JOIN providers p ON p.id = ps.provider_id
		WHERE p.active AND ps.category_id IN (?)`, set.IDs())
	if err != nil {
		return 0, fmt.Errorf("expand count query: %w", err)
	}

	var n int
	if err := s.db.GetContext(ctx, &n, s.db.Rebind(query), args...); err != nil {
		return 0, failure("count provider services", err)
	}
	return n, nil
}

// UpdateProvider applies a partial update to one provider.
func (s *ProviderStore) UpdateProvider(ctx context.Context, id uuid.UUID, patch models.ProviderPatch) error {
	if patch.Empty() {
		var exists bool
		if err := s.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM providers WHERE id = $1)`, id); err != nil {
			return failure("update provider", err)
		}
		if !exists {
			return models.ErrNotFound
		}
		return nil
	}
	return execPatch(ctx, s.db, id, patch)
}

// UpdateRanked locks every provider row, hands the set to fn, and applies
// the updates fn returns in the same transaction. Concurrent callers
// serialize on the row locks, so two swaps never read the same stale
// neighbours.
func (s *ProviderStore) UpdateRanked(ctx context.Context, fn func(ranked []models.Provider) ([]models.ProviderUpdate, error)) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return failure("begin ranking transaction", err)
	}
	defer tx.Rollback()

	var ranked []models.Provider
	err = tx.SelectContext(ctx, &ranked, `
		SELECT `+providerColumns+` FROM providers
		ORDER BY sort_order, id
		FOR UPDATE`)
	if err != nil {
		return failure("lock providers", err)
	}

	updates, err := fn(ranked)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if err := execPatch(ctx, tx, u.ID, u.Patch); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return failure("commit ranking transaction", err)
	}
	return nil
}

// execPatch builds an UPDATE with one SET clause per non-nil patch field.
func execPatch(ctx context.Context, db sqlx.ExecerContext, id uuid.UUID, patch models.ProviderPatch) error {
	var (
		sets []string
		args []any
	)
	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.SortOrder != nil {
		add("sort_order", *patch.SortOrder)
	}
	if patch.Active != nil {
		add("active", *patch.Active)
	}
	if patch.Featured != nil {
		add("featured", *patch.Featured)
	}
	if patch.Premium != nil {
		add("premium", *patch.Premium)
	}
	if patch.Verified != nil {
		add("verified", *patch.Verified)
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE providers SET %s, updated_at = NOW() WHERE id = $%d`,
		strings.Join(sets, ", "), len(args))
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return failure("update provider", err)
	}
	return requireRow(res, "update provider")
}

// loadCategoryIDs fills CategoryIDs for each provider in place.
func (s *ProviderStore) loadCategoryIDs(ctx context.Context, providers []models.Provider) error {
	if len(providers) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(providers))
	index := make(map[uuid.UUID]int, len(providers))
	for i := range providers {
		ids[i] = providers[i].ID
		index[providers[i].ID] = i
		providers[i].CategoryIDs = []uuid.UUID{}
	}

	query, args, err := sqlx.In(`
		SELECT provider_id, category_id FROM provider_services
		WHERE provider_id IN (?)
		ORDER BY created_at`, ids)
	if err != nil {
		return fmt.Errorf("expand service query: %w", err)
	}

	var links []struct {
		ProviderID uuid.UUID `db:"provider_id"`
		CategoryID uuid.UUID `db:"category_id"`
	}
	if err := s.db.SelectContext(ctx, &links, s.db.Rebind(query), args...); err != nil {
		return failure("load provider services", err)
	}
	for _, l := range links {
		i := index[l.ProviderID]
		providers[i].CategoryIDs = append(providers[i].CategoryIDs, l.CategoryID)
	}
	return nil
}

// qualified prefixes each column in a comma-separated list with alias.
func qualified(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}
