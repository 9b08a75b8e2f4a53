package taxonomy

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"servicedir/internal/models"
)

// fakeReader serves categories from memory and counts child lookups.
type fakeReader struct {
	cats        map[uuid.UUID]models.Category
	childCalls  int
	errChildren error
}

func newFakeReader(cats ...models.Category) *fakeReader {
	r := &fakeReader{cats: make(map[uuid.UUID]models.Category)}
	for _, c := range cats {
		r.cats[c.ID] = c
	}
	return r
}

func (r *fakeReader) FindCategory(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := r.cats[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeReader) ListCategoryChildren(_ context.Context, parentID uuid.UUID) ([]models.Category, error) {
	r.childCalls++
	if r.errChildren != nil {
		return nil, r.errChildren
	}
	var out []models.Category
	for _, c := range r.cats {
		if c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

// memCache is an in-memory SetCache with generations.
type memCache struct {
	sets    map[uuid.UUID]models.CategorySet
	version int64
	hits    int
	stale   int
}

func (m *memCache) Get(_ context.Context, id uuid.UUID) (models.CategorySet, int64, bool) {
	s, ok := m.sets[id]
	if ok {
		m.hits++
	}
	return s, m.version, ok
}

func (m *memCache) Set(_ context.Context, id uuid.UUID, version int64, set models.CategorySet) {
	if version != m.version {
		m.stale++
		return
	}
	m.sets[id] = set
}

func (m *memCache) InvalidateAll(context.Context) {
	m.version++
	m.sets = make(map[uuid.UUID]models.CategorySet)
}

func category(name string, level models.Level, parent *models.Category) models.Category {
	c := models.Category{ID: uuid.New(), Name: name, Level: level, Active: true}
	if parent != nil {
		c.ParentID = &parent.ID
	}
	return c
}

// plumbingTree builds Plumbing > {Drain Cleaning > Hydro Jetting, Water Heaters}
// plus an unrelated Electrical root.
func plumbingTree() (plumbing, drains, jetting, heaters, electrical models.Category) {
	plumbing = category("Plumbing", models.LevelPrimary, nil)
	drains = category("Drain Cleaning", models.LevelSecondary, &plumbing)
	jetting = category("Hydro Jetting", models.LevelTertiary, &drains)
	heaters = category("Water Heaters", models.LevelSecondary, &plumbing)
	heaters.Active = false
	electrical = category("Electrical", models.LevelPrimary, nil)
	return
}

func TestResolveIncludesAllDescendants(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	r := NewResolver(newFakeReader(plumbing, drains, jetting, heaters, electrical), nil)

	set, err := r.Resolve(context.Background(), plumbing.ID)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{plumbing.ID, drains.ID, jetting.ID, heaters.ID}, set.IDs())
	assert.False(t, set.Contains(electrical.ID))
}

func TestResolveLeafIsItself(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	r := NewResolver(newFakeReader(plumbing, drains, jetting, heaters, electrical), nil)

	set, err := r.Resolve(context.Background(), jetting.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{jetting.ID}, set.IDs())

	set, err = r.Resolve(context.Background(), electrical.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{electrical.ID}, set.IDs())
}

// TestResolveIsClosed verifies the closure property for every category:
// every child of a member is itself a member.
func TestResolveIsClosed(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	reader := newFakeReader(plumbing, drains, jetting, heaters, electrical)
	r := NewResolver(reader, nil)
	ctx := context.Background()

	for id := range reader.cats {
		set, err := r.Resolve(ctx, id)
		require.NoError(t, err)
		require.True(t, set.Contains(id))

		for member := range set {
			children, _ := reader.ListCategoryChildren(ctx, member)
			for _, c := range children {
				assert.True(t, set.Contains(c.ID), "child %s of member %s missing", c.Name, member)
			}
		}
	}
}

func TestResolveNotFound(t *testing.T) {
	r := NewResolver(newFakeReader(), nil)

	_, err := r.Resolve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolvePropagatesStoreErrors(t *testing.T) {
	plumbing, _, _, _, _ := plumbingTree()
	reader := newFakeReader(plumbing)
	reader.errChildren = models.ErrStoreFailure
	r := NewResolver(reader, nil)

	_, err := r.Resolve(context.Background(), plumbing.ID)
	assert.True(t, errors.Is(err, models.ErrStoreFailure))
}

func TestResolveUsesCache(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	reader := newFakeReader(plumbing, drains, jetting, heaters, electrical)
	cache := &memCache{sets: make(map[uuid.UUID]models.CategorySet)}
	r := NewResolver(reader, cache)
	ctx := context.Background()

	first, err := r.Resolve(ctx, plumbing.ID)
	require.NoError(t, err)
	calls := reader.childCalls

	second, err := r.Resolve(ctx, plumbing.ID)
	require.NoError(t, err)

	assert.Equal(t, calls, reader.childCalls, "second resolve should not hit the reader")
	assert.Equal(t, 1, cache.hits)
	assert.ElementsMatch(t, first.IDs(), second.IDs())

	r.Invalidate(ctx)
	_, err = r.Resolve(ctx, plumbing.ID)
	require.NoError(t, err)
	assert.Greater(t, reader.childCalls, calls)
}

// invalidatingReader bumps the cache generation midway through a walk, the
// way a concurrent category write would.
type invalidatingReader struct {
	*fakeReader
	cache *memCache
	done  bool
}

func (r *invalidatingReader) ListCategoryChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	if !r.done {
		r.done = true
		r.cache.InvalidateAll(ctx)
	}
	return r.fakeReader.ListCategoryChildren(ctx, parentID)
}

func TestResolveDropsSetsFromOldGeneration(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	cache := &memCache{sets: make(map[uuid.UUID]models.CategorySet)}
	reader := &invalidatingReader{fakeReader: newFakeReader(plumbing, drains, jetting, heaters, electrical), cache: cache}
	r := NewResolver(reader, cache)

	set, err := r.Resolve(context.Background(), plumbing.ID)
	require.NoError(t, err)
	assert.Len(t, set, 4)
	assert.Equal(t, 1, cache.stale, "a set resolved across an invalidation must not be cached")
	assert.Empty(t, cache.sets)
}

func TestBuildTree(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	flat := []models.Category{plumbing, electrical, drains, heaters, jetting}

	tree := BuildTree(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, "Plumbing", tree[0].Name)
	assert.Equal(t, "Electrical", tree[1].Name)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "Drain Cleaning", tree[0].Children[0].Name)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Hydro Jetting", tree[0].Children[0].Children[0].Name)
	assert.Empty(t, tree[1].Children)
}

func TestBuildTreeEmpty(t *testing.T) {
	tree := BuildTree(nil)
	assert.NotNil(t, tree, "an empty taxonomy encodes as [] rather than null")
	assert.Empty(t, tree)
}

func TestClosuresMatchResolve(t *testing.T) {
	plumbing, drains, jetting, heaters, electrical := plumbingTree()
	flat := []models.Category{plumbing, drains, jetting, heaters, electrical}
	r := NewResolver(newFakeReader(flat...), nil)

	closures := Closures(flat)
	require.Len(t, closures, len(flat))
	for _, c := range flat {
		want, err := r.Resolve(context.Background(), c.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, want.IDs(), closures[c.ID].IDs(), c.Name)
	}
	assert.Len(t, closures[plumbing.ID], 4, "inactive descendants are still members")
}

func TestClosuresSurviveCycles(t *testing.T) {
	a := category("A", models.LevelPrimary, nil)
	b := category("B", models.LevelSecondary, &a)
	a.ParentID = &b.ID

	closures := Closures([]models.Category{a, b})
	assert.ElementsMatch(t, []uuid.UUID{a.ID, b.ID}, closures[a.ID].IDs())
}
