package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"servicedir/internal/models"
)

func TestFilterNoPredicatesKeepsEveryone(t *testing.T) {
	ps := []models.Provider{provider("A", 1), provider("B", 2)}
	ps[1].Active = true

	assert.ElementsMatch(t, names(ps), names(Filter(ps, Criteria{})))
}

func TestFilterActiveOnly(t *testing.T) {
	on := provider("On", 1)
	on.Active = true
	off := provider("Off", 2)

	got := Filter([]models.Provider{on, off}, Criteria{ActiveOnly: true})
	assert.Equal(t, []string{"On"}, names(got))
}

func TestFilterFlags(t *testing.T) {
	both := provider("Both", 1)
	both.Verified, both.Premium = true, true
	verified := provider("Verified", 2)
	verified.Verified = true
	premium := provider("Premium", 3)
	premium.Premium = true
	ps := []models.Provider{both, verified, premium}

	assert.ElementsMatch(t, []string{"Both", "Verified"}, names(Filter(ps, Criteria{VerifiedOnly: true})))
	assert.ElementsMatch(t, []string{"Both", "Premium"}, names(Filter(ps, Criteria{PremiumOnly: true})))
	assert.Equal(t, []string{"Both"}, names(Filter(ps, Criteria{VerifiedOnly: true, PremiumOnly: true})))
}

func TestFilterCategories(t *testing.T) {
	plumbing, drains, roofing := uuid.New(), uuid.New(), uuid.New()

	drainPro := provider("Drain Pro", 1)
	drainPro.CategoryIDs = []uuid.UUID{drains}
	roofer := provider("Roofer", 2)
	roofer.CategoryIDs = []uuid.UUID{roofing}
	none := provider("No Services", 3)

	ps := []models.Provider{drainPro, roofer, none}

	got := Filter(ps, Criteria{Categories: models.NewCategorySet(plumbing, drains)})
	assert.Equal(t, []string{"Drain Pro"}, names(got))

	got = Filter(ps, Criteria{Categories: models.NewCategorySet()})
	assert.Empty(t, got)
}

func TestFilterMinRating(t *testing.T) {
	good := provider("Good", 1)
	good.GoogleRating, good.GoogleReviewCount = ptr(4.5), ptr(20)
	meh := provider("Meh", 2)
	meh.Rating, meh.ReviewCount = ptr(3.0), ptr(4)
	unrated := provider("Unrated", 3)
	ps := []models.Provider{good, meh, unrated}

	assert.Equal(t, []string{"Good"}, names(Filter(ps, Criteria{MinRating: ptr(4.0)})))
	assert.ElementsMatch(t, []string{"Good", "Meh"}, names(Filter(ps, Criteria{MinRating: ptr(3.0)})))
	assert.Len(t, Filter(ps, Criteria{MinRating: ptr(0.0)}), 3)
}

func TestFilterSearchText(t *testing.T) {
	a := provider("Rapid Rooter", 1)
	b := provider("Sparks Electric", 2)
	b.Description = "Emergency ROOTER service on weekends"
	c := provider("Quiet Carpentry", 3)
	ps := []models.Provider{a, b, c}

	assert.ElementsMatch(t, []string{"Rapid Rooter", "Sparks Electric"}, names(Filter(ps, Criteria{SearchText: "rooter"})))
	assert.Len(t, Filter(ps, Criteria{SearchText: "   "}), 3)
}

// TestFilterConjunction verifies that every result satisfies every predicate
// and that the result is a subset of the input.
func TestFilterConjunction(t *testing.T) {
	cat := uuid.New()
	var ps []models.Provider
	for i := 0; i < 32; i++ {
		p := provider("Shop", i+1)
		p.Active = i&1 != 0
		p.Verified = i&2 != 0
		p.Premium = i&4 != 0
		if i&8 != 0 {
			p.CategoryIDs = []uuid.UUID{cat}
		}
		if i&16 != 0 {
			p.Rating, p.ReviewCount = ptr(4.5), ptr(3)
		}
		ps = append(ps, p)
	}

	c := Criteria{
		Categories:   models.NewCategorySet(cat),
		ActiveOnly:   true,
		VerifiedOnly: true,
		PremiumOnly:  true,
		MinRating:    ptr(4.0),
		SearchText:   "shop",
	}
	got := Filter(ps, c)

	assert.Len(t, got, 1)
	input := make(map[uuid.UUID]bool)
	for _, p := range ps {
		input[p.ID] = true
	}
	for _, p := range got {
		assert.True(t, input[p.ID])
		assert.True(t, p.Active && p.Verified && p.Premium)
		assert.Contains(t, p.CategoryIDs, cat)
		assert.GreaterOrEqual(t, ResolveRating(&p).Rating, 4.0)
	}
}
