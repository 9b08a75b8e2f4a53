package ranking

import (
	"strings"

	"servicedir/internal/models"
)

// Criteria are the conjunctive predicates of Filter. The zero value
// matches every provider.
type Criteria struct {
	// Categories is an already resolved category set. Nil means no
	// category predicate.
	Categories models.CategorySet

	ActiveOnly   bool
	VerifiedOnly bool
	PremiumOnly  bool

	// MinRating compares against the resolved rating. Providers with no
	// rating at all fail any positive minimum.
	MinRating *float64

	// SearchText is a case-insensitive substring of the business name or
	// description. Blank text is no filter.
	SearchText string
}

// Filter returns the providers that satisfy every predicate in c. The
// result shares no order guarantee with the input beyond what the caller
// imposes with Sort.
func Filter(providers []models.Provider, c Criteria) []models.Provider {
	needle := strings.ToLower(strings.TrimSpace(c.SearchText))

	out := make([]models.Provider, 0, len(providers))
	for i := range providers {
		if c.matches(&providers[i], needle) {
			out = append(out, providers[i])
		}
	}
	return out
}

func (c Criteria) matches(p *models.Provider, needle string) bool {
	if c.ActiveOnly && !p.Active {
		return false
	}
	if c.VerifiedOnly && !p.Verified {
		return false
	}
	if c.PremiumOnly && !p.Premium {
		return false
	}
	if c.Categories != nil && !servesAny(p, c.Categories) {
		return false
	}
	if c.MinRating != nil && *c.MinRating > 0 {
		r := ResolveRating(p)
		if r.Source == SourceNone || r.Rating < *c.MinRating {
			return false
		}
	}
	if needle != "" &&
		!strings.Contains(strings.ToLower(p.BusinessName), needle) &&
		!strings.Contains(strings.ToLower(p.Description), needle) {
		return false
	}
	return true
}

func servesAny(p *models.Provider, set models.CategorySet) bool {
	for _, id := range p.CategoryIDs {
		if set.Contains(id) {
			return true
		}
	}
	return false
}
