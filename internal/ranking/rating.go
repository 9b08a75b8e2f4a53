// Package ranking holds the pure, in-memory half of the ranking engine:
// rating resolution, the provider comparator for each sort mode, and the
// provider filter. Nothing in this package blocks or touches the store.
package ranking

import "servicedir/internal/models"

// Source tells where a resolved rating came from.
type Source string

const (
	SourceExternal Source = "external"
	SourceInternal Source = "internal"
	SourceNone     Source = "none"
)

// Rating is the single canonical rating triple of a provider.
type Rating struct {
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Source      Source  `json:"source"`
}

// ResolveRating picks the rating shown for a provider. The place-data pair
// wins only when both of its fields are present; a partial external record
// falls through to the internal aggregates. The two sources are never mixed.
func ResolveRating(p *models.Provider) Rating {
	if p.GoogleRating != nil && p.GoogleReviewCount != nil {
		return Rating{
			Rating:      *p.GoogleRating,
			ReviewCount: *p.GoogleReviewCount,
			Source:      SourceExternal,
		}
	}

	if p.Rating == nil && p.ReviewCount == nil {
		return Rating{Source: SourceNone}
	}

	r := Rating{Source: SourceInternal}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
	if p.ReviewCount != nil {
		r.ReviewCount = *p.ReviewCount
	}
	return r
}
