package ranking

import (
	"bytes"
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"servicedir/internal/models"
)

// SortMode selects the primary key of the provider ordering.
type SortMode string

const (
	SortPriority SortMode = "priority"
	SortRating   SortMode = "rating"
	SortReviews  SortMode = "reviews"
	SortName     SortMode = "name"
)

// ParseSortMode maps a query-string value to a SortMode. Unknown or empty
// values fall back to SortPriority.
func ParseSortMode(s string) SortMode {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SortRating, SortReviews, SortName:
		return m
	default:
		return SortPriority
	}
}

// Compare orders a before b (-1), after b (1), or equal (0) under mode.
//
// Every mode ends with the case-insensitive business name and then the
// provider ID, so two distinct providers never compare equal. Status flags
// take no part in the order.
func Compare(a, b *models.Provider, mode SortMode) int {
	if c := comparePrimary(a, b, mode); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.BusinessName), strings.ToLower(b.BusinessName)); c != 0 {
		return c
	}
	return bytes.Compare(a.ID[:], b.ID[:])
}

func comparePrimary(a, b *models.Provider, mode SortMode) int {
	switch mode {
	case SortRating:
		ra, rb := ResolveRating(a), ResolveRating(b)
		if c := cmp.Compare(rb.Rating, ra.Rating); c != 0 {
			return c
		}
		return cmp.Compare(rb.ReviewCount, ra.ReviewCount)
	case SortReviews:
		ra, rb := ResolveRating(a), ResolveRating(b)
		if c := cmp.Compare(rb.ReviewCount, ra.ReviewCount); c != 0 {
			return c
		}
		return cmp.Compare(rb.Rating, ra.Rating)
	case SortName:
		// The name tie-break is the key.
		return 0
	default:
		return cmp.Compare(a.SortOrder, b.SortOrder)
	}
}

// Sort orders providers in place.
func Sort(providers []models.Provider, mode SortMode) {
	slices.SortFunc(providers, func(a, b models.Provider) int {
		return Compare(&a, &b, mode)
	})
}

// Neighbors locates id in priority order and returns it together with the
// providers immediately before and after it. prev or next is nil at either
// end of the ranking; self is nil when id is absent.
func Neighbors(providers []models.Provider, id uuid.UUID) (prev, self, next *models.Provider) {
	ranked := slices.Clone(providers)
	Sort(ranked, SortPriority)

	for i := range ranked {
		if ranked[i].ID != id {
			continue
		}
		if i > 0 {
			prev = &ranked[i-1]
		}
		if i < len(ranked)-1 {
			next = &ranked[i+1]
		}
		return prev, &ranked[i], next
	}
	return nil, nil, nil
}
