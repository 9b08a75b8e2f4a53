package taxonomy

import (
	"github.com/google/uuid"

	"servicedir/internal/models"
)

// BuildTree nests a flat category list under its parents. Siblings keep
// the order of the input, so callers pass a list sorted by sort_order.
// The result is never nil.
func BuildTree(flat []models.Category) []models.Category {
	if tree := buildTree(flat, nil); tree != nil {
		return tree
	}
	return []models.Category{}
}

// buildTree recursively collects the children of parentID.
func buildTree(flat []models.Category, parentID *uuid.UUID) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if ptrEqual(c.ParentID, parentID) {
			c.Children = buildTree(flat, &c.ID)
			result = append(result, c)
		}
	}
	return result
}

// ptrEqual compares two *uuid.UUID for equality (both nil or same value).
func ptrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

// Closures resolves every category in flat at once: each ID maps to the
// category plus all of its descendants present in flat. It gives the same
// sets as Resolver.Resolve when flat holds the whole taxonomy, without a
// store round trip per level.
func Closures(flat []models.Category) map[uuid.UUID]models.CategorySet {
	children := make(map[uuid.UUID][]uuid.UUID, len(flat))
	for _, c := range flat {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	out := make(map[uuid.UUID]models.CategorySet, len(flat))
	var walk func(id uuid.UUID) models.CategorySet
	walk = func(id uuid.UUID) models.CategorySet {
		if set, ok := out[id]; ok {
			return set
		}
		set := models.NewCategorySet(id)
		out[id] = set
		for _, child := range children[id] {
			for member := range walk(child) {
				set[member] = struct{}{}
			}
		}
		return set
	}
	for _, c := range flat {
		walk(c.ID)
	}
	return out
}
