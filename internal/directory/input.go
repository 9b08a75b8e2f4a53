package directory

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"servicedir/internal/models"
	"servicedir/internal/slug"
)

// CategoryInput holds the fields for creating a category.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	Level       models.Level
	ParentID    *uuid.UUID
	SortOrder   *int
	Active      *bool
}

// CategoryUpdate holds the editable fields of a category. Level and parent
// cannot change after creation.
type CategoryUpdate struct {
	Name        *string
	Slug        *string
	Description *string
	Icon        *string
	SortOrder   *int
	Active      *bool
}

// fillSlug normalizes *s, deriving it from source when blank.
func fillSlug(s *string, source string) error {
	if strings.TrimSpace(*s) == "" {
		*s = source
	}
	*s = slug.Generate(*s)
	if *s == "" {
		return fmt.Errorf("cannot derive a slug from %q: %w", source, models.ErrInvalidArgument)
	}
	return nil
}
