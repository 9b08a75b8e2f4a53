package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

// TestLevelDepth verifies the depth of each level and that unknown levels
// are rejected.
func TestLevelDepth(t *testing.T) {
	tests := []struct {
		level Level
		depth int
		valid bool
	}{
		{LevelPrimary, 0, true},
		{LevelSecondary, 1, true},
		{LevelTertiary, 2, true},
		{Level("quaternary"), -1, false},
		{Level(""), -1, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			if got := tt.level.Depth(); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
			if got := tt.level.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	primaryID := uuid.New()
	secondaryID := uuid.New()
	primary := &Category{ID: primaryID, Level: LevelPrimary}
	secondary := &Category{ID: secondaryID, Level: LevelSecondary, ParentID: &primaryID}

	tests := []struct {
		name    string
		cat     Category
		parent  *Category
		wantErr bool
	}{
		{name: "primary without parent", cat: Category{Level: LevelPrimary}},
		{name: "primary with parent", cat: Category{Level: LevelPrimary, ParentID: &primaryID}, parent: primary, wantErr: true},
		{name: "secondary under primary", cat: Category{Level: LevelSecondary, ParentID: &primaryID}, parent: primary},
		{name: "secondary without parent", cat: Category{Level: LevelSecondary}, wantErr: true},
		{name: "tertiary under secondary", cat: Category{Level: LevelTertiary, ParentID: &secondaryID}, parent: secondary},
		{name: "tertiary under primary", cat: Category{Level: LevelTertiary, ParentID: &primaryID}, parent: primary, wantErr: true},
		{name: "secondary under secondary", cat: Category{Level: LevelSecondary, ParentID: &secondaryID}, parent: secondary, wantErr: true},
		{name: "unknown level", cat: Category{Level: Level("top")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cat.Validate(tt.parent)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("Validate() = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestCategorySet(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	s := NewCategorySet(a, b, a)

	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}
	if !s.Contains(a) || !s.Contains(b) {
		t.Error("expected both ids to be members")
	}
	if s.Contains(uuid.New()) {
		t.Error("unexpected member")
	}
	if got := len(s.IDs()); got != 2 {
		t.Errorf("IDs() returned %d ids, want 2", got)
	}
}
