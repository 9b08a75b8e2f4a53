package models

import (
	"errors"
	"testing"
)

func TestParseStatusField(t *testing.T) {
	tests := []struct {
		in      string
		want    StatusField
		wantErr bool
	}{
		{in: "active", want: StatusActive},
		{in: "Featured", want: StatusFeatured},
		{in: " premium ", want: StatusPremium},
		{in: "VERIFIED", want: StatusVerified},
		{in: "sortOrder", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatusField(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("ParseStatusField(%q) error = %v, want ErrInvalidArgument", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStatusField(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStatusField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestStatusPatchTouchesOneField verifies that a status patch leaves the
// other flags and the sort order alone.
func TestStatusPatchTouchesOneField(t *testing.T) {
	p := Provider{SortOrder: 4, StatusFlags: StatusFlags{Active: true, Verified: true}}

	p.Apply(StatusPatch(StatusFeatured, true))

	want := StatusFlags{Active: true, Featured: true, Verified: true}
	if p.StatusFlags != want {
		t.Errorf("flags = %+v, want %+v", p.StatusFlags, want)
	}
	if p.SortOrder != 4 {
		t.Errorf("sort order changed to %d", p.SortOrder)
	}
}

func TestSortOrderPatch(t *testing.T) {
	p := Provider{SortOrder: 12, StatusFlags: StatusFlags{Premium: true}}
	patch := SortOrderPatch(1)

	if patch.Empty() {
		t.Fatal("patch should not be empty")
	}
	p.Apply(patch)

	if p.SortOrder != 1 {
		t.Errorf("sort order = %d, want 1", p.SortOrder)
	}
	if !p.Premium {
		t.Error("premium flag should be untouched")
	}
	if !(ProviderPatch{}).Empty() {
		t.Error("zero patch should be empty")
	}
}
