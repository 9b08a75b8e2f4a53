package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"servicedir/internal/directory"
	"servicedir/internal/ranking"
)

// Public groups the read-only public API handlers.
type Public struct {
	directory Directory
}

// NewPublic creates a new Public handler group.
func NewPublic(dir Directory) *Public {
	return &Public{directory: dir}
}

// CategoryProviders lists the active providers of a category and all of
// its subcategories, ranked by the sort query parameter.
func (p *Public) CategoryProviders(w http.ResponseWriter, r *http.Request) {
	page, err := intQuery(r, "page", 1)
	if err != nil {
		writeError(w, r, err)
		return
	}
	perPage, err := intQuery(r, "per_page", directory.DefaultPerPage)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := p.directory.CategoryProviders(r.Context(),
		chi.URLParam(r, "slug"),
		ranking.ParseSortMode(r.URL.Query().Get("sort")),
		page, perPage,
	)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Categories returns the active category tree with provider counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	tree, err := p.directory.CategoryTree(r.Context(), false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}
