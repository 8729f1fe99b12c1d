package projections

import (
	"phototag/internal/application/session"
)

// FilterViewRow is one vocabulary tag and whether it is a filter tag.
type FilterViewRow struct {
	Name     string `json:"tag"`
	Selected bool   `json:"selected"`
}

// GetFilterViewResult carries the output of the filter view projection.
type GetFilterViewResult struct {
	Tags   []FilterViewRow `json:"tags"`
	Negate bool            `json:"negate"`
	Active bool            `json:"active"`
}

// GetFilterViewDeps holds dependencies for the filter view projection.
type GetFilterViewDeps struct {
	Session *session.Session
}

// QueryGetFilterView lists every vocabulary tag with its filter membership.
func QueryGetFilterView(deps GetFilterViewDeps) GetFilterViewResult {
	f := deps.Session.Filter
	names := deps.Session.Vocabulary.Sorted()
	rows := make([]FilterViewRow, 0, len(names))
	for _, name := range names {
		rows = append(rows, FilterViewRow{Name: name, Selected: f.Contains(name)})
	}
	return GetFilterViewResult{Tags: rows, Negate: f.Negate(), Active: f.Active()}
}
