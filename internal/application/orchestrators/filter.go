package orchestrators

import (
	"fmt"

	"phototag/internal/application/session"
	"phototag/internal/domain/filter"
	"phototag/internal/domain/tag"
)

// SetFilterInput carries input for the set filter orchestrator.
// A nil Negate leaves the negate flag unchanged.
type SetFilterInput struct {
	Tags   []string
	Negate *bool
}

// FilterDeps holds dependencies for the filter orchestrators.
type FilterDeps struct {
	Session *session.Session
}

// FilterResult carries the filter state after a mutation.
type FilterResult struct {
	State   filter.State `json:"state"`
	Changed bool         `json:"changed"`
}

// ExecuteSetFilter replaces the filter tags and optionally the negate flag.
// PRE: every name in Tags is in the vocabulary
// POST: filter tags equal Tags; the filter-changed event is raised on change
// INVARIANT: an unknown tag returns tag.ErrUnknownTag and leaves the filter unchanged
func ExecuteSetFilter(input SetFilterInput, deps FilterDeps) (FilterResult, error) {
	for _, name := range input.Tags {
		if !deps.Session.Vocabulary.Contains(name) {
			return FilterResult{State: deps.Session.Filter.State()}, fmt.Errorf("%w: %s", tag.ErrUnknownTag, name)
		}
	}
	changed := deps.Session.Filter.SetTags(input.Tags)
	if input.Negate != nil && deps.Session.Filter.SetNegate(*input.Negate) {
		changed = true
	}
	return finishFilter(changed, deps), nil
}

// ExecuteClearFilter empties the filter tags.
// POST: the filter is inactive
func ExecuteClearFilter(deps FilterDeps) FilterResult {
	return finishFilter(deps.Session.Filter.Clear(), deps)
}

// ExecuteSetNegate flips the filter between show-matching and hide-matching.
func ExecuteSetNegate(negate bool, deps FilterDeps) FilterResult {
	return finishFilter(deps.Session.Filter.SetNegate(negate), deps)
}

func finishFilter(changed bool, deps FilterDeps) FilterResult {
	if changed {
		deps.Session.NotifyFilterChanged()
	}
	return FilterResult{State: deps.Session.Filter.State(), Changed: changed}
}
