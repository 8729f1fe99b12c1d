package filter

import (
	"sync"

	"phototag/internal/domain/tag"
)

// State is a point-in-time copy of the filter.
type State struct {
	Tags   []string `json:"tags"`
	Negate bool     `json:"negate"`
	Active bool     `json:"active"`
}

// Filter holds the active filter tags and the negate flag and decides
// per-image visibility. The filter is active only while it has tags.
//
// Matching is any-match: an image matches when it carries at least one
// filter tag. Without negate, non-matching images are filtered out; with
// negate, matching images are.
type Filter struct {
	mu     sync.RWMutex
	tags   tag.Set
	negate bool
}

// New returns an empty, inactive filter.
func New() *Filter {
	return &Filter{tags: make(tag.Set)}
}

// SetTags replaces the filter tags wholesale.
// PRE: none
// POST: filter tags equal names; returns whether membership changed
func (f *Filter) SetTags(names []string) bool {
	next := tag.NewSet(names...)
	delete(next, "")
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := !sameSet(f.tags, next)
	f.tags = next
	return changed
}

// Clear empties the filter tags, deactivating the filter.
// PRE: none
// POST: Active() is false; returns whether anything was removed
func (f *Filter) Clear() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := len(f.tags) > 0
	f.tags = make(tag.Set)
	return changed
}

// SetNegate updates the negate flag without touching the tags.
// Returns whether the flag changed.
func (f *Filter) SetNegate(negate bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := f.negate != negate
	f.negate = negate
	return changed
}

// OnTagRemoved drops name from the filter tags.
// PRE: none
// POST: name is not a filter tag; returns true when it was one, meaning the
// filter must be re-applied by the host
func (f *Filter) OnTagRemoved(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tags.Remove(name)
}

// Active reports whether any filter tag is set.
func (f *Filter) Active() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.tags) > 0
}

// Negate returns the negate flag.
func (f *Filter) Negate() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.negate
}

// Contains reports whether name is a filter tag.
func (f *Filter) Contains(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.tags.Has(name)
}

// State returns a copy of the current filter.
func (f *Filter) State() State {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return State{
		Tags:   f.tags.Sorted(),
		Negate: f.negate,
		Active: len(f.tags) > 0,
	}
}

// IsImageFilteredOut decides whether an image carrying imageTags is hidden.
// PRE: none
// POST: false whenever the filter is inactive, regardless of negate
// INVARIANT: f is not mutated
func (f *Filter) IsImageFilteredOut(imageTags tag.Set) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.tags) == 0 {
		return false
	}
	matched := f.tags.Intersects(imageTags)
	if f.negate {
		return matched
	}
	return !matched
}

func sameSet(a, b tag.Set) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if !b.Has(n) {
			return false
		}
	}
	return true
}
