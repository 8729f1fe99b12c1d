package tag

import (
	"fmt"
	"sync"
)

// Vocabulary is the set of tag names known to a session.
// It keeps no back-references: removing a name does not touch image
// associations or filter state, callers cascade that themselves.
type Vocabulary struct {
	mu    sync.RWMutex
	names Set
}

// NewVocabulary returns a vocabulary seeded with names. Empty and repeated
// names are skipped.
func NewVocabulary(names ...string) *Vocabulary {
	v := &Vocabulary{names: make(Set, len(names))}
	for _, n := range names {
		if n != "" {
			v.names.Add(n)
		}
	}
	return v
}

// Add inserts name.
// PRE: none
// POST: name is present; returns ErrEmptyName or ErrDuplicateTag and leaves
// the vocabulary unchanged on failure
func (v *Vocabulary) Add(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.names.Has(name) {
		return fmt.Errorf("%w: %s", ErrDuplicateTag, name)
	}
	v.names.Add(name)
	return nil
}

// Remove deletes name. Removing an absent name is a no-op.
// PRE: none
// POST: name is absent; returns whether it was present
func (v *Vocabulary) Remove(name string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.names.Remove(name)
}

// Contains reports whether name is known.
func (v *Vocabulary) Contains(name string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.names.Has(name)
}

// All returns a copy of the known names in no particular order.
func (v *Vocabulary) All() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	list := make([]string, 0, len(v.names))
	for n := range v.names {
		list = append(list, n)
	}
	return list
}

// Sorted returns the known names in ascending order.
func (v *Vocabulary) Sorted() []string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.names.Sorted()
}

// Len returns the number of known names.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.names)
}
