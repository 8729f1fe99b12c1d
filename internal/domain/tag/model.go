package tag

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrEmptyName     = errors.New("tag name cannot be empty")
	ErrDuplicateTag  = errors.New("tag already exists")
	ErrInvalidAction = errors.New("tag action must be checked or unchecked")
	ErrUnknownTag    = errors.New("tag is not in the vocabulary")
)

// ValidateName checks that name can be used as a tag.
// Names are compared exactly; "Beach" and "beach" are different tags.
// PRE: none
// POST: returns ErrEmptyName for "", nil otherwise
func ValidateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	return nil
}

// TriState is the aggregate state of a tag across a selection of images.
type TriState uint8

const (
	Unchecked TriState = iota
	Checked
	Mixed
)

// String returns the lower-case name used in JSON payloads and CLI output.
func (s TriState) String() string {
	switch s {
	case Checked:
		return "checked"
	case Mixed:
		return "mixed"
	default:
		return "unchecked"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s TriState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *TriState) UnmarshalText(b []byte) error {
	v, err := ParseTriState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseTriState parses the output of TriState.String.
func ParseTriState(v string) (TriState, error) {
	switch v {
	case "checked":
		return Checked, nil
	case "unchecked":
		return Unchecked, nil
	case "mixed":
		return Mixed, nil
	}
	return Unchecked, fmt.Errorf("unknown tri-state %q", v)
}

// Action is a single requested change: make Name present (Checked) or
// absent (Unchecked) on every image of a selection.
type Action struct {
	Name    string   `json:"tag"`
	Desired TriState `json:"desired"`
}

// Validate checks the action's invariants.
// PRE: none
// POST: returns nil if Name is valid and Desired is Checked or Unchecked
func (a Action) Validate() error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	if a.Desired != Checked && a.Desired != Unchecked {
		return fmt.Errorf("%w: %s=%s", ErrInvalidAction, a.Name, a.Desired)
	}
	return nil
}

// Set is an unordered set of tag names.
type Set map[string]struct{}

// NewSet returns a Set holding names.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil Set is empty.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name.
func (s Set) Add(name string) {
	s[name] = struct{}{}
}

// Remove deletes name, returning whether it was present.
func (s Set) Remove(name string) bool {
	if _, ok := s[name]; !ok {
		return false
	}
	delete(s, name)
	return true
}

// Intersects reports whether s and other share at least one name.
func (s Set) Intersects(other Set) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for n := range small {
		if large.Has(n) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy.
func (s Set) Clone() Set {
	c := make(Set, len(s))
	for n := range s {
		c[n] = struct{}{}
	}
	return c
}

// Sorted returns the names in ascending order.
func (s Set) Sorted() []string {
	list := make([]string, 0, len(s))
	for n := range s {
		list = append(list, n)
	}
	sort.Strings(list)
	return list
}
