package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"phototag/internal/domain/filter"
	"phototag/internal/domain/tag"
)

// Operation names the long-running pass currently holding the session.
type Operation uint8

const (
	None Operation = iota
	Aggregating
	Filtering
	BulkApplying
)

func (o Operation) String() string {
	switch o {
	case Aggregating:
		return "aggregating"
	case Filtering:
		return "filtering"
	case BulkApplying:
		return "bulk_applying"
	default:
		return "none"
	}
}

// ErrBusy is returned by Begin while another pass holds the session.
var ErrBusy = errors.New("another tag operation is in progress")

// FilterListener is called after the filter's membership, negate flag or
// active state changed; the host re-evaluates visibility in response.
type FilterListener func(filter.State)

// Session is the per-application context handed to every host. It owns the
// tag vocabulary and the filter, and serialises aggregation, filtering and
// bulk passes so they never interleave.
type Session struct {
	Vocabulary *tag.Vocabulary
	Filter     *filter.Filter

	mu        sync.Mutex
	current   Operation
	listeners []FilterListener
}

// New creates a session with an empty filter and a vocabulary seeded with known.
func New(known ...string) *Session {
	return &Session{
		Vocabulary: tag.NewVocabulary(known...),
		Filter:     filter.New(),
	}
}

// Begin claims the session for op. The returned release func must be called
// when the pass ends, including on cancellation and error paths.
// PRE: op != None
// POST: returns ErrBusy (wrapped with the running op) if a pass is running
func (s *Session) Begin(op Operation) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != None {
		return nil, fmt.Errorf("%w: %s", ErrBusy, s.current)
	}
	s.current = op
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.current = None
			s.mu.Unlock()
		})
	}, nil
}

// Current returns the running operation, None when idle.
func (s *Session) Current() Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// OnFilterChanged registers fn to be called on every filter change.
func (s *Session) OnFilterChanged(fn FilterListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// NotifyFilterChanged raises the filter-changed event with the current state.
func (s *Session) NotifyFilterChanged() {
	st := s.Filter.State()
	s.mu.Lock()
	listeners := append([]FilterListener(nil), s.listeners...)
	s.mu.Unlock()

	slog.Debug("filter_changed", "tags", st.Tags, "negate", st.Negate, "active", st.Active)
	for _, fn := range listeners {
		fn(st)
	}
}
