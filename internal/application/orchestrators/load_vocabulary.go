package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"phototag/internal/application/session"
)

// KnownTagLister lists persisted tags.
type KnownTagLister interface {
	List(ctx context.Context) ([]string, error)
}

// LoadVocabularyDeps holds dependencies for LoadVocabulary.
type LoadVocabularyDeps struct {
	Session   *session.Session
	KnownTags KnownTagLister
}

// ExecuteLoadVocabulary seeds the session vocabulary from persisted tags.
// PRE: called once at session start
// POST: returns the number of names added; empty or already known names are skipped
func ExecuteLoadVocabulary(ctx context.Context, deps LoadVocabularyDeps) (int, error) {
	names, err := deps.KnownTags.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list known tags: %w", err)
	}
	added := 0
	for _, name := range names {
		if deps.Session.Vocabulary.Add(name) == nil {
			added++
		}
	}
	slog.Info("vocabulary_loaded", "count", added)
	return added, nil
}
