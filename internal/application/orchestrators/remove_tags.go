package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"phototag/internal/application/session"
)

// TagPurger removes a tag from every image association.
type TagPurger interface {
	PurgeTag(ctx context.Context, name string) (int, error)
}

// KnownTagDeleter forgets a persisted tag.
type KnownTagDeleter interface {
	Delete(ctx context.Context, name string) error
}

// RemoveTagsInput carries input for the remove tags orchestrator.
type RemoveTagsInput struct {
	Names []string
}

// RemoveTagsDeps holds dependencies for RemoveTags.
type RemoveTagsDeps struct {
	Session   *session.Session
	Purger    TagPurger       // optional; nil leaves image associations alone
	KnownTags KnownTagDeleter // optional
}

// RemoveTagsResult carries the outcome of a tag removal.
type RemoveTagsResult struct {
	Removed       []string `json:"removed"`
	Purged        int      `json:"purged"` // associations dropped
	FilterChanged bool     `json:"filter_changed"`
}

// ExecuteRemoveTags removes tags from the vocabulary, cascading in order
// through image associations, known-tag persistence and the filter.
// PRE: no other pass is running
// POST: no name in Names is in the vocabulary or the filter
// INVARIANT: a name whose persisted copy cannot be deleted stays in the vocabulary and the filter
// INVARIANT: the filter-changed event is raised once if any filter tag was removed
func ExecuteRemoveTags(ctx context.Context, input RemoveTagsInput, deps RemoveTagsDeps) (RemoveTagsResult, error) {
	release, err := deps.Session.Begin(session.BulkApplying)
	if err != nil {
		return RemoveTagsResult{}, err
	}

	result := RemoveTagsResult{Removed: []string{}}
	for _, name := range input.Names {
		if name == "" {
			continue
		}
		if deps.Purger != nil {
			n, err := deps.Purger.PurgeTag(ctx, name)
			if err != nil {
				release()
				if result.FilterChanged {
					deps.Session.NotifyFilterChanged()
				}
				return result, fmt.Errorf("purge tag %s: %w", name, err)
			}
			result.Purged += n
		}
		if deps.KnownTags != nil {
			if err := deps.KnownTags.Delete(ctx, name); err != nil {
				release()
				if result.FilterChanged {
					deps.Session.NotifyFilterChanged()
				}
				return result, fmt.Errorf("delete tag %s: %w", name, err)
			}
		}
		if deps.Session.Filter.OnTagRemoved(name) {
			result.FilterChanged = true
		}
		if deps.Session.Vocabulary.Remove(name) {
			result.Removed = append(result.Removed, name)
		}
	}
	release()

	if result.FilterChanged {
		deps.Session.NotifyFilterChanged()
	}
	slog.Info("tag_event", "event", "tags_removed", "removed", result.Removed, "purged", result.Purged, "filter_changed", result.FilterChanged)
	return result, nil
}
