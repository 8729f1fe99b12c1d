package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"phototag/internal/application/session"
	"phototag/internal/domain/tag"
)

// DiscoverTagsStore defines the image tag store interface needed for discovery.
type DiscoverTagsStore interface {
	GetTags(ctx context.Context, imageID string) (tag.Set, error)
}

// DiscoverTagsInput carries input for the discover tags orchestrator.
type DiscoverTagsInput struct {
	Images []string
}

// DiscoverTagsDeps holds dependencies for the discover tags orchestrator.
type DiscoverTagsDeps struct {
	Session   *session.Session
	Store     DiscoverTagsStore
	KnownTags KnownTagSaver // optional
}

// ExecuteDiscoverTags registers every tag carried by Images that the
// vocabulary lacks, and persists it when a known-tag store is configured.
// PRE: no other pass is running
// POST: every tag associated with an image in Images is in the vocabulary
func ExecuteDiscoverTags(ctx context.Context, input DiscoverTagsInput, deps DiscoverTagsDeps) ([]string, error) {
	release, err := deps.Session.Begin(session.Aggregating)
	if err != nil {
		return nil, err
	}
	defer release()

	var added []string
	for _, id := range input.Images {
		if err := ctx.Err(); err != nil {
			return added, err
		}
		tags, err := deps.Store.GetTags(ctx, id)
		if err != nil {
			return added, fmt.Errorf("read tags for %s: %w", id, err)
		}
		for _, name := range tags.Sorted() {
			if err := deps.Session.Vocabulary.Add(name); err != nil {
				if errors.Is(err, tag.ErrDuplicateTag) || errors.Is(err, tag.ErrEmptyName) {
					continue
				}
				return added, err
			}
			added = append(added, name)
			if deps.KnownTags != nil {
				if err := deps.KnownTags.Save(ctx, name); err != nil {
					slog.Warn("known_tag_save_failed", "tag", name, "error", err)
				}
			}
		}
	}
	if len(added) > 0 {
		slog.Info("tag_event", "event", "tags_discovered", "count", len(added))
	}
	return added, nil
}
