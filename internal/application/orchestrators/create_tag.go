package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"phototag/internal/application/session"
)

// CreateTagInput carries input for the create tag orchestrator.
type CreateTagInput struct {
	Name string
}

// CreateTagDeps holds dependencies for CreateTag.
type CreateTagDeps struct {
	Session   *session.Session
	KnownTags KnownTagSaver // optional
}

// ExecuteCreateTag adds a new tag to the vocabulary.
// PRE: none
// POST: on success the vocabulary contains Name and it is persisted when a store is configured
// INVARIANT: an empty or already-known name leaves the vocabulary unchanged
func ExecuteCreateTag(ctx context.Context, input CreateTagInput, deps CreateTagDeps) error {
	if err := deps.Session.Vocabulary.Add(input.Name); err != nil {
		return err
	}
	if deps.KnownTags != nil {
		if err := deps.KnownTags.Save(ctx, input.Name); err != nil {
			deps.Session.Vocabulary.Remove(input.Name)
			return fmt.Errorf("save tag %s: %w", input.Name, err)
		}
	}
	slog.Info("tag_event", "event", "tag_created", "tag", input.Name)
	return nil
}
