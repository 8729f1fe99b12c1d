package orchestrators

import (
	"context"
	"log/slog"

	"phototag/internal/application/session"
)

// ResetTagsStore drops all image tag associations.
type ResetTagsStore interface {
	Clear(ctx context.Context) error
}

// ResetTagsDeps holds dependencies for ResetTags.
type ResetTagsDeps struct {
	Session *session.Session
	Store   ResetTagsStore
}

// ExecuteResetTags clears the image tag store. Image files are untouched and
// the vocabulary is kept.
// PRE: no other pass is running
// POST: every image reports an empty tag set
func ExecuteResetTags(ctx context.Context, deps ResetTagsDeps) error {
	release, err := deps.Session.Begin(session.BulkApplying)
	if err != nil {
		return err
	}
	defer release()

	if err := deps.Store.Clear(ctx); err != nil {
		return err
	}
	slog.Info("tag_event", "event", "tag_state_reset")
	return nil
}
