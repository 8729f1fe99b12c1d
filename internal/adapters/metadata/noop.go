package metadata

import (
	"context"
	"log/slog"

	"phototag/internal/domain/tag"
)

// NoopWriter logs writes without touching any file. It is used when metadata
// writing is disabled and in development.
type NoopWriter struct{}

var _ Writer = NoopWriter{}

// NewNoopWriter creates a new NoopWriter.
func NewNoopWriter() NoopWriter {
	return NoopWriter{}
}

// Write logs the tag set that would have been written.
// PRE: none
// POST: returns nil; no file is modified
func (NoopWriter) Write(_ context.Context, imageID string, tags tag.Set) error {
	slog.Debug("noop_metadata_write", "image", imageID, "tags", tags.Sorted())
	return nil
}
