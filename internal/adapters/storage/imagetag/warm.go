package imagetag

import (
	"context"
	"log/slog"
)

// KeywordReader reads the tags already embedded in an image file.
type KeywordReader interface {
	ReadTags(ctx context.Context, imageID string) ([]string, error)
}

// Warm replaces the stored tags of each image with the tags embedded in its
// file. Unreadable images are logged and skipped. It returns how many images
// were loaded; a cancelled ctx stops between images.
// PRE: s and reader are non-nil
// POST: every readable image in ids carries exactly its file tags in s
func Warm(ctx context.Context, s Store, ids []string, reader KeywordReader) (int, error) {
	loaded := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return loaded, err
		}
		names, err := reader.ReadTags(ctx, id)
		if err != nil {
			slog.Warn("tag_cache_warm_failed", "image", id, "error", err)
			continue
		}
		if err := s.RemoveImage(ctx, id); err != nil {
			return loaded, err
		}
		for _, n := range names {
			if n == "" {
				continue
			}
			if err := s.AddTag(ctx, id, n); err != nil {
				return loaded, err
			}
		}
		loaded++
	}
	slog.Debug("tag_cache_warmed", "requested", len(ids), "loaded", loaded)
	return loaded, nil
}
