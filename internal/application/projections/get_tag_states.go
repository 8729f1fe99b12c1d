package projections

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"phototag/internal/application/session"
	"phototag/internal/domain/tag"
)

// TagStatesStore defines the image tag store interface needed by the tag states projection.
type TagStatesStore interface {
	GetTags(ctx context.Context, imageID string) (tag.Set, error)
}

// KnownTagSaver persists tags discovered during aggregation.
type KnownTagSaver interface {
	Save(ctx context.Context, name string) error
}

// GetTagStatesQuery carries input for the tag states projection.
type GetTagStatesQuery struct {
	Selection []string // image IDs, caller order
}

// TagStateRow is the aggregate state of one vocabulary tag over the selection.
type TagStateRow struct {
	Name  string       `json:"tag"`
	State tag.TriState `json:"state"`
	Count int          `json:"count"` // selected images carrying the tag
}

// GetTagStatesResult carries the output of the tag states projection.
type GetTagStatesResult struct {
	Total      int           `json:"total"`
	Tags       []TagStateRow `json:"tags"` // sorted by name
	Discovered []string      `json:"discovered,omitempty"`
	AnyChecked bool          `json:"any_checked"`
	AnyMixed   bool          `json:"any_mixed"`
}

// GetTagStatesDeps holds dependencies for the tag states projection.
type GetTagStatesDeps struct {
	Session   *session.Session
	Store     TagStatesStore
	KnownTags KnownTagSaver // optional
}

// QueryGetTagStates computes the tri-state of every vocabulary tag over the selection.
// Tags found on selected images but missing from the vocabulary are added to it.
// PRE: no other aggregation, filter or bulk pass is running
// POST: Checked iff every selected image has the tag; Mixed iff some do; Unchecked otherwise
// INVARIANT: an empty selection reports every tag Unchecked without reading the store
func QueryGetTagStates(ctx context.Context, query GetTagStatesQuery, deps GetTagStatesDeps) (GetTagStatesResult, error) {
	release, err := deps.Session.Begin(session.Aggregating)
	if err != nil {
		return GetTagStatesResult{}, err
	}
	defer release()

	vocab := deps.Session.Vocabulary
	total := len(query.Selection)
	result := GetTagStatesResult{Total: total}

	counts := make(map[string]int)
	if total > 0 {
		for _, id := range query.Selection {
			if err := ctx.Err(); err != nil {
				return GetTagStatesResult{}, err
			}
			tags, err := deps.Store.GetTags(ctx, id)
			if err != nil {
				return GetTagStatesResult{}, fmt.Errorf("read tags for %s: %w", id, err)
			}
			for name := range tags {
				counts[name]++
				if vocab.Contains(name) {
					continue
				}
				if err := vocab.Add(name); err != nil {
					if errors.Is(err, tag.ErrDuplicateTag) || errors.Is(err, tag.ErrEmptyName) {
						continue
					}
					return GetTagStatesResult{}, err
				}
				result.Discovered = append(result.Discovered, name)
				if deps.KnownTags != nil {
					if err := deps.KnownTags.Save(ctx, name); err != nil {
						slog.Warn("known_tag_save_failed", "tag", name, "error", err)
					}
				}
			}
		}
	}

	names := vocab.Sorted()
	result.Tags = make([]TagStateRow, 0, len(names))
	for _, name := range names {
		count := counts[name]
		st := aggregateState(count, total)
		switch st {
		case tag.Checked:
			result.AnyChecked = true
		case tag.Mixed:
			result.AnyMixed = true
		}
		result.Tags = append(result.Tags, TagStateRow{Name: name, State: st, Count: count})
	}

	if len(result.Discovered) > 0 {
		slog.Info("tag_event", "event", "tags_discovered", "count", len(result.Discovered))
	}
	return result, nil
}

func aggregateState(count, total int) tag.TriState {
	switch {
	case total == 0 || count == 0:
		return tag.Unchecked
	case count == total:
		return tag.Checked
	default:
		return tag.Mixed
	}
}
