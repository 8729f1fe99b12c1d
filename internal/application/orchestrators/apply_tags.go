package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"phototag/internal/adapters/http/perf"
	"phototag/internal/adapters/metadata"
	"phototag/internal/application/session"
	"phototag/internal/domain/tag"
)

// CheckpointEvery is the number of images between Yield calls.
const CheckpointEvery = 10

// ApplyTagsStore defines the image tag store interface needed by the bulk apply.
type ApplyTagsStore interface {
	GetTags(ctx context.Context, imageID string) (tag.Set, error)
	AddTag(ctx context.Context, imageID, name string) error
	RemoveTag(ctx context.Context, imageID, name string) error
	RemoveImage(ctx context.Context, imageID string) error
}

// KnownTagSaver persists newly created tags.
type KnownTagSaver interface {
	Save(ctx context.Context, name string) error
}

// Outcome is the per-image result of a bulk apply.
type Outcome string

const (
	OutcomeProcessed Outcome = "processed"
	OutcomeFailed    Outcome = "failed"
)

// Progress is reported once per image, after it has been persisted or dropped.
type Progress struct {
	Index   int // 1-based
	Total   int
	ImageID string
	Outcome Outcome
}

// ApplyTagsInput carries input for the bulk apply orchestrator.
type ApplyTagsInput struct {
	Selection []string
	Actions   []tag.Action

	Cancelled  func() bool    // optional, polled before each image
	OnProgress func(Progress) // optional
	Yield      func()         // optional, called every CheckpointEvery images
}

// ApplyTagsDeps holds dependencies for ApplyTags.
type ApplyTagsDeps struct {
	Session   *session.Session
	Store     ApplyTagsStore
	Writer    metadata.Writer
	KnownTags KnownTagSaver   // optional
	Perf      *perf.Collector // optional
	NewID     func() string   // injectable for testing
	Now       func() time.Time
}

// FailureStage names the step at which an image failed.
type FailureStage string

const (
	StageStore    FailureStage = "store"    // reading or updating the association
	StageMetadata FailureStage = "metadata" // writing the file's keywords
)

// ImageFailure records why an image was dropped from the store.
type ImageFailure struct {
	ImageID string       `json:"image"`
	Stage   FailureStage `json:"stage"`
	Reason  string       `json:"reason"`
}

// ApplyTagsResult carries the outcome of a bulk apply.
type ApplyTagsResult struct {
	RunID          string         `json:"run_id"`
	Processed      []string       `json:"processed"`
	Failed         []string       `json:"failed"`
	Failures       []ImageFailure `json:"failures,omitempty"`
	CancelledEarly bool           `json:"cancelled_early"`
}

// ExecuteApplyTags applies the tag actions to every selected image in order,
// persisting each image's resulting tag set through the metadata writer.
// PRE: actions are valid (desired is Checked or Unchecked); no other pass is running
// POST: each visited image is either processed or failed; a failed image is removed from the store
// INVARIANT: cancellation is observed only between images; processed images are never rolled back
func ExecuteApplyTags(ctx context.Context, input ApplyTagsInput, deps ApplyTagsDeps) (ApplyTagsResult, error) {
	actions, err := normaliseActions(input.Actions)
	if err != nil {
		return ApplyTagsResult{}, err
	}

	release, err := deps.Session.Begin(session.BulkApplying)
	if err != nil {
		return ApplyTagsResult{}, err
	}
	defer release()

	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	newID := uuid.NewString
	if deps.NewID != nil {
		newID = deps.NewID
	}

	result := ApplyTagsResult{
		RunID:     newID(),
		Processed: []string{},
		Failed:    []string{},
	}
	if len(actions) == 0 || len(input.Selection) == 0 {
		return result, nil
	}

	registerCheckedTags(ctx, actions, deps)

	// Work on one image is never interrupted; ctx is only checked between images.
	imageCtx := context.WithoutCancel(ctx)

	start := now()
	total := len(input.Selection)
	slog.Info("bulk_apply_started", "run_id", result.RunID, "images", total, "actions", len(actions))

	for i, id := range input.Selection {
		if ctx.Err() != nil || (input.Cancelled != nil && input.Cancelled()) {
			result.CancelledEarly = true
			slog.Info("bulk_apply_cancelled", "run_id", result.RunID, "processed", len(result.Processed), "remaining", total-i)
			break
		}

		outcome := OutcomeProcessed
		if err := applyToImage(imageCtx, id, actions, deps); err != nil {
			outcome = OutcomeFailed
			result.Failed = append(result.Failed, id)
			stage := StageStore
			if metadata.IsWriteError(err) {
				stage = StageMetadata
			}
			result.Failures = append(result.Failures, ImageFailure{ImageID: id, Stage: stage, Reason: err.Error()})
			slog.Warn("bulk_apply_image_failed", "run_id", result.RunID, "image", id, "stage", stage, "error", err)
			if rmErr := deps.Store.RemoveImage(imageCtx, id); rmErr != nil {
				slog.Error("bulk_apply_remove_image_failed", "run_id", result.RunID, "image", id, "error", rmErr)
			}
		} else {
			result.Processed = append(result.Processed, id)
		}

		if input.OnProgress != nil {
			input.OnProgress(Progress{Index: i + 1, Total: total, ImageID: id, Outcome: outcome})
		}
		if input.Yield != nil && (i+1)%CheckpointEvery == 0 {
			input.Yield()
		}
	}

	elapsed := now().Sub(start)
	if deps.Perf != nil {
		deps.Perf.Record(perf.Entry{
			Kind:       perf.KindBulk,
			Path:       "apply_tags",
			DurationMs: float64(elapsed.Microseconds()) / 1000.0,
			Timestamp:  start,
		})
	}
	slog.Info("bulk_apply_done",
		"run_id", result.RunID,
		"processed", len(result.Processed),
		"failed", len(result.Failed),
		"cancelled_early", result.CancelledEarly,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}

// applyToImage mutates one image's associations and writes the resulting set.
func applyToImage(ctx context.Context, id string, actions []tag.Action, deps ApplyTagsDeps) error {
	for _, a := range actions {
		var err error
		if a.Desired == tag.Checked {
			err = deps.Store.AddTag(ctx, id, a.Name)
		} else {
			err = deps.Store.RemoveTag(ctx, id, a.Name)
		}
		if err != nil {
			return fmt.Errorf("update tag %s: %w", a.Name, err)
		}
	}
	tags, err := deps.Store.GetTags(ctx, id)
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}
	return deps.Writer.Write(ctx, id, tags)
}

// normaliseActions validates actions and collapses repeats of the same tag.
// Conflicting desired states for one tag are rejected.
func normaliseActions(in []tag.Action) ([]tag.Action, error) {
	seen := make(map[string]tag.TriState, len(in))
	out := make([]tag.Action, 0, len(in))
	for _, a := range in {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if prev, ok := seen[a.Name]; ok {
			if prev != a.Desired {
				return nil, fmt.Errorf("%w: conflicting states for %s", tag.ErrInvalidAction, a.Name)
			}
			continue
		}
		seen[a.Name] = a.Desired
		out = append(out, a)
	}
	return out, nil
}

// registerCheckedTags adds tags being applied that the vocabulary lacks.
func registerCheckedTags(ctx context.Context, actions []tag.Action, deps ApplyTagsDeps) {
	for _, a := range actions {
		if a.Desired != tag.Checked {
			continue
		}
		if err := deps.Session.Vocabulary.Add(a.Name); err != nil {
			if !errors.Is(err, tag.ErrDuplicateTag) {
				slog.Warn("tag_register_failed", "tag", a.Name, "error", err)
			}
			continue
		}
		if deps.KnownTags != nil {
			if err := deps.KnownTags.Save(ctx, a.Name); err != nil {
				slog.Warn("known_tag_save_failed", "tag", a.Name, "error", err)
			}
		}
	}
}
