package orchestrators

import (
	"context"

	"phototag/internal/domain/tag"
)

// TagSelectionInput carries input for the tag/untag selection shortcut.
type TagSelectionInput struct {
	Selection []string
	Names     []string
	Checked   bool // true tags the selection, false untags it

	Cancelled  func() bool
	OnProgress func(Progress)
	Yield      func()
}

// ExecuteTagSelection adds (or removes) every named tag on every selected image.
// PRE: Names are non-empty tag names
// POST: same as ExecuteApplyTags with one action per name
func ExecuteTagSelection(ctx context.Context, input TagSelectionInput, deps ApplyTagsDeps) (ApplyTagsResult, error) {
	desired := tag.Unchecked
	if input.Checked {
		desired = tag.Checked
	}
	actions := make([]tag.Action, 0, len(input.Names))
	for _, name := range input.Names {
		actions = append(actions, tag.Action{Name: name, Desired: desired})
	}
	return ExecuteApplyTags(ctx, ApplyTagsInput{
		Selection:  input.Selection,
		Actions:    actions,
		Cancelled:  input.Cancelled,
		OnProgress: input.OnProgress,
		Yield:      input.Yield,
	}, deps)
}
