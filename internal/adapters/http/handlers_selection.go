package web

import (
	"fmt"
	"net/http"

	"phototag/internal/application/orchestrators"
	"phototag/internal/application/projections"
	"phototag/internal/domain/tag"
)

type selectionRequest struct {
	Images []string `json:"images"`
}

type applyRequest struct {
	Images  []string        `json:"images"`
	Actions []actionRequest `json:"actions"`
}

// actionRequest mirrors tag.Action with a required desired state.
type actionRequest struct {
	Tag     string        `json:"tag"`
	Desired *tag.TriState `json:"desired"`
}

// toActions rejects actions that omit the desired state.
func toActions(in []actionRequest) ([]tag.Action, error) {
	out := make([]tag.Action, 0, len(in))
	for _, a := range in {
		if a.Desired == nil {
			return nil, fmt.Errorf("%w: missing desired state for %q", tag.ErrInvalidAction, a.Tag)
		}
		out = append(out, tag.Action{Name: a.Tag, Desired: *a.Desired})
	}
	return out, nil
}

type tagSelectionRequest struct {
	Images []string `json:"images"`
	Tags   []string `json:"tags"`
}

func applyDeps() orchestrators.ApplyTagsDeps {
	deps := orchestrators.ApplyTagsDeps{
		Session: tagSession,
		Store:   stores.ImageTags,
		Writer:  stores.Writer,
		Perf:    perfCollector,
	}
	if stores.KnownTags != nil {
		deps.KnownTags = stores.KnownTags
	}
	return deps
}

// handleSelectionStates handles POST /api/selection/states
func handleSelectionStates(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req selectionRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	deps := projections.GetTagStatesDeps{Session: tagSession, Store: stores.ImageTags}
	if stores.KnownTags != nil {
		deps.KnownTags = stores.KnownTags
	}
	result, err := projections.QueryGetTagStates(r.Context(), projections.GetTagStatesQuery{Selection: req.Images}, deps)
	if err != nil {
		domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSelectionApply handles POST /api/selection/apply
// A client disconnect cancels the remaining images.
func handleSelectionApply(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req applyRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	actions, err := toActions(req.Actions)
	if err != nil {
		domainError(w, err)
		return
	}

	result, err := orchestrators.ExecuteApplyTags(r.Context(), orchestrators.ApplyTagsInput{
		Selection: req.Images,
		Actions:   actions,
	}, applyDeps())
	if err != nil {
		domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSelectionTag handles POST /api/selection/tag and /api/selection/untag
func handleSelectionTag(checked bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req tagSelectionRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}

		result, err := orchestrators.ExecuteTagSelection(r.Context(), orchestrators.TagSelectionInput{
			Selection: req.Images,
			Names:     req.Tags,
			Checked:   checked,
		}, applyDeps())
		if err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
