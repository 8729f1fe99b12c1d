package web

import (
	"net/http"

	"phototag/internal/adapters/storage/imagetag"
	"phototag/internal/application/orchestrators"
)

type tagListResponse struct {
	Tags []string `json:"tags"`
}

type createTagRequest struct {
	Name string `json:"name"`
}

type removeTagsRequest struct {
	Tags []string `json:"tags"`
}

// handleTags handles GET/POST /api/tags
func handleTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case "GET":
		writeJSON(w, http.StatusOK, tagListResponse{Tags: tagSession.Vocabulary.Sorted()})
	case "POST":
		input := orchestrators.CreateTagInput{}
		if isFormRequest(r) {
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form submission", http.StatusBadRequest)
				return
			}
			input.Name = r.FormValue("name")
		} else {
			var req createTagRequest
			if err := strictDecode(r, &req); err != nil {
				http.Error(w, "Invalid request", http.StatusBadRequest)
				return
			}
			input.Name = req.Name
		}

		deps := orchestrators.CreateTagDeps{Session: tagSession}
		if stores.KnownTags != nil {
			deps.KnownTags = stores.KnownTags
		}
		if err := orchestrators.ExecuteCreateTag(r.Context(), input, deps); err != nil {
			domainError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, tagListResponse{Tags: tagSession.Vocabulary.Sorted()})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleTagsRemove handles POST /api/tags/remove
func handleTagsRemove(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	input := orchestrators.RemoveTagsInput{}
	if isFormRequest(r) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input.Names = r.Form["tag"]
	} else {
		var req removeTagsRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		input.Names = req.Tags
	}

	deps := orchestrators.RemoveTagsDeps{Session: tagSession}
	if p, ok := stores.ImageTags.(imagetag.Purger); ok {
		deps.Purger = p
	}
	if stores.KnownTags != nil {
		deps.KnownTags = stores.KnownTags
	}
	result, err := orchestrators.ExecuteRemoveTags(r.Context(), input, deps)
	if err != nil {
		domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleTagsReset handles POST /api/tags/reset
func handleTagsReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	deps := orchestrators.ResetTagsDeps{Session: tagSession, Store: stores.ImageTags}
	if err := orchestrators.ExecuteResetTags(r.Context(), deps); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
