package web

import (
	"errors"
	"fmt"
	"net/http"

	"phototag/internal/adapters/storage/imagetag"
	"phototag/internal/application/orchestrators"
	"phototag/internal/application/projections"
)

var errNoListing = errors.New("image store cannot list its images; send images explicitly")

type setFilterRequest struct {
	Tags   []string `json:"tags"`
	Negate *bool    `json:"negate,omitempty"`
}

// filterETag names the current filter revision.
func filterETag() string {
	return fmt.Sprintf(`"filter-%d"`, filterRevision.Load())
}

// handleFilter handles GET/POST /api/filter
// GET honours If-None-Match against the filter revision.
func handleFilter(w http.ResponseWriter, r *http.Request) {
	deps := orchestrators.FilterDeps{Session: tagSession}
	switch r.Method {
	case "GET":
		etag := filterETag()
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		writeJSON(w, http.StatusOK, projections.QueryGetFilterView(projections.GetFilterViewDeps{Session: tagSession}))
	case "POST":
		var req setFilterRequest
		if err := strictDecode(r, &req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
		result, err := orchestrators.ExecuteSetFilter(orchestrators.SetFilterInput{
			Tags:   req.Tags,
			Negate: req.Negate,
		}, deps)
		if err != nil {
			domainError(w, err)
			return
		}
		w.Header().Set("ETag", filterETag())
		writeJSON(w, http.StatusOK, result)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleFilterClear handles POST /api/filter/clear
func handleFilterClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	result := orchestrators.ExecuteClearFilter(orchestrators.FilterDeps{Session: tagSession})
	w.Header().Set("ETag", filterETag())
	writeJSON(w, http.StatusOK, result)
}

// handleFilterImages handles POST /api/filter/images
// An empty image list filters every image the store tracks.
func handleFilterImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req selectionRequest
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	images := req.Images
	if len(images) == 0 {
		lister, ok := stores.ImageTags.(imagetag.Lister)
		if !ok {
			http.Error(w, errNoListing.Error(), http.StatusBadRequest)
			return
		}
		var err error
		if images, err = lister.ListImages(r.Context()); err != nil {
			internalError(w, err)
			return
		}
	}
	result, err := projections.QueryGetFilteredImages(r.Context(), projections.GetFilteredImagesQuery{Images: images}, projections.GetFilteredImagesDeps{
		Session: tagSession,
		Store:   stores.ImageTags,
	})
	if err != nil {
		domainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
