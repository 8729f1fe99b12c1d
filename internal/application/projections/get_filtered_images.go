package projections

import (
	"context"
	"fmt"

	"phototag/internal/application/session"
)

// GetFilteredImagesQuery carries input for the filtered images projection.
type GetFilteredImagesQuery struct {
	Images []string // the visible collection, caller order
}

// GetFilteredImagesResult splits the collection by filter visibility.
type GetFilteredImagesResult struct {
	Visible []string `json:"visible"`
	Hidden  []string `json:"hidden"`
	Active  bool     `json:"active"`
}

// GetFilteredImagesDeps holds dependencies for the filtered images projection.
type GetFilteredImagesDeps struct {
	Session *session.Session
	Store   TagStatesStore
}

// QueryGetFilteredImages evaluates the filter for every image in the collection.
// PRE: no other aggregation, filter or bulk pass is running
// POST: Visible and Hidden partition query.Images, preserving order
func QueryGetFilteredImages(ctx context.Context, query GetFilteredImagesQuery, deps GetFilteredImagesDeps) (GetFilteredImagesResult, error) {
	release, err := deps.Session.Begin(session.Filtering)
	if err != nil {
		return GetFilteredImagesResult{}, err
	}
	defer release()

	f := deps.Session.Filter
	result := GetFilteredImagesResult{
		Visible: []string{},
		Hidden:  []string{},
		Active:  f.Active(),
	}
	if !result.Active {
		result.Visible = append(result.Visible, query.Images...)
		return result, nil
	}

	for _, id := range query.Images {
		if err := ctx.Err(); err != nil {
			return GetFilteredImagesResult{}, err
		}
		tags, err := deps.Store.GetTags(ctx, id)
		if err != nil {
			return GetFilteredImagesResult{}, fmt.Errorf("read tags for %s: %w", id, err)
		}
		if f.IsImageFilteredOut(tags) {
			result.Hidden = append(result.Hidden, id)
		} else {
			result.Visible = append(result.Visible, id)
		}
	}
	return result, nil
}
