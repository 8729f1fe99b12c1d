package imagetag

import (
	"context"

	"phototag/internal/domain/tag"
)

// Store persists the image → tag-set association.
// Adding a present tag or removing an absent one is a no-op; every call is
// visible to the next one as soon as it returns.
type Store interface {
	GetTags(ctx context.Context, imageID string) (tag.Set, error)
	AddTag(ctx context.Context, imageID, name string) error
	RemoveTag(ctx context.Context, imageID, name string) error
	RemoveImage(ctx context.Context, imageID string) error
	Clear(ctx context.Context) error
}

// Purger is implemented by stores that can drop a tag from every image at
// once, used when a tag is removed from the vocabulary.
type Purger interface {
	PurgeTag(ctx context.Context, name string) (int, error)
}

// Lister is implemented by stores that can enumerate the images they track.
type Lister interface {
	ListImages(ctx context.Context) ([]string, error)
}
