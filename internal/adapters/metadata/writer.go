package metadata

import (
	"context"
	"errors"
	"fmt"

	"phototag/internal/domain/tag"
)

// Writer persists an image's tag set into the file's embedded metadata.
// Every existing field is preserved except the keyword field, which is
// replaced wholesale by tags, and the character-set field, which is set to
// UTF-8.
type Writer interface {
	Write(ctx context.Context, imageID string, tags tag.Set) error
}

// Reader reads the keywords currently embedded in an image file.
type Reader interface {
	ReadTags(ctx context.Context, imageID string) ([]string, error)
}

// WriteError reports that the metadata of a single image could not be written.
type WriteError struct {
	ImageID string
	Err     error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to save tags to %s: %v", e.ImageID, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteError reports whether err carries a per-image WriteError.
func IsWriteError(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
