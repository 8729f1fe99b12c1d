package vocabulary

import "context"

// Store persists the names of known tags across sessions.
type Store interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, name string) error
	Delete(ctx context.Context, name string) error
}
