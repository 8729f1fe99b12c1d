package imagetag

import (
	"context"

	"phototag/internal/adapters/storage"
	"phototag/internal/domain/tag"
)

// SQLiteStore implements Store using the image_tag table.
type SQLiteStore struct {
	db storage.SQLDB
}

var (
	_ Store  = (*SQLiteStore)(nil)
	_ Purger = (*SQLiteStore)(nil)
	_ Lister = (*SQLiteStore)(nil)
)

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db has the schema from storage.InitDB
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetTags returns all tags associated with an image.
// PRE: none
// POST: returns an empty set when the image is unknown; error if database fails
func (s *SQLiteStore) GetTags(ctx context.Context, imageID string) (tag.Set, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM image_tag WHERE image_id = ?`, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	set := make(tag.Set)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		set.Add(name)
	}
	return set, rows.Err()
}

// AddTag associates a tag with an image.
// PRE: imageID and name are non-empty
// POST: association persisted; existing association left as is
func (s *SQLiteStore) AddTag(ctx context.Context, imageID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO image_tag (image_id, tag) VALUES (?, ?)
		 ON CONFLICT(image_id, tag) DO NOTHING`,
		imageID, name,
	)
	return err
}

// RemoveTag removes a tag association from an image.
// PRE: none
// POST: association absent; error if database fails
func (s *SQLiteStore) RemoveTag(ctx context.Context, imageID, name string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM image_tag WHERE image_id = ? AND tag = ?`, imageID, name)
	return err
}

// RemoveImage drops every association of an image.
// PRE: none
// POST: GetTags(imageID) is empty; error if database fails
func (s *SQLiteStore) RemoveImage(ctx context.Context, imageID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM image_tag WHERE image_id = ?`, imageID)
	return err
}

// Clear drops all associations.
// PRE: none
// POST: table is empty; error if database fails
func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM image_tag`)
	return err
}

// PurgeTag removes a tag from every image and returns the number of images touched.
// PRE: none
// POST: no image carries name; error if database fails
func (s *SQLiteStore) PurgeTag(ctx context.Context, name string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM image_tag WHERE tag = ?`, name)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ListImages returns every image carrying at least one tag, ordered by ID.
// PRE: none
// POST: returns image IDs; error if database fails
func (s *SQLiteStore) ListImages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT image_id FROM image_tag ORDER BY image_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		list = append(list, id)
	}
	return list, rows.Err()
}
