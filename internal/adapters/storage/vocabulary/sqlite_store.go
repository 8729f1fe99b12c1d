package vocabulary

import (
	"context"
	"time"

	"phototag/internal/adapters/storage"
)

// SQLiteStore implements Store using the known_tag table.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLiteStore.
// PRE: db has the schema from storage.InitDB
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// List returns all known tag names ordered by name.
// PRE: none
// POST: returns names; error if database fails
func (s *SQLiteStore) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM known_tag ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		list = append(list, name)
	}
	return list, rows.Err()
}

// Save records name as known; saving an existing name keeps its creation time.
// PRE: name is non-empty
// POST: name persisted; error if database fails
func (s *SQLiteStore) Save(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO known_tag (name, created_at) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`,
		name, s.now().UTC().Format(time.RFC3339),
	)
	return err
}

// Delete forgets name.
// PRE: none
// POST: name absent; error if database fails
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM known_tag WHERE name = ?`, name)
	return err
}
