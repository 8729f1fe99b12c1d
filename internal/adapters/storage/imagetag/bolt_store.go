package imagetag

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	bolt "go.etcd.io/bbolt"

	"phototag/internal/domain/tag"
)

const imagesToTagsBucket = "ImagesToTags"

// BoltStore implements Store on a single-file bbolt database. Each image key
// maps to a JSON array of its tag names.
type BoltStore struct {
	db *bolt.DB
}

var (
	_ Store  = (*BoltStore)(nil)
	_ Purger = (*BoltStore)(nil)
	_ Lister = (*BoltStore)(nil)
)

// OpenBoltStore opens or creates the bolt file at path.
// PRE: path is non-empty
// POST: the images bucket exists; caller must Close the store
func OpenBoltStore(path string) (*BoltStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create bolt directory %s: %w", dir, err)
		}
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open tag database %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(imagesToTagsBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", imagesToTagsBucket, err)
	}
	return &BoltStore{db: db}, nil
}

// Close closes the bolt file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

func decodeTags(raw []byte) (tag.Set, error) {
	if raw == nil {
		return make(tag.Set), nil
	}
	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	return tag.NewSet(names...), nil
}

// putTags stores set under imageID, deleting the key when set is empty.
func putTags(bucket *bolt.Bucket, imageID string, set tag.Set) error {
	if len(set) == 0 {
		return bucket.Delete([]byte(imageID))
	}
	raw, err := json.Marshal(set.Sorted())
	if err != nil {
		return err
	}
	return bucket.Put([]byte(imageID), raw)
}

// update runs fn against the decoded tags of imageID and writes the result back.
func (b *BoltStore) update(imageID string, fn func(tag.Set)) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(imagesToTagsBucket))
		set, err := decodeTags(bucket.Get([]byte(imageID)))
		if err != nil {
			return fmt.Errorf("decode tags for %s: %w", imageID, err)
		}
		fn(set)
		return putTags(bucket, imageID, set)
	})
}

// GetTags returns the tags stored for imageID.
func (b *BoltStore) GetTags(_ context.Context, imageID string) (tag.Set, error) {
	var set tag.Set
	err := b.db.View(func(tx *bolt.Tx) error {
		var err error
		set, err = decodeTags(tx.Bucket([]byte(imagesToTagsBucket)).Get([]byte(imageID)))
		return err
	})
	return set, err
}

// AddTag associates name with imageID.
func (b *BoltStore) AddTag(_ context.Context, imageID, name string) error {
	return b.update(imageID, func(s tag.Set) { s.Add(name) })
}

// RemoveTag drops name from imageID.
func (b *BoltStore) RemoveTag(_ context.Context, imageID, name string) error {
	return b.update(imageID, func(s tag.Set) { s.Remove(name) })
}

// RemoveImage deletes the image key.
func (b *BoltStore) RemoveImage(_ context.Context, imageID string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(imagesToTagsBucket)).Delete([]byte(imageID))
	})
}

// Clear recreates the images bucket.
func (b *BoltStore) Clear(_ context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(imagesToTagsBucket)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket([]byte(imagesToTagsBucket))
		return err
	})
}

// PurgeTag removes name from every image and returns how many carried it.
func (b *BoltStore) PurgeTag(_ context.Context, name string) (int, error) {
	n := 0
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(imagesToTagsBucket))
		touched := make(map[string]tag.Set)
		err := bucket.ForEach(func(k, v []byte) error {
			set, err := decodeTags(v)
			if err != nil {
				return fmt.Errorf("decode tags for %s: %w", k, err)
			}
			if set.Remove(name) {
				touched[string(k)] = set
			}
			return nil
		})
		if err != nil {
			return err
		}
		// bolt forbids mutating a bucket while iterating it
		for id, set := range touched {
			if err := putTags(bucket, id, set); err != nil {
				return err
			}
		}
		n = len(touched)
		return nil
	})
	return n, err
}

// ListImages returns every stored image ID in ascending order.
func (b *BoltStore) ListImages(_ context.Context) ([]string, error) {
	var ids []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(imagesToTagsBucket)).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	sort.Strings(ids)
	return ids, err
}
