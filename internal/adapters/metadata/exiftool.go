package metadata

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/barasher/go-exiftool"

	"phototag/internal/domain/tag"
)

const (
	keywordsField     = "IPTC:Keywords"
	charsetField      = "IPTC:CodedCharacterSet"
	utf8CharsetMarker = "UTF8" // exiftool's name for ESC % G

	// MaxKeywordBytes is the IPTC limit for one keyword; exiftool truncates
	// longer values.
	MaxKeywordBytes = 64
)

// ErrKeywordTooLong reports a tag that does not fit in an IPTC keyword.
var ErrKeywordTooLong = errors.New("tag exceeds the IPTC keyword limit")

// ExifTool reads and writes IPTC keywords through a long-lived exiftool
// process. Calls are serialised because the process handles one request at
// a time.
type ExifTool struct {
	mu sync.Mutex
	et *exiftool.Exiftool
}

var (
	_ Writer = (*ExifTool)(nil)
	_ Reader = (*ExifTool)(nil)
)

// NewExifTool starts exiftool. binaryPath may be empty to use $PATH.
// PRE: exiftool is installed
// POST: caller must Close the returned value
func NewExifTool(binaryPath string) (*ExifTool, error) {
	opts := []func(*exiftool.Exiftool) error{exiftool.Charset("filename=utf8")}
	if binaryPath != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(binaryPath))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exiftool: %w", err)
	}
	return &ExifTool{et: et}, nil
}

// Close stops the exiftool process.
func (e *ExifTool) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}

// extract reads the metadata of a single file.
func (e *ExifTool) extract(path string) (exiftool.FileMetadata, error) {
	results := e.et.ExtractMetadata(path)
	if len(results) != 1 {
		return exiftool.FileMetadata{}, fmt.Errorf("exiftool returned %d results", len(results))
	}
	return results[0], results[0].Err
}

// ReadTags returns the IPTC keywords embedded in the file.
// PRE: imageID is a readable file path
// POST: returns keywords in file order; nil when the file has none
func (e *ExifTool) ReadTags(ctx context.Context, imageID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	fm, err := e.extract(imageID)
	if err != nil {
		return nil, err
	}
	return keywordsFromFields(fm.Fields), nil
}

// Write replaces the file's keywords with tags and marks the IPTC
// character set as UTF-8. The file is read first so unreadable or
// unsupported files fail before anything is written.
// PRE: imageID is a writable image path
// POST: file keywords equal tags; returns *WriteError on failure
func (e *ExifTool) Write(ctx context.Context, imageID string, tags tag.Set) error {
	if err := ctx.Err(); err != nil {
		return &WriteError{ImageID: imageID, Err: err}
	}
	if err := checkKeywords(tags); err != nil {
		return &WriteError{ImageID: imageID, Err: err}
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.extract(imageID); err != nil {
		return &WriteError{ImageID: imageID, Err: err}
	}
	update := []exiftool.FileMetadata{keywordUpdate(imageID, tags)}
	e.et.WriteMetadata(update)
	if err := update[0].Err; err != nil {
		return &WriteError{ImageID: imageID, Err: err}
	}
	return nil
}

// checkKeywords rejects tags longer than an IPTC keyword can hold, so the
// file never ends up with a truncated copy of a stored tag.
func checkKeywords(tags tag.Set) error {
	for _, name := range tags.Sorted() {
		if len(name) > MaxKeywordBytes {
			return fmt.Errorf("%w: %q is %d bytes, limit %d", ErrKeywordTooLong, name, len(name), MaxKeywordBytes)
		}
	}
	return nil
}

// keywordUpdate builds the write request for a file: only the keyword and
// character-set fields are listed, so exiftool keeps every other field.
func keywordUpdate(path string, tags tag.Set) exiftool.FileMetadata {
	fm := exiftool.EmptyFileMetadata()
	fm.File = path
	if len(tags) == 0 {
		fm.Clear(keywordsField)
	} else {
		fm.SetStrings(keywordsField, tags.Sorted())
	}
	fm.SetString(charsetField, utf8CharsetMarker)
	return fm
}

// keywordsFromFields extracts keywords from extracted metadata. exiftool
// reports a single keyword as a scalar and several as a list.
func keywordsFromFields(fields map[string]interface{}) []string {
	v, ok := fields["Keywords"]
	if !ok {
		return nil
	}
	switch kw := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(kw))
		for _, k := range kw {
			out = append(out, fmt.Sprint(k))
		}
		return out
	case string:
		return []string{kw}
	case nil:
		return nil
	default:
		return []string{fmt.Sprint(kw)}
	}
}
