package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"phototag/internal/domain/tag"
)

// TestKeywordUpdate_ReplacesKeywordsAndCharset verifies only the two owned fields are written.
func TestKeywordUpdate_ReplacesKeywordsAndCharset(t *testing.T) {
	fm := keywordUpdate("/photos/a.jpg", tag.NewSet("Sunset", "Beach"))
	if fm.File != "/photos/a.jpg" {
		t.Errorf("File = %q", fm.File)
	}
	if len(fm.Fields) != 2 {
		t.Errorf("expected exactly 2 fields, got %v", fm.Fields)
	}
	got := asStrings(fm.Fields[keywordsField])
	if diff := cmp.Diff([]string{"Beach", "Sunset"}, got); diff != "" {
		t.Errorf("keywords mismatch (-want +got):\n%s", diff)
	}
	if cs := fm.Fields[charsetField]; cs != utf8CharsetMarker {
		t.Errorf("charset = %v, want %s", cs, utf8CharsetMarker)
	}
}

// asStrings normalises a written list field for comparison.
func asStrings(v interface{}) []string {
	switch l := v.(type) {
	case []string:
		return l
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, x := range l {
			out = append(out, fmt.Sprint(x))
		}
		return out
	}
	return nil
}

// TestKeywordUpdate_EmptyClears verifies an empty tag set deletes the keyword field.
func TestKeywordUpdate_EmptyClears(t *testing.T) {
	fm := keywordUpdate("a.jpg", tag.NewSet())
	v, ok := fm.Fields[keywordsField]
	if !ok || v != nil {
		t.Errorf("expected cleared keyword field, got %v (present=%v)", v, ok)
	}
}

// TestKeywordsFromFields covers scalar, list and missing keyword values.
func TestKeywordsFromFields(t *testing.T) {
	tests := []struct {
		name   string
		fields map[string]interface{}
		want   []string
	}{
		{"missing", map[string]interface{}{"Make": "Canon"}, nil},
		{"scalar", map[string]interface{}{"Keywords": "Cat"}, []string{"Cat"}},
		{"list", map[string]interface{}{"Keywords": []interface{}{"Cat", "Dog"}}, []string{"Cat", "Dog"}},
		{"numeric", map[string]interface{}{"Keywords": []interface{}{"Cat", float64(2020)}}, []string{"Cat", "2020"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, keywordsFromFields(tt.fields)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// TestWriteError_Unwraps verifies the cause is reachable through errors.Is.
func TestWriteError_Unwraps(t *testing.T) {
	cause := errors.New("permission denied")
	err := fmt.Errorf("bulk: %w", &WriteError{ImageID: "a.jpg", Err: cause})
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
	if !IsWriteError(err) {
		t.Error("expected IsWriteError to be true")
	}
	if IsWriteError(cause) {
		t.Error("plain error is not a WriteError")
	}
}

// TestNoopWriter_Write verifies the noop writer never fails.
func TestNoopWriter_Write(t *testing.T) {
	if err := NewNoopWriter().Write(context.Background(), "a.jpg", tag.NewSet("Cat")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

// TestCheckKeywords enforces the IPTC keyword length in bytes.
func TestCheckKeywords(t *testing.T) {
	fits := strings.Repeat("a", MaxKeywordBytes)
	if err := checkKeywords(tag.NewSet("Beach", fits)); err != nil {
		t.Errorf("keyword of exactly %d bytes: %v", MaxKeywordBytes, err)
	}
	if err := checkKeywords(tag.NewSet(fits + "b")); !errors.Is(err, ErrKeywordTooLong) {
		t.Errorf("long keyword: got %v, want ErrKeywordTooLong", err)
	}
	// 22 three-byte runes are 66 bytes but only 22 characters.
	if err := checkKeywords(tag.NewSet(strings.Repeat("日", 22))); !errors.Is(err, ErrKeywordTooLong) {
		t.Errorf("multi-byte keyword: got %v, want ErrKeywordTooLong", err)
	}
}

// TestExifToolWrite_RejectsLongKeyword fails before exiftool is touched.
func TestExifToolWrite_RejectsLongKeyword(t *testing.T) {
	e := &ExifTool{}
	err := e.Write(context.Background(), "a.jpg", tag.NewSet(strings.Repeat("x", MaxKeywordBytes+1)))
	if !IsWriteError(err) || !errors.Is(err, ErrKeywordTooLong) {
		t.Fatalf("err = %v, want a WriteError wrapping ErrKeywordTooLong", err)
	}
}
