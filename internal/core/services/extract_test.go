package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText_ProbeOrder(t *testing.T) {
	// rawValue wins over every other wrapper key.
	raw := map[string]any{
		"displayValue": "display",
		"rawValue":     "raw",
		"value":        "val",
		"name":         "name",
	}
	assert.Equal(t, "raw", extractText(raw))

	delete(raw, "rawValue")
	assert.Equal(t, "val", extractText(raw))

	delete(raw, "value")
	assert.Equal(t, "display", extractText(raw))
}

func TestExtractText_Primitives(t *testing.T) {
	assert.Equal(t, "", extractText(nil))
	assert.Equal(t, "hello", extractText("hello"))
	assert.Equal(t, "42.5", extractText(42.5))
	assert.Equal(t, "true", extractText(true))
}

func TestExtractText_NestedWrapper(t *testing.T) {
	raw := map[string]any{"value": map[string]any{"name": "inner"}}
	assert.Equal(t, "inner", extractText(raw))
}

func TestExtractText_ArrayJoins(t *testing.T) {
	raw := []any{"a", "", "b", map[string]any{"name": "c"}}
	assert.Equal(t, "a, b, c", extractText(raw))
}

func TestExtractAssetURL_StrategyOrder(t *testing.T) {
	raw := map[string]any{
		"url":          "https://example.com/a.png",
		"imageUrl":     "https://example.com/b.png",
		"thumbnailUrl": "https://example.com/c.png",
	}
	got, ok := extractAssetURL(raw)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a.png", got)

	delete(raw, "url")
	got, _ = extractAssetURL(raw)
	assert.Equal(t, "https://example.com/b.png", got)
}

func TestExtractAssetURL_ValueKeyIsUnwrapped(t *testing.T) {
	raw := map[string]any{"value": "`https://example.com/pic.jpg`"}
	got, ok := extractAssetURL(raw)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/pic.jpg", got)
}

func TestExtractAssetURL_LinkedRow(t *testing.T) {
	raw := map[string]any{
		"linkedRow": map[string]any{"imageUrl": "https://example.com/row.png"},
	}
	got, ok := extractAssetURL(raw)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/row.png", got)
}

func TestExtractAssetURL_ImageObjectContentURL(t *testing.T) {
	raw := map[string]any{
		"@type":      "ImageObject",
		"contentUrl": "https://codahosted.io/blob/1",
	}
	got, ok := extractAssetURL(raw)
	assert.True(t, ok)
	assert.Equal(t, "https://codahosted.io/blob/1", got)
}

func TestExtractAssetURL_ArrayFirstMatchWins(t *testing.T) {
	raw := []any{
		map[string]any{"label": "nothing here"},
		map[string]any{"url": "https://example.com/first.png"},
		map[string]any{"url": "https://example.com/second.png"},
	}
	got, ok := extractAssetURL(raw)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/first.png", got)
}

func TestIsUsableAssetURL(t *testing.T) {
	tests := []struct {
		candidate string
		image     bool
		want      bool
	}{
		{"https://example.com/x", false, true},
		{"http://example.com/x", false, true},
		{"https://codahosted.io/abc", false, true},
		{"codahosted.io/abc", false, true}, // marker without scheme
		{"not-a-url", false, false},
		{"not-a-url", true, false},
		{"ftp://example.com/x", false, false},
		{"pic.png", true, true},
		{"pic.png", false, false},
		{"pic.jpeg?x=1", true, true},
		{"", true, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isUsableAssetURL(tt.candidate, tt.image), "candidate %q image=%v", tt.candidate, tt.image)
	}
}

func TestExtractReferenceID(t *testing.T) {
	id, ok := extractReferenceID("row-1")
	assert.True(t, ok)
	assert.Equal(t, "row-1", id)

	id, ok = extractReferenceID(map[string]any{"@id": "row-2"})
	assert.True(t, ok)
	assert.Equal(t, "row-2", id)

	id, ok = extractReferenceID([]any{map[string]any{"label": "x"}, "row-3"})
	assert.True(t, ok)
	assert.Equal(t, "row-3", id)

	_, ok = extractReferenceID(map[string]any{"label": "x"})
	assert.False(t, ok)
}

func TestExtractReferenceIDs_OrderAndDuplicates(t *testing.T) {
	raw := []any{
		map[string]any{"rowId": "r-1"},
		map[string]any{"id": "r-2"},
		"r-1",
	}
	assert.Equal(t, []string{"r-1", "r-2", "r-1"}, extractReferenceIDs(raw))
}

func TestExtractEnumLabel(t *testing.T) {
	assert.Equal(t, "Open", extractEnumLabel("Open"))
	assert.Equal(t, "Open", extractEnumLabel("`Open`"))
	assert.Equal(t, "Ada", extractEnumLabel(map[string]any{"name": "Ada"}))
	assert.Equal(t, "First", extractEnumLabel([]any{"First", "Second"}))
	assert.Equal(t, "", extractEnumLabel([]any{}))
}
