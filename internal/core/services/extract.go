package services

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/normalisers/plaintext"
)

// Coda's rich value format wraps cell content in objects carrying one
// of several named value properties, and nests them inside arrays.
// Each extraction below is an explicit ordered list of strategies
// tried in sequence, so the probing order is a testable contract
// rather than an accident of nested type switches.

// textKeys is the probe order for pulling display text out of a
// wrapper object.
var textKeys = []string{"rawValue", "value", "displayValue", "name", "content"}

// extractText narrows any raw cell value to display text. It is
// total: unknown shapes stringify rather than fail.
func extractText(raw domain.RawValue) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s := extractText(elem); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		for _, key := range textKeys {
			if inner, ok := v[key]; ok {
				if s := extractText(inner); s != "" {
					return s
				}
			}
		}
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// markdownImage matches ![alt](url).
var markdownImage = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)

// urlStrategy tries to pull a URL candidate out of a wrapper object.
type urlStrategy func(map[string]any) (string, bool)

// assetURLStrategies is the probe order for image and file cells.
// First match wins.
var assetURLStrategies = []urlStrategy{
	stringKey("url"),
	stringKey("link"),
	unwrappedKey("value"),
	stringKey("rawValue"),
	stringKey("imageUrl"),
	stringKey("thumbnailUrl"),
	nestedKey("linkedRow", "url"),
	nestedKey("linkedRow", "imageUrl"),
	imageObjectURL,
}

func stringKey(key string) urlStrategy {
	return func(m map[string]any) (string, bool) {
		s, ok := m[key].(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}
}

func unwrappedKey(key string) urlStrategy {
	return func(m map[string]any) (string, bool) {
		s, ok := m[key].(string)
		if !ok {
			return "", false
		}
		s = plaintext.Unwrap(s)
		return s, s != ""
	}
}

func nestedKey(outer, inner string) urlStrategy {
	return func(m map[string]any) (string, bool) {
		nested, ok := m[outer].(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := nested[inner].(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	}
}

// imageObjectURL handles schema.org ImageObject wrappers, probing
// url, then contentUrl, then thumbnailUrl. Earlier strategies already
// cover bare url/thumbnailUrl keys; this one additionally accepts
// contentUrl and only fires on declared ImageObjects.
func imageObjectURL(m map[string]any) (string, bool) {
	if t, _ := m["@type"].(string); t != "ImageObject" {
		return "", false
	}
	for _, key := range []string{"url", "contentUrl", "thumbnailUrl"} {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s), true
		}
	}
	return "", false
}

// extractAssetURL pulls a URL candidate for an image or file cell
// from a string, a wrapper object, or an array of either.
func extractAssetURL(raw domain.RawValue) (string, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if sub := markdownImage.FindStringSubmatch(s); sub != nil {
			return strings.TrimSpace(sub[1]), true
		}
		s = plaintext.StripCodeFence(s)
		return s, s != ""
	case map[string]any:
		for _, strat := range assetURLStrategies {
			if s, ok := strat(v); ok {
				return s, true
			}
		}
		return "", false
	case []any:
		for _, elem := range v {
			if s, ok := extractAssetURL(elem); ok {
				return s, true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// Hosts that serve upstream-managed assets. URLs mentioning one of
// these are accepted even when they are not otherwise parseable.
var assetHostMarkers = []string{"codahosted.io", "coda.io"}

var imageExtension = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|svg|avif|bmp|ico)([?#]|$)`)

// isUsableAssetURL reports whether a candidate may be written as an
// image or file value: an absolute http(s) URL, anything on a known
// asset host, or (for images only) something with a recognised image
// extension.
func isUsableAssetURL(candidate string, image bool) bool {
	if candidate == "" {
		return false
	}
	if u, err := url.Parse(candidate); err == nil {
		if (u.Scheme == "http" || u.Scheme == "https") && u.Host != "" {
			return true
		}
	}
	for _, marker := range assetHostMarkers {
		if strings.Contains(candidate, marker) {
			return true
		}
	}
	if image && imageExtension.MatchString(candidate) {
		return true
	}
	return false
}

// referenceIDKeys is the probe order for reference IDs on a wrapper
// object. rowId appears on lookup cells pointing at foreign rows.
var referenceIDKeys = []string{"id", "@id", "rowId"}

func referenceIDOf(raw domain.RawValue) (string, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case map[string]any:
		for _, key := range referenceIDKeys {
			if s, ok := v[key].(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
		return "", false
	default:
		return "", false
	}
}

// extractReferenceID resolves array-or-scalar input to a single
// reference ID. First resolvable array element wins.
func extractReferenceID(raw domain.RawValue) (string, bool) {
	if arr, ok := raw.([]any); ok {
		for _, elem := range arr {
			if id, ok := referenceIDOf(elem); ok {
				return id, true
			}
		}
		return "", false
	}
	return referenceIDOf(raw)
}

// extractReferenceIDs collects every resolvable ID from an array (or
// a lone scalar), in order. Duplicates are kept; the destination
// decides what to do with them.
func extractReferenceIDs(raw domain.RawValue) []string {
	ids := []string{}
	if arr, ok := raw.([]any); ok {
		for _, elem := range arr {
			if id, ok := referenceIDOf(elem); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	if id, ok := referenceIDOf(raw); ok {
		ids = append(ids, id)
	}
	return ids
}

// extractEnumLabel resolves a raw value to an enum case label:
// the name of a wrapper object, a plain string, or the first element
// of an array, with accidental code-fence wrapping stripped.
func extractEnumLabel(raw domain.RawValue) string {
	switch v := raw.(type) {
	case string:
		return plaintext.StripCodeFence(strings.TrimSpace(v))
	case map[string]any:
		if s, ok := v["name"].(string); ok {
			return plaintext.StripCodeFence(strings.TrimSpace(s))
		}
		return plaintext.StripCodeFence(extractText(v))
	case []any:
		if len(v) == 0 {
			return ""
		}
		return extractEnumLabel(v[0])
	default:
		return plaintext.StripCodeFence(extractText(raw))
	}
}
