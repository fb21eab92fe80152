package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/logger"
	"github.com/jimbaxley/codaframer/internal/normalisers/plaintext"
	"github.com/jimbaxley/codaframer/internal/normalisers/richtext"
)

// TransformValue converts one raw upstream cell into the typed entry
// the destination field expects. sourceType is the upstream column's
// type tag, which steers date formatting and rich-text handling.
//
// A nil return means "no entry": the field is omitted for this item.
// Only date fields and unusable image/file URLs omit; every other
// type degrades to its zero value on empty input. That asymmetry is
// deliberate: a defaulted date would invent a timestamp, while a
// defaulted string is just empty.
func TransformValue(raw domain.RawValue, field domain.Field, sourceType string, settings domain.Settings) *domain.TypedEntry {
	if isEmptyValue(raw) {
		return emptyEntry(field.Type)
	}

	switch field.Type {
	case domain.FieldString:
		return transformString(raw, sourceType, settings)

	case domain.FieldNumber:
		return domain.NumberEntry(parseNumber(raw, field.Name))

	case domain.FieldBoolean:
		return domain.BooleanEntry(truthy(raw))

	case domain.FieldDate:
		return transformDate(raw, sourceType)

	case domain.FieldFormattedText:
		return transformFormattedText(raw, sourceType)

	case domain.FieldImage, domain.FieldFile:
		return transformAsset(raw, field)

	case domain.FieldLink:
		return transformLink(raw)

	case domain.FieldEnum:
		return transformEnum(raw, field)

	case domain.FieldSingleReference:
		id, _ := extractReferenceID(raw)
		return domain.StringEntry(domain.FieldSingleReference, id)

	case domain.FieldMultiReference:
		return domain.MultiReferenceEntry(extractReferenceIDs(raw))

	default:
		logger.Warn("field %q has unknown type %q, stringifying", field.Name, field.Type)
		return domain.StringEntry(field.Type, extractText(raw))
	}
}

// isEmptyValue reports whether the upstream sent nothing usable:
// null, or a string that is all whitespace.
func isEmptyValue(raw domain.RawValue) bool {
	if raw == nil {
		return true
	}
	if s, ok := raw.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// emptyEntry is the per-type handling of an empty cell. Dates omit
// the field; everything else writes its zero value.
func emptyEntry(t domain.FieldType) *domain.TypedEntry {
	switch t {
	case domain.FieldNumber:
		return domain.NumberEntry(0)
	case domain.FieldBoolean:
		return domain.BooleanEntry(false)
	case domain.FieldDate:
		return nil
	case domain.FieldMultiReference:
		return domain.MultiReferenceEntry(nil)
	default:
		return domain.StringEntry(t, "")
	}
}

// --- string ---

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

func transformString(raw domain.RawValue, sourceType string, settings domain.Settings) *domain.TypedEntry {
	if sourceType == domain.ColumnTypeTime {
		if s, ok := formatTimeOfDay(extractText(raw), settings.Use12HourClock); ok {
			return domain.StringEntry(domain.FieldString, s)
		}
		// Fall through to generic text when the clock is unreadable.
	}

	text := plaintext.Unwrap(extractText(raw))
	return domain.StringEntry(domain.FieldString, text)
}

// formatTimeOfDay renders a time column's value per the clock
// preference. Accepts a bare "HH:mm[:ss]" or any full timestamp the
// date parser understands.
func formatTimeOfDay(text string, use12Hour bool) (string, bool) {
	text = strings.TrimSpace(text)

	var hour, minute, second int
	if sub := clockPattern.FindStringSubmatch(text); sub != nil {
		hour, _ = strconv.Atoi(sub[1])
		minute, _ = strconv.Atoi(sub[2])
		if sub[3] != "" {
			second, _ = strconv.Atoi(sub[3])
		}
		if hour > 23 || minute > 59 || second > 59 {
			return "", false
		}
	} else {
		t, ok := parseUpstreamTime(text)
		if !ok {
			return "", false
		}
		hour, minute, second = t.Hour(), t.Minute(), t.Second()
	}

	if use12Hour {
		meridiem := "AM"
		h := hour
		if h >= 12 {
			meridiem = "PM"
		}
		if h == 0 {
			h = 12
		} else if h > 12 {
			h -= 12
		}
		if second != 0 {
			return fmt.Sprintf("%d:%02d:%02d %s", h, minute, second, meridiem), true
		}
		return fmt.Sprintf("%d:%02d %s", h, minute, meridiem), true
	}

	if second != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hour, minute, second), true
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// --- number ---

var currencySymbols = strings.NewReplacer("$", "", "£", "", "€", "", "¥", "", ",", "")

// parseNumber accepts numbers, numeric strings with currency
// decoration, and money-style wrapper objects. Unparseable input is
// worth a warning but never an error: the field gets 0.
func parseNumber(raw domain.RawValue, fieldName string) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		s := strings.TrimSpace(currencySymbols.Replace(v))
		percent := strings.HasSuffix(s, "%")
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			logger.Warn("field %q: cannot parse %q as number, using 0", fieldName, v)
			return 0
		}
		if percent {
			return n / 100
		}
		return n
	case map[string]any:
		// schema.org MonetaryAmount and similar wrappers.
		for _, key := range []string{"amount", "value"} {
			if inner, ok := v[key]; ok {
				return parseNumber(inner, fieldName)
			}
		}
		logger.Warn("field %q: object has no numeric amount, using 0", fieldName)
		return 0
	default:
		logger.Warn("field %q: cannot parse %T as number, using 0", fieldName, raw)
		return 0
	}
}

// --- boolean ---

// truthy coerces a raw value the way the upstream formula language
// does: empty and zero are false, everything else (including the
// string "false" and empty objects) is true.
func truthy(raw domain.RawValue) bool {
	switch v := raw.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case int:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

// --- date ---

// upstreamTimeFormats are tried in order when parsing a timestamp.
var upstreamTimeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
}

func parseUpstreamTime(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	for _, layout := range upstreamTimeFormats {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// transformDate renders a date entry per the source column's
// granularity. Unparseable input omits the field: a placeholder date
// is worse than no date.
//
// Datetime columns keep their wall-clock reading and are merely
// relabelled UTC. A row stored as 2024-09-30T20:00:00-04:00 stays
// "2024-09-30T20:00:00.000Z" instead of shifting to October 1st,
// which is what a viewer of the source table expects to see.
func transformDate(raw domain.RawValue, sourceType string) *domain.TypedEntry {
	text := extractText(raw)
	t, ok := parseUpstreamTime(text)
	if !ok {
		logger.Debug("unparseable date %q, omitting field", text)
		return nil
	}

	switch sourceType {
	case domain.ColumnTypeDate:
		return domain.StringEntry(domain.FieldDate, t.Format("2006-01-02"))
	case domain.ColumnTypeTime:
		return domain.StringEntry(domain.FieldDate, "1970-01-01T"+t.UTC().Format("15:04:05.000")+"Z")
	default:
		return domain.StringEntry(domain.FieldDate, t.Format("2006-01-02T15:04:05.000")+"Z")
	}
}

// --- formatted text ---

func transformFormattedText(raw domain.RawValue, sourceType string) *domain.TypedEntry {
	if sourceType == domain.ColumnTypeCanvas || sourceType == domain.ColumnTypeRichText {
		content := canvasContent(raw)
		return domain.StringEntry(domain.FieldFormattedText, richtext.ToHTML(content))
	}
	return domain.StringEntry(domain.FieldFormattedText, extractText(raw))
}

// canvasContent pulls the markdown body out of a canvas cell, which
// arrives as a bare string or a {content|value} wrapper.
func canvasContent(raw domain.RawValue) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range []string{"content", "value"} {
			if s, ok := v[key].(string); ok && s != "" {
				return s
			}
		}
		return extractText(v)
	default:
		return extractText(raw)
	}
}

// --- image / file ---

func transformAsset(raw domain.RawValue, field domain.Field) *domain.TypedEntry {
	candidate, ok := extractAssetURL(raw)
	if !ok || !isUsableAssetURL(candidate, field.Type == domain.FieldImage) {
		logger.Warn("field %q: no usable %s URL in %v, omitting field", field.Name, field.Type, raw)
		return nil
	}
	return domain.StringEntry(field.Type, candidate)
}

// --- link ---

func transformLink(raw domain.RawValue) *domain.TypedEntry {
	switch v := raw.(type) {
	case string:
		return domain.StringEntry(domain.FieldLink, plaintext.StripCodeFence(strings.TrimSpace(v)))
	case map[string]any:
		if s, ok := v["url"].(string); ok {
			return domain.StringEntry(domain.FieldLink, strings.TrimSpace(s))
		}
		return domain.StringEntry(domain.FieldLink, "")
	case []any:
		if len(v) > 0 {
			return transformLink(v[0])
		}
		return domain.StringEntry(domain.FieldLink, "")
	default:
		return domain.StringEntry(domain.FieldLink, "")
	}
}

// --- enum ---

// transformEnum resolves the raw value to a case ID. When the field
// has no case list yet (lookup-derived enums before the row scan) or
// the label is unknown, the label itself is emitted and the case list
// is expected to be back-filled by the enum discovery pass.
func transformEnum(raw domain.RawValue, field domain.Field) *domain.TypedEntry {
	label := extractEnumLabel(raw)
	if label == "" {
		return nil
	}

	for _, c := range field.Cases {
		if c.ID == label {
			return domain.StringEntry(domain.FieldEnum, c.ID)
		}
	}
	for _, c := range field.Cases {
		if c.Name == label {
			return domain.StringEntry(domain.FieldEnum, c.ID)
		}
	}

	return domain.StringEntry(domain.FieldEnum, label)
}
