package domain

// RawValue is an upstream cell value exactly as decoded from the API
// response: a primitive, a wrapper object (map with a named value
// property such as "value", "displayValue" or "rawValue"), or an
// array of either. The transform layer is responsible for narrowing
// it to a typed shape.
type RawValue = any

// TypedEntry is one field value already converted to the shape the
// destination expects for its field type:
//
//	string/formattedText/link/image/file/enum/singleReference: string
//	number:         float64
//	boolean:        bool
//	date:           ISO string (bare date, or date-time labelled UTC)
//	multiReference: []string
//
// A nil *TypedEntry means "no entry": the field is omitted for that
// item rather than written with a default.
type TypedEntry struct {
	Type  FieldType
	Value any
}

// StringEntry builds a string-shaped entry of the given type.
func StringEntry(t FieldType, v string) *TypedEntry {
	return &TypedEntry{Type: t, Value: v}
}

// NumberEntry builds a number entry.
func NumberEntry(v float64) *TypedEntry {
	return &TypedEntry{Type: FieldNumber, Value: v}
}

// BooleanEntry builds a boolean entry.
func BooleanEntry(v bool) *TypedEntry {
	return &TypedEntry{Type: FieldBoolean, Value: v}
}

// MultiReferenceEntry builds a multi-reference entry from item IDs.
func MultiReferenceEntry(ids []string) *TypedEntry {
	if ids == nil {
		ids = []string{}
	}
	return &TypedEntry{Type: FieldMultiReference, Value: ids}
}
