package domain

// FieldType enumerates the destination collection's field types.
// Every value a transform produces carries exactly one of these tags.
type FieldType string

const (
	FieldString          FieldType = "string"
	FieldNumber          FieldType = "number"
	FieldBoolean         FieldType = "boolean"
	FieldDate            FieldType = "date"
	FieldImage           FieldType = "image"
	FieldFile            FieldType = "file"
	FieldFormattedText   FieldType = "formattedText"
	FieldLink            FieldType = "link"
	FieldEnum            FieldType = "enum"
	FieldSingleReference FieldType = "singleReference"
	FieldMultiReference  FieldType = "multiReference"
)

// EnumCase is one allowed value of an enum field.
// Case IDs are derived from the source value itself, never from its
// position, so re-syncing identical data keeps IDs stable.
type EnumCase struct {
	// ID identifies the case across syncs.
	ID string

	// Name is the display label.
	Name string
}

// Field describes one destination collection field: the type plus
// any type-specific constraints. It is derived deterministically from
// a SourceColumn by the type mapper.
type Field struct {
	// ID mirrors the source column ID.
	ID string

	// Name is the display name. When the destination already has a
	// field with this ID, the destination's name wins on re-sync.
	Name string

	// Type is the destination field type.
	Type FieldType

	// Cases holds the allowed values for enum fields. For enum fields
	// derived from lookup columns the list starts empty and is filled
	// by scanning row data.
	Cases []EnumCase

	// CollectionID is the destination collection a reference field
	// points at. Only set for single/multi reference fields.
	CollectionID string

	// AllowedFileTypes restricts file fields by extension. A single
	// "*" entry allows anything.
	AllowedFileTypes []string
}

// FieldByID finds a field in a slice by ID. Returns nil if absent.
func FieldByID(fields []Field, id string) *Field {
	for i := range fields {
		if fields[i].ID == id {
			return &fields[i]
		}
	}
	return nil
}
