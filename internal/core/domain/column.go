package domain

// Column type tags as reported by the upstream table API.
// The set is open: Coda adds column types without notice, so mapping
// code must treat unknown tags as text rather than failing.
const (
	ColumnTypeText     = "text"
	ColumnTypeNumber   = "number"
	ColumnTypeCurrency = "currency"
	ColumnTypePercent  = "percent"
	ColumnTypeDuration = "duration"
	ColumnTypeCheckbox = "checkbox"
	ColumnTypeDate     = "date"
	ColumnTypeDateTime = "dateTime"
	ColumnTypeTime     = "time"
	ColumnTypeSelect   = "select"
	ColumnTypeScale    = "scale"
	ColumnTypeLookup   = "lookup"
	ColumnTypePerson   = "person"
	ColumnTypeEmail    = "email"
	ColumnTypePhone    = "phone"
	ColumnTypeCanvas   = "canvas"
	ColumnTypeRichText = "richText"
	ColumnTypeImage    = "image"
	ColumnTypeFile     = "file"
	ColumnTypeURL      = "url"
	ColumnTypeLink     = "link"
	ColumnTypeButton   = "button"
)

// Choice is one declared option of a select or scale column.
type Choice struct {
	// ID is the upstream option identifier. May be empty, in which
	// case Name doubles as the identifier.
	ID string

	// Name is the display label of the option.
	Name string
}

// SourceColumn describes one upstream table column as fetched at the
// start of a sync. Columns are never cached between syncs.
type SourceColumn struct {
	// ID is the stable upstream column identifier (e.g. "c-abc123").
	ID string

	// Name is the column's display name.
	Name string

	// SourceType is the upstream type tag (one of the ColumnType
	// constants, or an unrecognised value).
	SourceType string

	// IsArray indicates the column holds multiple values per row
	// (multi-select, multi-lookup).
	IsArray bool

	// Choices holds the declared options for select and scale columns.
	Choices []Choice

	// ReferencedTableID is the foreign table a lookup column points
	// at. Empty for non-lookup columns.
	ReferencedTableID string
}
