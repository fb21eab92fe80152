package driven

// Config keys used across the CLI and services.
const (
	ConfigKeyAPIToken     = "api_token"
	ConfigKeyDocID        = "doc_id"
	ConfigKeyTableID      = "table_id"
	ConfigKeySlugFieldID  = "slug_field_id"
	ConfigKey12HourClock  = "use_12_hour_clock"
	ConfigKeyCollectionID = "collection_id"
)

// ConfigStore persists user configuration: the API token, the chosen
// document/table, and formatting preferences.
type ConfigStore interface {
	// GetString retrieves a string value, "" when unset.
	GetString(key string) string

	// GetBool retrieves a boolean value, false when unset.
	GetBool(key string) bool

	// Set stores a value.
	Set(key string, value any)

	// Delete removes a key.
	Delete(key string)

	// Save persists all values.
	Save() error
}
