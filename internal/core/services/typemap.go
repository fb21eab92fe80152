package services

import (
	"strings"

	"github.com/jimbaxley/codaframer/internal/core/domain"
	"github.com/jimbaxley/codaframer/internal/logger"
)

// MapColumn derives a destination field from an upstream column.
// Returns nil for columns with no destination representation (button
// columns); the caller drops those from both schema and row data.
//
// The mapping is deterministic: the same column always yields the
// same field, which re-sync stability depends on.
func MapColumn(col domain.SourceColumn) *domain.Field {
	// Name heuristic first: columns called "Image", "Hero Graphic"
	// and the like hold image URLs regardless of their declared type.
	if looksLikeImageColumn(col) {
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldImage}
	}

	switch col.SourceType {
	case domain.ColumnTypeButton:
		return nil

	case domain.ColumnTypeSelect, domain.ColumnTypeScale:
		return &domain.Field{
			ID:    col.ID,
			Name:  col.Name,
			Type:  domain.FieldEnum,
			Cases: casesFromChoices(col.Choices),
		}

	case domain.ColumnTypeLookup, domain.ColumnTypePerson:
		if col.IsArray {
			// Comma-joined string by default. The sync orchestrator
			// upgrades this to a multi-reference field when the
			// reference resolver finds a synced collection for the
			// foreign table.
			return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldString}
		}
		// Cases are filled by scanning row data, out of band.
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldEnum, Cases: []domain.EnumCase{}}

	case domain.ColumnTypeText, domain.ColumnTypeEmail, domain.ColumnTypePhone, domain.ColumnTypeTime:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldString}

	case domain.ColumnTypeNumber, domain.ColumnTypeCurrency, domain.ColumnTypePercent, domain.ColumnTypeDuration:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldNumber}

	case domain.ColumnTypeCheckbox:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldBoolean}

	case domain.ColumnTypeDate, domain.ColumnTypeDateTime:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldDate}

	case domain.ColumnTypeImage:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldImage}

	case domain.ColumnTypeFile:
		return &domain.Field{
			ID:               col.ID,
			Name:             col.Name,
			Type:             domain.FieldFile,
			AllowedFileTypes: []string{"*"},
		}

	case domain.ColumnTypeCanvas, domain.ColumnTypeRichText:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldFormattedText}

	case domain.ColumnTypeURL, domain.ColumnTypeLink:
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldLink}

	default:
		logger.Warn("column %q has unrecognised type %q, mapping to string", col.Name, col.SourceType)
		return &domain.Field{ID: col.ID, Name: col.Name, Type: domain.FieldString}
	}
}

// looksLikeImageColumn applies the name/id override: any column whose
// display name or ID mentions "image" or "graphic" is treated as an
// image field, whatever its declared type says.
func looksLikeImageColumn(col domain.SourceColumn) bool {
	for _, s := range []string{col.Name, col.ID} {
		s = strings.ToLower(s)
		if strings.Contains(s, "image") || strings.Contains(s, "graphic") {
			return true
		}
	}
	return false
}

// casesFromChoices seeds enum cases from a column's declared options.
// The option ID is preferred as the case ID; options without one use
// their name, which keeps IDs stable when the same option reappears.
func casesFromChoices(choices []domain.Choice) []domain.EnumCase {
	cases := make([]domain.EnumCase, 0, len(choices))
	for _, c := range choices {
		id := c.ID
		if id == "" {
			id = c.Name
		}
		if id == "" {
			continue
		}
		cases = append(cases, domain.EnumCase{ID: id, Name: c.Name})
	}
	return cases
}
