package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimbaxley/codaframer/internal/core/domain"
)

func TestMapColumn_FixedTable(t *testing.T) {
	tests := []struct {
		sourceType string
		want       domain.FieldType
	}{
		{domain.ColumnTypeText, domain.FieldString},
		{domain.ColumnTypeEmail, domain.FieldString},
		{domain.ColumnTypePhone, domain.FieldString},
		{domain.ColumnTypeTime, domain.FieldString},
		{domain.ColumnTypeNumber, domain.FieldNumber},
		{domain.ColumnTypeCurrency, domain.FieldNumber},
		{domain.ColumnTypePercent, domain.FieldNumber},
		{domain.ColumnTypeDuration, domain.FieldNumber},
		{domain.ColumnTypeCheckbox, domain.FieldBoolean},
		{domain.ColumnTypeDate, domain.FieldDate},
		{domain.ColumnTypeDateTime, domain.FieldDate},
		{domain.ColumnTypeImage, domain.FieldImage},
		{domain.ColumnTypeFile, domain.FieldFile},
		{domain.ColumnTypeCanvas, domain.FieldFormattedText},
		{domain.ColumnTypeRichText, domain.FieldFormattedText},
		{domain.ColumnTypeURL, domain.FieldLink},
		{domain.ColumnTypeLink, domain.FieldLink},
	}

	for _, tt := range tests {
		t.Run(tt.sourceType, func(t *testing.T) {
			field := MapColumn(domain.SourceColumn{ID: "c-1", Name: "Col", SourceType: tt.sourceType})
			require.NotNil(t, field)
			assert.Equal(t, tt.want, field.Type)
			assert.Equal(t, "c-1", field.ID)
			assert.Equal(t, "Col", field.Name)
		})
	}
}

func TestMapColumn_UnrecognisedTypeFallsBackToString(t *testing.T) {
	field := MapColumn(domain.SourceColumn{ID: "c-1", Name: "Mystery", SourceType: "hologram"})
	require.NotNil(t, field)
	assert.Equal(t, domain.FieldString, field.Type)
}

func TestMapColumn_ButtonDropped(t *testing.T) {
	field := MapColumn(domain.SourceColumn{ID: "c-1", Name: "Go", SourceType: domain.ColumnTypeButton})
	assert.Nil(t, field)
}

func TestMapColumn_ImageNameHeuristicWins(t *testing.T) {
	tests := []domain.SourceColumn{
		{ID: "c-1", Name: "Hero Image", SourceType: domain.ColumnTypeText},
		{ID: "c-1", Name: "graphic asset", SourceType: domain.ColumnTypeNumber},
		{ID: "c-image-2", Name: "Pic", SourceType: domain.ColumnTypeButton},
		{ID: "c-1", Name: "IMAGE", SourceType: domain.ColumnTypeCheckbox},
	}

	for _, col := range tests {
		field := MapColumn(col)
		require.NotNil(t, field, "column %q/%q", col.Name, col.ID)
		assert.Equal(t, domain.FieldImage, field.Type)
	}
}

func TestMapColumn_SelectSeedsEnumCases(t *testing.T) {
	col := domain.SourceColumn{
		ID:         "c-1",
		Name:       "Status",
		SourceType: domain.ColumnTypeSelect,
		Choices: []domain.Choice{
			{ID: "opt-1", Name: "Open"},
			{Name: "Closed"}, // no declared ID: name doubles as ID
		},
	}

	field := MapColumn(col)
	require.NotNil(t, field)
	assert.Equal(t, domain.FieldEnum, field.Type)
	require.Len(t, field.Cases, 2)
	assert.Equal(t, domain.EnumCase{ID: "opt-1", Name: "Open"}, field.Cases[0])
	assert.Equal(t, domain.EnumCase{ID: "Closed", Name: "Closed"}, field.Cases[1])
}

func TestMapColumn_SingleLookupIsEnumWithEmptyCases(t *testing.T) {
	col := domain.SourceColumn{
		ID:                "c-1",
		Name:              "Owner",
		SourceType:        domain.ColumnTypeLookup,
		ReferencedTableID: "grid-people",
	}

	field := MapColumn(col)
	require.NotNil(t, field)
	assert.Equal(t, domain.FieldEnum, field.Type)
	assert.Empty(t, field.Cases)
	assert.NotNil(t, field.Cases, "case list must exist for row-scan back-fill")
}

func TestMapColumn_MultiLookupDefaultsToString(t *testing.T) {
	col := domain.SourceColumn{
		ID:                "c-1",
		Name:              "Tags",
		SourceType:        domain.ColumnTypeLookup,
		IsArray:           true,
		ReferencedTableID: "grid-tags",
	}

	field := MapColumn(col)
	require.NotNil(t, field)
	assert.Equal(t, domain.FieldString, field.Type)
}

func TestMapColumn_FileAllowsAnyType(t *testing.T) {
	field := MapColumn(domain.SourceColumn{ID: "c-1", Name: "Attachment", SourceType: domain.ColumnTypeFile})
	require.NotNil(t, field)
	assert.Equal(t, []string{"*"}, field.AllowedFileTypes)
}

func TestMapColumn_Deterministic(t *testing.T) {
	col := domain.SourceColumn{
		ID:         "c-1",
		Name:       "Status",
		SourceType: domain.ColumnTypeSelect,
		Choices:    []domain.Choice{{ID: "opt-1", Name: "Open"}},
	}

	first := MapColumn(col)
	second := MapColumn(col)
	assert.Equal(t, first, second)
}
