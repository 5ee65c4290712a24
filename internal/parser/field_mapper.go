package parser

import (
	"strings"

	"coursepulse/internal/model"
)

// FieldMapper reconciles header labels to canonical fields
type FieldMapper struct {
	aliases map[model.CanonicalField][]string
}

// NewFieldMapper normalizes the alias dictionary once
func NewFieldMapper(dict model.AliasDictionary) *FieldMapper {
	aliases := make(map[model.CanonicalField][]string, len(dict))
	for f, list := range dict {
		aliases[f] = normalizeAll(list)
	}
	return &FieldMapper{aliases: aliases}
}

// Matches reports whether a normalized label equals or contains an alias of f
func (m *FieldMapper) Matches(f model.CanonicalField, normalizedLabel string) bool {
	if normalizedLabel == "" {
		return false
	}
	for _, alias := range m.aliases[f] {
		if normalizedLabel == alias || strings.Contains(normalizedLabel, alias) {
			return true
		}
	}
	return false
}

// MapColumns builds the ColumnMap of one header row.
// Labels are visited left to right; each label goes to the first field, in
// model.CanonicalFields order, that matches it and is still unmapped.
func (m *FieldMapper) MapColumns(headers []string) model.ColumnMap {
	cols := make(model.ColumnMap)
	for idx, label := range headers {
		norm := NormalizeText(label)
		if norm == "" {
			continue
		}
		for _, f := range model.CanonicalFields {
			if cols.Has(f) {
				continue
			}
			if m.Matches(f, norm) {
				cols[f] = model.MappedColumn{Index: idx, Label: strings.TrimSpace(label)}
				break
			}
		}
	}
	return cols
}
