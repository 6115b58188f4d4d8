package forms

import (
	"strings"
	"time"

	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

// Google Forms puts the submission timestamp in the first column, but the
// header wording varies between locales and manually edited sheets, so all
// recognized fields are detected by tolerant header matching.

// DateColumn returns the header holding the submission timestamp. Falls back
// to the first column, the Google Forms convention.
func DateColumn(headers []string) string {
	if len(headers) == 0 {
		return ""
	}
	for _, needle := range []string{"marca temporal", "timestamp", "fecha", "date"} {
		if col := headerContaining(headers, needle); col != "" {
			return col
		}
	}
	return headers[0]
}

// CardColumn returns the header holding the participant card number.
func CardColumn(headers []string) string {
	for _, needle := range []string{"tarjeta", "número", "numero", "number", "card", "asignado"} {
		if col := headerContaining(headers, needle); col != "" {
			return col
		}
	}
	return ""
}

// GenderColumn returns the header holding the participant gender.
func GenderColumn(headers []string) string {
	for _, needle := range []string{"género", "genero", "gender", "sexo", "identificas"} {
		if col := headerContaining(headers, needle); col != "" {
			return col
		}
	}
	return ""
}

// ImplementationDateColumn returns the Form 0 column carrying the real
// workshop date, as opposed to the form submission timestamp.
func ImplementationDateColumn(headers []string) string {
	for _, h := range headers {
		clean := strings.ToLower(strings.TrimSpace(h))
		if clean == "fecha de implementación" || clean == "fecha de implementacion" {
			return h
		}
	}
	return ""
}

// FindColumn matches a configured column name against the sheet headers,
// first exactly (case/space tolerant), then by substring.
func FindColumn(headers []string, want string) string {
	wantClean := strings.ToLower(strings.TrimSpace(want))
	if wantClean == "" {
		return ""
	}
	for _, h := range headers {
		if strings.ToLower(strings.TrimSpace(h)) == wantClean {
			return h
		}
	}
	return headerContaining(headers, wantClean)
}

func headerContaining(headers []string, needle string) string {
	for _, h := range headers {
		if strings.Contains(strings.ToLower(h), needle) {
			return h
		}
	}
	return ""
}

// dateLayouts are tried in order. Day-first layouts match the es-MX locale
// the forms are deployed in.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
	"2-1-2006",
}

// NormalizeDate reduces a raw cell value to YYYY-MM-DD for comparison.
// Unparseable values are returned trimmed so equality still works when both
// sides carry the same odd format.
func NormalizeDate(raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.Format("2006-01-02")
		}
	}
	return v
}

// FilterByDate returns the rows whose timestamp column normalizes to the
// given date. An unknown date yields an empty table, never an error.
func FilterByDate(table *sheets.Table, date string) *sheets.Table {
	if table.Empty() || date == "" {
		return table
	}
	col := DateColumn(table.Headers)
	out := &sheets.Table{Headers: table.Headers}
	for _, row := range table.Rows {
		if NormalizeDate(row[col]) == date {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}
