package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchWorksheet(t *testing.T) {
	titles := []string{"Formulario 0", "Respuestas de formulario 1", "Form 2"}

	for _, tc := range []struct {
		name  string
		want  string
		title string
		exact bool
	}{
		{"exact", "Formulario 0", "Formulario 0", true},
		{"case insensitive", "formulario 0", "Formulario 0", true},
		{"substring fallback", "formulario 1", "Respuestas de formulario 1", false},
		{"no match uses first", "Formulario 9", "Formulario 0", false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			title, exact := MatchWorksheet(titles, tc.want)
			assert.Equal(t, tc.title, title)
			assert.Equal(t, tc.exact, exact)
		})
	}
}

func TestTableFromValues(t *testing.T) {
	table := tableFromValues([][]interface{}{
		{"Marca temporal ", "Respuesta", "Género"},
		{"2026-03-10 10:00:00", "robo en la colonia", "Mujer"},
		{"2026-03-10 10:05:00", "asaltos"}, // short row padded
		{"", "", ""},                       // fully empty row dropped
	})

	assert.Equal(t, []string{"Marca temporal", "Respuesta", "Género"}, table.Headers)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "robo en la colonia", table.Rows[0]["Respuesta"])
	assert.Equal(t, "", table.Rows[1]["Género"])
	assert.False(t, table.Empty())
	assert.True(t, (&Table{}).Empty())
}
