package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/config"
	"github.com/integridad-lab/taller-core/internal/modules/ai"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/session"
	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

// scriptedModel returns canned output and counts calls, so tests can prove
// a cached result never reaches the model again.
type scriptedModel struct {
	jsonOut  string
	textOut  string
	calls    int
	lastBody string
}

func (m *scriptedModel) Complete(_ context.Context, _, prompt string, _ int64) (string, error) {
	m.calls++
	m.lastBody = prompt
	return m.textOut, nil
}

func (m *scriptedModel) CompleteJSON(_ context.Context, req ai.JSONRequest, out interface{}) error {
	m.calls++
	m.lastBody = req.Prompt
	return ai.UnmarshalLoose(m.jsonOut, out)
}

type tableGateway struct {
	tables map[string]*sheets.Table
}

func (g *tableGateway) ReadTable(_ context.Context, _, tab string) (*sheets.Table, error) {
	if t, ok := g.tables[tab]; ok {
		return t, nil
	}
	return &sheets.Table{}, nil
}

func (g *tableGateway) AppendRows(context.Context, string, string, []string, [][]string) error {
	return nil
}

func insecurityTable() *sheets.Table {
	headers := []string{"Marca temporal", "Ingresa el número asignado en la tarjeta", "¿Qué situaciones te generan inseguridad?"}
	rows := [][]string{
		{"10/03/2026 9:01:00", "7", "el robo en el transporte público"},
		{"10/03/2026 9:02:00", "8", "me da miedo el robo a casa habitación"},
		{"10/03/2026 9:03:00", "9", "la inseguridad al caminar de noche"},
	}
	t := &sheets.Table{Headers: headers}
	for _, r := range rows {
		row := sheets.Row{}
		for i, h := range headers {
			row[h] = r[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func newFixture(t *testing.T, model ai.Completer, tables map[string]*sheets.Table) (*Service, *session.Session) {
	t.Helper()
	logger := zap.NewNop()
	formsSvc := forms.NewService(&tableGateway{tables: tables},
		config.SheetsConfig{Form0Tab: "F0", Form1Tab: "F1", Form2Tab: "F2"},
		config.WorkshopConfig{TextColumn: "¿Qué situaciones te generan inseguridad?"},
		logger,
	)
	reg := session.NewRegistry(nil, logger)
	sess := reg.Create("2026-03-10")
	return NewService(formsSvc, model, reg, logger), sess
}

const classifierJSON = `{
	"dominant_theme": "robo e inseguridad en el espacio público",
	"rationale": "La mayoría de las respuestas mencionan robos en transporte y vivienda.",
	"emotional_tone": "miedo y desconfianza",
	"top_keywords": ["robo", "inseguridad", "transporte"],
	"representative_answers": ["el robo en el transporte público", "me da miedo el robo a casa habitación"]
}`

func TestClassifyDominantTheme(t *testing.T) {
	model := &scriptedModel{jsonOut: classifierJSON}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{"F1": insecurityTable()})

	analysis, err := svc.Classify(context.Background(), sess, false)
	require.NoError(t, err)
	assert.Equal(t, "robo e inseguridad en el espacio público", analysis.DominantTheme)
	assert.Contains(t, analysis.TopKeywords, "robo")
	assert.Contains(t, model.lastBody, "el robo en el transporte público")
}

func TestClassifyCachesResult(t *testing.T) {
	model := &scriptedModel{jsonOut: classifierJSON}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{"F1": insecurityTable()})

	first, err := svc.Classify(context.Background(), sess, false)
	require.NoError(t, err)
	second, err := svc.Classify(context.Background(), sess, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, model.calls, "el segundo acceso no debe llamar al modelo")

	_, err = svc.Classify(context.Background(), sess, true)
	require.NoError(t, err)
	assert.Equal(t, 2, model.calls, "force vuelve a llamar al modelo")
}

func TestClassifyNoResponses(t *testing.T) {
	model := &scriptedModel{jsonOut: classifierJSON}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{})

	_, err := svc.Classify(context.Background(), sess, false)
	require.ErrorIs(t, err, ErrNoResponses)
	assert.Zero(t, model.calls)
}

func TestClassifyRejectsEmptyTheme(t *testing.T) {
	model := &scriptedModel{jsonOut: `{"dominant_theme": "  "}`}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{"F1": insecurityTable()})

	_, err := svc.Classify(context.Background(), sess, false)
	require.Error(t, err)
	assert.Nil(t, sess.Analysis())
}

func reactionsTable() *sheets.Table {
	headers := []string{
		"Marca temporal",
		"Ingresa el número asignado en la tarjeta",
		"¿Qué emociones identificas en ti en reacción a la noticia? (1)",
	}
	t := &sheets.Table{Headers: headers}
	row := sheets.Row{}
	for i, v := range []string{"10/03/2026 10:00:00", "7", "Miedo"} {
		row[headers[i]] = v
	}
	t.Rows = append(t.Rows, row)
	return t
}

func TestInsightsCachesReport(t *testing.T) {
	model := &scriptedModel{textOut: "## Principales patrones emocionales\nMiedo dominante."}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{"F2": reactionsTable()})

	report, err := svc.Insights(context.Background(), sess, false)
	require.NoError(t, err)
	assert.True(t, strings.Contains(report, "patrones emocionales"))

	_, err = svc.Insights(context.Background(), sess, false)
	require.NoError(t, err)
	assert.Equal(t, 1, model.calls)
}

func TestInsightsNoReactions(t *testing.T) {
	model := &scriptedModel{textOut: "reporte"}
	svc, sess := newFixture(t, model, map[string]*sheets.Table{})

	_, err := svc.Insights(context.Background(), sess, false)
	require.ErrorIs(t, err, ErrNoReactions)
	assert.Zero(t, model.calls)
}
