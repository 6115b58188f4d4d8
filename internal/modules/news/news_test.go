package news

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/config"
	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/ai"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/session"
	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

// frameEchoModel answers each prompt with a text derived from the frame it
// recognizes in the prompt, so every generated article is distinct.
type frameEchoModel struct {
	mu    sync.Mutex
	calls int
}

func (m *frameEchoModel) Complete(_ context.Context, _, prompt string, _ int64) (string, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	switch {
	case strings.Contains(prompt, "sembrar desconfianza"):
		return "1. ¿Y las autoridades? Nadie responde… 🤔", nil
	case strings.Contains(prompt, "polariza a dos grupos"):
		return "Ellos contra nosotros, otra vez. 😡", nil
	case strings.Contains(prompt, "miedo y la necesidad de control"):
		return "¡ALERTA! Ya es tarde… demasiado tarde… 😨", nil
	default:
		return "Vecinos reportan robos en el transporte público de la zona centro.", nil
	}
}

func (m *frameEchoModel) CompleteJSON(context.Context, ai.JSONRequest, interface{}) error {
	return nil
}

type emptyGateway struct{}

func (emptyGateway) ReadTable(context.Context, string, string) (*sheets.Table, error) {
	return &sheets.Table{}, nil
}

func (emptyGateway) AppendRows(context.Context, string, string, []string, [][]string) error {
	return nil
}

func newFixture(t *testing.T) (*Service, *session.Session, *frameEchoModel) {
	t.Helper()
	logger := zap.NewNop()
	formsSvc := forms.NewService(emptyGateway{}, config.SheetsConfig{}, config.WorkshopConfig{}, logger)
	reg := session.NewRegistry(nil, logger)
	sess := reg.Create("2026-03-10")
	model := &frameEchoModel{}
	return NewService(formsSvc, model, reg, logger), sess, model
}

func TestGenerateProducesFourDistinctArticles(t *testing.T) {
	svc, sess, _ := newFixture(t)
	sess.SetAnalysis(&models.ThemeAnalysis{
		DominantTheme: "robo e inseguridad en el espacio público",
		EmotionalTone: "miedo y desconfianza",
		TopKeywords:   []string{"robo", "inseguridad"},
	})

	articles, err := svc.Generate(context.Background(), sess, false)
	require.NoError(t, err)
	require.Len(t, articles, 4)

	assert.Equal(t, models.FrameNeutral, articles[0].Frame)
	assert.Equal(t, models.FrameDistrust, articles[1].Frame)
	assert.Equal(t, models.FramePolarization, articles[2].Frame)
	assert.Equal(t, models.FrameFear, articles[3].Frame)

	texts := make(map[string]struct{})
	for _, a := range articles {
		assert.NotEmpty(t, a.Text)
		assert.NotEmpty(t, a.Label)
		texts[a.Text] = struct{}{}
	}
	assert.Len(t, texts, 4, "las cuatro noticias deben ser distintas")

	// Leading list numbering from the model gets stripped.
	assert.True(t, strings.HasPrefix(articles[1].Text, "¿Y las autoridades?"), "got %q", articles[1].Text)
}

func TestGenerateCachesArticles(t *testing.T) {
	svc, sess, model := newFixture(t)
	sess.SetAnalysis(&models.ThemeAnalysis{DominantTheme: "robo"})

	_, err := svc.Generate(context.Background(), sess, false)
	require.NoError(t, err)
	require.Equal(t, 4, model.calls)

	_, err = svc.Generate(context.Background(), sess, false)
	require.NoError(t, err)
	assert.Equal(t, 4, model.calls, "la segunda llamada no debe tocar el modelo")

	_, err = svc.Generate(context.Background(), sess, true)
	require.NoError(t, err)
	assert.Equal(t, 8, model.calls)
}

func TestGenerateRequiresAnalysis(t *testing.T) {
	svc, sess, model := newFixture(t)

	_, err := svc.Generate(context.Background(), sess, false)
	require.ErrorIs(t, err, ErrNoAnalysis)
	assert.Zero(t, model.calls)
}

func TestRenderHTML(t *testing.T) {
	html := RenderHTML(models.NewsArticle{Text: "**Alerta** en la colonia"})
	assert.Contains(t, html, "<strong>Alerta</strong>")
	assert.Empty(t, RenderHTML(models.NewsArticle{Text: "   "}))
}
