package news

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/ai"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/session"
)

// ErrNoAnalysis means the session has no classified theme yet, which the
// articles are built from.
var ErrNoAnalysis = errors.New("la sesión aún no tiene análisis del tema dominante")

const articleMaxTokens = 600

// leadingNoisePattern strips list numbering or escaped prefixes some models
// prepend to the article body.
var leadingNoisePattern = regexp.MustCompile(`^(?:\s|\\|/|[\d.\-)])+`)

// Service generates the four workshop articles: one neutral base story and
// three framed rewrites of it.
type Service struct {
	forms  *forms.Service
	ai     ai.Completer
	reg    *session.Registry
	logger *zap.Logger
}

func NewService(formsSvc *forms.Service, completer ai.Completer, reg *session.Registry, logger *zap.Logger) *Service {
	return &Service{forms: formsSvc, ai: completer, reg: reg, logger: logger}
}

// Generate produces the article set for the session. The neutral story is
// generated first because the framed versions rewrite it; the three rewrites
// then run concurrently. Results are cached on the session.
func (s *Service) Generate(ctx context.Context, sess *session.Session, force bool) ([]models.NewsArticle, error) {
	sess.BeginOp()
	defer sess.EndOp()

	if cached := sess.Articles(); len(cached) > 0 && !force {
		return cached, nil
	}

	analysis := sess.Analysis()
	if analysis == nil {
		return nil, ErrNoAnalysis
	}
	groupContext := s.forms.GroupContext(ctx, sess.Date)

	neutral, err := s.generateOne(ctx, buildNeutralPrompt(analysis, groupContext))
	if err != nil {
		return nil, fmt.Errorf("generar noticia neutral: %w", err)
	}

	articles := make([]models.NewsArticle, 1+len(models.FramedFrames))
	articles[0] = models.NewsArticle{
		Frame: models.FrameNeutral,
		Label: models.FrameNeutral.Label(),
		Text:  neutral,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, frame := range models.FramedFrames {
		g.Go(func() error {
			text, err := s.generateOne(gctx, buildFramePrompt(frame, neutral))
			if err != nil {
				return fmt.Errorf("generar noticia con encuadre %q: %w", frame, err)
			}
			articles[i+1] = models.NewsArticle{
				Frame: frame,
				Label: frame.Label(),
				Text:  text,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, a := range articles {
		if strings.TrimSpace(a.Text) == "" {
			return nil, fmt.Errorf("el modelo devolvió una noticia vacía para el encuadre %q", a.Frame)
		}
	}

	sess.SetArticles(articles)
	s.reg.Persist(ctx, sess)
	s.logger.Info("noticias con encuadres generadas",
		zap.String("session", sess.ID),
		zap.String("theme", analysis.DominantTheme),
		zap.Int("articles", len(articles)))
	return articles, nil
}

func (s *Service) generateOne(ctx context.Context, prompt string) (string, error) {
	raw, err := s.ai.Complete(ctx, generatorSystemPrompt, prompt, articleMaxTokens)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(leadingNoisePattern.ReplaceAllString(strings.TrimSpace(raw), "")), nil
}
