package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/integridad-lab/taller-core/internal/models"
	"github.com/integridad-lab/taller-core/internal/modules/ai"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/session"
)

var (
	// ErrNoResponses means Form 1 has no free-text answers for the workshop
	// date, so there is nothing to classify.
	ErrNoResponses = errors.New("sin respuestas del Formulario 1 para la fecha del taller")
	// ErrNoReactions means Form 2 has no rows for the workshop date.
	ErrNoReactions = errors.New("sin reacciones del Formulario 2 para la fecha del taller")
)

var themeSchema = ai.GenerateSchema[models.ThemeAnalysis]()

// Service runs the AI classification over collected form data and caches
// the result on the workshop session.
type Service struct {
	forms  *forms.Service
	ai     ai.Completer
	reg    *session.Registry
	logger *zap.Logger
}

func NewService(formsSvc *forms.Service, completer ai.Completer, reg *session.Registry, logger *zap.Logger) *Service {
	return &Service{forms: formsSvc, ai: completer, reg: reg, logger: logger}
}

// Classify identifies the dominant theme for the session's workshop date.
// The result is cached on the session; repeat calls return the cached value
// without touching the model unless force is set.
func (s *Service) Classify(ctx context.Context, sess *session.Session, force bool) (*models.ThemeAnalysis, error) {
	sess.BeginOp()
	defer sess.EndOp()

	if cached := sess.Analysis(); cached != nil && !force {
		return cached, nil
	}

	answers, err := s.forms.FreeTextAnswers(ctx, sess.Date)
	if err != nil {
		return nil, err
	}
	if len(answers) == 0 {
		return nil, ErrNoResponses
	}
	groupContext := s.forms.GroupContext(ctx, sess.Date)

	var out models.ThemeAnalysis
	req := ai.JSONRequest{
		SystemPrompt: classifierSystemPrompt,
		Prompt:       buildClassifierPrompt(groupContext, answers),
		SchemaName:   "ThemeAnalysis",
		Schema:       themeSchema,
		MaxTokens:    900,
	}
	if err := s.ai.CompleteJSON(ctx, req, &out); err != nil {
		return nil, fmt.Errorf("clasificar tema dominante: %w", err)
	}
	if strings.TrimSpace(out.DominantTheme) == "" {
		return nil, errors.New("el modelo no devolvió un tema dominante")
	}

	sess.SetAnalysis(&out)
	s.reg.Persist(ctx, sess)
	s.logger.Info("tema dominante identificado",
		zap.String("session", sess.ID),
		zap.String("theme", out.DominantTheme),
		zap.Int("answers", len(answers)))
	return &out, nil
}

// Insights produces the facilitator's markdown report over the normalized
// Form 2 reactions. Cached per session like Classify.
func (s *Service) Insights(ctx context.Context, sess *session.Session, force bool) (string, error) {
	sess.BeginOp()
	defer sess.EndOp()

	if cached := sess.Insights(); cached != "" && !force {
		return cached, nil
	}

	reactions, err := s.forms.Reactions(ctx, sess.Date)
	if err != nil {
		return "", err
	}
	if len(reactions) == 0 {
		return "", ErrNoReactions
	}
	groupContext := s.forms.GroupContext(ctx, sess.Date)

	report, err := s.ai.Complete(ctx, insightsSystemPrompt, buildInsightsPrompt(groupContext, reactions), 1200)
	if err != nil {
		return "", fmt.Errorf("analizar reacciones: %w", err)
	}
	report = strings.TrimSpace(report)
	if report == "" {
		return "", errors.New("el modelo devolvió un reporte vacío")
	}

	sess.SetInsights(report)
	s.reg.Persist(ctx, sess)
	s.logger.Info("reporte de reacciones generado",
		zap.String("session", sess.ID),
		zap.Int("reactions", len(reactions)))
	return report, nil
}
