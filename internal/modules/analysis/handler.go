package analysis

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/integridad-lab/taller-core/internal/modules/session"
	"github.com/integridad-lab/taller-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
	reg *session.Registry
}

func NewHandler(svc *Service, reg *session.Registry) *Handler {
	return &Handler{svc: svc, reg: reg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sessions/:id")
	g.POST("/analysis", h.classify)
	g.GET("/analysis", h.getAnalysis)
	g.POST("/insights", h.insights)
	g.GET("/insights", h.getInsights)
}

// POST /sessions/:id/analysis?force=1
func (h *Handler) classify(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	analysis, err := h.svc.Classify(c.Request.Context(), sess, c.Query("force") == "1")
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	response.OK(c, analysis)
}

// GET /sessions/:id/analysis
func (h *Handler) getAnalysis(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	analysis := sess.Analysis()
	if analysis == nil {
		response.NotFoundMsg(c, "la sesión aún no tiene análisis")
		return
	}
	response.OK(c, analysis)
}

// POST /sessions/:id/insights?force=1
func (h *Handler) insights(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	report, err := h.svc.Insights(c.Request.Context(), sess, c.Query("force") == "1")
	if err != nil {
		writeAnalysisError(c, err)
		return
	}
	response.OK(c, gin.H{"insights": report})
}

// GET /sessions/:id/insights
func (h *Handler) getInsights(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	report := sess.Insights()
	if report == "" {
		response.NotFoundMsg(c, "la sesión aún no tiene reporte de reacciones")
		return
	}
	response.OK(c, gin.H{"insights": report})
}

func writeAnalysisError(c *gin.Context, err error) {
	if errors.Is(err, ErrNoResponses) || errors.Is(err, ErrNoReactions) {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.BadGateway(c, err)
}
