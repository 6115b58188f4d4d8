package news

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/integridad-lab/taller-core/internal/models"
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
	g := rg.Group("/sessions/:id/articles")
	g.POST("", h.generate)
	g.GET("", h.list)
}

// POST /sessions/:id/articles?force=1
func (h *Handler) generate(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	articles, err := h.svc.Generate(c.Request.Context(), sess, c.Query("force") == "1")
	if err != nil {
		if errors.Is(err, ErrNoAnalysis) {
			response.UnprocessableEntity(c, err.Error())
			return
		}
		response.BadGateway(c, err)
		return
	}
	h.write(c, articles)
}

// GET /sessions/:id/articles?format=html
func (h *Handler) list(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	articles := sess.Articles()
	if len(articles) == 0 {
		response.NotFoundMsg(c, "la sesión aún no tiene noticias generadas")
		return
	}
	h.write(c, articles)
}

func (h *Handler) write(c *gin.Context, articles []models.NewsArticle) {
	if c.Query("format") != "html" {
		response.OK(c, articles)
		return
	}
	rendered := make([]gin.H, 0, len(articles))
	for _, a := range articles {
		rendered = append(rendered, gin.H{
			"frame": a.Frame,
			"label": a.Label,
			"html":  RenderHTML(a),
		})
	}
	response.OK(c, rendered)
}
