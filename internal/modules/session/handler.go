package session

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/integridad-lab/taller-core/internal/pkg/response"
)

type Handler struct {
	reg *Registry
}

func NewHandler(reg *Registry) *Handler {
	return &Handler{reg: reg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/sessions")
	g.POST("", h.create)
	g.GET("/:id", h.get)
}

type createSessionDTO struct {
	Date string `json:"date" binding:"required"`
}

// POST /sessions
func (h *Handler) create(c *gin.Context) {
	var dto createSessionDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "se requiere la fecha del taller (date)")
		return
	}
	if _, err := time.Parse("2006-01-02", dto.Date); err != nil {
		response.UnprocessableEntity(c, "la fecha debe tener formato YYYY-MM-DD")
		return
	}
	sess := h.reg.Create(dto.Date)
	h.reg.Persist(c.Request.Context(), sess)
	response.Created(c, sess.View())
}

// GET /sessions/:id
func (h *Handler) get(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	response.OK(c, gin.H{
		"session":      sess.View(),
		"has_analysis": sess.Analysis() != nil,
		"has_articles": len(sess.Articles()) > 0,
		"has_insights": sess.Insights() != "",
	})
}

// Resolve looks up the session named by the :id route param, answering 404
// on a miss so callers can simply return.
func (r *Registry) Resolve(c *gin.Context) (*Session, bool) {
	sess, ok := r.Get(c.Request.Context(), c.Param("id"))
	if !ok {
		response.NotFoundMsg(c, "sesión de taller no encontrada")
		return nil, false
	}
	return sess, true
}
