package dashboard

import (
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
	rg.GET("/sessions/:id/dashboard", h.get)
}

// GET /sessions/:id/dashboard
func (h *Handler) get(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	summary, err := h.svc.Build(c.Request.Context(), sess)
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, summary)
}
