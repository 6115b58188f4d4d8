package forms

import (
	"net/http"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/integridad-lab/taller-core/internal/config"
	"github.com/integridad-lab/taller-core/internal/modules/session"
	"github.com/integridad-lab/taller-core/internal/pkg/response"
)

const qrSize = 512

type Handler struct {
	svc      *Service
	reg      *session.Registry
	formsCfg config.FormsConfig
}

func NewHandler(svc *Service, reg *session.Registry, formsCfg config.FormsConfig) *Handler {
	return &Handler{svc: svc, reg: reg, formsCfg: formsCfg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/workshops/dates", h.dates)
	rg.GET("/forms", h.forms)
	rg.GET("/forms/:form/qr", h.qr)

	g := rg.Group("/sessions/:id")
	g.GET("/responses", h.responses)
	g.GET("/reactions", h.reactions)
	g.POST("/reactions/export", h.exportReactions)
}

// GET /workshops/dates
func (h *Handler) dates(c *gin.Context) {
	dates, err := h.svc.WorkshopDates(c.Request.Context())
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, dates)
}

// GET /forms
func (h *Handler) forms(c *gin.Context) {
	response.OK(c, gin.H{
		"form1_url": h.formsCfg.Form1URL,
		"form2_url": h.formsCfg.Form2URL,
	})
}

// GET /forms/:form/qr
func (h *Handler) qr(c *gin.Context) {
	var url string
	switch c.Param("form") {
	case "1":
		url = h.formsCfg.Form1URL
	case "2":
		url = h.formsCfg.Form2URL
	default:
		response.NotFoundMsg(c, "formulario desconocido")
		return
	}
	if url == "" {
		response.NotFoundMsg(c, "URL del formulario no configurada (GOOGLE_FORM_URL)")
		return
	}

	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

// GET /sessions/:id/responses
func (h *Handler) responses(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	items, err := h.svc.Responses(c.Request.Context(), sess.Date)
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, items)
}

// GET /sessions/:id/reactions
func (h *Handler) reactions(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	items, err := h.svc.Reactions(c.Request.Context(), sess.Date)
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, items)
}

// POST /sessions/:id/reactions/export
func (h *Handler) exportReactions(c *gin.Context) {
	sess, ok := h.reg.Resolve(c)
	if !ok {
		return
	}
	n, err := h.svc.ExportReactions(c.Request.Context(), sess.Date)
	if err != nil {
		response.BadGateway(c, err)
		return
	}
	response.OK(c, gin.H{"exported": n})
}
