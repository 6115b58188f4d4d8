package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/integridad-lab/taller-core/internal/modules/ai"
	"github.com/integridad-lab/taller-core/internal/modules/analysis"
	"github.com/integridad-lab/taller-core/internal/modules/dashboard"
	"github.com/integridad-lab/taller-core/internal/modules/forms"
	"github.com/integridad-lab/taller-core/internal/modules/news"
	"github.com/integridad-lab/taller-core/internal/modules/session"
	"github.com/integridad-lab/taller-core/internal/modules/sheets"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(gateway sheets.Gateway, cache session.Cache, completer ai.Completer) {
	registry := session.NewRegistry(cache, a.logger)
	formsSvc := forms.NewService(gateway, a.cfg.Sheets, a.cfg.Workshop, a.logger)
	analysisSvc := analysis.NewService(formsSvc, completer, registry, a.logger)
	newsSvc := news.NewService(formsSvc, completer, registry, a.logger)
	dashboardSvc := dashboard.NewService(formsSvc, a.logger)

	api := a.router.Group(apiPrefix)
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	session.NewHandler(registry).RegisterRoutes(api)
	forms.NewHandler(formsSvc, registry, a.cfg.Forms).RegisterRoutes(api)
	analysis.NewHandler(analysisSvc, registry).RegisterRoutes(api)
	news.NewHandler(newsSvc, registry).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc, registry).RegisterRoutes(api)
}
