package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/middleware"
	"github.com/inkwell-app/core/internal/modules/auth"
	"github.com/inkwell-app/core/internal/modules/document"
	"github.com/inkwell-app/core/internal/modules/generation"
	"github.com/inkwell-app/core/internal/modules/system/health"
	"github.com/inkwell-app/core/internal/modules/system/tasks"
	"github.com/inkwell-app/core/internal/pkg/metrics"
	"github.com/inkwell-app/core/internal/pkg/response"
	"github.com/inkwell-app/core/internal/pkg/taskqueue"
)

func (a *App) registerRoutes(taskSvc *taskqueue.Service) {
	r := a.router
	db := a.db
	rc := a.rc
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":     "inkwell-core",
		"version":  "1.0.0",
		"homepage": "https://github.com/inkwell-app/core",
		"issues":   "https://github.com/inkwell-app/core/issues",
	}

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(metrics.Middleware())
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     15 * time.Second,
		Disable: a.cfg.IsDev(),
		SkipPaths: []string{
			"/api/uptime",
			"/api/health",
			"/api/generation/*",
		},
	}))

	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/info", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/uptime", func(c *gin.Context) {
		uptimeMs := time.Since(a.startTime()).Milliseconds()
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptimeMs,
			"humanize":  humanizeDuration(time.Duration(uptimeMs) * time.Millisecond),
		})
	})

	// Infrastructure
	health.NewHandler(db, rc, a.store, a.sched).RegisterRoutes(api, authMW)
	tasks.NewHandler(taskSvc).RegisterRoutes(api, authMW)

	// Auth & user
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)

	// Documents & sharing
	docSvc := document.NewService(db, a.store, a.logger, a.cfg.PublicBaseURL)
	document.NewHandler(docSvc).RegisterRoutes(api, authMW)

	// Generation pipeline
	genSvc := generation.NewService(db, a.store, taskSvc, rc, a.cfg, a.logger)
	generation.NewHandler(genSvc).RegisterRoutes(api, authMW)
}
