package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/modules/storage/object"
	"github.com/inkwell-app/core/internal/pkg/cron"
	redisc "github.com/inkwell-app/core/internal/pkg/redis"
	"github.com/inkwell-app/core/internal/pkg/response"
	"gorm.io/gorm"
)

const probeTimeout = 3 * time.Second

type Handler struct {
	db    *gorm.DB
	rc    *redisc.Client
	store object.Store
	sched *cron.Scheduler
}

func NewHandler(db *gorm.DB, rc *redisc.Client, store object.Store, sched *cron.Scheduler) *Handler {
	return &Handler{db: db, rc: rc, store: store, sched: sched}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/ping", h.ping)
	rg.GET("/health", h.health)

	cr := rg.Group("/health/cron", authMW)
	cr.GET("", h.listCron)
	cr.POST("/run/:name", h.runCron)
}

func (h *Handler) ping(c *gin.Context) {
	response.OK(c, gin.H{"message": "pong"})
}

// health probes each backing dependency with a short timeout and reports
// them individually. Any failed probe degrades the overall status to 503.
func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
	defer cancel()

	checks := gin.H{
		"database": h.probeDatabase(ctx),
		"redis":    h.probeRedis(ctx),
		"storage":  h.probeStorage(ctx),
	}

	status := "ok"
	code := http.StatusOK
	for _, up := range checks {
		if up != "up" {
			status = "degraded"
			code = http.StatusServiceUnavailable
			break
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
		"time":   time.Now().UTC(),
	})
}

func (h *Handler) probeDatabase(ctx context.Context) string {
	sqlDB, err := h.db.DB()
	if err != nil {
		return "down"
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (h *Handler) probeRedis(ctx context.Context) string {
	if err := h.rc.Raw().Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}

func (h *Handler) probeStorage(ctx context.Context) string {
	if err := h.store.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}

func (h *Handler) listCron(c *gin.Context) {
	response.OK(c, gin.H{"jobs": h.sched.List()})
}

func (h *Handler) runCron(c *gin.Context) {
	if err := h.sched.Run(c.Request.Context(), c.Param("name")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.OK(c, gin.H{"triggered": c.Param("name")})
}
