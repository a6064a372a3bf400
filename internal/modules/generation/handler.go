package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/middleware"
	"github.com/inkwell-app/core/internal/models"
	"github.com/inkwell-app/core/internal/pkg/response"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/generateBookSmall", authMW, h.generate(models.DocTypeBookSmall))
	rg.POST("/generateBookMed", authMW, h.generate(models.DocTypeBookMedium))
	rg.POST("/generateBookLong", authMW, h.generate(models.DocTypeBookLong))
	rg.POST("/generateResearchPaperLong", authMW, h.generate(models.DocTypeResearchLong))
	rg.POST("/cancelGeneration", authMW, h.cancel)

	g := rg.Group("/generation", authMW)
	g.GET("/:id", h.status)
	g.GET("/:id/events", h.events)
}

// generate handles the four POST /generate* endpoints.
func (h *Handler) generate(docType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dto generateDTO
		if err := c.ShouldBindJSON(&dto); err != nil {
			response.BadRequest(c, "prompt is required")
			return
		}

		userID := middleware.CurrentUserID(c)
		if dto.UserID != "" && dto.UserID != userID {
			response.Forbidden(c)
			return
		}

		doc, task, err := h.svc.Start(c.Request.Context(), userID, dto.Prompt, docType, dto.Format)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				response.BadRequest(c, err.Error())
				return
			}
			response.InternalError(c, err)
			return
		}
		response.Accepted(c, generateResponse{
			DocumentID: doc.ID,
			TaskID:     task.ID,
		})
	}
}

// POST /cancelGeneration
func (h *Handler) cancel(c *gin.Context) {
	var dto cancelDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, "documentId is required")
		return
	}

	err := h.svc.Cancel(c.Request.Context(), dto.DocumentID, middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{
		"documentId": dto.DocumentID,
		"status":     models.StatusCancelled,
	})
}

// GET /generation/:id
func (h *Handler) status(c *gin.Context) {
	doc, task, err := h.svc.Status(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, gin.H{
		"document": doc,
		"task":     task,
	})
}

// GET /generation/:id/events — streams progress events over SSE until the
// run reaches a terminal status or the client goes away.
func (h *Handler) events(c *gin.Context) {
	doc, _, err := h.svc.Status(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendEvent := func(event ProgressEvent) {
		data, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", data)
		c.Writer.Flush()
	}

	if models.IsTerminalStatus(doc.GenerationStatus) {
		sendEvent(snapshotEvent(doc))
		return
	}

	ctx := c.Request.Context()
	sub := h.svc.SubscribeProgress(ctx, doc.ID)
	defer sub.Close()

	// Snapshot is re-read after subscribing so a terminal event landing
	// between the first read and the subscribe is not lost.
	if doc, _, err = h.svc.Status(ctx, doc.ID, middleware.CurrentUserID(c)); err != nil {
		return
	}
	sendEvent(snapshotEvent(doc))
	if models.IsTerminalStatus(doc.GenerationStatus) {
		return
	}

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(c.Writer, ": ping\n\n")
			c.Writer.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event ProgressEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			sendEvent(event)
			if models.IsTerminalStatus(event.Status) {
				return
			}
		}
	}
}

func snapshotEvent(doc *models.DocumentModel) ProgressEvent {
	return ProgressEvent{
		DocumentID:   doc.ID,
		Status:       doc.GenerationStatus,
		ChapterCount: doc.ChapterCount,
		ChapterTotal: doc.ChapterTotal,
		Error:        doc.Error,
	}
}

// SubscribeProgress opens a pub/sub subscription on a document's progress
// channel.
func (s *Service) SubscribeProgress(ctx context.Context, documentID string) *redis.PubSub {
	return s.rc.Subscribe(ctx, progressChannel(documentID))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c)
	case errors.Is(err, ErrAlreadyFinished):
		response.Conflict(c, "generation already finished")
	default:
		response.InternalError(c, err)
	}
}
