package tasks

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/pkg/pagination"
	"github.com/inkwell-app/core/internal/pkg/response"
	"github.com/inkwell-app/core/internal/pkg/taskqueue"
)

// taskStore is the queue surface the handler needs.
type taskStore interface {
	List(ctx context.Context, page, size int, taskType *string, status *taskqueue.TaskStatus) ([]*taskqueue.Task, int64, error)
	GetByID(ctx context.Context, id string) (*taskqueue.Task, error)
	DeleteByID(ctx context.Context, id string) error
}

// Handler exposes background task introspection for operators.
type Handler struct {
	tasks taskStore
}

func NewHandler(svc *taskqueue.Service) *Handler { return &Handler{tasks: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/tasks", authMW)
	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.DELETE("/:id", h.delete)
}

// GET /tasks?page=&size=&type=&status=
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var taskType *string
	if v := c.Query("type"); v != "" {
		taskType = &v
	}
	var status *taskqueue.TaskStatus
	if v := c.Query("status"); v != "" {
		st := taskqueue.TaskStatus(v)
		status = &st
	}

	items, total, err := h.tasks.List(c.Request.Context(), q.Page, q.Size, taskType, status)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))
	response.Paged(c, items, response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	})
}

// GET /tasks/:id
func (h *Handler) detail(c *gin.Context) {
	task, err := h.tasks.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if task == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, task)
}

// DELETE /tasks/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.tasks.DeleteByID(c.Request.Context(), c.Param("id")); err != nil {
		response.NotFoundMsg(c, err.Error())
		return
	}
	response.NoContent(c)
}
