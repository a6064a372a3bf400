package document

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-app/core/internal/middleware"
	"github.com/inkwell-app/core/internal/pkg/pagination"
	"github.com/inkwell-app/core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/documents", authMW)

	// :id carries a user id on GET (legacy listing route) and a document
	// id everywhere else.
	g.GET("/:id", h.listByUser)
	g.GET("/detail/:id", h.detail)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/share", h.share)
	g.POST("/:id/unshare", h.unshare)

	rg.GET("/share/:token", h.getShared)
}

// GET /documents/:id — list the user's documents. The path id must match
// the authenticated user.
func (h *Handler) listByUser(c *gin.Context) {
	requestedUser := strings.TrimSpace(c.Param("id"))
	userID := middleware.CurrentUserID(c)
	if requestedUser != "" && requestedUser != userID {
		response.Forbidden(c)
		return
	}

	q := pagination.FromContext(c)
	docs, page, err := h.svc.List(userID, q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, docs, page)
}

// GET /documents/detail/:id
func (h *Handler) detail(c *gin.Context) {
	doc, err := h.svc.Get(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, doc)
}

// DELETE /documents/:id
func (h *Handler) delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.NoContent(c)
}

// POST /documents/:id/share
func (h *Handler) share(c *gin.Context) {
	doc, token, err := h.svc.Share(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, shareResponse{
		DocumentID: doc.ID,
		ShareToken: token,
		ShareURL:   h.svc.ShareURL(token),
	})
}

// POST /documents/:id/unshare
func (h *Handler) unshare(c *gin.Context) {
	doc, err := h.svc.Unshare(c.Param("id"), middleware.CurrentUserID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, doc)
}

// GET /share/:token — public access to a shared document.
func (h *Handler) getShared(c *gin.Context) {
	doc, err := h.svc.GetShared(c.Param("token"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	response.OK(c, toPublicView(doc))
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c)
	case errors.Is(err, ErrForbidden):
		response.Forbidden(c)
	case errors.Is(err, ErrNotCompleted):
		response.UnprocessableEntity(c, "document generation is not completed")
	default:
		response.InternalError(c, err)
	}
}
