package handlers

import (
	"net/http"

	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// EntityHandler serves CRUD for one club-scoped collection under /clubs/:clubId.
type EntityHandler[E any] struct {
	service *services.ScopedService[E]
}

// NewEntityHandler creates a new EntityHandler.
func NewEntityHandler[E any](svc *services.ScopedService[E]) *EntityHandler[E] {
	return &EntityHandler[E]{service: svc}
}

func (h *EntityHandler[E]) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	items, err := h.service.List(c.Request.Context(), sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "List "+h.service.Name())
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "total": len(items)})
}

func (h *EntityHandler[E]) Get(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), sess, c.Param("clubId"), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "Get "+h.service.Name())
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *EntityHandler[E]) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req E
	if !bindJSON(c, &req, "Create "+h.service.Name()) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), sess, c.Param("clubId"), req)
	if err != nil {
		respondServiceError(c, err, "Create "+h.service.Name())
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update replaces the whole entity; id, club and createdAt are kept.
func (h *EntityHandler[E]) Update(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req E
	if !bindJSON(c, &req, "Update "+h.service.Name()) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), sess, c.Param("clubId"), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "Update "+h.service.Name())
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *EntityHandler[E]) Delete(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), sess, c.Param("clubId"), c.Param("id")); err != nil {
		respondServiceError(c, err, "Delete "+h.service.Name())
		return
	}
	c.Status(http.StatusNoContent)
}
