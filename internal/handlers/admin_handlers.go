package handlers

import (
	"net/http"

	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler holds the admin service. Every route is super-admin only.
type AdminHandler struct {
	adminService services.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: as}
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	admins, err := h.adminService.ListAdmins(sess)
	if err != nil {
		respondServiceError(c, err, "ListAdmins: Error from adminService.ListAdmins")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": admins, "total": len(admins)})
}

func (h *AdminHandler) GetAdmin(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	admin, err := h.adminService.GetAdmin(sess, c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetAdmin: Error from adminService.GetAdmin")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.CreateAdminRequest
	if !bindJSON(c, &req, "CreateAdmin") {
		return
	}
	admin, err := h.adminService.CreateAdmin(sess, req)
	if err != nil {
		respondServiceError(c, err, "CreateAdmin: Error from adminService.CreateAdmin")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.UpdateAdminRequest
	if !bindJSON(c, &req, "UpdateAdmin") {
		return
	}
	admin, err := h.adminService.UpdateAdmin(sess, c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateAdmin: Error from adminService.UpdateAdmin")
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.adminService.DeleteAdmin(sess, c.Param("id")); err != nil {
		respondServiceError(c, err, "DeleteAdmin: Error from adminService.DeleteAdmin")
		return
	}
	c.Status(http.StatusNoContent)
}
