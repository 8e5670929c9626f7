package handlers

import (
	"net/http"

	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ClubHandler holds the club service.
type ClubHandler struct {
	clubService services.ClubService
}

// NewClubHandler creates a new ClubHandler.
func NewClubHandler(cs services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: cs}
}

// ListClubs returns the clubs visible to the signed-in user.
func (h *ClubHandler) ListClubs(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	clubs, err := h.clubService.ListClubs(sess)
	if err != nil {
		respondServiceError(c, err, "ListClubs: Error from clubService.ListClubs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clubs, "total": len(clubs)})
}

func (h *ClubHandler) GetClub(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	club, err := h.clubService.GetClub(sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "GetClub: Error from clubService.GetClub")
		return
	}
	c.JSON(http.StatusOK, club)
}

// SelectClub makes the club current and loads its data.
func (h *ClubHandler) SelectClub(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	club, err := h.clubService.SelectClub(c.Request.Context(), sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "SelectClub: Error from clubService.SelectClub")
		return
	}
	c.JSON(http.StatusOK, gin.H{"selectedClub": club, "state": sess.Store.State()})
}

func (h *ClubHandler) CreateClub(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.CreateClubRequest
	if !bindJSON(c, &req, "CreateClub") {
		return
	}
	club, err := h.clubService.CreateClub(sess, req)
	if err != nil {
		respondServiceError(c, err, "CreateClub: Error from clubService.CreateClub")
		return
	}
	c.JSON(http.StatusCreated, club)
}

func (h *ClubHandler) UpdateClub(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.UpdateClubRequest
	if !bindJSON(c, &req, "UpdateClub") {
		return
	}
	club, err := h.clubService.UpdateClub(sess, c.Param("clubId"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateClub: Error from clubService.UpdateClub")
		return
	}
	c.JSON(http.StatusOK, club)
}

func (h *ClubHandler) DeleteClub(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.clubService.DeleteClub(sess, c.Param("clubId")); err != nil {
		respondServiceError(c, err, "DeleteClub: Error from clubService.DeleteClub")
		return
	}
	c.Status(http.StatusNoContent)
}
