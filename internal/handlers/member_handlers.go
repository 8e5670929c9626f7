package handlers

import (
	"net/http"

	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// MemberHandler holds the member service.
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

// ListMembers accepts ?search= and ?status= filters.
func (h *MemberHandler) ListMembers(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var params models.MemberSearchParams
	if !bindQuery(c, &params, "ListMembers") {
		return
	}
	members, err := h.memberService.ListMembers(c.Request.Context(), sess, c.Param("clubId"), params)
	if err != nil {
		respondServiceError(c, err, "ListMembers: Error from memberService.ListMembers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": members, "total": len(members)})
}

func (h *MemberHandler) GetMember(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	member, err := h.memberService.GetMember(c.Request.Context(), sess, c.Param("clubId"), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "GetMember: Error from memberService.GetMember")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) CreateMember(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.CreateMemberRequest
	if !bindJSON(c, &req, "CreateMember") {
		return
	}
	member, err := h.memberService.CreateMember(c.Request.Context(), sess, c.Param("clubId"), req)
	if err != nil {
		respondServiceError(c, err, "CreateMember: Error from memberService.CreateMember")
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *MemberHandler) UpdateMember(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.UpdateMemberRequest
	if !bindJSON(c, &req, "UpdateMember") {
		return
	}
	member, err := h.memberService.UpdateMember(c.Request.Context(), sess, c.Param("clubId"), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "UpdateMember: Error from memberService.UpdateMember")
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) DeleteMember(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.memberService.DeleteMember(c.Request.Context(), sess, c.Param("clubId"), c.Param("id")); err != nil {
		respondServiceError(c, err, "DeleteMember: Error from memberService.DeleteMember")
		return
	}
	c.Status(http.StatusNoContent)
}

// ConvertTrial handles POST /clubs/:clubId/trials/:id/convert. An empty body is allowed.
func (h *MemberHandler) ConvertTrial(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	var req services.ConvertTrialRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req, "ConvertTrial") {
		return
	}
	member, err := h.memberService.ConvertTrial(c.Request.Context(), sess, c.Param("clubId"), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err, "ConvertTrial: Error from memberService.ConvertTrial")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// VisitLog returns visitors, trials and members of the club, newest visit first.
func (h *MemberHandler) VisitLog(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	visits, err := h.memberService.VisitLog(c.Request.Context(), sess, c.Param("clubId"))
	if err != nil {
		respondServiceError(c, err, "VisitLog: Error from memberService.VisitLog")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": visits, "total": len(visits)})
}
