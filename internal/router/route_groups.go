package router

import (
	"club_admin_backend/internal/handlers"
	"club_admin_backend/internal/middleware"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes sets up the authentication routes. Only login is public.
func SetupAuthRoutes(apiGroup *gin.RouterGroup, authHandler *handlers.AuthHandler, authService services.AuthService) {
	authRoutes := apiGroup.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)

		authRequiredRoutes := authRoutes.Group("")
		authRequiredRoutes.Use(middleware.AuthMiddleware(authService))
		{
			authRequiredRoutes.POST("/logout", authHandler.Logout)
			authRequiredRoutes.GET("/me", authHandler.Me)
		}
	}
}

// SetupAdminRoutes sets up the admin management routes.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	adminRoutes := authenticatedGroup.Group("/admins")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSuperAdmin))
	{
		adminRoutes.POST("", adminHandler.CreateAdmin)
		adminRoutes.GET("", adminHandler.ListAdmins)
		adminRoutes.GET("/:id", adminHandler.GetAdmin)
		adminRoutes.PUT("/:id", adminHandler.UpdateAdmin)
		adminRoutes.DELETE("/:id", adminHandler.DeleteAdmin)
	}
}

// SetupClubRoutes sets up the club routes. Writes are super-admin only.
func SetupClubRoutes(authenticatedGroup *gin.RouterGroup, clubHandler *handlers.ClubHandler) {
	clubRoutes := authenticatedGroup.Group("/clubs")
	{
		clubRoutes.GET("", clubHandler.ListClubs)
		clubRoutes.GET("/:clubId", clubHandler.GetClub)
		clubRoutes.POST("/:clubId/select", clubHandler.SelectClub)

		superAdmin := clubRoutes.Group("")
		superAdmin.Use(middleware.RoleAuthMiddleware(models.RoleSuperAdmin))
		{
			superAdmin.POST("", clubHandler.CreateClub)
			superAdmin.PUT("/:clubId", clubHandler.UpdateClub)
			superAdmin.DELETE("/:clubId", clubHandler.DeleteClub)
		}
	}
}

// SetupMemberRoutes sets up the member routes, the trial conversion and the visit log.
func SetupMemberRoutes(clubGroup *gin.RouterGroup, memberHandler *handlers.MemberHandler) {
	memberRoutes := clubGroup.Group("/members")
	{
		memberRoutes.POST("", memberHandler.CreateMember)
		memberRoutes.GET("", memberHandler.ListMembers)
		memberRoutes.GET("/:id", memberHandler.GetMember)
		memberRoutes.PUT("/:id", memberHandler.UpdateMember)
		memberRoutes.DELETE("/:id", memberHandler.DeleteMember)
	}
	clubGroup.POST("/trials/:id/convert", memberHandler.ConvertTrial)
	clubGroup.GET("/visits", memberHandler.VisitLog)
}

// SetupEntityRoutes mounts CRUD for one club-scoped collection on group.
func SetupEntityRoutes[E any](group *gin.RouterGroup, h *handlers.EntityHandler[E]) {
	group.POST("", h.Create)
	group.GET("", h.List)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}

// SetupReportRoutes sets up the per-club report routes.
func SetupReportRoutes(reportGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportGroup.GET("/finance", reportHandler.GetFinanceReport)
	reportGroup.GET("/inventory", reportHandler.GetInventoryReport)
	reportGroup.GET("/attendance", reportHandler.GetAttendanceReport)
	reportGroup.GET("/subscriptions", reportHandler.GetSubscriptionReport)
}
