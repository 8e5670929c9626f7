package router

import (
	"net/http"

	"club_admin_backend/internal/handlers"
	"club_admin_backend/internal/metrics"
	"club_admin_backend/internal/middleware"
	"club_admin_backend/internal/models"
	"club_admin_backend/internal/services"
	"club_admin_backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. rec may be nil, in which
// case /metrics is not served and logins are not counted.
func Setup(engine *gin.Engine, sessions *session.Manager, rec *metrics.Recorder) {
	// Initialize Services
	authService := services.NewAuthService(sessions)
	clubService := services.NewClubService()
	adminService := services.NewAdminService()
	memberService := services.NewMemberService()
	reportService := services.NewReportService()

	// Initialize Handlers
	var logins handlers.LoginObserver
	if rec != nil {
		logins = rec
	}
	authHandler := handlers.NewAuthHandler(authService, logins)
	clubHandler := handlers.NewClubHandler(clubService)
	adminHandler := handlers.NewAdminHandler(adminService)
	memberHandler := handlers.NewMemberHandler(memberService)
	reportHandler := handlers.NewReportHandler(reportService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if rec != nil {
		engine.GET("/metrics", gin.WrapH(rec.Handler()))
	}

	apiV1 := engine.Group("/api/v1")
	SetupAuthRoutes(apiV1, authHandler, authService)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(authService))
	{
		authenticated.GET("/state", authHandler.State)
		authenticated.GET("/dashboard", reportHandler.GetDashboard)

		SetupAdminRoutes(authenticated, adminHandler)
		SetupClubRoutes(authenticated, clubHandler)

		club := authenticated.Group("/clubs/:clubId")
		club.Use(middleware.RoleAuthMiddleware(models.RoleSuperAdmin, models.RoleAdmin))
		{
			SetupMemberRoutes(club, memberHandler)
			SetupEntityRoutes(club.Group("/trials"), handlers.NewEntityHandler(services.NewTrialService()))
			SetupEntityRoutes(club.Group("/visitors"), handlers.NewEntityHandler(services.NewVisitorService()))
			SetupEntityRoutes(club.Group("/payments"), handlers.NewEntityHandler(services.NewPaymentService()))
			SetupEntityRoutes(club.Group("/expenses"), handlers.NewEntityHandler(services.NewExpenseService()))
			SetupEntityRoutes(club.Group("/inventory-items"), handlers.NewEntityHandler(services.NewInventoryItemService()))
			SetupEntityRoutes(club.Group("/inventory-usage"), handlers.NewEntityHandler(services.NewInventoryUsageService()))
			SetupEntityRoutes(club.Group("/attendance"), handlers.NewEntityHandler(services.NewAttendanceService()))
			SetupEntityRoutes(club.Group("/subscription-plans"), handlers.NewEntityHandler(services.NewSubscriptionPlanService()))
			SetupReportRoutes(club.Group("/reports"), reportHandler)
		}
	}
}
