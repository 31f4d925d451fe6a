package http

import (
	"time"

	"classroom-backend/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Disposition", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func InitRouter(handler *Handler, log *zap.Logger, reporter logger.Reporter, origins []string) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(log), Recovery(reporter))
	r.Use(cors.New(corsConfig(origins)))

	r.GET("/health", handler.Health)

	// Public Routes
	api := r.Group("/api/v1")
	{
		api.POST("/login", handler.Login)
	}

	// Protected Routes
	protected := api.Group("/")
	protected.Use(AuthMiddleware(handler.AuthUsecase))
	{
		protected.POST("/logout", handler.Logout)

		// Class routes
		protected.GET("/classes", handler.ListClasses)
		protected.POST("/classes", handler.CreateClass)
		protected.GET("/classes/:id", handler.GetClass)
		protected.PUT("/classes/:id", handler.RenameClass)
		protected.DELETE("/classes/:id", handler.DeleteClass)

		// Roster and imports
		protected.GET("/classes/:id/students", handler.ListStudents)
		protected.POST("/classes/:id/students", handler.EnrollStudent)
		protected.POST("/classes/:id/students/import", handler.ImportStudents)
		protected.GET("/classes/:id/imports", handler.ListImports)
		protected.GET("/imports/:id", handler.GetImport)

		// Student routes
		protected.GET("/students/:id", handler.GetStudent)
		protected.PUT("/students/:id", handler.UpdateStudent)
		protected.DELETE("/students/:id", handler.DeleteStudent)
		protected.GET("/students/:id/profile", handler.StudentProfile)
		protected.GET("/students/:id/report-card", handler.ReportCard)
		protected.POST("/students/:id/photo", handler.UploadPhoto)
		protected.GET("/students/:id/photo", handler.StreamPhoto)
		protected.DELETE("/students/:id/photo", handler.DeletePhoto)

		// Attendance routes
		protected.GET("/classes/:id/attendance", handler.GetAttendanceSheet)
		protected.PUT("/classes/:id/attendance", handler.RecordAttendance)
		protected.DELETE("/classes/:id/attendance", handler.DeleteAttendance)
		protected.POST("/classes/:id/attendance/mark-all", handler.MarkAllAttendance)
		protected.GET("/classes/:id/attendance/history", handler.AttendanceHistory)
		protected.GET("/classes/:id/attendance/export", handler.ExportAttendance)

		// Score routes
		protected.GET("/classes/:id/scores", handler.ListScores)
		protected.POST("/classes/:id/scores", handler.RecordScores)
		protected.GET("/classes/:id/categories", handler.ListCategories)
		protected.PUT("/scores/:id", handler.UpdateScore)
		protected.DELETE("/scores/:id", handler.DeleteScore)

		// Dashboard routes
		protected.GET("/dashboard/overview", handler.DashboardOverview)
		protected.GET("/dashboard/attendance-trend", handler.AttendanceTrend)
		protected.GET("/dashboard/at-risk", handler.AtRiskStudents)
		protected.GET("/dashboard/category-averages", handler.CategoryAverages)
		protected.GET("/dashboard/classes", handler.ClassSummaries)
		protected.POST("/alerts/at-risk", handler.SendAtRiskAlert)
	}

	return r
}
