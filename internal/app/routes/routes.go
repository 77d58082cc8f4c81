package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/unidwh/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, reportController *controllers.ReportController) {
	// API version group
	v1 := router.Group("/api/v1")

	reports := v1.Group("/reports")
	{
		reports.GET("/grade-averages", reportController.GetGradeAverages)
	}
}
