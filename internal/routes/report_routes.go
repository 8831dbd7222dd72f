package routes

import (
	"github.com/gin-gonic/gin"

	"tccs_backend/internal/controllers"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

func ReportRoutes(r *gin.Engine, rc *controllers.ReportController) {
	group := r.Group("/reports")
	group.Use(middleware.RequireAuthWithRole(models.RoleManager))
	{
		group.GET("/usage", rc.TruckUsage)
		group.GET("/consignments", rc.ConsignmentReport)
		group.GET("/waiting", rc.WaitingReport)
		group.GET("/revenue", rc.RevenueReport)
		group.GET("/summary", rc.Summary)
	}
}
