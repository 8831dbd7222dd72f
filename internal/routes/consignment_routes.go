package routes

import (
	"github.com/gin-gonic/gin"

	"tccs_backend/internal/controllers"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

func ConsignmentRoutes(r *gin.Engine, cc *controllers.ConsignmentController) {
	group := r.Group("/consignments")
	group.Use(middleware.RequireAuth())
	{
		group.POST("", cc.CreateConsignment)
		group.GET("", cc.ListConsignments)
		group.GET("/:id", cc.GetConsignment)
		group.GET("/:id/receipt", cc.GetReceipt)
		group.POST("/:id/cancel", cc.CancelConsignment)
	}

	managerOnly := r.Group("/consignments")
	managerOnly.Use(middleware.RequireAuthWithRole(models.RoleManager))
	{
		managerOnly.POST("/assign", cc.AssignConsignment)
		managerOnly.POST("/:id/deliver", cc.DeliverConsignment)
	}
}
