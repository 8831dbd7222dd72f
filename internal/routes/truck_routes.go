package routes

import (
	"github.com/gin-gonic/gin"

	"tccs_backend/internal/controllers"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

func TruckRoutes(r *gin.Engine, tc *controllers.TruckController) {
	group := r.Group("/trucks")
	group.Use(middleware.RequireAuth())
	{
		group.GET("", tc.ListTrucks)
	}

	managerOnly := r.Group("/trucks")
	managerOnly.Use(middleware.RequireAuthWithRole(models.RoleManager))
	{
		managerOnly.POST("", tc.CreateTruck)
		managerOnly.PATCH("/:id/status", tc.UpdateTruckStatus)
		managerOnly.POST("/assign", tc.AssignEmployee)
	}

	employeeOnly := r.Group("/trucks")
	employeeOnly.Use(middleware.RequireAuthWithRole(models.RoleEmployee))
	{
		employeeOnly.GET("/assigned", tc.AssignedTrucks)
	}
}
