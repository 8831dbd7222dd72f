package routes

import (
	"github.com/gin-gonic/gin"

	"tccs_backend/internal/controllers"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

func BranchRoutes(r *gin.Engine, bc *controllers.BranchController) {
	group := r.Group("/branches")
	group.Use(middleware.RequireAuth())
	{
		group.GET("", bc.ListBranches)
	}

	managerOnly := r.Group("/branches")
	managerOnly.Use(middleware.RequireAuthWithRole(models.RoleManager))
	{
		managerOnly.POST("", bc.CreateBranch)
	}
}
