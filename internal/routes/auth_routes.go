package routes

import (
	"github.com/gin-gonic/gin"

	"tccs_backend/internal/controllers"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

func AuthRoutes(r *gin.Engine, auth *controllers.AuthController) {
	group := r.Group("/auth")
	{
		group.POST("/login", auth.Login)
		group.POST("/logout", middleware.RequireAuth(), auth.Logout)
	}

	employees := r.Group("/employees")
	employees.Use(middleware.RequireAuthWithRole(models.RoleManager))
	{
		employees.POST("", auth.CreateEmployee)
	}
}
