package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tccs_backend/internal/apperr"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

// respondError maps an operation failure onto the wire. Typed failures carry
// their own status and message; anything else is an unexpected persistence
// error, logged and surfaced as an opaque 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{"error": appErr.Message})
		return
	}
	logrus.WithError(err).Error("operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// currentUser loads the authenticated user's record from the token claims.
func currentUser(c *gin.Context, db *gorm.DB) (*models.User, error) {
	var user models.User
	if err := db.First(&user, middleware.UserID(c)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("user no longer exists")
		}
		return nil, err
	}
	return &user, nil
}

// branchExists verifies a branch id references a real branch.
func branchExists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&models.Branch{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
