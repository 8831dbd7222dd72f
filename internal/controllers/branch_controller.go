package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tccs_backend/internal/models"
)

type BranchController struct {
	DB *gorm.DB
}

func NewBranchController(db *gorm.DB) *BranchController {
	return &BranchController{DB: db}
}

// CreateBranch registers a new branch. Manager only.
func (b *BranchController) CreateBranch(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Location string `json:"location" binding:"required"`
		Contact  string `json:"contact"`
		Address  string `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch := models.Branch{
		Name:     input.Name,
		Location: input.Location,
		Contact:  input.Contact,
		Address:  input.Address,
	}
	if err := b.DB.Create(&branch).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "branch name already exists"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Branch added successfully", "branch_id": branch.ID})
}

// ListBranches lists all branches.
func (b *BranchController) ListBranches(c *gin.Context) {
	var branches []models.Branch
	if err := b.DB.Order("id").Find(&branches).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": branches})
}
