package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tccs_backend/internal/allocation"
	"tccs_backend/internal/middleware"
	"tccs_backend/internal/models"
)

type TruckController struct {
	DB     *gorm.DB
	Engine *allocation.Engine
}

func NewTruckController(db *gorm.DB, engine *allocation.Engine) *TruckController {
	return &TruckController{DB: db, Engine: engine}
}

// CreateTruck registers a new truck at a branch. Manager only. Capacity
// defaults to the fleet standard when omitted.
func (t *TruckController) CreateTruck(c *gin.Context) {
	var input struct {
		Registration  string  `json:"registration" binding:"required"`
		Capacity      float64 `json:"capacity" binding:"gte=0"`
		BranchID      uint    `json:"branch_id" binding:"required"`
		DriverName    string  `json:"driver_name"`
		DriverContact string  `json:"driver_contact"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ok, err := branchExists(t.DB, input.BranchID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch_id"})
		return
	}

	if input.Capacity == 0 {
		input.Capacity = models.DefaultTruckCapacity
	}

	now := time.Now().UTC()
	truck := models.Truck{
		Registration:  input.Registration,
		Capacity:      input.Capacity,
		Status:        models.TruckAvailable,
		BranchID:      input.BranchID,
		DriverName:    input.DriverName,
		DriverContact: input.DriverContact,
		IdleSince:     &now,
	}
	if err := t.DB.Create(&truck).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "registration already in use"})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Truck added successfully", "truck": truck})
}

// ListTrucks lists trucks with their current load. Employees see only their
// own branch's fleet.
func (t *TruckController) ListTrucks(c *gin.Context) {
	actor, err := currentUser(c, t.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	query := t.DB.Model(&models.Truck{})
	if !actor.IsManager() {
		if actor.BranchID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "employee has no branch affiliation"})
			return
		}
		query = query.Where("branch_id = ?", *actor.BranchID)
	}

	var trucks []models.Truck
	if err := query.Order("id").Find(&trucks).Error; err != nil {
		respondError(c, err)
		return
	}

	data := make([]gin.H, 0, len(trucks))
	for _, truck := range trucks {
		load, err := t.Engine.TruckLoad(truck.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		data = append(data, gin.H{
			"truck": truck,
			"load":  load,
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

// UpdateTruckStatus applies a manual status change: send a truck to
// maintenance or reset it to available. Manager only.
func (t *TruckController) UpdateTruckStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid truck id"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != models.TruckMaintenance && input.Status != models.TruckAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be MAINTENANCE or AVAILABLE"})
		return
	}

	truck, err := t.Engine.SetTruckStatus(uint(id), input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck status updated", "truck": truck})
}

// AssignEmployee records which employee is responsible for a truck. Manager
// only.
func (t *TruckController) AssignEmployee(c *gin.Context) {
	var input struct {
		TruckID uint `json:"truck_id" binding:"required"`
		UserID  uint `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var truck models.Truck
	if err := t.DB.First(&truck, input.TruckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "truck not found"})
			return
		}
		respondError(c, err)
		return
	}

	var user models.User
	if err := t.DB.First(&user, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		respondError(c, err)
		return
	}
	if user.Role != models.RoleEmployee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "trucks are assigned to employees"})
		return
	}
	if user.BranchID == nil || *user.BranchID != truck.BranchID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee and truck must be at the same branch"})
		return
	}

	assignment := models.TruckAssignment{TruckID: truck.ID, UserID: user.ID}
	if err := t.DB.Create(&assignment).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Truck assigned", "assignment": assignment})
}

// AssignedTrucks lists the trucks the calling employee is responsible for.
func (t *TruckController) AssignedTrucks(c *gin.Context) {
	userID := middleware.UserID(c)

	var trucks []models.Truck
	err := t.DB.
		Joins("JOIN truck_assignments ON truck_assignments.truck_id = trucks.id").
		Where("truck_assignments.user_id = ? AND truck_assignments.deleted_at IS NULL", userID).
		Find(&trucks).Error
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trucks})
}
