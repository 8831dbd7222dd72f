package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"tccs_backend/internal/allocation"
	"tccs_backend/internal/apperr"
	"tccs_backend/internal/models"
	"tccs_backend/internal/pricing"
)

type ConsignmentController struct {
	DB     *gorm.DB
	Engine *allocation.Engine
}

func NewConsignmentController(db *gorm.DB, engine *allocation.Engine) *ConsignmentController {
	return &ConsignmentController{DB: db, Engine: engine}
}

type createConsignmentInput struct {
	Volume              float64 `json:"volume" binding:"required,gt=0"`
	Weight              float64 `json:"weight" binding:"gte=0"`
	Type                string  `json:"type"`
	Description         string  `json:"description"`
	DestinationBranchID uint    `json:"destination_branch_id" binding:"required"`
	SenderName          string  `json:"sender_name" binding:"required"`
	SenderAddress       string  `json:"sender_address" binding:"required"`
	SenderContact       string  `json:"sender_contact"`
	ReceiverName        string  `json:"receiver_name" binding:"required"`
	ReceiverAddress     string  `json:"receiver_address" binding:"required"`
	ReceiverContact     string  `json:"receiver_contact"`
	BranchID            uint    `json:"branch_id"` // manager only; employees are pinned to their branch
}

// CreateConsignment books a new shipment: the charge is computed once from
// volume, weight and route, the consignment and its revenue row commit as one
// unit, and the threshold check runs afterwards and may dispatch a truck.
func (cc *ConsignmentController) CreateConsignment(c *gin.Context) {
	var input createConsignmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor, err := currentUser(c, cc.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	branchID := input.BranchID
	if !actor.IsManager() {
		if actor.BranchID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "employee has no branch affiliation"})
			return
		}
		branchID = *actor.BranchID
	}
	if branchID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "branch_id required"})
		return
	}

	for _, id := range []uint{branchID, input.DestinationBranchID} {
		ok, err := branchExists(cc.DB, id)
		if err != nil {
			respondError(c, err)
			return
		}
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch_id"})
			return
		}
	}

	charge := pricing.Charge(input.Volume, input.Weight, branchID == input.DestinationBranchID)

	consignment := models.Consignment{
		TrackingCode:        uuid.NewString(),
		Volume:              input.Volume,
		Weight:              input.Weight,
		Type:                input.Type,
		Description:         input.Description,
		SenderName:          input.SenderName,
		SenderAddress:       input.SenderAddress,
		SenderContact:       input.SenderContact,
		ReceiverName:        input.ReceiverName,
		ReceiverAddress:     input.ReceiverAddress,
		ReceiverContact:     input.ReceiverContact,
		Status:              models.ConsignmentPending,
		Charge:              charge,
		BranchID:            branchID,
		DestinationBranchID: input.DestinationBranchID,
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&consignment).Error; err != nil {
			return err
		}
		revenue := models.Revenue{
			BranchID:        branchID,
			Amount:          charge,
			TransactionDate: time.Now().UTC().Truncate(24 * time.Hour),
			Description:     "Charges for consignment " + consignment.TrackingCode,
			ConsignmentID:   &consignment.ID,
		}
		return tx.Create(&revenue).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := cc.Engine.AutoDispatch(branchID, input.DestinationBranchID)
	if err != nil {
		respondError(c, err)
		return
	}

	if result != nil {
		dispatched := make([]gin.H, 0, len(result.Consignments))
		for _, d := range result.Consignments {
			dispatched = append(dispatched, gin.H{
				"id":            d.ID,
				"tracking_code": d.TrackingCode,
				"volume":        d.Volume,
			})
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":      "Consignment added and truck allocated",
			"consignment":  consignment,
			"truck_id":     result.Truck.ID,
			"consignments": dispatched,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Consignment added",
		"consignment": consignment,
	})
}

// ListConsignments returns consignment projections. Employees see only their
// own branch; managers see everything. Optional status and
// destination_branch_id filters.
func (cc *ConsignmentController) ListConsignments(c *gin.Context) {
	actor, err := currentUser(c, cc.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	query := cc.DB.Model(&models.Consignment{})
	if !actor.IsManager() {
		if actor.BranchID == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "employee has no branch affiliation"})
			return
		}
		query = query.Where("branch_id = ?", *actor.BranchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if dest := c.Query("destination_branch_id"); dest != "" {
		query = query.Where("destination_branch_id = ?", dest)
	}

	var consignments []models.Consignment
	if err := query.Order("created_at DESC").Find(&consignments).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": consignments})
}

// loadScoped fetches a consignment and applies branch scoping for employees.
func (cc *ConsignmentController) loadScoped(c *gin.Context, preload bool) (*models.Consignment, *models.User, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return nil, nil, apperr.Validation("invalid consignment id")
	}

	actor, err := currentUser(c, cc.DB)
	if err != nil {
		return nil, nil, err
	}

	query := cc.DB
	if preload {
		query = query.Preload("Branch").Preload("DestinationBranch")
	}
	var consignment models.Consignment
	if err := query.First(&consignment, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("consignment not found")
		}
		return nil, nil, err
	}

	if !actor.IsManager() && (actor.BranchID == nil || consignment.BranchID != *actor.BranchID) {
		return nil, nil, apperr.Forbidden("consignment belongs to another branch")
	}
	return &consignment, actor, nil
}

// GetConsignment retrieves one consignment by id.
func (cc *ConsignmentController) GetConsignment(c *gin.Context) {
	consignment, _, err := cc.loadScoped(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"consignment": consignment})
}

// GetReceipt renders the printable receipt for a consignment.
func (cc *ConsignmentController) GetReceipt(c *gin.Context) {
	consignment, _, err := cc.loadScoped(c, true)
	if err != nil {
		respondError(c, err)
		return
	}
	c.String(http.StatusOK, consignment.Receipt())
}

// AssignConsignment links a single pending consignment to a truck. Manager
// only; the engine enforces the precondition chain.
func (cc *ConsignmentController) AssignConsignment(c *gin.Context) {
	var input struct {
		ConsignmentID uint `json:"consignment_id" binding:"required"`
		TruckID       uint `json:"truck_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := cc.Engine.Assign(input.ConsignmentID, input.TruckID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Consignment assigned",
		"truck_id":    result.Truck.ID,
		"consignment": result.Consignments[0],
	})
}

// DeliverConsignment marks an in-transit consignment delivered. Manager only;
// the engine additionally requires the actor to be at the destination branch
// and releases the truck when its last cargo lands.
func (cc *ConsignmentController) DeliverConsignment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid consignment id"})
		return
	}

	actor, err := currentUser(c, cc.DB)
	if err != nil {
		respondError(c, err)
		return
	}

	consignment, err := cc.Engine.Deliver(uint(id), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consignment delivered", "consignment": consignment})
}

// CancelConsignment cancels a pending or in-transit consignment.
func (cc *ConsignmentController) CancelConsignment(c *gin.Context) {
	consignment, _, err := cc.loadScoped(c, false)
	if err != nil {
		respondError(c, err)
		return
	}

	cancelled, err := cc.Engine.Cancel(consignment.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Consignment cancelled", "consignment": cancelled})
}
