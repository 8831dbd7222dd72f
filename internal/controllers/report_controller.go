package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"tccs_backend/internal/analytics"
	"tccs_backend/internal/models"
)

// ReportController serves the manager-only aggregate reports.
type ReportController struct {
	DB       *gorm.DB
	Reporter *analytics.Reporter
}

func NewReportController(db *gorm.DB) *ReportController {
	return &ReportController{DB: db, Reporter: analytics.NewReporter(db)}
}

// TruckUsage reports per-truck consignment counts and volume over the last
// ?days=N days (default 30).
func (r *ReportController) TruckUsage(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
			return
		}
		days = parsed
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	usage, err := r.Reporter.Usage(since)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": usage})
}

// ConsignmentReport totals volume, revenue and count, optionally filtered by
// destination branch.
func (r *ReportController) ConsignmentReport(c *gin.Context) {
	query := r.DB.Model(&models.Consignment{})
	if dest := c.Query("destination_branch_id"); dest != "" {
		query = query.Where("destination_branch_id = ?", dest)
	}

	var consignments []models.Consignment
	if err := query.Find(&consignments).Error; err != nil {
		respondError(c, err)
		return
	}

	var totalVolume, totalRevenue float64
	for _, cons := range consignments {
		totalVolume += cons.Volume
		totalRevenue += cons.Charge
	}

	c.JSON(http.StatusOK, gin.H{
		"total_volume":  totalVolume,
		"total_revenue": totalRevenue,
		"count":         len(consignments),
	})
}

// WaitingReport returns the average consignment waiting time and average
// truck idle time, in hours.
func (r *ReportController) WaitingReport(c *gin.Context) {
	var consignments []models.Consignment
	if err := r.DB.Find(&consignments).Error; err != nil {
		respondError(c, err)
		return
	}
	var trucks []models.Truck
	if err := r.DB.Find(&trucks).Error; err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"avg_waiting_time_hours": analytics.AverageWaitingHours(consignments),
		"avg_idle_time_hours":    analytics.AverageIdleHours(trucks, now),
	})
}

// RevenueReport breaks revenue down overall, per branch and per month for the
// last six months.
func (r *ReportController) RevenueReport(c *gin.Context) {
	total, err := r.Reporter.TotalRevenue()
	if err != nil {
		respondError(c, err)
		return
	}
	byBranch, err := r.Reporter.RevenueByBranch()
	if err != nil {
		respondError(c, err)
		return
	}
	monthly, err := r.Reporter.MonthlyRevenue(6, time.Now().UTC())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_revenue": total,
		"by_branch":     byBranch,
		"monthly":       monthly,
	})
}

// Summary returns the fleet and consignment counters plus the headline
// averages and total revenue.
func (r *ReportController) Summary(c *gin.Context) {
	var consignments []models.Consignment
	if err := r.DB.Find(&consignments).Error; err != nil {
		respondError(c, err)
		return
	}
	var trucks []models.Truck
	if err := r.DB.Find(&trucks).Error; err != nil {
		respondError(c, err)
		return
	}
	total, err := r.Reporter.TotalRevenue()
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	c.JSON(http.StatusOK, gin.H{
		"consignments":           analytics.CountByStatus(consignments),
		"trucks":                 analytics.CountTrucksByStatus(trucks),
		"avg_waiting_time_hours": analytics.AverageWaitingHours(consignments),
		"avg_idle_time_hours":    analytics.AverageIdleHours(trucks, now),
		"total_revenue":          total,
	})
}
