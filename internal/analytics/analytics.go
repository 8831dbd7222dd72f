// Package analytics derives read-only metrics from entity collections:
// waiting and idle time averages, truck usage and revenue summaries.
package analytics

import (
	"time"

	"gorm.io/gorm"

	"tccs_backend/internal/models"
)

// AverageWaitingHours is the mean time consignments waited between creation
// and dispatch. Consignments that were never dispatched are excluded from the
// average, not counted as zero. Falls back to the delivery stamp for rows
// delivered without a recorded dispatch.
func AverageWaitingHours(consignments []models.Consignment) float64 {
	var total float64
	var count int
	for _, c := range consignments {
		end := c.DispatchedAt
		if end == nil {
			end = c.DeliveredAt
		}
		if end == nil {
			continue
		}
		total += end.Sub(c.CreatedAt).Hours()
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// AverageIdleHours is the mean time AVAILABLE trucks have been idle since
// their last status change. Trucks without an idle stamp are excluded.
func AverageIdleHours(trucks []models.Truck, now time.Time) float64 {
	var total float64
	var count int
	for _, t := range trucks {
		if t.Status != models.TruckAvailable || t.IdleSince == nil {
			continue
		}
		idle := now.Sub(*t.IdleSince).Hours()
		if idle <= 0 {
			continue
		}
		total += idle
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// CountByStatus tallies consignments per status.
func CountByStatus(consignments []models.Consignment) map[string]int {
	counts := make(map[string]int)
	for _, c := range consignments {
		counts[c.Status]++
	}
	return counts
}

// CountTrucksByStatus tallies trucks per status.
func CountTrucksByStatus(trucks []models.Truck) map[string]int {
	counts := make(map[string]int)
	for _, t := range trucks {
		counts[t.Status]++
	}
	return counts
}

// Reporter runs the persisted aggregations (revenue, usage) against the store.
type Reporter struct {
	db *gorm.DB
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db}
}

// TruckUsage summarizes one truck's activity within a report window.
type TruckUsage struct {
	TruckID             uint    `json:"truck_id"`
	Registration        string  `json:"registration"`
	ConsignmentsHandled int64   `json:"consignments_handled"`
	TotalVolume         float64 `json:"total_volume"`
}

// Usage reports, per truck, how many consignments it handled and their
// summed volume since the cutoff.
func (r *Reporter) Usage(since time.Time) ([]TruckUsage, error) {
	var trucks []models.Truck
	if err := r.db.Find(&trucks).Error; err != nil {
		return nil, err
	}

	usage := make([]TruckUsage, 0, len(trucks))
	for _, t := range trucks {
		row := TruckUsage{TruckID: t.ID, Registration: t.Registration}
		err := r.db.Model(&models.Consignment{}).
			Joins("JOIN consignment_trucks ON consignment_trucks.consignment_id = consignments.id").
			Where("consignment_trucks.truck_id = ? AND consignments.dispatched_at >= ?", t.ID, since).
			Count(&row.ConsignmentsHandled).Error
		if err != nil {
			return nil, err
		}
		err = r.db.Model(&models.Consignment{}).
			Joins("JOIN consignment_trucks ON consignment_trucks.consignment_id = consignments.id").
			Where("consignment_trucks.truck_id = ? AND consignments.dispatched_at >= ?", t.ID, since).
			Select("COALESCE(SUM(consignments.volume), 0)").
			Scan(&row.TotalVolume).Error
		if err != nil {
			return nil, err
		}
		usage = append(usage, row)
	}
	return usage, nil
}

// TotalRevenue sums every booked transaction.
func (r *Reporter) TotalRevenue() (float64, error) {
	var total float64
	err := r.db.Model(&models.Revenue{}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// BranchRevenue is one branch's share of total revenue.
type BranchRevenue struct {
	BranchID   uint    `json:"branch_id"`
	BranchName string  `json:"branch_name"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// RevenueByBranch breaks total revenue down per branch.
func (r *Reporter) RevenueByBranch() ([]BranchRevenue, error) {
	total, err := r.TotalRevenue()
	if err != nil {
		return nil, err
	}

	var branches []models.Branch
	if err := r.db.Find(&branches).Error; err != nil {
		return nil, err
	}

	rows := make([]BranchRevenue, 0, len(branches))
	for _, b := range branches {
		row := BranchRevenue{BranchID: b.ID, BranchName: b.Name}
		err := r.db.Model(&models.Revenue{}).
			Where("branch_id = ?", b.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&row.Amount).Error
		if err != nil {
			return nil, err
		}
		if total > 0 {
			row.Percentage = row.Amount / total * 100
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// MonthRevenue is revenue booked within one calendar month.
type MonthRevenue struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// MonthlyRevenue returns per-month totals for the last n calendar months,
// newest first.
func (r *Reporter) MonthlyRevenue(n int, now time.Time) ([]MonthRevenue, error) {
	rows := make([]MonthRevenue, 0, n)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		start := first.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)

		row := MonthRevenue{Month: start.Format("January 2006")}
		err := r.db.Model(&models.Revenue{}).
			Where("transaction_date >= ? AND transaction_date < ?", start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&row.Amount).Error
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
