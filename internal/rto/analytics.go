package rto

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/internal/couriers"
	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
	pkgerrors "github.com/shipglide/logistics-backend/pkg/errors"
)

// AnalyticsFilters narrows the analytics window.
type AnalyticsFilters struct {
	From        *time.Time
	To          *time.Time
	WarehouseID *uuid.UUID
	Reason      *enums.RTOReason
}

// TrendPoint is one day of trigger volume.
type TrendPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSummary totals the filtered events.
type AnalyticsSummary struct {
	TotalRTOs            int             `json:"total_rtos"`
	ActiveRTOs           int             `json:"active_rtos"`
	CompletedRTOs        int             `json:"completed_rtos"`
	CancelledRTOs        int             `json:"cancelled_rtos"`
	TotalChargesDeducted decimal.Decimal `json:"total_charges_deducted"`
}

// AnalyticsStats holds the derived rates.
type AnalyticsStats struct {
	RestockRate        float64 `json:"restock_rate"`
	QCPassRate         float64 `json:"qc_pass_rate"`
	AvgCompletionHours float64 `json:"avg_completion_hours"`
}

// Analytics is the full company-scoped report.
type Analytics struct {
	Summary         AnalyticsSummary `json:"summary"`
	Stats           AnalyticsStats   `json:"stats"`
	Trend           []TrendPoint     `json:"trend"`
	ByCourier       map[string]int   `json:"by_courier"`
	ByReason        map[string]int   `json:"by_reason"`
	Recommendations []string         `json:"recommendations"`
}

// AnalyticsService computes company-scoped RTO reports. Events are loaded in
// one pass and aggregated in memory; courier names are canonicalized so the
// breakdown never splits one carrier across aliases.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService builds the report service.
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// GetAnalytics builds the report for one company over the filtered window.
func (s *AnalyticsService) GetAnalytics(ctx context.Context, companyID uuid.UUID, filters AnalyticsFilters) (*Analytics, error) {
	query := s.db.WithContext(ctx).
		Model(&models.RTOEvent{}).
		Where("company_id = ?", companyID)
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at < ?", *filters.To)
	}
	if filters.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filters.WarehouseID)
	}
	if filters.Reason != nil {
		query = query.Where("rto_reason = ?", filters.Reason.String())
	}

	var events []models.RTOEvent
	if err := query.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to load rto events for analytics")
	}

	report := &Analytics{
		Trend:     []TrendPoint{},
		ByCourier: map[string]int{},
		ByReason:  map[string]int{},
	}
	report.Summary.TotalChargesDeducted = decimal.Zero

	trend := map[string]int{}
	var restocked, qcPassed, qcRecorded, completed int
	var completionHours float64

	for i := range events {
		event := &events[i]
		report.Summary.TotalRTOs++
		switch {
		case event.ReturnStatus == enums.RTOStatusCancelled:
			report.Summary.CancelledRTOs++
		case event.ReturnStatus.IsTerminal():
			report.Summary.CompletedRTOs++
			completed++
			completionHours += event.UpdatedAt.Sub(event.CreatedAt).Hours()
		default:
			report.Summary.ActiveRTOs++
		}
		if event.ChargesDeducted {
			report.Summary.TotalChargesDeducted = report.Summary.TotalChargesDeducted.Add(event.ChargeAmount)
		}
		if event.ReturnStatus == enums.RTOStatusRestocked {
			restocked++
		}
		if event.HasQCResult() {
			qcRecorded++
			if *event.QCPassed {
				qcPassed++
			}
		}

		trend[event.CreatedAt.Format("2006-01-02")]++
		report.ByCourier[couriers.Canonical(event.Carrier)]++
		report.ByReason[event.RTOReason.String()]++
	}

	if report.Summary.TotalRTOs > 0 {
		report.Stats.RestockRate = float64(restocked) / float64(report.Summary.TotalRTOs)
	}
	if qcRecorded > 0 {
		report.Stats.QCPassRate = float64(qcPassed) / float64(qcRecorded)
	}
	if completed > 0 {
		report.Stats.AvgCompletionHours = completionHours / float64(completed)
	}

	days := make([]string, 0, len(trend))
	for day := range trend {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		report.Trend = append(report.Trend, TrendPoint{Date: day, Count: trend[day]})
	}

	report.Recommendations = recommendationsFor(report)
	return report, nil
}

// recommendationsFor derives simple rule-based advice from the aggregates.
func recommendationsFor(report *Analytics) []string {
	out := []string{}
	total := report.Summary.TotalRTOs
	if total == 0 {
		return out
	}

	if count := report.ByReason[enums.RTOReasonAddressIssue.String()]; count*100 >= total*30 {
		out = append(out, "A large share of returns stem from address issues; verify delivery addresses at checkout.")
	}
	if count := report.ByReason[enums.RTOReasonRefusedDelivery.String()]; count*100 >= total*30 {
		out = append(out, "Many deliveries are refused at the door; consider pre-delivery confirmation calls.")
	}
	if count := report.ByReason[enums.RTOReasonNDRUnresolved.String()]; count*100 >= total*40 {
		out = append(out, "Unresolved NDRs dominate returns; shorten the NDR follow-up window before auto-triggering.")
	}
	if report.Stats.QCPassRate > 0 && report.Stats.QCPassRate < 0.5 {
		out = append(out, "Less than half of returned items pass QC; review packaging and courier handling.")
	}

	var worstCourier string
	var worstCount int
	for courier, count := range report.ByCourier {
		if count > worstCount {
			worstCourier, worstCount = courier, count
		}
	}
	if worstCourier != "" && worstCount*100 >= total*50 && len(report.ByCourier) > 1 {
		out = append(out, "Courier "+worstCourier+" accounts for most returns; compare its NDR rate against alternatives.")
	}
	return out
}
