package rto

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shipglide/logistics-backend/pkg/db/models"
	"github.com/shipglide/logistics-backend/pkg/enums"
)

func seedAnalyticsEvent(t *testing.T, db *gorm.DB, companyID uuid.UUID, carrier string, reason enums.RTOReason, status enums.RTOStatus, charge string, qcPassed *bool) {
	t.Helper()
	event := &models.RTOEvent{
		ShipmentID:      uuid.New(),
		OrderID:         uuid.New(),
		CompanyID:       companyID,
		WarehouseID:     uuid.New(),
		Carrier:         carrier,
		RTOReason:       reason,
		TriggerType:     enums.RTOTriggerAuto,
		ReturnStatus:    status,
		ChargesDeducted: true,
		ChargeAmount:    decimal.RequireFromString(charge),
		QCPassed:        qcPassed,
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("seed analytics event: %v", err)
	}
}

func TestGetAnalytics(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()
	yes, no := true, false

	seedAnalyticsEvent(t, db, companyID, "delhivery", enums.RTOReasonNDRUnresolved, enums.RTOStatusInitiated, "50", nil)
	seedAnalyticsEvent(t, db, companyID, "Delhivery Express", enums.RTOReasonNDRUnresolved, enums.RTOStatusRestocked, "60", &yes)
	seedAnalyticsEvent(t, db, companyID, "bluedart", enums.RTOReasonAddressIssue, enums.RTOStatusDisposed, "70", &no)
	seedAnalyticsEvent(t, db, companyID, "bluedart", enums.RTOReasonAddressIssue, enums.RTOStatusCancelled, "0", nil)
	// Another company's event never leaks into the report.
	seedAnalyticsEvent(t, db, uuid.New(), "ekart", enums.RTOReasonRefusedDelivery, enums.RTOStatusInitiated, "999", nil)

	report, err := NewAnalyticsService(db).GetAnalytics(ctx, companyID, AnalyticsFilters{})
	if err != nil {
		t.Fatalf("get analytics: %v", err)
	}

	if report.Summary.TotalRTOs != 4 {
		t.Fatalf("expected 4 rtos, got %d", report.Summary.TotalRTOs)
	}
	if report.Summary.ActiveRTOs != 1 || report.Summary.CompletedRTOs != 2 || report.Summary.CancelledRTOs != 1 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if !report.Summary.TotalChargesDeducted.Equal(decimal.RequireFromString("180")) {
		t.Fatalf("expected charges 180, got %s", report.Summary.TotalChargesDeducted)
	}

	// "Delhivery Express" folds into delhivery.
	if report.ByCourier["delhivery"] != 2 || report.ByCourier["bluedart"] != 2 {
		t.Fatalf("unexpected courier breakdown %+v", report.ByCourier)
	}
	if report.ByReason["ndr_unresolved"] != 2 || report.ByReason["address_issue"] != 2 {
		t.Fatalf("unexpected reason breakdown %+v", report.ByReason)
	}

	if report.Stats.RestockRate != 0.25 {
		t.Fatalf("expected restock rate 0.25, got %f", report.Stats.RestockRate)
	}
	if report.Stats.QCPassRate != 0.5 {
		t.Fatalf("expected qc pass rate 0.5, got %f", report.Stats.QCPassRate)
	}

	if len(report.Trend) != 1 || report.Trend[0].Count != 4 {
		t.Fatalf("unexpected trend %+v", report.Trend)
	}
}

func TestGetAnalyticsFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()

	seedAnalyticsEvent(t, db, companyID, "delhivery", enums.RTOReasonNDRUnresolved, enums.RTOStatusInitiated, "50", nil)
	seedAnalyticsEvent(t, db, companyID, "delhivery", enums.RTOReasonAddressIssue, enums.RTOStatusInitiated, "50", nil)

	reason := enums.RTOReasonAddressIssue
	report, err := NewAnalyticsService(db).GetAnalytics(ctx, companyID, AnalyticsFilters{Reason: &reason})
	if err != nil {
		t.Fatalf("get analytics: %v", err)
	}
	if report.Summary.TotalRTOs != 1 || report.ByReason["address_issue"] != 1 {
		t.Fatalf("reason filter not applied: %+v", report)
	}

	future := time.Now().Add(time.Hour)
	report, err = NewAnalyticsService(db).GetAnalytics(ctx, companyID, AnalyticsFilters{From: &future})
	if err != nil {
		t.Fatalf("get analytics: %v", err)
	}
	if report.Summary.TotalRTOs != 0 {
		t.Fatalf("time filter not applied: %+v", report.Summary)
	}
	if len(report.Recommendations) != 0 {
		t.Fatalf("expected no recommendations on empty window, got %v", report.Recommendations)
	}
}

func TestRecommendationsFlagAddressIssues(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	companyID := uuid.New()

	for i := 0; i < 4; i++ {
		seedAnalyticsEvent(t, db, companyID, "delhivery", enums.RTOReasonAddressIssue, enums.RTOStatusInitiated, "50", nil)
	}
	seedAnalyticsEvent(t, db, companyID, "bluedart", enums.RTOReasonCustomerCancellation, enums.RTOStatusInitiated, "50", nil)

	report, err := NewAnalyticsService(db).GetAnalytics(ctx, companyID, AnalyticsFilters{})
	if err != nil {
		t.Fatalf("get analytics: %v", err)
	}
	found := false
	for _, rec := range report.Recommendations {
		if rec == "A large share of returns stem from address issues; verify delivery addresses at checkout." {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected address-issue recommendation, got %v", report.Recommendations)
	}
}
