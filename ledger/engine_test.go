package ledger

import (
	"context"
	"errors"
	"testing"

	"Medivue/errs"
	"Medivue/models"
)

func markInput(date string) MarkVisitInput {
	return MarkVisitInput{
		PatientID:     "P1",
		Date:          date,
		Fee:           300,
		Paid:          300,
		PaymentMethod: models.PaymentCash,
		DoctorID:      "D1",
	}
}

func TestMarkVisit_CreatesRecordAndVisitedFlag(t *testing.T) {
	engine := NewEngine(NewStore())

	record, _, err := engine.MarkVisit(context.Background(), markInput("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Day != "2025-01-10" {
		t.Errorf("expected normalized day, got %s", record.Day)
	}
	if record.VisitTime != models.DefaultVisitTime {
		t.Errorf("expected default visit time, got %s", record.VisitTime)
	}
	if !engine.Store().Visited("P1", "2025-01-10") {
		t.Error("expected day flagged in visited set")
	}
	if !engine.Store().Active("P1", "2025-01-10") {
		t.Error("expected day active")
	}
}

func TestMarkVisit_OverwritesNotAppends(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	if _, _, err := engine.MarkVisit(ctx, markInput("2025-01-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	update := markInput("2025-01-10")
	update.Fee = 500
	update.Paid = 200
	if _, _, err := engine.MarkVisit(ctx, update); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := engine.Store().Records("P1")
	if len(records) != 1 {
		t.Fatalf("expected exactly one record, got %d", len(records))
	}
	if records[0].Fee != 500 || records[0].Paid != 200 {
		t.Errorf("expected fee=500 paid=200, got fee=%v paid=%v", records[0].Fee, records[0].Paid)
	}
	if due := records[0].Due(); due != 300 {
		t.Errorf("expected due=300, got %v", due)
	}
}

func TestMarkVisit_Validation(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	noDoctor := markInput("2025-01-10")
	noDoctor.DoctorID = ""
	if _, _, err := engine.MarkVisit(ctx, noDoctor); !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty doctor, got %v", err)
	}

	negativeFee := markInput("2025-01-10")
	negativeFee.Fee = -1
	if _, _, err := engine.MarkVisit(ctx, negativeFee); !errs.IsValidation(err) {
		t.Errorf("expected validation error for negative fee, got %v", err)
	}

	badMethod := markInput("2025-01-10")
	badMethod.PaymentMethod = "cheque"
	if _, _, err := engine.MarkVisit(ctx, badMethod); !errs.IsValidation(err) {
		t.Errorf("expected validation error for unknown method, got %v", err)
	}

	badDate := markInput("tomorrow")
	if _, _, err := engine.MarkVisit(ctx, badDate); !errs.IsValidation(err) {
		t.Errorf("expected validation error for bad date, got %v", err)
	}

	if len(engine.Store().Records("P1")) != 0 {
		t.Error("expected no store writes from rejected input")
	}
}

func TestMarkVisit_UnpaidStillCreatesRecord(t *testing.T) {
	engine := NewEngine(NewStore())

	unpaid := markInput("2025-01-10")
	unpaid.Paid = 0
	record, _, err := engine.MarkVisit(context.Background(), unpaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Paid != 0 || record.Due() != 300 {
		t.Errorf("expected paid=0 due=300, got paid=%v due=%v", record.Paid, record.Due())
	}
}

func TestUnmarkVisit_Idempotency(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	if _, _, err := engine.MarkVisit(ctx, markInput("2025-01-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := engine.UnmarkVisit(ctx, "P1", "2025-01-10"); err != nil {
		t.Fatalf("first unmark should succeed: %v", err)
	}
	if _, err := engine.UnmarkVisit(ctx, "P1", "2025-01-10"); !errs.IsNotFound(err) {
		t.Errorf("second unmark should be not-found, got %v", err)
	}
	if engine.Store().Active("P1", "2025-01-10") {
		t.Error("expected day inactive after unmark")
	}
}

func TestUnmarkVisit_VisitedOnlyDay(t *testing.T) {
	store := NewStore()
	store.Hydrate(nil, []models.VisitedDay{{PatientID: "P1", Day: "2025-01-10"}})
	engine := NewEngine(store)

	// Active through the visited set alone, with no payment record.
	if !store.Active("P1", "2025-01-10") {
		t.Fatal("expected visited-only day to be active")
	}
	if _, err := engine.UnmarkVisit(context.Background(), "P1", "2025-01-10"); err != nil {
		t.Fatalf("expected unmark of visited-only day to succeed: %v", err)
	}
}

func TestBulkMarkVisits_PartialFailure(t *testing.T) {
	engine := NewEngine(NewStore())

	result, err := engine.BulkMarkVisits(context.Background(), BulkMarkInput{
		PatientID:     "P1",
		Dates:         []string{"2025-01-10", "not-a-date"},
		Fee:           300,
		Paid:          300,
		PaymentMethod: models.PaymentCash,
		DoctorID:      "D1",
	}, nil)
	if !errs.IsPartialFailure(err) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if len(result.Succeeded) != 1 || len(result.Failed) != 1 {
		t.Fatalf("expected 1 succeeded and 1 failed, got %d and %d", len(result.Succeeded), len(result.Failed))
	}
	if result.Failed[0].Date != "not-a-date" {
		t.Errorf("expected the malformed date in failures, got %s", result.Failed[0].Date)
	}
	if _, ok := engine.Store().Record("P1", "2025-01-10"); !ok {
		t.Error("valid date's record should exist despite the other failure")
	}
}

func TestBulkMarkVisits_EmptyList(t *testing.T) {
	engine := NewEngine(NewStore())

	if _, err := engine.BulkMarkVisits(context.Background(), BulkMarkInput{PatientID: "P1"}, nil); !errs.IsValidation(err) {
		t.Errorf("expected validation error for empty date list, got %v", err)
	}
}

func TestBulkMarkVisits_Cancellation(t *testing.T) {
	engine := NewEngine(NewStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.BulkMarkVisits(ctx, BulkMarkInput{
		PatientID:     "P1",
		Dates:         []string{"2025-01-10", "2025-01-11"},
		Fee:           300,
		PaymentMethod: models.PaymentCash,
		DoctorID:      "D1",
	}, nil)
	if !errs.IsPartialFailure(err) {
		t.Fatalf("expected partial failure on cancellation, got %v", err)
	}
	if len(result.Failed) != 2 {
		t.Errorf("expected both dates reported failed, got %d", len(result.Failed))
	}
}

func TestBulkMarkVisits_ApplyFailureRollsBackDate(t *testing.T) {
	engine := NewEngine(NewStore())
	failOn := "2025-01-11"

	result, err := engine.BulkMarkVisits(context.Background(), BulkMarkInput{
		PatientID:     "P1",
		Dates:         []string{"2025-01-10", failOn},
		Fee:           300,
		Paid:          300,
		PaymentMethod: models.PaymentCash,
		DoctorID:      "D1",
	}, func(ctx context.Context, record *models.VisitRecord) error {
		if record.Day == failOn {
			return errors.New("database unavailable")
		}
		return nil
	})
	if !errs.IsPartialFailure(err) {
		t.Fatalf("expected partial failure, got %v", err)
	}
	if len(result.Succeeded) != 1 {
		t.Fatalf("expected one success, got %d", len(result.Succeeded))
	}
	if engine.Store().Active("P1", DayKey(failOn)) {
		t.Error("failed write-through should have been rolled back in memory")
	}
	if !engine.Store().Active("P1", "2025-01-10") {
		t.Error("successful date should remain")
	}
}

func TestMarkVisit_PriorComesFromTheMarkItself(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	_, prior, err := engine.MarkVisit(ctx, markInput("2025-01-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prior.Record != nil || prior.WasVisited {
		t.Errorf("first mark should report an empty prior state, got %+v", prior)
	}

	update := markInput("2025-01-10")
	update.Fee = 500
	_, prior, err = engine.MarkVisit(ctx, update)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prior.Record == nil || prior.Record.Fee != 300 || !prior.WasVisited {
		t.Fatalf("overwrite should report the replaced record, got %+v", prior)
	}

	// Rolling back with the prior from the overwrite restores the first mark.
	if err := engine.RollbackMark("P1", "2025-01-10", prior); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	record, ok := engine.Store().Record("P1", "2025-01-10")
	if !ok || record.Fee != 300 {
		t.Errorf("expected fee=300 restored, got %+v (ok=%v)", record, ok)
	}
}

func TestUnmarkVisit_ReturnsRemovedState(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	if _, _, err := engine.MarkVisit(ctx, markInput("2025-01-10")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prior, err := engine.UnmarkVisit(ctx, "P1", "2025-01-10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prior.Record == nil || !prior.WasVisited {
		t.Fatalf("unmark should report what it removed, got %+v", prior)
	}

	if err := engine.RollbackMark("P1", "2025-01-10", prior); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !engine.Store().Active("P1", "2025-01-10") {
		t.Error("expected day active again after rollback")
	}
}

func TestLastPaidAmount(t *testing.T) {
	engine := NewEngine(NewStore())
	ctx := context.Background()

	if _, found := engine.LastPaidAmount("P1"); found {
		t.Error("expected no last paid amount on empty ledger")
	}

	first := markInput("2025-01-05")
	first.Paid = 250
	if _, _, err := engine.MarkVisit(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Most recent record has no payment; the scan must skip it.
	latest := markInput("2025-01-12")
	latest.Paid = 0
	if _, _, err := engine.MarkVisit(ctx, latest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amount, found := engine.LastPaidAmount("P1")
	if !found || amount != 250 {
		t.Errorf("expected last paid 250, got %v (found=%v)", amount, found)
	}
}
