package services

import (
	"context"
	"errors"
	"testing"

	"Medivue/errs"
	"Medivue/models"
	"Medivue/schedule"
)

type fakeSlotPersistence struct {
	saves   int
	deletes int
	fail    bool
}

func (f *fakeSlotPersistence) SaveAssignment(ctx context.Context, assignment *models.SlotAssignment) error {
	if f.fail {
		return errors.New("database unavailable")
	}
	f.saves++
	return nil
}

func (f *fakeSlotPersistence) DeleteAssignment(ctx context.Context, assignment *models.SlotAssignment) error {
	if f.fail {
		return errors.New("database unavailable")
	}
	f.deletes++
	return nil
}

func (f *fakeSlotPersistence) GetDaySchedule(ctx context.Context, doctorID, date string) ([]models.SlotAssignment, error) {
	return nil, nil
}

type leaveEveryDay struct{}

func (leaveEveryDay) OnLeave(ctx context.Context, doctorID, date string) (bool, error) {
	return true, nil
}

func TestScheduleService_AssignAndRemove(t *testing.T) {
	scheduler := schedule.NewScheduler(schedule.NewStore())
	repo := &fakeSlotPersistence{}
	service := NewScheduleService(scheduler, repo, NoLeaveCalendar())
	ctx := context.Background()

	assignment, warning, err := service.AssignSlot(ctx, schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PA",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if warning != "" {
		t.Errorf("expected no warning, got %q", warning)
	}
	if repo.saves != 1 {
		t.Errorf("expected one write-through, got %d", repo.saves)
	}

	if err := service.RemoveSlot(ctx, assignment.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.deletes != 1 {
		t.Errorf("expected one delete, got %d", repo.deletes)
	}
	if err := service.RemoveSlot(ctx, assignment.ID); !errs.IsNotFound(err) {
		t.Errorf("expected not-found on second remove, got %v", err)
	}
}

func TestScheduleService_LeaveDayWarnsButAssigns(t *testing.T) {
	scheduler := schedule.NewScheduler(schedule.NewStore())
	service := NewScheduleService(scheduler, &fakeSlotPersistence{}, leaveEveryDay{})

	assignment, warning, err := service.AssignSlot(context.Background(), schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PA",
	})
	if err != nil {
		t.Fatalf("leave days are informational, assignment must succeed: %v", err)
	}
	if warning == "" {
		t.Error("expected a leave-day warning")
	}
	if assignment.Status != models.SlotScheduled {
		t.Errorf("expected scheduled status, got %s", assignment.Status)
	}
}

func TestScheduleService_RemoveRollsBackOnPersistFailure(t *testing.T) {
	scheduler := schedule.NewScheduler(schedule.NewStore())
	repo := &fakeSlotPersistence{}
	service := NewScheduleService(scheduler, repo, NoLeaveCalendar())
	ctx := context.Background()

	assignment, _, err := service.AssignSlot(ctx, schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PA",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	repo.fail = true
	if err := service.RemoveSlot(ctx, assignment.ID); err == nil {
		t.Fatal("expected persistence error")
	}

	// The durable row survived the failed delete, so memory must still hold
	// the assignment and the slot must still be occupied.
	if _, ok := scheduler.Store().Get(assignment.ID); !ok {
		t.Fatal("assignment should be restored in memory after failed durable delete")
	}
	if _, _, err := service.AssignSlot(ctx, schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PB",
	}); !errs.IsConflict(err) {
		t.Errorf("slot should still be occupied after failed removal, got %v", err)
	}

	// Once the database recovers the removal goes through.
	repo.fail = false
	if err := service.RemoveSlot(ctx, assignment.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if repo.deletes != 1 {
		t.Errorf("expected one successful delete, got %d", repo.deletes)
	}
}

func TestScheduleService_AssignRollsBackOnPersistFailure(t *testing.T) {
	scheduler := schedule.NewScheduler(schedule.NewStore())
	repo := &fakeSlotPersistence{fail: true}
	service := NewScheduleService(scheduler, repo, NoLeaveCalendar())
	ctx := context.Background()

	if _, _, err := service.AssignSlot(ctx, schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PA",
	}); err == nil {
		t.Fatal("expected persistence error")
	}

	// The slot must be free again after the rollback.
	repo.fail = false
	if _, _, err := service.AssignSlot(ctx, schedule.AssignInput{
		DoctorID: "D1", Date: "2025-01-10", TimeSlot: "09:00", PatientID: "PB",
	}); err != nil {
		t.Errorf("slot should be free after rolled-back assignment: %v", err)
	}
}
