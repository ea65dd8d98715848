package services

import (
	"context"
	"log"

	"Medivue/models"
	"Medivue/schedule"
)

// SlotPersistence is the durable side of the slot store.
type SlotPersistence interface {
	SaveAssignment(ctx context.Context, assignment *models.SlotAssignment) error
	DeleteAssignment(ctx context.Context, assignment *models.SlotAssignment) error
	GetDaySchedule(ctx context.Context, doctorID, date string) ([]models.SlotAssignment, error)
}

// ScheduleService orchestrates the slot scheduler, write-through persistence
// and the external leave calendar.
type ScheduleService struct {
	scheduler *schedule.Scheduler
	repo      SlotPersistence
	leaves    LeaveCalendar
}

func NewScheduleService(scheduler *schedule.Scheduler, repo SlotPersistence, leaves LeaveCalendar) *ScheduleService {
	return &ScheduleService{scheduler: scheduler, repo: repo, leaves: leaves}
}

// AssignSlot books the patient into the slot. When the doctor is on leave
// that day the assignment still goes through and the returned warning tells
// the operator; leave days are informational, not a hard block.
func (s *ScheduleService) AssignSlot(ctx context.Context, in schedule.AssignInput) (*models.SlotAssignment, string, error) {
	warning := ""
	onLeave, err := s.leaves.OnLeave(ctx, in.DoctorID, in.Date)
	if err != nil {
		log.Printf("Failed to check leave calendar for %s on %s: %v", in.DoctorID, in.Date, err)
	} else if onLeave {
		warning = "doctor is on leave that day"
	}

	assignment, err := s.scheduler.Assign(ctx, in)
	if err != nil {
		return nil, "", err
	}

	if err := s.repo.SaveAssignment(ctx, assignment); err != nil {
		if _, rbErr := s.scheduler.Remove(ctx, assignment.ID); rbErr != nil {
			log.Printf("Failed to roll back assignment %s: %v", assignment.ID, rbErr)
		}
		return nil, "", err
	}
	return assignment, warning, nil
}

// RemoveSlot hard-deletes the assignment in memory, then in the database. A
// persistence failure re-inserts the removed assignment so the slot does not
// look free while the durable row survives.
func (s *ScheduleService) RemoveSlot(ctx context.Context, assignmentID string) error {
	removed, err := s.scheduler.Remove(ctx, assignmentID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteAssignment(ctx, removed); err != nil {
		s.scheduler.Restore(*removed)
		return err
	}
	return nil
}

// AvailableSlots filters allSlots down to the unoccupied ones.
func (s *ScheduleService) AvailableSlots(doctorID, date string, allSlots []string) ([]string, error) {
	return s.scheduler.Available(doctorID, date, allSlots)
}

// DaySchedule lists the persisted assignments for a doctor's day.
func (s *ScheduleService) DaySchedule(ctx context.Context, doctorID, date string) ([]models.SlotAssignment, error) {
	return s.repo.GetDaySchedule(ctx, doctorID, date)
}
