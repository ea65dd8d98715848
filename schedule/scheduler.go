package schedule

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"Medivue/errs"
	"Medivue/ledger"
	"Medivue/models"
)

// AssignInput carries one assign-slot request.
type AssignInput struct {
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time_slot"`
	PatientID string `json:"patient_id"`
}

// Scheduler validates and applies slot assignments against the slot store.
type Scheduler struct {
	store *Store
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(store *Store) *Scheduler {
	return &Scheduler{store: store}
}

// Store exposes the underlying slot store for read-only collaborators.
func (s *Scheduler) Store() *Store {
	return s.store
}

func (in AssignInput) validate() error {
	err := validation.Errors{
		"doctor_id":  validation.Validate(in.DoctorID, validation.Required.Error("doctor is required")),
		"time_slot":  validation.Validate(in.TimeSlot, validation.Required.Error("time slot is required")),
		"patient_id": validation.Validate(in.PatientID, validation.Required.Error("patient is required")),
	}.Filter()
	if err != nil {
		return errs.Validation(err.Error())
	}
	return nil
}

// Assign books the patient into the slot. The slot-occupied check runs
// before the patient-already-scheduled check, so when both invariants are
// violated the occupied slot is the one reported.
func (s *Scheduler) Assign(ctx context.Context, in AssignInput) (*models.SlotAssignment, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	day, err := ledger.ParseDayKey(in.Date)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.store.lockDay(in.DoctorID, day)
	defer s.store.unlockDay(in.DoctorID, day)

	if occupant, ok := s.store.occupant(in.DoctorID, day, in.TimeSlot); ok {
		return nil, errs.Conflict(errs.ConflictSlotOccupied,
			"slot "+in.TimeSlot+" already holds patient "+occupant.PatientID)
	}
	if existing, ok := s.store.patientAssignment(in.DoctorID, day, in.PatientID); ok {
		return nil, errs.Conflict(errs.ConflictPatientScheduled,
			"patient "+in.PatientID+" already holds slot "+existing.TimeSlot+" that day")
	}

	assignment := models.SlotAssignment{
		ID:        uuid.New().String(),
		DoctorID:  in.DoctorID,
		Date:      string(day),
		TimeSlot:  in.TimeSlot,
		PatientID: in.PatientID,
		Status:    models.SlotScheduled,
	}
	s.store.put(assignment, day)
	return &assignment, nil
}

// Remove hard-deletes the assignment and returns a copy of what was removed,
// which a caller hands to Restore when its durable delete fails. The
// cancelled status exists in the model but no removal path writes it; see
// DESIGN.md for the policy choice.
func (s *Scheduler) Remove(ctx context.Context, assignmentID string) (*models.SlotAssignment, error) {
	if assignmentID == "" {
		return nil, errs.Validation("assignment id is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	assignment, ok := s.store.Get(assignmentID)
	if !ok {
		return nil, errs.NotFound("assignment not found")
	}

	day := ledger.DayKey(assignment.Date)
	s.store.lockDay(assignment.DoctorID, day)
	defer s.store.unlockDay(assignment.DoctorID, day)

	removed, ok := s.store.remove(assignmentID)
	if !ok {
		return nil, errs.NotFound("assignment not found")
	}
	return &removed, nil
}

// Restore re-inserts a removed assignment after a failed write-through, so
// the slot does not look free in memory while the durable row still holds it.
func (s *Scheduler) Restore(assignment models.SlotAssignment) {
	day := ledger.DayKey(assignment.Date)
	s.store.lockDay(assignment.DoctorID, day)
	defer s.store.unlockDay(assignment.DoctorID, day)

	s.store.put(assignment, day)
}

// Available returns the subset of allSlots with no active assignment for the
// doctor on the date. Pure read of current store state.
func (s *Scheduler) Available(doctorID, date string, allSlots []string) ([]string, error) {
	day, err := ledger.ParseDayKey(date)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{})
	for _, assignment := range s.store.Day(doctorID, day) {
		if assignment.Active() {
			taken[assignment.TimeSlot] = struct{}{}
		}
	}

	free := make([]string, 0, len(allSlots))
	for _, slot := range allSlots {
		if _, ok := taken[slot]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}
