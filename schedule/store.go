package schedule

import (
	"sort"
	"sync"

	"Medivue/ledger"
	"Medivue/models"
	"Medivue/utils"
)

// Store holds slot assignments in memory: at most one active assignment per
// (doctor, date, time slot) and at most one per (doctor, date, patient).
// Cancelled assignments do not occupy a slot, though the current removal
// policy hard-deletes rather than cancelling.
type Store struct {
	mu          sync.RWMutex
	assignments map[string]models.SlotAssignment
	byDay       map[string]map[string]string // doctor@date -> time slot -> assignment id

	// keys serializes writers per (doctor, date) so two concurrent assigns
	// into the same day cannot both pass the conflict checks.
	keys *utils.KeyedMutex
}

// NewStore creates an empty slot store.
func NewStore() *Store {
	return &Store{
		assignments: make(map[string]models.SlotAssignment),
		byDay:       make(map[string]map[string]string),
		keys:        utils.NewKeyedMutex(),
	}
}

func dayKey(doctorID string, day ledger.DayKey) string {
	return doctorID + "@" + string(day)
}

func (s *Store) lockDay(doctorID string, day ledger.DayKey) {
	s.keys.Lock(dayKey(doctorID, day))
}

func (s *Store) unlockDay(doctorID string, day ledger.DayKey) {
	s.keys.Unlock(dayKey(doctorID, day))
}

// occupant returns the active assignment holding the exact slot, if any.
func (s *Store) occupant(doctorID string, day ledger.DayKey, timeSlot string) (models.SlotAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byDay[dayKey(doctorID, day)][timeSlot]
	if !ok {
		return models.SlotAssignment{}, false
	}
	assignment := s.assignments[id]
	if !assignment.Active() {
		return models.SlotAssignment{}, false
	}
	return assignment, true
}

// patientAssignment returns the patient's active assignment on the day, if any.
func (s *Store) patientAssignment(doctorID string, day ledger.DayKey, patientID string) (models.SlotAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range s.byDay[dayKey(doctorID, day)] {
		assignment := s.assignments[id]
		if assignment.Active() && assignment.PatientID == patientID {
			return assignment, true
		}
	}
	return models.SlotAssignment{}, false
}

// put stores the assignment and indexes its slot.
func (s *Store) put(assignment models.SlotAssignment, day ledger.DayKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignments[assignment.ID] = assignment
	key := dayKey(assignment.DoctorID, day)
	if s.byDay[key] == nil {
		s.byDay[key] = make(map[string]string)
	}
	s.byDay[key][assignment.TimeSlot] = assignment.ID
}

// remove hard-deletes the assignment and returns a copy of what was removed.
func (s *Store) remove(assignmentID string) (models.SlotAssignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assignment, ok := s.assignments[assignmentID]
	if !ok {
		return models.SlotAssignment{}, false
	}
	delete(s.assignments, assignmentID)

	key := assignment.DoctorID + "@" + assignment.Date
	if slots, ok := s.byDay[key]; ok {
		if slots[assignment.TimeSlot] == assignmentID {
			delete(slots, assignment.TimeSlot)
		}
		if len(slots) == 0 {
			delete(s.byDay, key)
		}
	}
	return assignment, true
}

// Get returns a copy of the assignment by id.
func (s *Store) Get(assignmentID string) (models.SlotAssignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	assignment, ok := s.assignments[assignmentID]
	return assignment, ok
}

// Day returns copies of the day's assignments ordered by time slot.
func (s *Store) Day(doctorID string, day ledger.DayKey) []models.SlotAssignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slots := s.byDay[dayKey(doctorID, day)]
	out := make([]models.SlotAssignment, 0, len(slots))
	for _, id := range slots {
		out = append(out, s.assignments[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].TimeSlot < out[j].TimeSlot
	})
	return out
}

// Hydrate seeds the store from persisted rows before it is shared.
func (s *Store) Hydrate(rows []models.SlotAssignment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, assignment := range rows {
		day, err := ledger.ParseDayKey(assignment.Date)
		if err != nil {
			continue
		}
		assignment.Date = string(day)
		s.assignments[assignment.ID] = assignment
		if !assignment.Active() {
			continue
		}
		key := dayKey(assignment.DoctorID, day)
		if s.byDay[key] == nil {
			s.byDay[key] = make(map[string]string)
		}
		s.byDay[key][assignment.TimeSlot] = assignment.ID
	}
}
