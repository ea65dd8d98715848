package ledger

import (
	"sort"
	"sync"

	"Medivue/models"
	"Medivue/utils"
)

// Store is the in-memory ledger: visit/payment records keyed by patient and
// day, plus the independently evolving visited set. A day is active for a
// patient when it is present in either structure; the two are kept
// consistent as a pair by the engine, never merged.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[DayKey]models.VisitRecord
	visited map[string]map[DayKey]struct{}

	// keys serializes writers per (patient, day) so concurrent marks on the
	// same day cannot interleave; unrelated keys proceed in parallel.
	keys *utils.KeyedMutex
}

// NewStore creates an empty ledger store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[DayKey]models.VisitRecord),
		visited: make(map[string]map[DayKey]struct{}),
		keys:    utils.NewKeyedMutex(),
	}
}

func writeKey(patientID string, day DayKey) string {
	return patientID + "@" + string(day)
}

func (s *Store) lockKey(patientID string, day DayKey) {
	s.keys.Lock(writeKey(patientID, day))
}

func (s *Store) unlockKey(patientID string, day DayKey) {
	s.keys.Unlock(writeKey(patientID, day))
}

// Prior is the (record, visited) state a mutation replaced. It is captured
// inside the store mutation while the key lock is held, so a later rollback
// restores exactly what the mutation observed, not what some caller read
// before taking the lock.
type Prior struct {
	Record     *models.VisitRecord
	WasVisited bool
}

func (s *Store) prior(patientID string, day DayKey) Prior {
	var prior Prior
	if record, ok := s.records[patientID][day]; ok {
		prior.Record = &record
	}
	_, prior.WasVisited = s.visited[patientID][day]
	return prior
}

// put overwrites the record for its key, flags the day visited, and returns
// what it replaced.
func (s *Store) put(record models.VisitRecord, day DayKey) Prior {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.prior(record.PatientID, day)

	if s.records[record.PatientID] == nil {
		s.records[record.PatientID] = make(map[DayKey]models.VisitRecord)
	}
	s.records[record.PatientID][day] = record

	if s.visited[record.PatientID] == nil {
		s.visited[record.PatientID] = make(map[DayKey]struct{})
	}
	s.visited[record.PatientID][day] = struct{}{}
	return prior
}

// remove deletes both the record and the visited flag for the key, returning
// what was removed and whether either structure held the key.
func (s *Store) remove(patientID string, day DayKey) (Prior, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior := s.prior(patientID, day)
	existed := prior.Record != nil || prior.WasVisited

	if days, ok := s.records[patientID]; ok {
		delete(days, day)
		if len(days) == 0 {
			delete(s.records, patientID)
		}
	}
	if days, ok := s.visited[patientID]; ok {
		delete(days, day)
		if len(days) == 0 {
			delete(s.visited, patientID)
		}
	}
	return prior, existed
}

// restore rewrites the (record, visited) pair for a key to an earlier
// state. Used after a failed write-through so memory matches durable state.
func (s *Store) restore(patientID string, day DayKey, prior Prior) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior.Record != nil {
		if s.records[patientID] == nil {
			s.records[patientID] = make(map[DayKey]models.VisitRecord)
		}
		s.records[patientID][day] = *prior.Record
	} else if days, ok := s.records[patientID]; ok {
		delete(days, day)
		if len(days) == 0 {
			delete(s.records, patientID)
		}
	}

	if prior.WasVisited {
		if s.visited[patientID] == nil {
			s.visited[patientID] = make(map[DayKey]struct{})
		}
		s.visited[patientID][day] = struct{}{}
	} else if days, ok := s.visited[patientID]; ok {
		delete(days, day)
		if len(days) == 0 {
			delete(s.visited, patientID)
		}
	}
}

// Record returns a copy of the record for (patientID, day).
func (s *Store) Record(patientID string, day DayKey) (models.VisitRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[patientID][day]
	return record, ok
}

// Visited reports whether the day is in the patient's visited set.
func (s *Store) Visited(patientID string, day DayKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.visited[patientID][day]
	return ok
}

// Active reports whether the day is present in either structure.
func (s *Store) Active(patientID string, day DayKey) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.records[patientID][day]; ok {
		return true
	}
	_, ok := s.visited[patientID][day]
	return ok
}

// Records returns copies of a patient's records ordered by day descending.
func (s *Store) Records(patientID string) []models.VisitRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := s.records[patientID]
	out := make([]models.VisitRecord, 0, len(days))
	for _, record := range days {
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Day > out[j].Day
	})
	return out
}

// ActiveDays returns the union of record days and visited days for a
// patient, ordered ascending.
func (s *Store) ActiveDays(patientID string) []DayKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[DayKey]struct{})
	for day := range s.records[patientID] {
		seen[day] = struct{}{}
	}
	for day := range s.visited[patientID] {
		seen[day] = struct{}{}
	}

	out := make([]DayKey, 0, len(seen))
	for day := range seen {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i] < out[j]
	})
	return out
}

// Hydrate seeds the store from persisted rows. It is called once at startup
// before the store is shared, so rows are applied without key locks.
func (s *Store) Hydrate(records []models.VisitRecord, visited []models.VisitedDay) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range records {
		day, err := ParseDayKey(record.Day)
		if err != nil {
			continue
		}
		if s.records[record.PatientID] == nil {
			s.records[record.PatientID] = make(map[DayKey]models.VisitRecord)
		}
		record.Day = string(day)
		s.records[record.PatientID][day] = record
	}
	for _, row := range visited {
		day, err := ParseDayKey(row.Day)
		if err != nil {
			continue
		}
		if s.visited[row.PatientID] == nil {
			s.visited[row.PatientID] = make(map[DayKey]struct{})
		}
		s.visited[row.PatientID][day] = struct{}{}
	}
}
