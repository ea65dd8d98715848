package services

import (
	"context"
	"log"

	"Medivue/ledger"
	"Medivue/models"
)

// VisitPersistence is the durable side of the ledger. The in-memory store
// stays authoritative for invariants; these writes are the full resulting
// record on success, nothing partial.
type VisitPersistence interface {
	SaveVisit(ctx context.Context, record *models.VisitRecord) error
	DeleteVisit(ctx context.Context, patientID, day string) error
}

// VisitService orchestrates the visit-payment engine and write-through
// persistence.
type VisitService struct {
	engine *ledger.Engine
	repo   VisitPersistence
}

func NewVisitService(engine *ledger.Engine, repo VisitPersistence) *VisitService {
	return &VisitService{engine: engine, repo: repo}
}

// MarkVisit applies the mark in memory, then persists. A persistence failure
// rolls the in-memory key back and is returned. The rollback state comes
// from the engine, which captured it under the key lock; reading it here
// first could race a concurrent mark and restore the wrong state.
func (s *VisitService) MarkVisit(ctx context.Context, in ledger.MarkVisitInput) (*models.VisitRecord, error) {
	record, prior, err := s.engine.MarkVisit(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveVisit(ctx, record); err != nil {
		if rbErr := s.engine.RollbackMark(in.PatientID, in.Date, prior); rbErr != nil {
			log.Printf("Failed to roll back mark for %s on %s: %v", in.PatientID, in.Date, rbErr)
		}
		return nil, err
	}
	return record, nil
}

// UnmarkVisit removes the key in memory, then deletes the durable rows. A
// persistence failure restores what was removed.
func (s *VisitService) UnmarkVisit(ctx context.Context, patientID, date string) error {
	day, err := ledger.ParseDayKey(date)
	if err != nil {
		return err
	}

	prior, err := s.engine.UnmarkVisit(ctx, patientID, date)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteVisit(ctx, patientID, string(day)); err != nil {
		if rbErr := s.engine.RollbackMark(patientID, date, prior); rbErr != nil {
			log.Printf("Failed to roll back unmark for %s on %s: %v", patientID, date, rbErr)
		}
		return err
	}
	return nil
}

// BulkMarkVisits marks each date independently, persisting as it goes. The
// report carries per-date outcomes; a partial failure error accompanies a
// mixed result.
func (s *VisitService) BulkMarkVisits(ctx context.Context, in ledger.BulkMarkInput) (*ledger.BulkResult, error) {
	return s.engine.BulkMarkVisits(ctx, in, func(ctx context.Context, record *models.VisitRecord) error {
		return s.repo.SaveVisit(ctx, record)
	})
}

// LastPaidAmount returns the most recent positive payment for the patient.
func (s *VisitService) LastPaidAmount(patientID string) (float64, bool) {
	return s.engine.LastPaidAmount(patientID)
}
