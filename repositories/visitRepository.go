package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Medivue/cache"
	"Medivue/database"
	"Medivue/models"
)

const (
	SummaryCacheExpiry = 1 * time.Hour
)

// VisitRepository persists ledger mutations. The in-memory ledger store is
// the source of truth for invariants; this layer writes the full resulting
// record through to Postgres and keeps the Redis caches coherent.
type VisitRepository struct {
	cache *cache.Cache
}

func NewVisitRepository(cache *cache.Cache) *VisitRepository {
	return &VisitRepository{cache: cache}
}

// SaveVisit upserts the visit record and its visited-day flag. Mark is
// overwrite, not append, so conflicts on the (patient, day) key update all
// columns in place.
func (r *VisitRepository) SaveVisit(ctx context.Context, record *models.VisitRecord) error {
	lockKey := fmt.Sprintf("visit_lock:%s_%s", record.PatientID, record.Day)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "patient_id"}, {Name: "day"}},
				UpdateAll: true,
			}).Create(record).Error; err != nil {
				return fmt.Errorf("failed to save visit record: %w", err)
			}
			visited := models.VisitedDay{PatientID: record.PatientID, Day: record.Day}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&visited).Error; err != nil {
				return fmt.Errorf("failed to save visited day: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return r.invalidatePatient(ctx, record.PatientID)
	})
}

// DeleteVisit removes both the visit record and the visited-day flag.
// Deleting rows that were already absent is fine here; existence was checked
// by the engine before the write-through.
func (r *VisitRepository) DeleteVisit(ctx context.Context, patientID, day string) error {
	lockKey := fmt.Sprintf("visit_lock:%s_%s", patientID, day)
	return withLock(ctx, lockKey, func() error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&models.VisitRecord{}, "patient_id = ? AND day = ?", patientID, day).Error; err != nil {
				return fmt.Errorf("failed to delete visit record: %w", err)
			}
			if err := tx.Delete(&models.VisitedDay{}, "patient_id = ? AND day = ?", patientID, day).Error; err != nil {
				return fmt.Errorf("failed to delete visited day: %w", err)
			}
			return nil
		})
		if err != nil {
			return err
		}
		return r.invalidatePatient(ctx, patientID)
	})
}

// LoadAll reads the full ledger for startup hydration of the in-memory store.
func (r *VisitRepository) LoadAll(ctx context.Context) ([]models.VisitRecord, []models.VisitedDay, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var records []models.VisitRecord
	if err := database.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load visit records: %w", err)
	}
	var visited []models.VisitedDay
	if err := database.DB.WithContext(ctx).Find(&visited).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load visited days: %w", err)
	}
	return records, visited, nil
}

// GetSummaryCache returns a cached summary payload for the key, "" on miss.
func (r *VisitRepository) GetSummaryCache(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.cache.Get(ctx, key)
}

// SetSummaryCache stores a computed summary payload.
func (r *VisitRepository) SetSummaryCache(ctx context.Context, key string, payload []byte) error {
	return r.cache.Set(ctx, key, payload, SummaryCacheExpiry)
}

// SummaryCacheKey builds the cache key for one summary query.
func SummaryCacheKey(patientID, doctorID, start, end string) string {
	return fmt.Sprintf("summary_cache:%s_%s_%s_%s", patientID, doctorID, start, end)
}

// invalidatePatient drops every cached summary touching the patient. Keys
// embed the full filter, so the scan pattern has to cover them all.
func (r *VisitRepository) invalidatePatient(ctx context.Context, patientID string) error {
	if err := r.cache.DeleteAll(ctx, fmt.Sprintf("summary_cache:%s_*", patientID)); err != nil {
		return fmt.Errorf("failed to delete summary cache: %w", err)
	}
	return r.cache.DeleteAll(ctx, "summary_cache:_*")
}
