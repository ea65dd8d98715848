package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"Medivue/cache"
	"Medivue/database"
	"Medivue/models"
)

const (
	ScheduleCacheExpiry = 24 * time.Hour
)

// SlotRepository persists slot assignments and serves cached day schedules.
type SlotRepository struct {
	cache *cache.Cache
}

func NewSlotRepository(cache *cache.Cache) *SlotRepository {
	return &SlotRepository{cache: cache}
}

// SaveAssignment writes a new assignment through to Postgres.
func (r *SlotRepository) SaveAssignment(ctx context.Context, assignment *models.SlotAssignment) error {
	lockKey := fmt.Sprintf("slot_lock:%s_%s_%s", assignment.DoctorID, assignment.Date, assignment.TimeSlot)
	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Create(assignment).Error; err != nil {
			return fmt.Errorf("failed to create slot assignment: %w", err)
		}
		return r.invalidateDay(ctx, assignment.DoctorID, assignment.Date)
	})
}

// DeleteAssignment hard-deletes the assignment row.
func (r *SlotRepository) DeleteAssignment(ctx context.Context, assignment *models.SlotAssignment) error {
	lockKey := fmt.Sprintf("slot_lock:%s_%s_%s", assignment.DoctorID, assignment.Date, assignment.TimeSlot)
	return withLock(ctx, lockKey, func() error {
		if err := database.DB.Delete(&models.SlotAssignment{}, "id = ?", assignment.ID).Error; err != nil {
			return fmt.Errorf("failed to delete slot assignment: %w", err)
		}
		return r.invalidateDay(ctx, assignment.DoctorID, assignment.Date)
	})
}

// GetDaySchedule returns the persisted assignments for a doctor's day,
// read-through cached.
func (r *SlotRepository) GetDaySchedule(ctx context.Context, doctorID, date string) ([]models.SlotAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDayCacheKey(doctorID, date)
	cached, err := r.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var assignments []models.SlotAssignment
		if err := json.Unmarshal([]byte(cached), &assignments); err == nil {
			return assignments, nil
		}
	} else if err != nil && err != redis.Nil {
		log.Printf("Failed to get day schedule from cache: %v", err)
	}

	var assignments []models.SlotAssignment
	err = database.DB.WithContext(ctx).
		Where("doctor_id = ? AND date = ?", doctorID, date).
		Order("time_slot ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get day schedule: %w", err)
	}

	payload, err := json.Marshal(assignments)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal day schedule: %w", err)
	}
	if err := r.cache.Set(ctx, cacheKey, payload, ScheduleCacheExpiry); err != nil {
		log.Printf("Failed to set day schedule in cache: %v", err)
	}

	return assignments, nil
}

// LoadAll reads every assignment for startup hydration.
func (r *SlotRepository) LoadAll(ctx context.Context) ([]models.SlotAssignment, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var assignments []models.SlotAssignment
	if err := database.DB.WithContext(ctx).Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("failed to load slot assignments: %w", err)
	}
	return assignments, nil
}

func (r *SlotRepository) invalidateDay(ctx context.Context, doctorID, date string) error {
	if err := r.cache.Delete(ctx, r.getDayCacheKey(doctorID, date)); err != nil {
		return fmt.Errorf("failed to delete day schedule cache: %w", err)
	}
	return nil
}

func (r *SlotRepository) getDayCacheKey(doctorID, date string) string {
	return fmt.Sprintf("schedule_cache:%s_%s", doctorID, date)
}
