package models

import (
	"time"
)

// Payment methods accepted at the front desk.
const (
	PaymentCash = "cash"
	PaymentUPI  = "upi"
	PaymentCard = "card"
	PaymentBank = "bank"
)

// Slot assignment statuses.
const (
	SlotScheduled = "scheduled"
	SlotCompleted = "completed"
	SlotCancelled = "cancelled"
)

// DefaultVisitTime is used when a visit is marked without a time of day.
const DefaultVisitTime = "09:00"

// VisitRecord holds the billing side of a visit, one row per patient per day.
type VisitRecord struct {
	PatientID     string    `gorm:"primaryKey;column:patient_id" json:"patient_id"`
	Day           string    `gorm:"primaryKey;column:day;index" json:"day"`
	Fee           float64   `gorm:"column:fee;not null" json:"fee"`
	Paid          float64   `gorm:"column:paid;not null" json:"paid"`
	PaymentMethod string    `gorm:"column:payment_method;check:payment_method IN ('cash', 'upi', 'card', 'bank');not null" json:"payment_method"`
	DoctorID      string    `gorm:"column:doctor_id;not null;index" json:"doctor_id"`
	VisitTime     string    `gorm:"column:visit_time" json:"visit_time"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (VisitRecord) TableName() string {
	return "visit_record"
}

// Due is derived and may be negative when a patient overpays.
func (v *VisitRecord) Due() float64 {
	return v.Fee - v.Paid
}

// VisitedDay marks that a visit happened on a day, independent of payment.
// A day can be visited with no VisitRecord, and a VisitRecord can exist for
// a day never flagged here; the ledger treats a day as active when it is in
// either table.
type VisitedDay struct {
	PatientID string    `gorm:"primaryKey;column:patient_id" json:"patient_id"`
	Day       string    `gorm:"primaryKey;column:day;index" json:"day"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (VisitedDay) TableName() string {
	return "visited_day"
}

// SlotAssignment books a patient into a fixed time slot of a doctor's day.
type SlotAssignment struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	DoctorID  string    `gorm:"column:doctor_id;not null;index:idx_doctor_day" json:"doctor_id"`
	Date      string    `gorm:"column:date;not null;index:idx_doctor_day" json:"date"`
	TimeSlot  string    `gorm:"column:time_slot;not null" json:"time_slot"`
	PatientID string    `gorm:"column:patient_id;not null;index" json:"patient_id"`
	Status    string    `gorm:"column:status;check:status IN ('scheduled', 'completed', 'cancelled');not null" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (SlotAssignment) TableName() string {
	return "slot_assignment"
}

// Active reports whether the assignment still occupies its slot.
func (s *SlotAssignment) Active() bool {
	return s.Status != SlotCancelled
}

// PeriodSummary is a derived rollup over a patient's ledger for a period.
type PeriodSummary struct {
	Visits         int     `json:"visits"`
	TotalFee       float64 `json:"total_fee"`
	TotalPaid      float64 `json:"total_paid"`
	TotalDue       float64 `json:"total_due"`
	PaidCount      int     `json:"paid_count"`
	UnpaidCount    int     `json:"unpaid_count"`
	CollectionRate float64 `json:"collection_rate"`
}

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard, PaymentBank:
		return true
	}
	return false
}
