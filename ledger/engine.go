package ledger

import (
	"context"
	"log"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"Medivue/errs"
	"Medivue/models"
)

// MarkVisitInput carries one mark-visit request. Fee and Paid are amounts in
// clinic currency; Paid above Fee is allowed and simply yields negative due.
type MarkVisitInput struct {
	PatientID     string  `json:"patient_id"`
	Date          string  `json:"date"`
	Fee           float64 `json:"fee"`
	Paid          float64 `json:"paid"`
	PaymentMethod string  `json:"payment_method"`
	DoctorID      string  `json:"doctor_id"`
	VisitTime     string  `json:"visit_time"`
}

// BulkMarkInput applies the same payment parameters to a list of dates.
type BulkMarkInput struct {
	PatientID     string   `json:"patient_id"`
	Dates         []string `json:"dates"`
	Fee           float64  `json:"fee"`
	Paid          float64  `json:"paid"`
	PaymentMethod string   `json:"payment_method"`
	DoctorID      string   `json:"doctor_id"`
	VisitTime     string   `json:"visit_time"`
}

// BulkFailure records one date that could not be marked.
type BulkFailure struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

// BulkResult reports per-date outcomes of a bulk mark.
type BulkResult struct {
	Succeeded []models.VisitRecord `json:"succeeded"`
	Failed    []BulkFailure        `json:"failed"`
}

// Engine validates and applies visit/payment mutations against the ledger
// store. It never touches external I/O; durable persistence is the caller's
// side effect on success.
type Engine struct {
	store *Store
}

// NewEngine creates an engine over the given store.
func NewEngine(store *Store) *Engine {
	return &Engine{store: store}
}

// Store exposes the underlying ledger store for read-only collaborators.
func (e *Engine) Store() *Store {
	return e.store
}

func (in MarkVisitInput) validate() error {
	err := validation.Errors{
		"patient_id": validation.Validate(in.PatientID, validation.Required.Error("patient is required")),
		"doctor_id":  validation.Validate(in.DoctorID, validation.Required.Error("a visit must be attributable to a practitioner")),
		"fee":        validation.Validate(in.Fee, validation.Min(0.0).Error("fee cannot be negative")),
		"paid":       validation.Validate(in.Paid, validation.Min(0.0).Error("paid cannot be negative")),
		"payment_method": validation.Validate(in.PaymentMethod, validation.Required,
			validation.By(func(value interface{}) error {
				method, _ := value.(string)
				if !models.ValidPaymentMethod(method) {
					return errs.Validation("unknown payment method " + method)
				}
				return nil
			})),
	}.Filter()
	if err != nil {
		return errs.Validation(err.Error())
	}
	return nil
}

// MarkVisit writes or overwrites the visit record for (patient, day) and
// flags the day visited. Calling twice with different amounts updates the
// record in place; there is no history. The returned Prior is the state the
// mark replaced, captured under the key lock, and is what a caller must hand
// to RollbackMark when its write-through fails.
func (e *Engine) MarkVisit(ctx context.Context, in MarkVisitInput) (*models.VisitRecord, Prior, error) {
	if err := in.validate(); err != nil {
		return nil, Prior{}, err
	}
	day, err := ParseDayKey(in.Date)
	if err != nil {
		return nil, Prior{}, err
	}
	if err := ctx.Err(); err != nil {
		return nil, Prior{}, err
	}

	visitTime := in.VisitTime
	if visitTime == "" {
		visitTime = models.DefaultVisitTime
	}

	record := models.VisitRecord{
		PatientID:     in.PatientID,
		Day:           string(day),
		Fee:           in.Fee,
		Paid:          in.Paid,
		PaymentMethod: in.PaymentMethod,
		DoctorID:      in.DoctorID,
		VisitTime:     visitTime,
	}

	e.store.lockKey(in.PatientID, day)
	defer e.store.unlockKey(in.PatientID, day)

	prior := e.store.put(record, day)
	return &record, prior, nil
}

// UnmarkVisit removes the visit record and the visited flag for the day and
// returns what was removed for a possible rollback. It fails with a
// NotFoundError when neither structure had the key, so a second unmark of
// the same day reports the absence instead of silently succeeding.
func (e *Engine) UnmarkVisit(ctx context.Context, patientID, date string) (Prior, error) {
	if patientID == "" {
		return Prior{}, errs.Validation("patient is required")
	}
	day, err := ParseDayKey(date)
	if err != nil {
		return Prior{}, err
	}
	if err := ctx.Err(); err != nil {
		return Prior{}, err
	}

	e.store.lockKey(patientID, day)
	defer e.store.unlockKey(patientID, day)

	prior, existed := e.store.remove(patientID, day)
	if !existed {
		return Prior{}, errs.NotFound("no visit or payment found for this date")
	}
	return prior, nil
}

// RollbackMark restores the (record, visited) pair for a key after a failed
// write-through, so the in-memory store does not report state the durable
// store never accepted. prior must come from the mutation being rolled back;
// it was captured under the key lock, so restoring it cannot clobber a
// concurrent writer's committed state.
func (e *Engine) RollbackMark(patientID, date string, prior Prior) error {
	day, err := ParseDayKey(date)
	if err != nil {
		return err
	}

	e.store.lockKey(patientID, day)
	defer e.store.unlockKey(patientID, day)

	e.store.restore(patientID, day, prior)
	return nil
}

// ApplyFunc is the write-through side effect run after each in-memory mark.
type ApplyFunc func(ctx context.Context, record *models.VisitRecord) error

// BulkMarkVisits marks each date independently with identical payment
// parameters. One bad date does not roll back or block the others; the
// result lists both outcomes. A non-nil apply runs after each in-memory
// mark, and its failure rolls back that date alone. Cancellation stops the
// loop between dates and reports the remaining dates as failed, honoring
// the partial-result contract.
func (e *Engine) BulkMarkVisits(ctx context.Context, in BulkMarkInput, apply ApplyFunc) (*BulkResult, error) {
	if len(in.Dates) == 0 {
		return nil, errs.Validation("no dates selected")
	}

	result := &BulkResult{}
	for i, date := range in.Dates {
		if err := ctx.Err(); err != nil {
			for _, remaining := range in.Dates[i:] {
				result.Failed = append(result.Failed, BulkFailure{Date: remaining, Reason: err.Error()})
			}
			break
		}

		record, prior, err := e.MarkVisit(ctx, MarkVisitInput{
			PatientID:     in.PatientID,
			Date:          date,
			Fee:           in.Fee,
			Paid:          in.Paid,
			PaymentMethod: in.PaymentMethod,
			DoctorID:      in.DoctorID,
			VisitTime:     in.VisitTime,
		})
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Date: date, Reason: err.Error()})
			continue
		}

		if apply != nil {
			if err := apply(ctx, record); err != nil {
				if rbErr := e.RollbackMark(in.PatientID, date, prior); rbErr != nil {
					log.Printf("Failed to roll back mark for %s on %s: %v", in.PatientID, date, rbErr)
				}
				result.Failed = append(result.Failed, BulkFailure{Date: date, Reason: err.Error()})
				continue
			}
		}
		result.Succeeded = append(result.Succeeded, *record)
	}

	if len(result.Failed) > 0 {
		return result, &errs.PartialFailure{Failed: len(result.Failed), Total: len(in.Dates)}
	}
	return result, nil
}

// LastPaidAmount returns the paid amount of the most recent record with a
// positive payment. It is a UI default, not a financial computation; when no
// record qualifies the second return is false and callers fall back to the
// clinic's default fee.
func (e *Engine) LastPaidAmount(patientID string) (float64, bool) {
	for _, record := range e.store.Records(patientID) {
		if record.Paid > 0 {
			return record.Paid, true
		}
	}
	return 0, false
}
