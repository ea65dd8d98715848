package ledger

import (
	"Medivue/models"
)

// SummaryFilter narrows a period summary. Zero fields are open: an empty
// PatientID aggregates across all patients, an empty DoctorID includes
// visited-only days that carry no practitioner.
type SummaryFilter struct {
	PatientID string
	DoctorID  string
	Start     DayKey
	End       DayKey
}

// Aggregator derives rollups from the ledger store. It is read-only and
// never mutates the store.
type Aggregator struct {
	store *Store
}

// NewAggregator creates an aggregator over the given store.
func NewAggregator(store *Store) *Aggregator {
	return &Aggregator{store: store}
}

// Period sums fee and paid over the active days matching the filter. Active
// days are the union of record days and visited-set days; a visited-only day
// contributes zero fee and zero paid and counts as paid, since nothing is
// due on it. The collection rate is zero when no fee was billed, never a
// division error.
func (a *Aggregator) Period(filter SummaryFilter) models.PeriodSummary {
	a.store.mu.RLock()
	defer a.store.mu.RUnlock()

	patients := []string{filter.PatientID}
	if filter.PatientID == "" {
		seen := make(map[string]struct{})
		for patientID := range a.store.records {
			seen[patientID] = struct{}{}
		}
		for patientID := range a.store.visited {
			seen[patientID] = struct{}{}
		}
		patients = patients[:0]
		for patientID := range seen {
			patients = append(patients, patientID)
		}
	}

	var summary models.PeriodSummary
	for _, patientID := range patients {
		a.accumulate(&summary, patientID, filter)
	}

	summary.TotalDue = summary.TotalFee - summary.TotalPaid
	if summary.TotalFee > 0 {
		summary.CollectionRate = summary.TotalPaid / summary.TotalFee
	}
	return summary
}

// accumulate walks one patient's active days. Callers hold the read lock.
func (a *Aggregator) accumulate(summary *models.PeriodSummary, patientID string, filter SummaryFilter) {
	records := a.store.records[patientID]

	days := make(map[DayKey]struct{}, len(records))
	for day := range records {
		days[day] = struct{}{}
	}
	for day := range a.store.visited[patientID] {
		days[day] = struct{}{}
	}

	for day := range days {
		if !day.InRange(filter.Start, filter.End) {
			continue
		}

		record, hasRecord := records[day]
		if filter.DoctorID != "" {
			// Visited-only days carry no practitioner and cannot be
			// attributed under a doctor filter.
			if !hasRecord || record.DoctorID != filter.DoctorID {
				continue
			}
		}

		summary.Visits++
		if hasRecord {
			summary.TotalFee += record.Fee
			summary.TotalPaid += record.Paid
			if record.Paid >= record.Fee {
				summary.PaidCount++
			} else {
				summary.UnpaidCount++
			}
		} else {
			summary.PaidCount++
		}
	}
}

// MonthRange returns the inclusive DayKey bounds of a "YYYY-MM" month.
func MonthRange(month string) (DayKey, DayKey, error) {
	start, err := ParseDayKey(month + "-01")
	if err != nil {
		return "", "", err
	}
	next := start.Time().AddDate(0, 1, -1)
	return start, DayKeyFromTime(next), nil
}
