package services

import (
	"context"
)

// LeaveCalendar is the external availability calendar. The scheduler does
// not block assignments into a leave day; callers only get a warning.
type LeaveCalendar interface {
	OnLeave(ctx context.Context, doctorID, date string) (bool, error)
}

type noLeave struct{}

func (noLeave) OnLeave(ctx context.Context, doctorID, date string) (bool, error) {
	return false, nil
}

// NoLeaveCalendar reports every doctor as available. Deployments wire a real
// calendar client in its place.
func NoLeaveCalendar() LeaveCalendar {
	return noLeave{}
}
