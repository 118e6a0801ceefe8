// Package services provides business logic and orchestration services.
//
// This file implements the strategies deciding whether a monthly bill reminder
// is due on a given day. A bill due on a day the month does not have (the 31st
// in April) falls due on the month's last day.
package services

import (
	"fmt"

	"moneyleft/internal/core"
)

// DuenessChecker decides whether a reminder should fire on day.
type DuenessChecker interface {
	IsDue(item core.MonthlySpendingItem, day core.Date) bool
}

// OnDayChecker fires only on the bill's (clamped) due day.
type OnDayChecker struct{}

func (OnDayChecker) IsDue(item core.MonthlySpendingItem, day core.Date) bool {
	return item.DueOn(day.Year(), day.Month()).Equal(day.Time)
}

// AheadChecker fires when the next due date is at most Days days after day,
// including the due day itself.
type AheadChecker struct {
	Days int
}

func (c AheadChecker) IsDue(item core.MonthlySpendingItem, day core.Date) bool {
	next := item.DueOn(day.Year(), day.Month())
	if next.Before(day.Time) {
		following := day.Time.AddDate(0, 0, -day.Day()+1).AddDate(0, 1, 0)
		next = item.DueOn(following.Year(), following.Month())
	}
	return !next.After(day.AddDays(c.Days).Time)
}

// GetDuenessChecker returns the checker for a reminder lead time in days; zero
// means "on the day".
func GetDuenessChecker(leadDays int) (DuenessChecker, error) {
	switch {
	case leadDays < 0:
		return nil, fmt.Errorf("%w: negative reminder lead time %d", core.ErrInvalidInput, leadDays)
	case leadDays == 0:
		return OnDayChecker{}, nil
	default:
		return AheadChecker{Days: leadDays}, nil
	}
}
