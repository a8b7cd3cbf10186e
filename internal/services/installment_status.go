package services

import (
	"time"

	"transport-service/internal/models"
)

// Derived installment statuses as exposed on read paths. Stored status never
// holds "overdue"; it is computed here from the due date.
const (
	DerivedStatusPending   = models.InstallmentStatusPending
	DerivedStatusPaid      = models.InstallmentStatusPaid
	DerivedStatusOverdue   = models.InstallmentStatusOverdue
	DerivedStatusCancelled = models.InstallmentStatusCancelled

	// CurrentMonthNoInstallment marks contracts with no installment due in
	// the current calendar month.
	CurrentMonthNoInstallment = "no_installment"
)

// DeriveInstallmentStatus computes the display status of an installment from
// its stored status, its due date, and the reference "today". Pure: date
// comparison only, time-of-day and timezone offsets within a day ignored.
func DeriveInstallmentStatus(stored string, dueDate, today time.Time) string {
	switch stored {
	case models.InstallmentStatusPaid:
		return DerivedStatusPaid
	case models.InstallmentStatusCancelled:
		return DerivedStatusCancelled
	}

	due := truncateToDate(dueDate)
	now := truncateToDate(today)
	if now.After(due) {
		return DerivedStatusOverdue
	}
	return DerivedStatusPending
}

// addMonthsClamped advances a date by whole calendar months, clamping the
// day to the target month's last day (Jan 31 + 1 month = Feb 28/29). Go's
// AddDate overflows into the next month instead, which is not what monthly
// billing wants.
func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// truncateToDate drops the time-of-day component
func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// sameCalendarMonth reports whether two dates fall in the same month of the
// same year.
func sameCalendarMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// firstOfMonth returns midnight on the first day of t's month
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
