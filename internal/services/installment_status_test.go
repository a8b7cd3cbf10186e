package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"transport-service/internal/models"
)

func TestDeriveInstallmentStatus(t *testing.T) {
	today := date(2025, time.March, 15)

	tests := []struct {
		name    string
		stored  string
		dueDate time.Time
		want    string
	}{
		{"paid stays paid even when past due", models.InstallmentStatusPaid, date(2025, time.January, 10), DerivedStatusPaid},
		{"cancelled stays cancelled", models.InstallmentStatusCancelled, date(2025, time.January, 10), DerivedStatusCancelled},
		{"pending before due date", models.InstallmentStatusPending, date(2025, time.March, 20), DerivedStatusPending},
		{"pending on due date", models.InstallmentStatusPending, date(2025, time.March, 15), DerivedStatusPending},
		{"pending after due date becomes overdue", models.InstallmentStatusPending, date(2025, time.March, 14), DerivedStatusOverdue},
		{"pending long past due", models.InstallmentStatusPending, date(2024, time.December, 10), DerivedStatusOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveInstallmentStatus(tt.stored, tt.dueDate, today))
		})
	}
}

func TestDeriveInstallmentStatusIgnoresTimeOfDay(t *testing.T) {
	// Due at 23:59 on the 15th, checked at 00:01 on the 15th: same calendar
	// day, so still pending.
	due := time.Date(2025, time.March, 15, 23, 59, 0, 0, time.UTC)
	today := time.Date(2025, time.March, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, DerivedStatusPending, DeriveInstallmentStatus(models.InstallmentStatusPending, due, today))

	// One calendar day later it flips regardless of clock time
	nextDay := time.Date(2025, time.March, 16, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, DerivedStatusOverdue, DeriveInstallmentStatus(models.InstallmentStatusPending, due, nextDay))
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"regular advance", date(2025, time.January, 10), 1, date(2025, time.February, 10)},
		{"zero months", date(2025, time.January, 10), 0, date(2025, time.January, 10)},
		{"jan 31 clamps to feb 28", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"jan 31 clamps to feb 29 in leap year", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"jan 31 to march keeps 31", date(2025, time.January, 31), 2, date(2025, time.March, 31)},
		{"oct 31 to november clamps to 30", date(2025, time.October, 31), 1, date(2025, time.November, 30)},
		{"across year boundary", date(2025, time.November, 15), 3, date(2026, time.February, 15)},
		{"many months", date(2025, time.January, 10), 11, date(2025, time.December, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, addMonthsClamped(tt.start, tt.months))
		})
	}
}

func TestSameCalendarMonth(t *testing.T) {
	assert.True(t, sameCalendarMonth(date(2025, time.March, 1), date(2025, time.March, 31)))
	assert.False(t, sameCalendarMonth(date(2025, time.March, 1), date(2025, time.April, 1)))
	assert.False(t, sameCalendarMonth(date(2024, time.March, 1), date(2025, time.March, 1)))
}
