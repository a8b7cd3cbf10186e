package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"transport-service/internal/auth"
	"transport-service/internal/models"
	"transport-service/internal/repository"
)

// ReportService builds attendance frequency reports
type ReportService struct {
	studentRepo *repository.StudentRepository
	checkRepo   *repository.DailyCheckRepository
}

// NewReportService creates a new report service
func NewReportService(studentRepo *repository.StudentRepository, checkRepo *repository.DailyCheckRepository) *ReportService {
	return &ReportService{studentRepo: studentRepo, checkRepo: checkRepo}
}

// FrequencyReport is a student's attendance for one calendar month
type FrequencyReport struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	Month       int              `json:"month"`
	Year        int              `json:"year"`
	Present     int              `json:"present"`
	Absent      int              `json:"absent"`
	Justified   int              `json:"justified"`
	Checks      []FrequencyCheck `json:"checks"`
}

// FrequencyCheck is one attendance entry in the report
type FrequencyCheck struct {
	Date    string `json:"date"`
	TripLeg string `json:"trip_leg"`
	Status  string `json:"status"`
	Notes   string `json:"notes,omitempty"`
}

// MonthlyFrequency returns a student's checks for one month with presence
// totals. Guardians may only report on their own students.
func (s *ReportService) MonthlyFrequency(ctx context.Context, principal *auth.Principal, studentID string, month, year int) (*FrequencyReport, error) {
	scope, err := scopeFor(principal)
	if err != nil {
		return nil, err
	}
	sid, err := parseID("student_id", studentID)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, NewValidationError("month", "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, NewValidationError("year", "year is out of range")
	}

	student, err := s.studentRepo.FindByID(ctx, scope, sid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	if principal.Role == models.RoleGuardian && student.GuardianID != principal.ID {
		return nil, NewNotFoundError("student")
	}

	checks, err := s.checkRepo.ListForStudentMonth(ctx, scope, sid, time.Month(month), year)
	if err != nil {
		return nil, err
	}

	report := &FrequencyReport{
		StudentID:   student.ID.String(),
		StudentName: student.Name,
		Month:       month,
		Year:        year,
		Checks:      make([]FrequencyCheck, 0, len(checks)),
	}
	for _, c := range checks {
		switch c.Status {
		case models.CheckStatusPresent:
			report.Present++
		case models.CheckStatusAbsent:
			report.Absent++
		case models.CheckStatusJustified:
			report.Justified++
		}
		report.Checks = append(report.Checks, FrequencyCheck{
			Date:    c.CheckDate.Format("2006-01-02"),
			TripLeg: c.TripLeg,
			Status:  c.Status,
			Notes:   c.Notes,
		})
	}
	return report, nil
}
