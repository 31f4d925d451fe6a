package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"

	"gorm.io/datatypes"
)

type attendanceUsecase struct {
	attendanceRepo domain.AttendanceRepository
	studentRepo    domain.StudentRepository
	classRepo      domain.ClassRepository
}

func NewAttendanceUsecase(
	ar domain.AttendanceRepository,
	sr domain.StudentRepository,
	cr domain.ClassRepository,
) domain.AttendanceUsecase {
	return &attendanceUsecase{
		attendanceRepo: ar,
		studentRepo:    sr,
		classRepo:      cr,
	}
}

func (uc *attendanceUsecase) roster(ctx context.Context, classID uint) ([]domain.Student, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return uc.studentRepo.GetByClassID(ctx, classID)
}

// GetSheet lists every student of the class with the saved status for date,
// defaulting unsaved students to present.
func (uc *attendanceUsecase) GetSheet(ctx context.Context, classID uint, date time.Time) (*domain.AttendanceSheet, error) {
	date = utils.Day(date)
	students, err := uc.roster(ctx, classID)
	if err != nil {
		return nil, err
	}
	records, err := uc.attendanceRepo.GetByClassAndDate(ctx, classID, date)
	if err != nil {
		return nil, err
	}

	byStudent := make(map[uint]domain.AttendanceRecord, len(records))
	for _, r := range records {
		byStudent[r.StudentID] = r
	}

	sheet := &domain.AttendanceSheet{
		ClassID: classID,
		Date:    dateKey(date),
		Entries: make([]domain.SheetEntry, 0, len(students)),
	}
	for _, s := range students {
		entry := domain.SheetEntry{
			StudentID: s.ID,
			FullName:  s.FullName,
			Status:    domain.StatusPresent,
		}
		if r, ok := byStudent[s.ID]; ok {
			entry.Status = r.Status
			entry.Note = r.Note
			entry.Saved = true
		}
		sheet.Entries = append(sheet.Entries, entry)
	}
	return sheet, nil
}

// parseStatus accepts any case and surrounding spaces.
func parseStatus(raw domain.AttendanceStatus) (domain.AttendanceStatus, error) {
	status := domain.AttendanceStatus(strings.ToLower(strings.TrimSpace(string(raw))))
	if !status.Valid() {
		return "", fmt.Errorf("unknown status %q: %w", raw, domain.ErrInvalidInput)
	}
	return status, nil
}

func (uc *attendanceUsecase) RecordAttendance(ctx context.Context, classID uint, date time.Time, entries []domain.AttendanceEntry) error {
	date = utils.Day(date)
	if len(entries) == 0 {
		return fmt.Errorf("no attendance entries: %w", domain.ErrInvalidInput)
	}
	students, err := uc.roster(ctx, classID)
	if err != nil {
		return err
	}
	inClass := make(map[uint]bool, len(students))
	for _, s := range students {
		inClass[s.ID] = true
	}

	records := make([]domain.AttendanceRecord, 0, len(entries))
	seen := make(map[uint]bool, len(entries))
	for _, e := range entries {
		status, err := parseStatus(e.Status)
		if err != nil {
			return err
		}
		if !inClass[e.StudentID] {
			return fmt.Errorf("student %d is not in class %d: %w", e.StudentID, classID, domain.ErrInvalidInput)
		}
		if seen[e.StudentID] {
			return fmt.Errorf("student %d listed twice: %w", e.StudentID, domain.ErrInvalidInput)
		}
		seen[e.StudentID] = true
		records = append(records, domain.AttendanceRecord{
			StudentID: e.StudentID,
			ClassID:   classID,
			Date:      datatypes.Date(date),
			Status:    status,
			Note:      strings.TrimSpace(e.Note),
		})
	}
	return uc.attendanceRepo.Upsert(ctx, records)
}

// MarkAll stores the same status for the whole roster and returns how many were written.
func (uc *attendanceUsecase) MarkAll(ctx context.Context, classID uint, date time.Time, status domain.AttendanceStatus) (int, error) {
	date = utils.Day(date)
	status, err := parseStatus(status)
	if err != nil {
		return 0, err
	}
	students, err := uc.roster(ctx, classID)
	if err != nil {
		return 0, err
	}

	records := make([]domain.AttendanceRecord, 0, len(students))
	for _, s := range students {
		records = append(records, domain.AttendanceRecord{
			StudentID: s.ID,
			ClassID:   classID,
			Date:      datatypes.Date(date),
			Status:    status,
		})
	}
	if err := uc.attendanceRepo.Upsert(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func checkRange(from, to time.Time) error {
	if to.Before(from) {
		return fmt.Errorf("range end %s is before start %s: %w", dateKey(to), dateKey(from), domain.ErrInvalidInput)
	}
	return nil
}

func (uc *attendanceUsecase) ListAttendance(ctx context.Context, classID uint, from, to time.Time) ([]domain.AttendanceRecord, error) {
	from, to = utils.Day(from), utils.Day(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return uc.attendanceRepo.GetRange(ctx, classID, from, to)
}

func (uc *attendanceUsecase) DeleteAttendance(ctx context.Context, classID uint, date time.Time) (int64, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return 0, err
	}
	return uc.attendanceRepo.DeleteByClassAndDate(ctx, classID, utils.Day(date))
}

// ExportCSV writes date,student,status,note rows for the range.
func (uc *attendanceUsecase) ExportCSV(ctx context.Context, classID uint, from, to time.Time, w io.Writer) error {
	records, err := uc.ListAttendance(ctx, classID, from, to)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"date", "student", "status", "note"}); err != nil {
		return err
	}
	for _, r := range records {
		name := ""
		if r.Student != nil {
			name = r.Student.FullName
		}
		if err := writer.Write([]string{dateKey(time.Time(r.Date)), name, string(r.Status), r.Note}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
