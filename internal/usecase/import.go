package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"classroom-backend/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Header names accepted for the student name column, in priority order.
var nameHeaders = []string{"full_name", "name", "student", "student name"}

type rosterRow struct {
	line     int
	fullName string
	email    string
}

type roster struct {
	rows      []rosterRow
	totalRows int
	errors    []domain.ImportRowError
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(normalizeName(h))
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRoster reads a CSV roster. Rows are reported by their line in the file, the header being line 1.
func parseRoster(r io.Reader) (*roster, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV file: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("invalid CSV: %v: %w", err, domain.ErrInvalidInput)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if _, seen := columns[key]; !seen {
			columns[key] = i
		}
	}
	nameCol := -1
	for _, candidate := range nameHeaders {
		if i, ok := columns[candidate]; ok {
			nameCol = i
			break
		}
	}
	if nameCol < 0 {
		return nil, fmt.Errorf("CSV needs a %q or %q column: %w", "full_name", "name", domain.ErrInvalidInput)
	}
	emailCol, hasEmail := columns["email"]

	out := &roster{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			row := 0
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				row = pe.StartLine
			}
			out.totalRows++
			out.errors = append(out.errors, domain.ImportRowError{Row: row, Message: err.Error()})
			continue
		}
		if blankRecord(record) {
			continue
		}
		out.totalRows++
		line, _ := reader.FieldPos(0)

		row := rosterRow{line: line}
		if nameCol < len(record) {
			row.fullName = normalizeName(record[nameCol])
		}
		if hasEmail && emailCol < len(record) {
			row.email = strings.TrimSpace(record[emailCol])
		}
		if row.fullName == "" {
			out.errors = append(out.errors, domain.ImportRowError{Row: line, Message: "missing student name"})
			continue
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

func (uc *studentUsecase) ImportStudents(ctx context.Context, classID uint, filename string, content io.Reader) (*domain.ImportReport, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}

	parsed, err := parseRoster(content)
	if err != nil {
		return nil, err
	}

	existing, err := uc.studentRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing)+len(parsed.rows))
	for _, s := range existing {
		seen[strings.ToLower(s.FullName)] = true
	}

	rowErrors := parsed.errors
	var batch []domain.Student
	for _, row := range parsed.rows {
		key := strings.ToLower(row.fullName)
		if seen[key] {
			rowErrors = append(rowErrors, domain.ImportRowError{
				Row:     row.line,
				Message: fmt.Sprintf("%q is already enrolled, skipped", row.fullName),
			})
			continue
		}
		if err := uc.checkEmail(row.email); err != nil {
			rowErrors = append(rowErrors, domain.ImportRowError{
				Row:     row.line,
				Message: fmt.Sprintf("invalid email %q", row.email),
			})
			continue
		}
		seen[key] = true
		batch = append(batch, domain.Student{
			FullName: row.fullName,
			ClassID:  classID,
			Email:    row.email,
		})
	}

	if err := uc.studentRepo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	if rowErrors == nil {
		rowErrors = []domain.ImportRowError{}
	}
	sortRowErrors(rowErrors)
	report := &domain.ImportReport{
		ID:        uuid.NewString(),
		ClassID:   classID,
		Filename:  filename,
		TotalRows: parsed.totalRows,
		Imported:  len(batch),
		Skipped:   parsed.totalRows - len(batch),
		Errors:    rowErrors,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.importRepo.Create(ctx, report); err != nil {
		uc.log.Warn("failed to store import report", zap.String("report_id", report.ID), zap.Error(err))
	}
	uc.log.Info("students imported",
		zap.Uint("class_id", classID), zap.Int("imported", report.Imported), zap.Int("skipped", report.Skipped))
	return report, nil
}

func sortRowErrors(errs []domain.ImportRowError) {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
}

func (uc *studentUsecase) GetImportReport(ctx context.Context, id string) (*domain.ImportReport, error) {
	return uc.importRepo.GetByID(ctx, id)
}

func (uc *studentUsecase) ListImportReports(ctx context.Context, classID uint) ([]domain.ImportReport, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return uc.importRepo.GetByClassID(ctx, classID)
}
