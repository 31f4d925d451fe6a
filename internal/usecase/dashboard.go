package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"
)

// recentAttendanceLimit caps the attendance history shown on a profile.
const recentAttendanceLimit = 30

type dashboardUsecase struct {
	classRepo      domain.ClassRepository
	studentRepo    domain.StudentRepository
	attendanceRepo domain.AttendanceRepository
	scoreRepo      domain.ScoreRepository
	thresholds     RiskThresholds
	now            func() time.Time
}

func NewDashboardUsecase(
	cr domain.ClassRepository,
	sr domain.StudentRepository,
	ar domain.AttendanceRepository,
	scr domain.ScoreRepository,
	thresholds RiskThresholds,
) domain.DashboardUsecase {
	return &dashboardUsecase{
		classRepo:      cr,
		studentRepo:    sr,
		attendanceRepo: ar,
		scoreRepo:      scr,
		thresholds:     thresholds,
		now:            time.Now,
	}
}

func (uc *dashboardUsecase) classNames(ctx context.Context) (map[uint]string, []domain.Class, error) {
	classes, err := uc.classRepo.GetAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[uint]string, len(classes))
	for _, c := range classes {
		names[c.ID] = c.Name
	}
	return names, classes, nil
}

// students returns the students of one class, or of every class for classID 0.
func (uc *dashboardUsecase) students(ctx context.Context, classID uint) ([]domain.Student, error) {
	if classID == 0 {
		return uc.studentRepo.GetAll(ctx)
	}
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return uc.studentRepo.GetByClassID(ctx, classID)
}

func (uc *dashboardUsecase) Overview(ctx context.Context) (*domain.Overview, error) {
	classes, err := uc.classRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	totalStudents, err := uc.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	today := utils.Day(uc.now())
	todays, err := uc.attendanceRepo.GetRange(ctx, 0, today, today)
	if err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	atRisk, err := uc.AtRiskStudents(ctx, 0)
	if err != nil {
		return nil, err
	}

	return &domain.Overview{
		TotalClasses:        len(classes),
		TotalStudents:       int(totalStudents),
		TodayAttendanceRate: summarizeAttendance(todays).Rate,
		AverageScore:        averagePercentage(scores),
		AtRiskCount:         len(atRisk),
	}, nil
}

func (uc *dashboardUsecase) AttendanceTrend(ctx context.Context, classID uint, from, to time.Time) ([]domain.TrendPoint, error) {
	from, to = utils.Day(from), utils.Day(to)
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	if classID != 0 {
		if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
			return nil, err
		}
	}
	records, err := uc.attendanceRepo.GetRange(ctx, classID, from, to)
	if err != nil {
		return nil, err
	}
	return buildTrend(records), nil
}

// AtRiskStudents flags students under either threshold, ordered by class name then student name.
func (uc *dashboardUsecase) AtRiskStudents(ctx context.Context, classID uint) ([]domain.AtRiskStudent, error) {
	students, err := uc.students(ctx, classID)
	if err != nil {
		return nil, err
	}
	names, _, err := uc.classNames(ctx)
	if err != nil {
		return nil, err
	}
	// history is matched per student, so a student moved between classes keeps it
	records, err := uc.attendanceRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	metrics := groupByStudent(records, scores)

	out := []domain.AtRiskStudent{}
	for _, s := range students {
		rate, avg, reasons := metrics.riskFor(s.ID, uc.thresholds)
		if len(reasons) == 0 {
			continue
		}
		out = append(out, domain.AtRiskStudent{
			StudentID:      s.ID,
			FullName:       s.FullName,
			ClassID:        s.ClassID,
			ClassName:      names[s.ClassID],
			AttendanceRate: rate,
			AverageScore:   avg,
			Reasons:        reasons,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].FullName < out[j].FullName
	})
	return out, nil
}

func (uc *dashboardUsecase) CategoryAverages(ctx context.Context, classID uint) ([]domain.CategoryAverage, error) {
	if classID != 0 {
		if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
			return nil, err
		}
	}
	names, _, err := uc.classNames(ctx)
	if err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetAll(ctx, classID)
	if err != nil {
		return nil, err
	}

	type key struct {
		classID  uint
		category string
	}
	grouped := make(map[key][]domain.Score)
	for _, s := range scores {
		k := key{s.ClassID, s.Category}
		grouped[k] = append(grouped[k], s)
	}

	out := make([]domain.CategoryAverage, 0, len(grouped))
	for k, list := range grouped {
		out = append(out, domain.CategoryAverage{
			ClassID:   k.classID,
			ClassName: names[k.classID],
			Category:  k.category,
			Average:   *averagePercentage(list),
			Count:     len(list),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (uc *dashboardUsecase) ClassSummaries(ctx context.Context) ([]domain.ClassSummary, error) {
	_, classes, err := uc.classNames(ctx)
	if err != nil {
		return nil, err
	}
	students, err := uc.studentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	records, err := uc.attendanceRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, err
	}
	metrics := groupByStudent(records, scores)

	// aggregate by the class each student is enrolled in now
	byClass := make(map[uint][]domain.Student)
	for _, s := range students {
		byClass[s.ClassID] = append(byClass[s.ClassID], s)
	}
	recordsByClass := make(map[uint][]domain.AttendanceRecord)
	scoresByClass := make(map[uint][]domain.Score)
	for _, s := range students {
		recordsByClass[s.ClassID] = append(recordsByClass[s.ClassID], metrics.attendance[s.ID]...)
		scoresByClass[s.ClassID] = append(scoresByClass[s.ClassID], metrics.scores[s.ID]...)
	}

	out := make([]domain.ClassSummary, 0, len(classes))
	for _, c := range classes {
		summary := domain.ClassSummary{
			ClassID:        c.ID,
			ClassName:      c.Name,
			Students:       len(byClass[c.ID]),
			AttendanceRate: summarizeAttendance(recordsByClass[c.ID]).Rate,
			AverageScore:   averagePercentage(scoresByClass[c.ID]),
		}
		for _, s := range byClass[c.ID] {
			if _, _, reasons := metrics.riskFor(s.ID, uc.thresholds); len(reasons) > 0 {
				summary.AtRisk++
			}
		}
		out = append(out, summary)
	}
	return out, nil
}

func (uc *dashboardUsecase) StudentProfile(ctx context.Context, studentID uint) (*domain.StudentProfile, error) {
	student, err := uc.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records, err := uc.attendanceRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	summary := summarizeAttendance(records)
	overall := averagePercentage(scores)
	recent := records
	if len(recent) > recentAttendanceLimit {
		recent = recent[:recentAttendanceLimit]
	}
	if recent == nil {
		recent = []domain.AttendanceRecord{}
	}

	profile := &domain.StudentProfile{
		Student:          *student,
		Attendance:       summary,
		RecentAttendance: recent,
		Scores:           withPercentage(scores),
		CategoryAverages: averageByCategory(scores),
		OverallAverage:   overall,
		RiskReasons:      evaluateRisk(summary.Rate, overall, uc.thresholds),
	}
	if student.Class != nil {
		profile.ClassName = student.Class.Name
	}
	if student.PhotoFileID != "" {
		profile.PhotoURL = fmt.Sprintf("/api/v1/students/%d/photo", student.ID)
	}
	return profile, nil
}
