package usecase

import (
	"sort"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"
)

// RiskThresholds are percentages below which a student is flagged.
type RiskThresholds struct {
	Attendance float64
	Score      float64
}

func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{Attendance: 75, Score: 60}
}

func floatPtr(v float64) *float64 {
	return &v
}

func dateKey(d time.Time) string {
	return d.Format(domain.DateLayout)
}

// summarizeAttendance counts statuses. Excused days are left out of the rate.
func summarizeAttendance(records []domain.AttendanceRecord) domain.AttendanceSummary {
	var s domain.AttendanceSummary
	attended := 0
	for _, r := range records {
		if r.Status.Attended() {
			attended++
		}
		switch r.Status {
		case domain.StatusPresent:
			s.Present++
		case domain.StatusAbsent:
			s.Absent++
		case domain.StatusLate:
			s.Late++
		case domain.StatusExcused:
			s.Excused++
		default:
			continue
		}
		s.Total++
	}
	if countable := s.Total - s.Excused; countable > 0 {
		s.Rate = floatPtr(utils.Round1(float64(attended) / float64(countable) * 100))
	}
	return s
}

// averagePercentage is the mean of per-score percentages, nil for no scores.
func averagePercentage(scores []domain.Score) *float64 {
	if len(scores) == 0 {
		return nil
	}
	var sum float64
	for _, s := range scores {
		sum += s.Percentage()
	}
	return floatPtr(utils.Round1(sum / float64(len(scores))))
}

func averageByCategory(scores []domain.Score) map[string]float64 {
	grouped := make(map[string][]domain.Score)
	for _, s := range scores {
		grouped[s.Category] = append(grouped[s.Category], s)
	}
	out := make(map[string]float64, len(grouped))
	for cat, list := range grouped {
		out[cat] = *averagePercentage(list)
	}
	return out
}

func evaluateRisk(attendanceRate, averageScore *float64, t RiskThresholds) []domain.RiskReason {
	reasons := []domain.RiskReason{}
	if attendanceRate != nil && *attendanceRate < t.Attendance {
		reasons = append(reasons, domain.RiskLowAttendance)
	}
	if averageScore != nil && *averageScore < t.Score {
		reasons = append(reasons, domain.RiskLowScore)
	}
	return reasons
}

func buildTrend(records []domain.AttendanceRecord) []domain.TrendPoint {
	byDate := make(map[string][]domain.AttendanceRecord)
	for _, r := range records {
		key := dateKey(time.Time(r.Date))
		byDate[key] = append(byDate[key], r)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]domain.TrendPoint, 0, len(keys))
	for _, k := range keys {
		s := summarizeAttendance(byDate[k])
		points = append(points, domain.TrendPoint{
			Date:    k,
			Present: s.Present,
			Absent:  s.Absent,
			Late:    s.Late,
			Excused: s.Excused,
			Rate:    s.Rate,
		})
	}
	return points
}

// studentMetrics groups attendance and scores per student.
type studentMetrics struct {
	attendance map[uint][]domain.AttendanceRecord
	scores     map[uint][]domain.Score
}

func groupByStudent(records []domain.AttendanceRecord, scores []domain.Score) studentMetrics {
	m := studentMetrics{
		attendance: make(map[uint][]domain.AttendanceRecord),
		scores:     make(map[uint][]domain.Score),
	}
	for _, r := range records {
		m.attendance[r.StudentID] = append(m.attendance[r.StudentID], r)
	}
	for _, s := range scores {
		m.scores[s.StudentID] = append(m.scores[s.StudentID], s)
	}
	return m
}

func (m studentMetrics) riskFor(studentID uint, t RiskThresholds) (*float64, *float64, []domain.RiskReason) {
	rate := summarizeAttendance(m.attendance[studentID]).Rate
	avg := averagePercentage(m.scores[studentID])
	return rate, avg, evaluateRisk(rate, avg, t)
}
