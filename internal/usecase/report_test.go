package usecase

import (
	"bytes"
	"context"
	"testing"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type MockDashboardUsecase struct {
	mock.Mock
}

func (m *MockDashboardUsecase) Overview(ctx context.Context) (*domain.Overview, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(*domain.Overview), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDashboardUsecase) AttendanceTrend(ctx context.Context, classID uint, from, to time.Time) ([]domain.TrendPoint, error) {
	args := m.Called(ctx, classID, from, to)
	return args.Get(0).([]domain.TrendPoint), args.Error(1)
}

func (m *MockDashboardUsecase) AtRiskStudents(ctx context.Context, classID uint) ([]domain.AtRiskStudent, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.AtRiskStudent), args.Error(1)
}

func (m *MockDashboardUsecase) CategoryAverages(ctx context.Context, classID uint) ([]domain.CategoryAverage, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.CategoryAverage), args.Error(1)
}

func (m *MockDashboardUsecase) ClassSummaries(ctx context.Context) ([]domain.ClassSummary, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ClassSummary), args.Error(1)
}

func (m *MockDashboardUsecase) StudentProfile(ctx context.Context, studentID uint) (*domain.StudentProfile, error) {
	args := m.Called(ctx, studentID)
	if v := args.Get(0); v != nil {
		return v.(*domain.StudentProfile), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReportUsecase_ReportCardPDF(t *testing.T) {
	dash := new(MockDashboardUsecase)
	rate, avg := 87.5, 55.0
	dash.On("StudentProfile", mock.Anything, uint(1)).Return(&domain.StudentProfile{
		Student:   domain.Student{ID: 1, FullName: "José Núñez", Email: "jose@example.com"},
		ClassName: "Math",
		Attendance: domain.AttendanceSummary{
			Present: 6, Late: 1, Absent: 1, Total: 8, Rate: &rate,
		},
		Scores: []domain.ScoreWithPercentage{
			{Score: domain.Score{Category: "Quiz", Title: "Fractions", Points: 11, MaxPoints: 20, Date: datatypes.Date(march1)}, Percentage: 55},
		},
		CategoryAverages: map[string]float64{"Quiz": 55},
		OverallAverage:   &avg,
		RiskReasons:      []domain.RiskReason{domain.RiskLowScore},
	}, nil).Once()

	uc := NewReportUsecase(dash, notify.NewConsoleMailer("school@example.com", "Classroom", zap.NewNop()), "", zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, uc.ReportCardPDF(context.Background(), 1, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestReportUsecase_ReportCardUnknownStudent(t *testing.T) {
	dash := new(MockDashboardUsecase)
	dash.On("StudentProfile", mock.Anything, uint(9)).Return(nil, domain.ErrNotFound).Once()
	uc := NewReportUsecase(dash, notify.NewConsoleMailer("", "Classroom", zap.NewNop()), "", zap.NewNop())

	var buf bytes.Buffer
	err := uc.ReportCardPDF(context.Background(), 9, &buf)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, buf.Len())
}

func TestReportUsecase_SendAtRiskDigest(t *testing.T) {
	ctx := context.Background()

	t.Run("mails the list", func(t *testing.T) {
		dash := new(MockDashboardUsecase)
		rate := 50.0
		dash.On("AtRiskStudents", mock.Anything, uint(0)).Return([]domain.AtRiskStudent{
			{StudentID: 3, FullName: "Cleo <Park>", ClassName: "Art", AttendanceRate: &rate, Reasons: []domain.RiskReason{domain.RiskLowAttendance}},
		}, nil).Once()
		mailer := notify.NewConsoleMailer("school@example.com", "Classroom", zap.NewNop())
		uc := NewReportUsecase(dash, mailer, " head@example.com ", zap.NewNop())

		count, err := uc.SendAtRiskDigest(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		require.Len(t, mailer.Sent, 1)
		msg := mailer.Sent[0]
		assert.Equal(t, "head@example.com", msg.To)
		assert.Equal(t, "At-risk students (1)", msg.Subject)
		assert.Contains(t, msg.TextContent, "Cleo <Park> (Art): attendance 50.0%, average n/a [low attendance]")
		assert.Contains(t, msg.HTMLContent, "Cleo &lt;Park&gt;")
	})

	t.Run("nobody at risk still sends", func(t *testing.T) {
		dash := new(MockDashboardUsecase)
		dash.On("AtRiskStudents", mock.Anything, uint(0)).Return([]domain.AtRiskStudent{}, nil).Once()
		mailer := notify.NewConsoleMailer("", "Classroom", zap.NewNop())
		uc := NewReportUsecase(dash, mailer, "head@example.com", zap.NewNop())

		count, err := uc.SendAtRiskDigest(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
		require.Len(t, mailer.Sent, 1)
		assert.Contains(t, mailer.Sent[0].TextContent, "No students are currently at risk.")
	})

	t.Run("no recipient", func(t *testing.T) {
		dash := new(MockDashboardUsecase)
		mailer := notify.NewConsoleMailer("", "Classroom", zap.NewNop())
		uc := NewReportUsecase(dash, mailer, "  ", zap.NewNop())

		_, err := uc.SendAtRiskDigest(ctx)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, mailer.Sent)
		dash.AssertNotCalled(t, "AtRiskStudents", mock.Anything, mock.Anything)
	})
}

func TestReportUsecase_ReportCardAccentedCategory(t *testing.T) {
	dash := new(MockDashboardUsecase)
	avg := 90.0
	dash.On("StudentProfile", mock.Anything, uint(2)).Return(&domain.StudentProfile{
		Student:   domain.Student{ID: 2, FullName: "Zoë Brandt"},
		ClassName: "Économie",
		Scores: []domain.ScoreWithPercentage{
			{Score: domain.Score{Category: "Économie", Title: "Marché", Points: 9, MaxPoints: 10, Date: datatypes.Date(march1)}, Percentage: 90},
		},
		CategoryAverages: map[string]float64{"Économie": 90},
		OverallAverage:   &avg,
	}, nil).Once()

	uc := NewReportUsecase(dash, notify.NewConsoleMailer("", "Classroom", zap.NewNop()), "", zap.NewNop())

	var buf bytes.Buffer
	require.NoError(t, uc.ReportCardPDF(context.Background(), 2, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
	dash.AssertExpectations(t)
}
