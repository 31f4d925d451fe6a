package usecase

import (
	"context"
	"io"
	"time"

	"classroom-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) Create(ctx context.Context, class *domain.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) GetByID(ctx context.Context, id uint) (*domain.Class, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Class), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClassRepository) GetByName(ctx context.Context, name string) (*domain.Class, error) {
	args := m.Called(ctx, name)
	if v := args.Get(0); v != nil {
		return v.(*domain.Class), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClassRepository) GetAll(ctx context.Context) ([]domain.Class, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Class), args.Error(1)
}

func (m *MockClassRepository) GetAllWithCounts(ctx context.Context) ([]domain.ClassWithCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.ClassWithCount), args.Error(1)
}

func (m *MockClassRepository) Update(ctx context.Context, class *domain.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
}

func (m *MockClassRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) CreateBatch(ctx context.Context, students []domain.Student) error {
	args := m.Called(ctx, students)
	return args.Error(0)
}

func (m *MockStudentRepository) GetByID(ctx context.Context, id uint) (*domain.Student, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Student), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStudentRepository) GetByClassID(ctx context.Context, classID uint) ([]domain.Student, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) GetAll(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentRepository) Update(ctx context.Context, student *domain.Student) error {
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStudentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Upsert(ctx context.Context, records []domain.AttendanceRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockAttendanceRepository) GetByClassAndDate(ctx context.Context, classID uint, date time.Time) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, classID, date)
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) GetRange(ctx context.Context, classID uint, from, to time.Time) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, classID, from, to)
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) GetByStudentID(ctx context.Context, studentID uint) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) GetAll(ctx context.Context, classID uint) ([]domain.AttendanceRecord, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.AttendanceRecord), args.Error(1)
}

func (m *MockAttendanceRepository) DeleteByClassAndDate(ctx context.Context, classID uint, date time.Time) (int64, error) {
	args := m.Called(ctx, classID, date)
	return args.Get(0).(int64), args.Error(1)
}

type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) CreateBatch(ctx context.Context, scores []domain.Score) error {
	args := m.Called(ctx, scores)
	return args.Error(0)
}

func (m *MockScoreRepository) GetByID(ctx context.Context, id uint) (*domain.Score, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Score), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockScoreRepository) GetByClassID(ctx context.Context, classID uint, category string) ([]domain.Score, error) {
	args := m.Called(ctx, classID, category)
	return args.Get(0).([]domain.Score), args.Error(1)
}

func (m *MockScoreRepository) GetByStudentID(ctx context.Context, studentID uint) ([]domain.Score, error) {
	args := m.Called(ctx, studentID)
	return args.Get(0).([]domain.Score), args.Error(1)
}

func (m *MockScoreRepository) GetAll(ctx context.Context, classID uint) ([]domain.Score, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.Score), args.Error(1)
}

func (m *MockScoreRepository) GetCategories(ctx context.Context, classID uint) ([]string, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockScoreRepository) Update(ctx context.Context, score *domain.Score) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockImportReportRepository struct {
	mock.Mock
}

func (m *MockImportReportRepository) Create(ctx context.Context, report *domain.ImportReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockImportReportRepository) GetByID(ctx context.Context, id string) (*domain.ImportReport, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.ImportReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImportReportRepository) GetByClassID(ctx context.Context, classID uint) ([]domain.ImportReport, error) {
	args := m.Called(ctx, classID)
	return args.Get(0).([]domain.ImportReport), args.Error(1)
}

type MockPhotoRepository struct {
	mock.Mock
}

func (m *MockPhotoRepository) Upload(ctx context.Context, studentID uint, filename string, content io.Reader) (*domain.PhotoInfo, error) {
	args := m.Called(ctx, studentID, filename, content)
	if v := args.Get(0); v != nil {
		return v.(*domain.PhotoInfo), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPhotoRepository) Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.PhotoInfo, error) {
	args := m.Called(ctx, fileID)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	var info *domain.PhotoInfo
	if v := args.Get(1); v != nil {
		info = v.(*domain.PhotoInfo)
	}
	return rc, info, args.Error(2)
}

func (m *MockPhotoRepository) Delete(ctx context.Context, fileID string) error {
	args := m.Called(ctx, fileID)
	return args.Error(0)
}

type MockTokenBlacklist struct {
	mock.Mock
}

func (m *MockTokenBlacklist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	args := m.Called(ctx, tokenID, expiresAt)
	return args.Error(0)
}

func (m *MockTokenBlacklist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
