package domain

import (
	"context"
	"io"
	"time"
)

type ClassRepository interface {
	Create(ctx context.Context, class *Class) error
	GetByID(ctx context.Context, id uint) (*Class, error)
	GetByName(ctx context.Context, name string) (*Class, error)
	GetAll(ctx context.Context) ([]Class, error)
	GetAllWithCounts(ctx context.Context) ([]ClassWithCount, error)
	Update(ctx context.Context, class *Class) error
	Delete(ctx context.Context, id uint) error
}

type StudentRepository interface {
	Create(ctx context.Context, student *Student) error
	CreateBatch(ctx context.Context, students []Student) error
	GetByID(ctx context.Context, id uint) (*Student, error)
	GetByClassID(ctx context.Context, classID uint) ([]Student, error)
	GetAll(ctx context.Context) ([]Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

type AttendanceRepository interface {
	Upsert(ctx context.Context, records []AttendanceRecord) error
	GetByClassAndDate(ctx context.Context, classID uint, date time.Time) ([]AttendanceRecord, error)
	// GetRange returns records between from and to inclusive; classID 0 means every class.
	GetRange(ctx context.Context, classID uint, from, to time.Time) ([]AttendanceRecord, error)
	GetByStudentID(ctx context.Context, studentID uint) ([]AttendanceRecord, error)
	GetAll(ctx context.Context, classID uint) ([]AttendanceRecord, error)
	DeleteByClassAndDate(ctx context.Context, classID uint, date time.Time) (int64, error)
}

type ScoreRepository interface {
	CreateBatch(ctx context.Context, scores []Score) error
	GetByID(ctx context.Context, id uint) (*Score, error)
	// GetByClassID filters by category when it is not empty.
	GetByClassID(ctx context.Context, classID uint, category string) ([]Score, error)
	GetByStudentID(ctx context.Context, studentID uint) ([]Score, error)
	GetAll(ctx context.Context, classID uint) ([]Score, error)
	GetCategories(ctx context.Context, classID uint) ([]string, error)
	Update(ctx context.Context, score *Score) error
	Delete(ctx context.Context, id uint) error
}

type ImportReportRepository interface { // MongoDB
	Create(ctx context.Context, report *ImportReport) error
	GetByID(ctx context.Context, id string) (*ImportReport, error)
	GetByClassID(ctx context.Context, classID uint) ([]ImportReport, error)
}

type PhotoRepository interface { // GridFS
	Upload(ctx context.Context, studentID uint, filename string, content io.Reader) (*PhotoInfo, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *PhotoInfo, error)
	Delete(ctx context.Context, fileID string) error
}

type TokenBlacklist interface { // Redis
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// StudentUpdate carries the fields to change; nil fields are kept.
type StudentUpdate struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	ClassID  *uint   `json:"class_id"`
}

type AuthUsecase interface {
	Login(ctx context.Context, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) error
}

type ClassUsecase interface {
	CreateClass(ctx context.Context, name string) (*Class, error)
	ListClasses(ctx context.Context) ([]ClassWithCount, error)
	GetClass(ctx context.Context, id uint) (*Class, error)
	RenameClass(ctx context.Context, id uint, name string) (*Class, error)
	DeleteClass(ctx context.Context, id uint) error
}

type StudentUsecase interface {
	EnrollStudent(ctx context.Context, classID uint, fullName, email string) (*Student, error)
	ListStudents(ctx context.Context, classID uint) ([]Student, error)
	GetStudent(ctx context.Context, id uint) (*Student, error)
	UpdateStudent(ctx context.Context, id uint, update StudentUpdate) (*Student, error)
	DeleteStudent(ctx context.Context, id uint) error
	ImportStudents(ctx context.Context, classID uint, filename string, content io.Reader) (*ImportReport, error)
	GetImportReport(ctx context.Context, id string) (*ImportReport, error)
	ListImportReports(ctx context.Context, classID uint) ([]ImportReport, error)
	UploadPhoto(ctx context.Context, studentID uint, filename string, size int64, content io.Reader) (*PhotoInfo, error)
	GetPhoto(ctx context.Context, studentID uint) (io.ReadCloser, *PhotoInfo, error)
	DeletePhoto(ctx context.Context, studentID uint) error
}

type AttendanceUsecase interface {
	GetSheet(ctx context.Context, classID uint, date time.Time) (*AttendanceSheet, error)
	RecordAttendance(ctx context.Context, classID uint, date time.Time, entries []AttendanceEntry) error
	MarkAll(ctx context.Context, classID uint, date time.Time, status AttendanceStatus) (int, error)
	ListAttendance(ctx context.Context, classID uint, from, to time.Time) ([]AttendanceRecord, error)
	DeleteAttendance(ctx context.Context, classID uint, date time.Time) (int64, error)
	ExportCSV(ctx context.Context, classID uint, from, to time.Time, w io.Writer) error
}

type ScoreUsecase interface {
	RecordScores(ctx context.Context, classID uint, assessment Assessment) ([]Score, error)
	ListScores(ctx context.Context, classID uint, category string) ([]ScoreWithPercentage, error)
	ListCategories(ctx context.Context, classID uint) ([]string, error)
	UpdateScore(ctx context.Context, id uint, points, maxPoints float64) (*Score, error)
	DeleteScore(ctx context.Context, id uint) error
}

type DashboardUsecase interface {
	Overview(ctx context.Context) (*Overview, error)
	AttendanceTrend(ctx context.Context, classID uint, from, to time.Time) ([]TrendPoint, error)
	AtRiskStudents(ctx context.Context, classID uint) ([]AtRiskStudent, error)
	CategoryAverages(ctx context.Context, classID uint) ([]CategoryAverage, error)
	ClassSummaries(ctx context.Context) ([]ClassSummary, error)
	StudentProfile(ctx context.Context, studentID uint) (*StudentProfile, error)
}

type ReportUsecase interface {
	ReportCardPDF(ctx context.Context, studentID uint, w io.Writer) error
	SendAtRiskDigest(ctx context.Context) (int, error)
}
