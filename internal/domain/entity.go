package domain

import (
	"time"

	"gorm.io/datatypes"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the known statuses.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusExcused:
		return true
	}
	return false
}

// Attended is true for statuses that count toward the attendance rate.
func (s AttendanceStatus) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

const DateLayout = "2006-01-02"

type Class struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex:idx_classes_name_lower,expression:lower(name)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type Student struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FullName    string    `json:"full_name" gorm:"not null"`
	ClassID     uint      `json:"class_id" gorm:"not null;index"`
	Email       string    `json:"email,omitempty"`
	PhotoFileID string    `json:"photo_file_id,omitempty"` // GridFS ObjectID
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Class *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`
}

// AttendanceRecord - one status per student per calendar day
type AttendanceRecord struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	StudentID uint             `json:"student_id" gorm:"not null;uniqueIndex:idx_attendance_student_date"`
	ClassID   uint             `json:"class_id" gorm:"not null;index"`
	Date      datatypes.Date   `json:"date" gorm:"not null;uniqueIndex:idx_attendance_student_date;index"`
	Status    AttendanceStatus `json:"status" gorm:"type:varchar(10);not null"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time        `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

type Score struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StudentID uint           `json:"student_id" gorm:"not null;index"`
	ClassID   uint           `json:"class_id" gorm:"not null;index"`
	Category  string         `json:"category" gorm:"type:varchar(50);not null;index"`
	Title     string         `json:"title,omitempty"`
	Points    float64        `json:"points" gorm:"not null"`
	MaxPoints float64        `json:"max_points" gorm:"not null;default:100"`
	Date      datatypes.Date `json:"date" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`

	// Relations
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
}

// Percentage of max points, 0 when MaxPoints is not positive.
func (s Score) Percentage() float64 {
	if s.MaxPoints <= 0 {
		return 0
	}
	return s.Points / s.MaxPoints * 100
}

// ========== MONGODB MODELS ==========

type ImportRowError struct {
	Row     int    `json:"row" bson:"row"`
	Message string `json:"message" bson:"message"`
}

// ImportReport - result of a CSV roster import, kept in MongoDB
type ImportReport struct {
	ID        string           `json:"id" bson:"_id"`
	ClassID   uint             `json:"class_id" bson:"class_id"`
	Filename  string           `json:"filename" bson:"filename"`
	TotalRows int              `json:"total_rows" bson:"total_rows"`
	Imported  int              `json:"imported" bson:"imported"`
	Skipped   int              `json:"skipped" bson:"skipped"`
	Errors    []ImportRowError `json:"errors" bson:"errors"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
}

// PhotoInfo - metadata of a stored student photo
type PhotoInfo struct {
	ID          string    `json:"id"`
	StudentID   uint      `json:"student_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadDate  time.Time `json:"upload_date"`
}

// ========== RESPONSE DTOs ==========

type ClassWithCount struct {
	Class
	StudentCount int `json:"student_count"`
}

// SheetEntry - one roster line of the attendance sheet
type SheetEntry struct {
	StudentID uint             `json:"student_id"`
	FullName  string           `json:"full_name"`
	Status    AttendanceStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
	Saved     bool             `json:"saved"`
}

type AttendanceSheet struct {
	ClassID uint         `json:"class_id"`
	Date    string       `json:"date"`
	Entries []SheetEntry `json:"entries"`
}

type AttendanceEntry struct {
	StudentID uint             `json:"student_id" binding:"required"`
	Status    AttendanceStatus `json:"status" binding:"required"`
	Note      string           `json:"note"`
}

type ScoreEntry struct {
	StudentID uint    `json:"student_id" binding:"required"`
	Points    float64 `json:"points"`
}

// Assessment - one batch of scores entered together
type Assessment struct {
	Category  string       `json:"category" binding:"required"`
	Title     string       `json:"title"`
	Date      string       `json:"date"`
	MaxPoints float64      `json:"max_points"`
	Entries   []ScoreEntry `json:"entries" binding:"required,dive"`
}

type AttendanceSummary struct {
	Present int      `json:"present"`
	Absent  int      `json:"absent"`
	Late    int      `json:"late"`
	Excused int      `json:"excused"`
	Total   int      `json:"total"`
	Rate    *float64 `json:"rate"` // nil when no countable day exists
}

type TrendPoint struct {
	Date    string   `json:"date"`
	Present int      `json:"present"`
	Absent  int      `json:"absent"`
	Late    int      `json:"late"`
	Excused int      `json:"excused"`
	Rate    *float64 `json:"rate"`
}

type RiskReason string

const (
	RiskLowAttendance RiskReason = "low_attendance"
	RiskLowScore      RiskReason = "low_score"
)

type AtRiskStudent struct {
	StudentID      uint         `json:"student_id"`
	FullName       string       `json:"full_name"`
	ClassID        uint         `json:"class_id"`
	ClassName      string       `json:"class_name"`
	AttendanceRate *float64     `json:"attendance_rate"`
	AverageScore   *float64     `json:"average_score"`
	Reasons        []RiskReason `json:"reasons"`
}

type CategoryAverage struct {
	ClassID   uint    `json:"class_id"`
	ClassName string  `json:"class_name"`
	Category  string  `json:"category"`
	Average   float64 `json:"average"`
	Count     int     `json:"count"`
}

type ClassSummary struct {
	ClassID        uint     `json:"class_id"`
	ClassName      string   `json:"class_name"`
	Students       int      `json:"students"`
	AttendanceRate *float64 `json:"attendance_rate"`
	AverageScore   *float64 `json:"average_score"`
	AtRisk         int      `json:"at_risk"`
}

type Overview struct {
	TotalClasses        int      `json:"total_classes"`
	TotalStudents       int      `json:"total_students"`
	TodayAttendanceRate *float64 `json:"today_attendance_rate"`
	AverageScore        *float64 `json:"average_score"`
	AtRiskCount         int      `json:"at_risk_count"`
}

type ScoreWithPercentage struct {
	Score
	Percentage float64 `json:"percentage"`
}

// StudentProfile - everything the profile page shows for one student
type StudentProfile struct {
	Student          Student               `json:"student"`
	ClassName        string                `json:"class_name"`
	Attendance       AttendanceSummary     `json:"attendance"`
	RecentAttendance []AttendanceRecord    `json:"recent_attendance"`
	Scores           []ScoreWithPercentage `json:"scores"`
	CategoryAverages map[string]float64    `json:"category_averages"`
	OverallAverage   *float64              `json:"overall_average"`
	RiskReasons      []RiskReason          `json:"risk_reasons"`
	PhotoURL         string                `json:"photo_url,omitempty"`
}
