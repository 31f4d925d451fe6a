package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"classroom-backend/internal/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func notFound(what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return err
}

// conflict maps a unique-index violation onto ErrConflict.
func conflict(what string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, domain.ErrConflict)
	}
	return err
}

// ========== CLASS REPOSITORY ==========

type classRepo struct {
	db *gorm.DB
}

func NewClassRepository(db *gorm.DB) domain.ClassRepository {
	return &classRepo{db}
}

func (r *classRepo) Create(ctx context.Context, class *domain.Class) error {
	return conflict("class name", r.db.WithContext(ctx).Create(class).Error)
}

func (r *classRepo) GetByID(ctx context.Context, id uint) (*domain.Class, error) {
	var class domain.Class
	err := r.db.WithContext(ctx).First(&class, id).Error
	if err != nil {
		return nil, notFound("class", err)
	}
	return &class, nil
}

func (r *classRepo) GetByName(ctx context.Context, name string) (*domain.Class, error) {
	var class domain.Class
	err := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&class).Error
	if err != nil {
		return nil, notFound("class", err)
	}
	return &class, nil
}

func (r *classRepo) GetAll(ctx context.Context) ([]domain.Class, error) {
	var classes []domain.Class
	err := r.db.WithContext(ctx).Order("name ASC").Find(&classes).Error
	return classes, err
}

func (r *classRepo) GetAllWithCounts(ctx context.Context) ([]domain.ClassWithCount, error) {
	type row struct {
		domain.Class
		StudentCount int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("classes").
		Select("classes.*, COUNT(students.id) AS student_count").
		Joins("LEFT JOIN students ON students.class_id = classes.id").
		Group("classes.id").
		Order("classes.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.ClassWithCount, 0, len(rows))
	for _, r := range rows {
		result = append(result, domain.ClassWithCount{Class: r.Class, StudentCount: r.StudentCount})
	}
	return result, nil
}

func (r *classRepo) Update(ctx context.Context, class *domain.Class) error {
	return conflict("class name", r.db.WithContext(ctx).Save(class).Error)
}

// Delete removes the class together with its students, attendance and scores.
func (r *classRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", id).Delete(&domain.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&domain.Score{}).Error; err != nil {
			return err
		}
		if err := tx.Where("class_id = ?", id).Delete(&domain.Student{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Class{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("class: %w", domain.ErrNotFound)
		}
		return nil
	})
}

// ========== STUDENT REPOSITORY ==========

type studentRepo struct {
	db *gorm.DB
}

func NewStudentRepository(db *gorm.DB) domain.StudentRepository {
	return &studentRepo{db}
}

func (r *studentRepo) Create(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) CreateBatch(ctx context.Context, students []domain.Student) error {
	if len(students) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(students, 100).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id uint) (*domain.Student, error) {
	var student domain.Student
	err := r.db.WithContext(ctx).Preload("Class").First(&student, id).Error
	if err != nil {
		return nil, notFound("student", err)
	}
	return &student, nil
}

func (r *studentRepo) GetByClassID(ctx context.Context, classID uint) ([]domain.Student, error) {
	var students []domain.Student
	err := r.db.WithContext(ctx).Where("class_id = ?", classID).Order("full_name ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) GetAll(ctx context.Context) ([]domain.Student, error) {
	var students []domain.Student
	err := r.db.WithContext(ctx).Preload("Class").Order("class_id ASC, full_name ASC").Find(&students).Error
	return students, err
}

// Update saves the student; attendance and scores move along when the class changes.
func (r *studentRepo) Update(ctx context.Context, student *domain.Student) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Class").Save(student).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.AttendanceRecord{}).
			Where("student_id = ? AND class_id <> ?", student.ID, student.ClassID).
			Update("class_id", student.ClassID).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Score{}).
			Where("student_id = ? AND class_id <> ?", student.ID, student.ClassID).
			Update("class_id", student.ClassID).Error
	})
}

// Delete removes the student with its attendance and scores.
func (r *studentRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&domain.AttendanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", id).Delete(&domain.Score{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Student{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("student: %w", domain.ErrNotFound)
		}
		return nil
	})
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Student{}).Count(&count).Error
	return count, err
}

// ========== ATTENDANCE REPOSITORY ==========

type attendanceRepo struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) domain.AttendanceRepository {
	return &attendanceRepo{db}
}

// Upsert inserts records or overwrites status/note/class on (student_id, date).
func (r *attendanceRepo) Upsert(ctx context.Context, records []domain.AttendanceRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "note", "class_id", "updated_at"}),
		}).
		Create(&records).Error
}

func (r *attendanceRepo) GetByClassAndDate(ctx context.Context, classID uint, date time.Time) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND date = ?", classID, datatypes.Date(date)).
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) GetRange(ctx context.Context, classID uint, from, to time.Time) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	query := r.db.WithContext(ctx).
		Joins("Student").
		Where("attendance_records.date BETWEEN ? AND ?", datatypes.Date(from), datatypes.Date(to))
	if classID != 0 {
		query = query.Where("attendance_records.class_id = ?", classID)
	}
	err := query.Order("attendance_records.date ASC, \"Student\".\"full_name\" ASC").Find(&records).Error
	return records, err
}

func (r *attendanceRepo) GetByStudentID(ctx context.Context, studentID uint) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("date DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) GetAll(ctx context.Context, classID uint) ([]domain.AttendanceRecord, error) {
	var records []domain.AttendanceRecord
	query := r.db.WithContext(ctx)
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	err := query.Order("date ASC").Find(&records).Error
	return records, err
}

func (r *attendanceRepo) DeleteByClassAndDate(ctx context.Context, classID uint, date time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("class_id = ? AND date = ?", classID, datatypes.Date(date)).
		Delete(&domain.AttendanceRecord{})
	return res.RowsAffected, res.Error
}

// ========== SCORE REPOSITORY ==========

type scoreRepo struct {
	db *gorm.DB
}

func NewScoreRepository(db *gorm.DB) domain.ScoreRepository {
	return &scoreRepo{db}
}

func (r *scoreRepo) CreateBatch(ctx context.Context, scores []domain.Score) error {
	if len(scores) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit("Student").Create(&scores).Error
}

func (r *scoreRepo) GetByID(ctx context.Context, id uint) (*domain.Score, error) {
	var score domain.Score
	err := r.db.WithContext(ctx).First(&score, id).Error
	if err != nil {
		return nil, notFound("score", err)
	}
	return &score, nil
}

func (r *scoreRepo) GetByClassID(ctx context.Context, classID uint, category string) ([]domain.Score, error) {
	var scores []domain.Score
	query := r.db.WithContext(ctx).Preload("Student").Where("class_id = ?", classID)
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}
	err := query.Order("date DESC, id ASC").Find(&scores).Error
	return scores, err
}

func (r *scoreRepo) GetByStudentID(ctx context.Context, studentID uint) ([]domain.Score, error) {
	var scores []domain.Score
	err := r.db.WithContext(ctx).Where("student_id = ?", studentID).Order("date DESC").Find(&scores).Error
	return scores, err
}

func (r *scoreRepo) GetAll(ctx context.Context, classID uint) ([]domain.Score, error) {
	var scores []domain.Score
	query := r.db.WithContext(ctx)
	if classID != 0 {
		query = query.Where("class_id = ?", classID)
	}
	err := query.Order("date ASC").Find(&scores).Error
	return scores, err
}

func (r *scoreRepo) GetCategories(ctx context.Context, classID uint) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&domain.Score{}).
		Where("class_id = ?", classID).
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *scoreRepo) Update(ctx context.Context, score *domain.Score) error {
	return r.db.WithContext(ctx).Omit("Student").Save(score).Error
}

func (r *scoreRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Score{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("score: %w", domain.ErrNotFound)
	}
	return nil
}
