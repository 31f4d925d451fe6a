package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"classroom-backend/internal/domain"

	"github.com/disintegration/imaging"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	// photoMaxSide bounds both dimensions of a stored photo.
	photoMaxSide = 512
	photoQuality = 85
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type studentUsecase struct {
	studentRepo   domain.StudentRepository
	classRepo     domain.ClassRepository
	photoRepo     domain.PhotoRepository
	importRepo    domain.ImportReportRepository
	validate      *validator.Validate
	log           *zap.Logger
	maxPhotoBytes int64
}

func NewStudentUsecase(
	sr domain.StudentRepository,
	cr domain.ClassRepository,
	pr domain.PhotoRepository,
	ir domain.ImportReportRepository,
	log *zap.Logger,
	maxPhotoBytes int64,
) domain.StudentUsecase {
	return &studentUsecase{
		studentRepo:   sr,
		classRepo:     cr,
		photoRepo:     pr,
		importRepo:    ir,
		validate:      validator.New(),
		log:           log,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (uc *studentUsecase) checkEmail(email string) error {
	if email == "" {
		return nil
	}
	if err := uc.validate.Var(email, "email"); err != nil {
		return fmt.Errorf("invalid email %q: %w", email, domain.ErrInvalidInput)
	}
	return nil
}

// ========== STUDENT CRUD ==========

func (uc *studentUsecase) EnrollStudent(ctx context.Context, classID uint, fullName, email string) (*domain.Student, error) {
	fullName = normalizeName(fullName)
	email = strings.TrimSpace(email)
	if fullName == "" {
		return nil, fmt.Errorf("student name is required: %w", domain.ErrInvalidInput)
	}
	if err := uc.checkEmail(email); err != nil {
		return nil, err
	}
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}

	student := &domain.Student{
		FullName: fullName,
		ClassID:  classID,
		Email:    email,
	}
	if err := uc.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (uc *studentUsecase) ListStudents(ctx context.Context, classID uint) ([]domain.Student, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	return uc.studentRepo.GetByClassID(ctx, classID)
}

func (uc *studentUsecase) GetStudent(ctx context.Context, id uint) (*domain.Student, error) {
	return uc.studentRepo.GetByID(ctx, id)
}

func (uc *studentUsecase) UpdateStudent(ctx context.Context, id uint, update domain.StudentUpdate) (*domain.Student, error) {
	student, err := uc.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.FullName != nil {
		name := normalizeName(*update.FullName)
		if name == "" {
			return nil, fmt.Errorf("student name is required: %w", domain.ErrInvalidInput)
		}
		student.FullName = name
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if err := uc.checkEmail(email); err != nil {
			return nil, err
		}
		student.Email = email
	}
	if update.ClassID != nil && *update.ClassID != student.ClassID {
		class, err := uc.classRepo.GetByID(ctx, *update.ClassID)
		if err != nil {
			return nil, err
		}
		student.ClassID = class.ID
		student.Class = class
	}

	if err := uc.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

func (uc *studentUsecase) DeleteStudent(ctx context.Context, id uint) error {
	student, err := uc.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.studentRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.removePhoto(ctx, student.ID, student.PhotoFileID)
	return nil
}

// ========== PHOTOS ==========

func (uc *studentUsecase) UploadPhoto(ctx context.Context, studentID uint, filename string, size int64, content io.Reader) (*domain.PhotoInfo, error) {
	if uc.maxPhotoBytes > 0 && size > uc.maxPhotoBytes {
		return nil, fmt.Errorf("photo is larger than %dMB: %w", uc.maxPhotoBytes/(1024*1024), domain.ErrInvalidInput)
	}
	if !allowedPhotoExts[strings.ToLower(filepath.Ext(filename))] {
		return nil, fmt.Errorf("only JPEG, PNG and GIF photos are allowed: %w", domain.ErrInvalidInput)
	}

	student, err := uc.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	normalized, err := normalizePhoto(content)
	if err != nil {
		return nil, err
	}

	info, err := uc.photoRepo.Upload(ctx, studentID, "photo.jpg", normalized)
	if err != nil {
		return nil, err
	}

	previous := student.PhotoFileID
	student.PhotoFileID = info.ID
	if err := uc.studentRepo.Update(ctx, student); err != nil {
		uc.removePhoto(ctx, studentID, info.ID)
		return nil, err
	}
	uc.removePhoto(ctx, studentID, previous)
	return info, nil
}

// normalizePhoto decodes an image, fits it in photoMaxSide and re-encodes JPEG.
func normalizePhoto(content io.Reader) (*bytes.Buffer, error) {
	img, err := imaging.Decode(content, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("unreadable image: %w", domain.ErrInvalidInput)
	}
	img = imaging.Fit(img, photoMaxSide, photoMaxSide, imaging.Lanczos)

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(photoQuality)); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf, nil
}

func (uc *studentUsecase) GetPhoto(ctx context.Context, studentID uint) (io.ReadCloser, *domain.PhotoInfo, error) {
	student, err := uc.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, nil, err
	}
	if student.PhotoFileID == "" {
		return nil, nil, fmt.Errorf("photo: %w", domain.ErrNotFound)
	}
	return uc.photoRepo.Download(ctx, student.PhotoFileID)
}

func (uc *studentUsecase) DeletePhoto(ctx context.Context, studentID uint) error {
	student, err := uc.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return err
	}
	if student.PhotoFileID == "" {
		return fmt.Errorf("photo: %w", domain.ErrNotFound)
	}

	fileID := student.PhotoFileID
	student.PhotoFileID = ""
	if err := uc.studentRepo.Update(ctx, student); err != nil {
		return err
	}
	uc.removePhoto(ctx, studentID, fileID)
	return nil
}

// removePhoto deletes a stored file; failures are logged, not returned.
func (uc *studentUsecase) removePhoto(ctx context.Context, studentID uint, fileID string) {
	if fileID == "" {
		return
	}
	if err := uc.photoRepo.Delete(ctx, fileID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		uc.log.Warn("failed to delete student photo",
			zap.Uint("student_id", studentID), zap.String("file_id", fileID), zap.Error(err))
	}
}
