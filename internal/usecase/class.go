package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"classroom-backend/internal/domain"

	"go.uber.org/zap"
)

type classUsecase struct {
	classRepo   domain.ClassRepository
	studentRepo domain.StudentRepository
	photoRepo   domain.PhotoRepository
	log         *zap.Logger
}

func NewClassUsecase(
	cr domain.ClassRepository,
	sr domain.StudentRepository,
	pr domain.PhotoRepository,
	log *zap.Logger,
) domain.ClassUsecase {
	return &classUsecase{
		classRepo:   cr,
		studentRepo: sr,
		photoRepo:   pr,
		log:         log,
	}
}

func normalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ensureUniqueName fails with ErrConflict when another class already uses name.
func (uc *classUsecase) ensureUniqueName(ctx context.Context, name string, selfID uint) error {
	existing, err := uc.classRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("class %q: %w", name, domain.ErrConflict)
	}
	return nil
}

func (uc *classUsecase) CreateClass(ctx context.Context, name string) (*domain.Class, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("class name is required: %w", domain.ErrInvalidInput)
	}
	if err := uc.ensureUniqueName(ctx, name, 0); err != nil {
		return nil, err
	}

	class := &domain.Class{Name: name}
	if err := uc.classRepo.Create(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

func (uc *classUsecase) ListClasses(ctx context.Context) ([]domain.ClassWithCount, error) {
	return uc.classRepo.GetAllWithCounts(ctx)
}

func (uc *classUsecase) GetClass(ctx context.Context, id uint) (*domain.Class, error) {
	return uc.classRepo.GetByID(ctx, id)
}

func (uc *classUsecase) RenameClass(ctx context.Context, id uint, name string) (*domain.Class, error) {
	name = normalizeName(name)
	if name == "" {
		return nil, fmt.Errorf("class name is required: %w", domain.ErrInvalidInput)
	}
	class, err := uc.classRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueName(ctx, name, id); err != nil {
		return nil, err
	}

	class.Name = name
	if err := uc.classRepo.Update(ctx, class); err != nil {
		return nil, err
	}
	return class, nil
}

// DeleteClass removes the class and everything recorded for its students.
func (uc *classUsecase) DeleteClass(ctx context.Context, id uint) error {
	students, err := uc.studentRepo.GetByClassID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.classRepo.Delete(ctx, id); err != nil {
		return err
	}
	for _, s := range students {
		if s.PhotoFileID == "" {
			continue
		}
		if err := uc.photoRepo.Delete(ctx, s.PhotoFileID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			uc.log.Warn("failed to delete student photo",
				zap.Uint("student_id", s.ID), zap.String("file_id", s.PhotoFileID), zap.Error(err))
		}
	}
	return nil
}
