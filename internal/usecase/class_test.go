package usecase

import (
	"context"
	"errors"
	"testing"

	"classroom-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClassUsecase() (domain.ClassUsecase, *MockClassRepository, *MockStudentRepository, *MockPhotoRepository) {
	cr := new(MockClassRepository)
	sr := new(MockStudentRepository)
	pr := new(MockPhotoRepository)
	return NewClassUsecase(cr, sr, pr, zap.NewNop()), cr, sr, pr
}

func TestClassUsecase_CreateClass(t *testing.T) {
	ctx := context.Background()

	t.Run("trims and collapses the name", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()
		cr.On("GetByName", mock.Anything, "Grade 5 A").Return(nil, domain.ErrNotFound).Once()
		cr.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Class) bool {
			return c.Name == "Grade 5 A"
		})).Return(nil).Once()

		class, err := uc.CreateClass(ctx, "  Grade   5 A ")
		require.NoError(t, err)
		assert.Equal(t, "Grade 5 A", class.Name)
		cr.AssertExpectations(t)
	})

	t.Run("empty name", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()

		_, err := uc.CreateClass(ctx, "   ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate name", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()
		cr.On("GetByName", mock.Anything, "Math").Return(&domain.Class{ID: 3, Name: "math"}, nil).Once()

		_, err := uc.CreateClass(ctx, "Math")
		assert.ErrorIs(t, err, domain.ErrConflict)
		cr.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestClassUsecase_RenameClass(t *testing.T) {
	ctx := context.Background()

	t.Run("renaming to its own name in another case is allowed", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()
		cr.On("GetByID", mock.Anything, uint(1)).Return(&domain.Class{ID: 1, Name: "math"}, nil).Once()
		cr.On("GetByName", mock.Anything, "Math").Return(&domain.Class{ID: 1, Name: "math"}, nil).Once()
		cr.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		class, err := uc.RenameClass(ctx, 1, "Math")
		require.NoError(t, err)
		assert.Equal(t, "Math", class.Name)
	})

	t.Run("name taken by another class", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()
		cr.On("GetByID", mock.Anything, uint(1)).Return(&domain.Class{ID: 1, Name: "Math"}, nil).Once()
		cr.On("GetByName", mock.Anything, "Science").Return(&domain.Class{ID: 2, Name: "Science"}, nil).Once()

		_, err := uc.RenameClass(ctx, 1, "Science")
		assert.ErrorIs(t, err, domain.ErrConflict)
		cr.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown class", func(t *testing.T) {
		uc, cr, _, _ := newTestClassUsecase()
		cr.On("GetByID", mock.Anything, uint(9)).Return(nil, domain.ErrNotFound).Once()

		_, err := uc.RenameClass(ctx, 9, "Science")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestClassUsecase_DeleteClassRemovesPhotos(t *testing.T) {
	ctx := context.Background()
	uc, cr, sr, pr := newTestClassUsecase()

	sr.On("GetByClassID", mock.Anything, uint(1)).Return([]domain.Student{
		{ID: 1, ClassID: 1, PhotoFileID: "photo-a"},
		{ID: 2, ClassID: 1},
		{ID: 3, ClassID: 1, PhotoFileID: "photo-b"},
	}, nil).Once()
	cr.On("Delete", mock.Anything, uint(1)).Return(nil).Once()
	pr.On("Delete", mock.Anything, "photo-a").Return(nil).Once()
	pr.On("Delete", mock.Anything, "photo-b").Return(errors.New("gridfs down")).Once()

	require.NoError(t, uc.DeleteClass(ctx, 1))
	cr.AssertExpectations(t)
	pr.AssertExpectations(t)
}

func TestClassUsecase_DeleteUnknownClass(t *testing.T) {
	uc, cr, sr, pr := newTestClassUsecase()
	sr.On("GetByClassID", mock.Anything, uint(4)).Return([]domain.Student{}, nil).Once()
	cr.On("Delete", mock.Anything, uint(4)).Return(domain.ErrNotFound).Once()

	err := uc.DeleteClass(context.Background(), 4)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	pr.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
