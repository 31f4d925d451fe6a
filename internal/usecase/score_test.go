package usecase

import (
	"context"
	"testing"
	"time"

	"classroom-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type scoreMocks struct {
	scores   *MockScoreRepository
	students *MockStudentRepository
	classes  *MockClassRepository
}

func newTestScoreUsecase() (domain.ScoreUsecase, scoreMocks) {
	m := scoreMocks{
		scores:   new(MockScoreRepository),
		students: new(MockStudentRepository),
		classes:  new(MockClassRepository),
	}
	m.classes.On("GetByID", mock.Anything, uint(1)).Return(&domain.Class{ID: 1, Name: "Math"}, nil)
	m.students.On("GetByClassID", mock.Anything, uint(1)).Return(testRoster, nil)
	return NewScoreUsecase(m.scores, m.students, m.classes), m
}

func TestScoreUsecase_RecordScores(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses existing category spelling and defaults max points", func(t *testing.T) {
		uc, m := newTestScoreUsecase()
		m.scores.On("GetCategories", mock.Anything, uint(1)).Return([]string{"Quiz", "Final"}, nil).Once()
		m.scores.On("CreateBatch", mock.Anything, []domain.Score{
			{StudentID: 1, ClassID: 1, Category: "Quiz", Title: "Fractions", Points: 80, MaxPoints: 100, Date: datatypes.Date(march1)},
			{StudentID: 2, ClassID: 1, Category: "Quiz", Title: "Fractions", Points: 45.5, MaxPoints: 100, Date: datatypes.Date(march1)},
		}).Return(nil).Once()

		scores, err := uc.RecordScores(ctx, 1, domain.Assessment{
			Category: "  quiz ",
			Title:    "Fractions",
			Date:     "2024-03-01",
			Entries: []domain.ScoreEntry{
				{StudentID: 1, Points: 80},
				{StudentID: 2, Points: 45.5},
			},
		})
		require.NoError(t, err)
		assert.Len(t, scores, 2)
		m.scores.AssertExpectations(t)
	})

	tests := []struct {
		name       string
		assessment domain.Assessment
	}{
		{"blank category", domain.Assessment{Category: " ", Entries: []domain.ScoreEntry{{StudentID: 1, Points: 1}}}},
		{"no entries", domain.Assessment{Category: "Quiz"}},
		{"negative max", domain.Assessment{Category: "Quiz", MaxPoints: -5, Entries: []domain.ScoreEntry{{StudentID: 1, Points: 1}}}},
		{"points above max", domain.Assessment{Category: "Quiz", MaxPoints: 20, Entries: []domain.ScoreEntry{{StudentID: 1, Points: 21}}}},
		{"negative points", domain.Assessment{Category: "Quiz", Entries: []domain.ScoreEntry{{StudentID: 1, Points: -1}}}},
		{"student from another class", domain.Assessment{Category: "Quiz", Entries: []domain.ScoreEntry{{StudentID: 42, Points: 1}}}},
		{"bad date", domain.Assessment{Category: "Quiz", Date: "03/01/2024", Entries: []domain.ScoreEntry{{StudentID: 1, Points: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, m := newTestScoreUsecase()
			m.scores.On("GetCategories", mock.Anything, uint(1)).Return([]string{}, nil).Maybe()

			_, err := uc.RecordScores(ctx, 1, tt.assessment)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			m.scores.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
		})
	}
}

func TestScoreUsecase_ListScoresAddsPercentage(t *testing.T) {
	uc, m := newTestScoreUsecase()
	m.scores.On("GetByClassID", mock.Anything, uint(1), "Quiz").Return([]domain.Score{
		{ID: 1, Points: 2, MaxPoints: 3},
		{ID: 2, Points: 20, MaxPoints: 20},
	}, nil).Once()

	scores, err := uc.ListScores(context.Background(), 1, " Quiz ")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, 66.7, scores[0].Percentage)
	assert.Equal(t, 100.0, scores[1].Percentage)
}

func TestScoreUsecase_ListCategoriesNeverNil(t *testing.T) {
	uc, m := newTestScoreUsecase()
	m.scores.On("GetCategories", mock.Anything, uint(1)).Return([]string(nil), nil).Once()

	categories, err := uc.ListCategories(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestScoreUsecase_UpdateScore(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps stored max when none given", func(t *testing.T) {
		uc, m := newTestScoreUsecase()
		m.scores.On("GetByID", mock.Anything, uint(7)).Return(&domain.Score{ID: 7, Points: 5, MaxPoints: 10, Date: datatypes.Date(time.Now())}, nil).Once()
		m.scores.On("Update", mock.Anything, mock.MatchedBy(func(s *domain.Score) bool {
			return s.Points == 9 && s.MaxPoints == 10
		})).Return(nil).Once()

		score, err := uc.UpdateScore(ctx, 7, 9, 0)
		require.NoError(t, err)
		assert.Equal(t, 9.0, score.Points)
	})

	t.Run("points above stored max", func(t *testing.T) {
		uc, m := newTestScoreUsecase()
		m.scores.On("GetByID", mock.Anything, uint(7)).Return(&domain.Score{ID: 7, Points: 5, MaxPoints: 10}, nil).Once()

		_, err := uc.UpdateScore(ctx, 7, 11, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		m.scores.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unknown score", func(t *testing.T) {
		uc, m := newTestScoreUsecase()
		m.scores.On("GetByID", mock.Anything, uint(8)).Return(nil, domain.ErrNotFound).Once()

		_, err := uc.UpdateScore(ctx, 8, 1, 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
