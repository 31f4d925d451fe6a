package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"classroom-backend/internal/domain"
	"classroom-backend/pkg/utils"

	"gorm.io/datatypes"
)

const defaultMaxPoints = 100

type scoreUsecase struct {
	scoreRepo   domain.ScoreRepository
	studentRepo domain.StudentRepository
	classRepo   domain.ClassRepository
}

func NewScoreUsecase(
	scr domain.ScoreRepository,
	sr domain.StudentRepository,
	cr domain.ClassRepository,
) domain.ScoreUsecase {
	return &scoreUsecase{
		scoreRepo:   scr,
		studentRepo: sr,
		classRepo:   cr,
	}
}

func checkPoints(points, maxPoints float64) error {
	if maxPoints <= 0 {
		return fmt.Errorf("max points must be positive: %w", domain.ErrInvalidInput)
	}
	if points < 0 || points > maxPoints {
		return fmt.Errorf("points %.2f outside 0..%.2f: %w", points, maxPoints, domain.ErrInvalidInput)
	}
	return nil
}

// canonicalCategory reuses the spelling of an existing category that differs only by case.
func canonicalCategory(category string, existing []string) string {
	category = normalizeName(category)
	for _, e := range existing {
		if strings.EqualFold(e, category) {
			return e
		}
	}
	return category
}

func (uc *scoreUsecase) RecordScores(ctx context.Context, classID uint, a domain.Assessment) ([]domain.Score, error) {
	if normalizeName(a.Category) == "" {
		return nil, fmt.Errorf("category is required: %w", domain.ErrInvalidInput)
	}
	if len(a.Entries) == 0 {
		return nil, fmt.Errorf("no score entries: %w", domain.ErrInvalidInput)
	}
	maxPoints := a.MaxPoints
	if maxPoints == 0 {
		maxPoints = defaultMaxPoints
	}
	date, err := utils.ParseDate(a.Date, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}

	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	students, err := uc.studentRepo.GetByClassID(ctx, classID)
	if err != nil {
		return nil, err
	}
	inClass := make(map[uint]bool, len(students))
	for _, s := range students {
		inClass[s.ID] = true
	}
	existing, err := uc.scoreRepo.GetCategories(ctx, classID)
	if err != nil {
		return nil, err
	}
	category := canonicalCategory(a.Category, existing)

	scores := make([]domain.Score, 0, len(a.Entries))
	for _, e := range a.Entries {
		if !inClass[e.StudentID] {
			return nil, fmt.Errorf("student %d is not in class %d: %w", e.StudentID, classID, domain.ErrInvalidInput)
		}
		if err := checkPoints(e.Points, maxPoints); err != nil {
			return nil, fmt.Errorf("student %d: %w", e.StudentID, err)
		}
		scores = append(scores, domain.Score{
			StudentID: e.StudentID,
			ClassID:   classID,
			Category:  category,
			Title:     strings.TrimSpace(a.Title),
			Points:    e.Points,
			MaxPoints: maxPoints,
			Date:      datatypes.Date(date),
		})
	}

	if err := uc.scoreRepo.CreateBatch(ctx, scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func withPercentage(scores []domain.Score) []domain.ScoreWithPercentage {
	out := make([]domain.ScoreWithPercentage, 0, len(scores))
	for _, s := range scores {
		out = append(out, domain.ScoreWithPercentage{Score: s, Percentage: utils.Round1(s.Percentage())})
	}
	return out
}

func (uc *scoreUsecase) ListScores(ctx context.Context, classID uint, category string) ([]domain.ScoreWithPercentage, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	scores, err := uc.scoreRepo.GetByClassID(ctx, classID, normalizeName(category))
	if err != nil {
		return nil, err
	}
	return withPercentage(scores), nil
}

func (uc *scoreUsecase) ListCategories(ctx context.Context, classID uint) ([]string, error) {
	if _, err := uc.classRepo.GetByID(ctx, classID); err != nil {
		return nil, err
	}
	categories, err := uc.scoreRepo.GetCategories(ctx, classID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// UpdateScore changes points; a zero maxPoints keeps the stored maximum.
func (uc *scoreUsecase) UpdateScore(ctx context.Context, id uint, points, maxPoints float64) (*domain.Score, error) {
	score, err := uc.scoreRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if maxPoints == 0 {
		maxPoints = score.MaxPoints
	}
	if err := checkPoints(points, maxPoints); err != nil {
		return nil, err
	}

	score.Points = points
	score.MaxPoints = maxPoints
	if err := uc.scoreRepo.Update(ctx, score); err != nil {
		return nil, err
	}
	return score, nil
}

func (uc *scoreUsecase) DeleteScore(ctx context.Context, id uint) error {
	return uc.scoreRepo.Delete(ctx, id)
}
