package repository

import (
	"context"
	"errors"
	"fmt"

	"classroom-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const importReportCollection = "import_reports"

type importReportRepo struct {
	db *mongo.Database
}

func NewImportReportRepository(db *mongo.Database) domain.ImportReportRepository {
	return &importReportRepo{db}
}

func (r *importReportRepo) Create(ctx context.Context, report *domain.ImportReport) error {
	_, err := r.db.Collection(importReportCollection).InsertOne(ctx, report)
	return err
}

func (r *importReportRepo) GetByID(ctx context.Context, id string) (*domain.ImportReport, error) {
	var report domain.ImportReport
	err := r.db.Collection(importReportCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("import report: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return &report, nil
}

func (r *importReportRepo) GetByClassID(ctx context.Context, classID uint) ([]domain.ImportReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(50)
	cursor, err := r.db.Collection(importReportCollection).Find(ctx, bson.M{"class_id": classID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reports := []domain.ImportReport{}
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	return reports, nil
}
