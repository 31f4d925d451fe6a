package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"classroom-backend/internal/domain"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const photoBucket = "photos"

type gridFSRepo struct {
	db     *mongo.Database
	bucket *gridfs.Bucket
}

// NewPhotoRepository stores student photos in the "photos" GridFS bucket.
func NewPhotoRepository(db *mongo.Database) (domain.PhotoRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(photoBucket))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &gridFSRepo{db: db, bucket: bucket}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func (r *gridFSRepo) Upload(ctx context.Context, studentID uint, filename string, content io.Reader) (*domain.PhotoInfo, error) {
	contentType := detectContentType(filename)
	uniqueFilename := fmt.Sprintf("student-%d-%s%s", studentID, uuid.NewString(), strings.ToLower(filepath.Ext(filename)))

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"student_id":   studentID,
		"content_type": contentType,
	})

	if deadline, ok := ctx.Deadline(); ok {
		if err := r.bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}

	counter := &countingReader{r: content}
	objectID, err := r.bucket.UploadFromStream(uniqueFilename, counter, uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("upload photo: %w", err)
	}

	return &domain.PhotoInfo{
		ID:          objectID.Hex(),
		StudentID:   studentID,
		Filename:    uniqueFilename,
		ContentType: contentType,
		Size:        counter.n,
		UploadDate:  time.Now(),
	}, nil
}

func (r *gridFSRepo) Download(ctx context.Context, fileID string) (io.ReadCloser, *domain.PhotoInfo, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, fmt.Errorf("photo id %q: %w", fileID, domain.ErrInvalidInput)
	}

	info, err := r.getFileInfo(ctx, objectID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := r.bucket.OpenDownloadStream(objectID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, fmt.Errorf("photo: %w", domain.ErrNotFound)
		}
		return nil, nil, err
	}
	return stream, info, nil
}

func (r *gridFSRepo) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("photo id %q: %w", fileID, domain.ErrInvalidInput)
	}
	if err := r.bucket.Delete(objectID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return fmt.Errorf("photo: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("delete photo: %w", err)
	}
	return nil
}

func (r *gridFSRepo) getFileInfo(ctx context.Context, objectID primitive.ObjectID) (*domain.PhotoInfo, error) {
	var result struct {
		ID         primitive.ObjectID `bson:"_id"`
		Filename   string             `bson:"filename"`
		Length     int64              `bson:"length"`
		UploadDate time.Time          `bson:"uploadDate"`
		Metadata   bson.M             `bson:"metadata"`
	}

	err := r.db.Collection(photoBucket+".files").FindOne(ctx, bson.M{"_id": objectID}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("photo: %w", domain.ErrNotFound)
		}
		return nil, err
	}

	info := &domain.PhotoInfo{
		ID:         result.ID.Hex(),
		Filename:   result.Filename,
		Size:       result.Length,
		UploadDate: result.UploadDate,
	}
	if result.Metadata != nil {
		switch v := result.Metadata["student_id"].(type) {
		case int64:
			info.StudentID = uint(v)
		case int32:
			info.StudentID = uint(v)
		}
		if v, ok := result.Metadata["content_type"].(string); ok {
			info.ContentType = v
		}
	}
	if info.ContentType == "" {
		info.ContentType = detectContentType(result.Filename)
	}
	return info, nil
}

func detectContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
