package config

import (
	"context"
	"fmt"
	"time"

	"classroom-backend/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Database struct {
	PG    *gorm.DB
	Mongo *mongo.Database
	Redis *redis.Client // nil when REDIS_ADDR is empty
}

func ConnectDB(cfg *Config, log *zap.Logger) *Database {
	// 1. PostgreSQL Connection
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.DBHost,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
		cfg.DBPort,
		cfg.DBTimeZone,
	)
	// TranslateError surfaces unique violations as gorm.ErrDuplicatedKey
	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	pgDB, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		log.Fatal("failed to connect to PostgreSQL", zap.Error(err))
	}

	// 2. MongoDB Connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		log.Fatal("failed to ping MongoDB", zap.Error(err))
	}
	mongoDB := mongoClient.Database(cfg.MongoDBName)

	// 3. Redis (optional)
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping failed", zap.Error(err))
		}
	} else {
		log.Warn("REDIS_ADDR not set, logout will not revoke tokens")
	}

	log.Info("connected to PostgreSQL and MongoDB")

	return &Database{
		PG:    pgDB,
		Mongo: mongoDB,
		Redis: redisClient,
	}
}

// Close releases the Mongo and Redis clients.
func (d *Database) Close(ctx context.Context) {
	if d.Redis != nil {
		_ = d.Redis.Close()
	}
	if d.Mongo != nil {
		_ = d.Mongo.Client().Disconnect(ctx)
	}
	if sqlDB, err := d.PG.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Class{},
		&domain.Student{},
		&domain.AttendanceRecord{},
		&domain.Score{},
	)
}
