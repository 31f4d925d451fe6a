package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBTimeZone string

	MongoURI    string
	MongoDBName string

	RedisAddr     string
	RedisPassword string

	JWTSecret           string
	JWTTTL              time.Duration
	TeacherPassword     string
	TeacherPasswordHash string

	AtRiskAttendance float64
	AtRiskScore      float64

	AlertEmail     string
	MailFrom       string
	SendgridAPIKey string
	RollbarToken   string

	CORSOrigins []string
	MaxPhotoMB  int64
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment variables")
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "classroom")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "classroom")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "default-secret-key-change-in-production")
	v.SetDefault("JWT_TTL", 24*time.Hour)
	v.SetDefault("TEACHER_PASSWORD", "")
	v.SetDefault("TEACHER_PASSWORD_HASH", "")
	v.SetDefault("AT_RISK_ATTENDANCE", 75.0)
	v.SetDefault("AT_RISK_SCORE", 60.0)
	v.SetDefault("ALERT_EMAIL", "")
	v.SetDefault("MAIL_FROM", "noreply@localhost")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("ROLLBAR_TOKEN", "")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MAX_PHOTO_MB", int64(5))
	v.AutomaticEnv()

	return &Config{
		Env:                 v.GetString("APP_ENV"),
		Port:                v.GetString("PORT"),
		DBHost:              v.GetString("DB_HOST"),
		DBUser:              v.GetString("DB_USER"),
		DBPassword:          v.GetString("DB_PASSWORD"),
		DBName:              v.GetString("DB_NAME"),
		DBPort:              v.GetString("DB_PORT"),
		DBTimeZone:          v.GetString("DB_TIMEZONE"),
		MongoURI:            v.GetString("MONGO_URI"),
		MongoDBName:         v.GetString("MONGO_DB_NAME"),
		RedisAddr:           v.GetString("REDIS_ADDR"),
		RedisPassword:       v.GetString("REDIS_PASSWORD"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		JWTTTL:              v.GetDuration("JWT_TTL"),
		TeacherPassword:     v.GetString("TEACHER_PASSWORD"),
		TeacherPasswordHash: v.GetString("TEACHER_PASSWORD_HASH"),
		AtRiskAttendance:    v.GetFloat64("AT_RISK_ATTENDANCE"),
		AtRiskScore:         v.GetFloat64("AT_RISK_SCORE"),
		AlertEmail:          v.GetString("ALERT_EMAIL"),
		MailFrom:            v.GetString("MAIL_FROM"),
		SendgridAPIKey:      v.GetString("SENDGRID_API_KEY"),
		RollbarToken:        v.GetString("ROLLBAR_TOKEN"),
		CORSOrigins:         splitList(v.GetString("CORS_ORIGINS")),
		MaxPhotoMB:          v.GetInt64("MAX_PHOTO_MB"),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
