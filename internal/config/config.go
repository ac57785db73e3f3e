package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	BotToken string
	OwnerID  int64

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (report/support counter cache)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin API
	Port            string
	CORSOrigins     string
	AdminTokenHash  string
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Moderation policy
	WarningLimit     int
	TempBanHours     int
	ReportThreshold  int64
	SupportOverride  int64
	BanSweepInterval time.Duration

	// Premium / referral
	ReferralPremiumCount int
	PremiumDays          int
}

func Load() *Config {
	return &Config{
		BotToken: getEnv("BOT_TOKEN", ""),
		OwnerID:  parseInt64(getEnv("OWNER_ID", "0")),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "veilchat"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0")),

		Port:            getEnv("PORT", "8080"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		AdminTokenHash:  getEnv("ADMIN_TOKEN_HASH", ""),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "1h")),

		WarningLimit:     parseInt(getEnv("WARNING_LIMIT", "3")),
		TempBanHours:     parseInt(getEnv("TEMP_BAN_HOURS", "24")),
		ReportThreshold:  parseInt64(getEnv("REPORT_THRESHOLD", "5")),
		SupportOverride:  parseInt64(getEnv("SUPPORT_OVERRIDE_THRESHOLD", "10")),
		BanSweepInterval: parseDuration(getEnv("BAN_SWEEP_INTERVAL", "5m")),

		ReferralPremiumCount: parseInt(getEnv("REFERRAL_PREMIUM_COUNT", "5")),
		PremiumDays:          parseInt(getEnv("PREMIUM_DAYS", "30")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
