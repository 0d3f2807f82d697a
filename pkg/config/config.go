package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort string

	// Feishu open platform
	FeishuAppID             string
	FeishuAppSecret         string
	FeishuAppToken          string
	FeishuDomain            string
	FeishuReportFolderToken string
	FeishuTableBloggers     string
	FeishuTableNotes        string
	FeishuTableComments     string

	// Crawler
	XHSCookie          string
	CrawlerHeadless    bool
	CrawlerMaxNotes    int
	CrawlerMaxComments int
	CrawlerSleepSec    int

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// RabbitMQ
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPassword string

	// JWT
	JWTSecret string

	// AWS S3 (report archive)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSEndpoint        string
	S3UseSSL           string
	S3BucketName       string
}

func Load() (*Config, error) {
	// Try to load .env file, but don't fail if it doesn't exist
	_ = godotenv.Load()

	config := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),

		FeishuAppID:             getEnv("FEISHU_APP_ID", ""),
		FeishuAppSecret:         getEnv("FEISHU_APP_SECRET", ""),
		FeishuAppToken:          getEnv("FEISHU_APP_TOKEN", ""),
		FeishuDomain:            getEnv("FEISHU_DOMAIN", "open.feishu.cn"),
		FeishuReportFolderToken: getEnv("FEISHU_REPORT_FOLDER_TOKEN", ""),
		FeishuTableBloggers:     getEnv("FEISHU_TABLE_BLOGGERS", ""),
		FeishuTableNotes:        getEnv("FEISHU_TABLE_NOTES", ""),
		FeishuTableComments:     getEnv("FEISHU_TABLE_COMMENTS", ""),

		XHSCookie:          getEnv("XHS_COOKIE", ""),
		CrawlerHeadless:    getEnvBool("CRAWLER_HEADLESS", true),
		CrawlerMaxNotes:    getEnvInt("CRAWLER_MAX_NOTES", 100),
		CrawlerMaxComments: getEnvInt("CRAWLER_MAX_COMMENTS", 100),
		CrawlerSleepSec:    getEnvInt("CRAWLER_SLEEP_SEC", 2),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       0,

		RabbitMQHost:     getEnv("RABBITMQ_HOST", "localhost"),
		RabbitMQPort:     getEnv("RABBITMQ_PORT", "5672"),
		RabbitMQUser:     getEnv("RABBITMQ_USER", "guest"),
		RabbitMQPassword: getEnv("RABBITMQ_PASSWORD", "guest"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpoint:        getEnv("AWS_ENDPOINT", ""),
		S3UseSSL:           getEnv("S3_USE_SSL", "true"),
		S3BucketName:       getEnv("S3_BUCKET_NAME", "blogger-reports"),
	}

	return config, nil
}

// TableIDs maps logical table names to configured Bitable table IDs.
func (c *Config) TableIDs() map[string]string {
	return map[string]string{
		"bloggers": c.FeishuTableBloggers,
		"notes":    c.FeishuTableNotes,
		"comments": c.FeishuTableComments,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
