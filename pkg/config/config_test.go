package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Set test environment variables
	os.Setenv("SERVER_PORT", "8080")
	os.Setenv("FEISHU_APP_ID", "cli_test")
	os.Setenv("FEISHU_APP_SECRET", "secret")
	os.Setenv("FEISHU_APP_TOKEN", "apptoken")
	os.Setenv("FEISHU_TABLE_BLOGGERS", "tblB")
	os.Setenv("FEISHU_TABLE_NOTES", "tblN")
	os.Setenv("FEISHU_TABLE_COMMENTS", "tblC")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("CRAWLER_MAX_NOTES", "50")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.NotNil(t, cfg)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "cli_test", cfg.FeishuAppID)
	assert.Equal(t, "secret", cfg.FeishuAppSecret)
	assert.Equal(t, "apptoken", cfg.FeishuAppToken)
	assert.Equal(t, "localhost", cfg.RedisHost)
	assert.Equal(t, "6379", cfg.RedisPort)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 50, cfg.CrawlerMaxNotes)

	// Cleanup
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("FEISHU_APP_ID")
	os.Unsetenv("FEISHU_APP_SECRET")
	os.Unsetenv("FEISHU_APP_TOKEN")
	os.Unsetenv("FEISHU_TABLE_BLOGGERS")
	os.Unsetenv("FEISHU_TABLE_NOTES")
	os.Unsetenv("FEISHU_TABLE_COMMENTS")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("REDIS_PORT")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("CRAWLER_MAX_NOTES")
}

func TestLoadConfig_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("FEISHU_DOMAIN")
	os.Unsetenv("CRAWLER_MAX_NOTES")
	os.Unsetenv("CRAWLER_HEADLESS")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "open.feishu.cn", cfg.FeishuDomain)
	assert.Equal(t, 100, cfg.CrawlerMaxNotes)
	assert.True(t, cfg.CrawlerHeadless)
}

func TestTableIDs(t *testing.T) {
	cfg := &Config{
		FeishuTableBloggers: "tblB",
		FeishuTableNotes:    "tblN",
		FeishuTableComments: "tblC",
	}

	ids := cfg.TableIDs()
	assert.Equal(t, "tblB", ids["bloggers"])
	assert.Equal(t, "tblN", ids["notes"])
	assert.Equal(t, "tblC", ids["comments"])
}
