// Package feishu is a client for the Feishu open platform: Bitable record
// storage, docx documents and drive folders.
package feishu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

const (
	defaultBaseURL = "https://open.feishu.cn"
	tokenSkew      = 5 * time.Minute
	listPageSize   = 100
)

// Client talks to the Feishu open API with a cached tenant access token.
type Client struct {
	appID             string
	appSecret         string
	appToken          string
	domain            string
	reportFolderToken string
	tableIDs          map[string]string
	baseURL           string

	httpClient *http.Client
	logger     *logger.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	if cfg.FeishuAppID == "" || cfg.FeishuAppSecret == "" {
		return nil, fmt.Errorf("feishu app credentials are not configured")
	}
	return &Client{
		appID:             cfg.FeishuAppID,
		appSecret:         cfg.FeishuAppSecret,
		appToken:          cfg.FeishuAppToken,
		domain:            cfg.FeishuDomain,
		reportFolderToken: cfg.FeishuReportFolderToken,
		tableIDs:          cfg.TableIDs(),
		baseURL:           defaultBaseURL,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
		logger:            log,
	}, nil
}

func (c *Client) tableID(tableName string) (string, error) {
	id := c.tableIDs[tableName]
	if id == "" {
		return "", fmt.Errorf("no table id configured for %s", tableName)
	}
	return id, nil
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

func (c *Client) tenantAccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	body, err := json.Marshal(map[string]string{
		"app_id":     c.appID,
		"app_secret": c.appSecret,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/open-apis/auth/v3/tenant_access_token/internal", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request tenant access token: %w", err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("decode tenant access token: %w", err)
	}
	if tr.Code != 0 {
		return "", fmt.Errorf("tenant access token: %d - %s", tr.Code, tr.Msg)
	}

	c.token = tr.TenantAccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tr.Expire)*time.Second - tokenSkew)
	return c.token, nil
}

type apiResponse struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// doJSON performs an authenticated request and decodes data into out when
// provided.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	token, err := c.tenantAccessToken(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var ar apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("decode response of %s: %w", path, err)
	}
	if ar.Code != 0 {
		return fmt.Errorf("%s: %d - %s", path, ar.Code, ar.Msg)
	}
	if out != nil && len(ar.Data) > 0 {
		if err := json.Unmarshal(ar.Data, out); err != nil {
			return fmt.Errorf("decode data of %s: %w", path, err)
		}
	}
	return nil
}

// TestConnection verifies credentials by listing the Bitable data tables.
func (c *Client) TestConnection(ctx context.Context) error {
	if c.appToken == "" {
		c.logger.Warn("feishu app token is not configured, skipping bitable check")
		_, err := c.tenantAccessToken(ctx)
		return err
	}
	tables, err := c.ListTables(ctx)
	if err != nil {
		return err
	}
	c.logger.Info("feishu connection ok, found %d tables", len(tables))
	return nil
}
