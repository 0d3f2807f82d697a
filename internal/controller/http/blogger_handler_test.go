package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/usecase"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/queue"
)

type MockAnalysisUseCase struct {
	mock.Mock
}

func (m *MockAnalysisUseCase) ListBloggers(ctx context.Context) ([]entity.Blogger, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Blogger), args.Error(1)
}

func (m *MockAnalysisUseCase) AnalyzeBlogger(ctx context.Context, bloggerID string) (*usecase.AnalysisReport, error) {
	args := m.Called(ctx, bloggerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.AnalysisReport), args.Error(1)
}

func (m *MockAnalysisUseCase) AnalyzeAll(ctx context.Context) ([]*usecase.AnalysisReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*usecase.AnalysisReport), args.Error(1)
}

func (m *MockAnalysisUseCase) GetCachedReport(ctx context.Context, bloggerID string) (string, error) {
	args := m.Called(ctx, bloggerID)
	return args.String(0), args.Error(1)
}

var _ usecase.AnalysisUseCase = (*MockAnalysisUseCase)(nil)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishTask(task queue.Task) error {
	args := m.Called(task)
	return args.Error(0)
}

var _ TaskPublisher = (*MockPublisher)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestListBloggers(t *testing.T) {
	mockUC := new(MockAnalysisUseCase)
	handler := NewBloggerHandler(mockUC, nil, logger.New())

	mockUC.On("ListBloggers", mock.Anything).Return([]entity.Blogger{
		{BloggerID: "u1", Nickname: "小美", FansCount: 5000},
	}, nil)

	router := setupTestRouter()
	router.GET("/bloggers", handler.ListBloggers)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bloggers", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(1), body["count"])
	mockUC.AssertExpectations(t)
}

func TestGetReportHit(t *testing.T) {
	mockUC := new(MockAnalysisUseCase)
	handler := NewBloggerHandler(mockUC, nil, logger.New())
	mockUC.On("GetCachedReport", mock.Anything, "u1").Return("# 博主分析报告", nil)

	router := setupTestRouter()
	router.GET("/bloggers/:id/report", handler.GetReport)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bloggers/u1/report", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["blogger_id"])
	assert.Equal(t, "# 博主分析报告", body["markdown"])
}

func TestGetReportMiss(t *testing.T) {
	mockUC := new(MockAnalysisUseCase)
	handler := NewBloggerHandler(mockUC, nil, logger.New())
	mockUC.On("GetCachedReport", mock.Anything, "u1").Return("", redis.Nil)

	router := setupTestRouter()
	router.GET("/bloggers/:id/report", handler.GetReport)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/bloggers/u1/report", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTriggerAnalysis(t *testing.T) {
	mockUC := new(MockAnalysisUseCase)
	publisher := new(MockPublisher)
	handler := NewBloggerHandler(mockUC, publisher, logger.New())

	publisher.On("PublishTask", mock.MatchedBy(func(task queue.Task) bool {
		return task.Kind == queue.TaskAnalyze && task.BloggerID == "u1" && task.ID != ""
	})).Return(nil)

	router := setupTestRouter()
	router.POST("/bloggers/:id/analyze", handler.TriggerAnalysis)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bloggers/u1/analyze", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	publisher.AssertExpectations(t)
}

func TestTriggerAnalysisWithoutQueue(t *testing.T) {
	handler := NewBloggerHandler(new(MockAnalysisUseCase), nil, logger.New())

	router := setupTestRouter()
	router.POST("/bloggers/:id/analyze", handler.TriggerAnalysis)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/bloggers/u1/analyze", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestTriggerSync(t *testing.T) {
	mockUC := new(MockAnalysisUseCase)
	publisher := new(MockPublisher)
	handler := NewBloggerHandler(mockUC, publisher, logger.New())

	publisher.On("PublishTask", mock.MatchedBy(func(task queue.Task) bool {
		return task.Kind == queue.TaskSync && task.BloggerID == "abc123"
	})).Return(nil)

	router := setupTestRouter()
	router.POST("/sync", handler.TriggerSync)

	body, _ := json.Marshal(SyncRequest{ProfileURL: "https://www.xiaohongshu.com/user/profile/abc123"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/sync", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	publisher.AssertExpectations(t)
}

func TestTriggerSyncRejectsBadURL(t *testing.T) {
	handler := NewBloggerHandler(new(MockAnalysisUseCase), new(MockPublisher), logger.New())

	router := setupTestRouter()
	router.POST("/sync", handler.TriggerSync)

	for _, payload := range []string{
		`{}`,
		`{"profile_url": "https://example.com/not-a-profile"}`,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/sync", bytes.NewReader([]byte(payload)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "payload %s", payload)
	}
}
