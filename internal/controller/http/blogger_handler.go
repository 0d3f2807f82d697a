package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/crawler"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/usecase"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/queue"
)

// TaskPublisher enqueues background work for the worker.
type TaskPublisher interface {
	PublishTask(task queue.Task) error
}

type BloggerHandler struct {
	analysisUseCase usecase.AnalysisUseCase
	publisher       TaskPublisher
	logger          *logger.Logger
}

func NewBloggerHandler(analysisUseCase usecase.AnalysisUseCase, publisher TaskPublisher, log *logger.Logger) *BloggerHandler {
	return &BloggerHandler{
		analysisUseCase: analysisUseCase,
		publisher:       publisher,
		logger:          log,
	}
}

func (h *BloggerHandler) ListBloggers(c *gin.Context) {
	bloggers, err := h.analysisUseCase.ListBloggers(c.Request.Context())
	if err != nil {
		h.logger.Error("list bloggers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"bloggers": bloggers,
		"count":    len(bloggers),
	})
}

// GetReport serves the last rendered report for a blogger. A report only
// exists after an analysis task has run.
func (h *BloggerHandler) GetReport(c *gin.Context) {
	bloggerID := c.Param("id")
	markdown, err := h.analysisUseCase.GetCachedReport(c.Request.Context(), bloggerID)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no report for this blogger yet, trigger an analysis first"})
			return
		}
		h.logger.Error("get report for %s: %v", bloggerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"blogger_id": bloggerID,
		"markdown":   markdown,
	})
}

// TriggerAnalysis enqueues an analysis task for one blogger.
func (h *BloggerHandler) TriggerAnalysis(c *gin.Context) {
	bloggerID := c.Param("id")
	task := queue.Task{
		ID:         uuid.New().String(),
		Kind:       queue.TaskAnalyze,
		BloggerID:  bloggerID,
		EnqueuedAt: time.Now().UnixMilli(),
	}
	h.enqueue(c, task)
}

type SyncRequest struct {
	ProfileURL string `json:"profile_url" binding:"required"`
}

// TriggerSync enqueues a crawl-and-sync task for a shared profile link.
func (h *BloggerHandler) TriggerSync(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ref, err := crawler.ParseCreatorURL(req.ProfileURL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_url is not a valid creator link"})
		return
	}
	task := queue.Task{
		ID:         uuid.New().String(),
		Kind:       queue.TaskSync,
		BloggerID:  ref.UserID,
		ProfileURL: req.ProfileURL,
		EnqueuedAt: time.Now().UnixMilli(),
	}
	h.enqueue(c, task)
}

func (h *BloggerHandler) enqueue(c *gin.Context, task queue.Task) {
	if h.publisher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "task queue is not available"})
		return
	}
	if err := h.publisher.PublishTask(task); err != nil {
		h.logger.Error("enqueue %s task for %s: %v", task.Kind, task.BloggerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue task"})
		return
	}
	h.logger.Info("enqueued %s task %s for blogger %s", task.Kind, task.ID, task.BloggerID)
	c.JSON(http.StatusAccepted, gin.H{
		"task_id":    task.ID,
		"kind":       task.Kind,
		"blogger_id": task.BloggerID,
	})
}
