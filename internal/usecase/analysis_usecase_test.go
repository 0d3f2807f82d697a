package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

type MockTableStore struct {
	mock.Mock
}

func (m *MockTableStore) ListAllRecords(ctx context.Context, tableName string) ([]entity.Record, error) {
	args := m.Called(ctx, tableName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Record), args.Error(1)
}

func (m *MockTableStore) UploadAnalysisReport(ctx context.Context, bloggerID, bloggerName, markdown string) (*feishu.DocumentInfo, error) {
	args := m.Called(ctx, bloggerID, bloggerName, markdown)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*feishu.DocumentInfo), args.Error(1)
}

var _ TableStore = (*MockTableStore)(nil)

type MockArchive struct {
	mock.Mock
}

func (m *MockArchive) UploadReport(key string, content []byte) (string, error) {
	args := m.Called(key, content)
	return args.String(0), args.Error(1)
}

var _ ReportArchive = (*MockArchive)(nil)

func tableFixtures() (bloggers, notes, comments []entity.Record) {
	bloggers = []entity.Record{
		{"blogger_id": "u1", "nickname": "小美", "fans_count": float64(5000), "notes_count": float64(2)},
		{"blogger_id": "u2", "nickname": "别家博主"},
	}
	notes = []entity.Record{
		{"note_id": "n1", "blogger_id": "u1", "title": "平价好物", "type": "图文",
			"liked_count": float64(1200), "publish_time": float64(1718000000000)},
		{"note_id": "n2", "blogger_id": "u1", "title": "护肤教程", "type": "视频",
			"liked_count": float64(800), "publish_time": float64(1718100000000)},
		{"note_id": "x1", "blogger_id": "u2", "title": "无关笔记"},
	}
	comments = []entity.Record{
		{"comment_id": "c1", "note_id": "n1", "content": "好用"},
		{"comment_id": "c2", "note_id": "x1", "content": "别家的评论"},
	}
	return
}

func newAnalysisUseCase(store TableStore, archive ReportArchive) AnalysisUseCase {
	return NewAnalysisUseCase(store, analyzer.NewSuite(nil), nil, archive, logger.New())
}

func TestAnalyzeBlogger(t *testing.T) {
	store := new(MockTableStore)
	archive := new(MockArchive)
	bloggers, notes, comments := tableFixtures()

	store.On("ListAllRecords", mock.Anything, feishu.TableBloggers).Return(bloggers, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableNotes).Return(notes, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableComments).Return(comments, nil)
	store.On("UploadAnalysisReport", mock.Anything, "u1", "小美", mock.AnythingOfType("string")).
		Return(&feishu.DocumentInfo{DocumentID: "doc1", URL: "https://example.feishu.cn/docx/doc1"}, nil)
	archive.On("UploadReport",
		mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, "reports/u1/") }),
		mock.Anything,
	).Return("https://s3.example/reports/u1/latest.md", nil)

	uc := newAnalysisUseCase(store, archive)
	result, err := uc.AnalyzeBlogger(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", result.BloggerID)
	assert.Equal(t, "小美", result.Nickname)
	assert.Contains(t, result.Markdown, "小美")
	assert.Contains(t, result.Markdown, "## 1. 基础信息汇总")
	assert.Equal(t, "https://example.feishu.cn/docx/doc1", result.DocURL)
	assert.Equal(t, "https://s3.example/reports/u1/latest.md", result.ArchiveURL)
	store.AssertExpectations(t)
	archive.AssertExpectations(t)
}

func TestAnalyzeBloggerNotFound(t *testing.T) {
	store := new(MockTableStore)
	bloggers, _, _ := tableFixtures()
	store.On("ListAllRecords", mock.Anything, feishu.TableBloggers).Return(bloggers, nil)

	uc := newAnalysisUseCase(store, nil)
	_, err := uc.AnalyzeBlogger(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestAnalyzeBloggerDocUploadFailureIsNotFatal(t *testing.T) {
	store := new(MockTableStore)
	bloggers, notes, comments := tableFixtures()
	store.On("ListAllRecords", mock.Anything, feishu.TableBloggers).Return(bloggers, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableNotes).Return(notes, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableComments).Return(comments, nil)
	store.On("UploadAnalysisReport", mock.Anything, "u1", "小美", mock.AnythingOfType("string")).
		Return(nil, assert.AnError)

	uc := newAnalysisUseCase(store, nil)
	result, err := uc.AnalyzeBlogger(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, result.DocURL)
	assert.NotEmpty(t, result.Markdown)
}

func TestAnalyzeAllCoversEveryBlogger(t *testing.T) {
	store := new(MockTableStore)
	bloggers, notes, comments := tableFixtures()
	store.On("ListAllRecords", mock.Anything, feishu.TableBloggers).Return(bloggers, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableNotes).Return(notes, nil)
	store.On("ListAllRecords", mock.Anything, feishu.TableComments).Return(comments, nil)
	store.On("UploadAnalysisReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	uc := newAnalysisUseCase(store, nil)
	reports, err := uc.AnalyzeAll(context.Background())
	require.NoError(t, err)
	// u2 has no notes but an empty corpus still renders.
	require.Len(t, reports, 2)
	assert.Equal(t, "u1", reports[0].BloggerID)
	assert.Equal(t, "u2", reports[1].BloggerID)
}

func TestListBloggersSkipsRowsWithoutID(t *testing.T) {
	store := new(MockTableStore)
	store.On("ListAllRecords", mock.Anything, feishu.TableBloggers).Return([]entity.Record{
		{"blogger_id": "u1", "nickname": "小美"},
		{"nickname": "残缺行"},
	}, nil)

	uc := newAnalysisUseCase(store, nil)
	bloggers, err := uc.ListBloggers(context.Background())
	require.NoError(t, err)
	require.Len(t, bloggers, 1)
	assert.Equal(t, "u1", bloggers[0].BloggerID)
}

func TestGetCachedReportWithoutRedis(t *testing.T) {
	uc := newAnalysisUseCase(new(MockTableStore), nil)
	_, err := uc.GetCachedReport(context.Background(), "u1")
	assert.ErrorIs(t, err, redis.Nil)
}
