package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/report"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

const reportCacheTTL = 24 * time.Hour

// TableStore is the slice of the Feishu client the analysis side reads
// corpora from and publishes documents to.
type TableStore interface {
	ListAllRecords(ctx context.Context, tableName string) ([]entity.Record, error)
	UploadAnalysisReport(ctx context.Context, bloggerID, bloggerName, markdown string) (*feishu.DocumentInfo, error)
}

// ReportArchive stores rendered reports durably and returns their URL.
type ReportArchive interface {
	UploadReport(key string, content []byte) (string, error)
}

// AnalysisReport is the outcome of one analysis run.
type AnalysisReport struct {
	BloggerID   string    `json:"blogger_id"`
	Nickname    string    `json:"nickname"`
	Markdown    string    `json:"markdown"`
	DocURL      string    `json:"doc_url,omitempty"`
	ArchiveURL  string    `json:"archive_url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}

type AnalysisUseCase interface {
	ListBloggers(ctx context.Context) ([]entity.Blogger, error)
	AnalyzeBlogger(ctx context.Context, bloggerID string) (*AnalysisReport, error)
	AnalyzeAll(ctx context.Context) ([]*AnalysisReport, error)
	GetCachedReport(ctx context.Context, bloggerID string) (string, error)
}

type analysisUseCase struct {
	store       TableStore
	suite       *analyzer.Suite
	generator   *report.Generator
	redisClient *redis.Client
	archive     ReportArchive
	logger      *logger.Logger
}

// NewAnalysisUseCase wires the analysis pipeline. redisClient and archive
// may be nil; caching and archiving are then skipped.
func NewAnalysisUseCase(
	store TableStore,
	suite *analyzer.Suite,
	redisClient *redis.Client,
	archive ReportArchive,
	log *logger.Logger,
) AnalysisUseCase {
	return &analysisUseCase{
		store:       store,
		suite:       suite,
		generator:   report.NewGenerator(),
		redisClient: redisClient,
		archive:     archive,
		logger:      log,
	}
}

func (uc *analysisUseCase) ListBloggers(ctx context.Context) ([]entity.Blogger, error) {
	records, err := uc.store.ListAllRecords(ctx, feishu.TableBloggers)
	if err != nil {
		return nil, fmt.Errorf("list bloggers: %w", err)
	}
	bloggers := make([]entity.Blogger, 0, len(records))
	for _, r := range records {
		b := entity.BloggerFromRecord(r)
		if b.BloggerID != "" {
			bloggers = append(bloggers, b)
		}
	}
	return bloggers, nil
}

// fetchBloggerData assembles the full corpus for one blogger: the profile
// row, all of its notes and the comments under those notes.
func (uc *analysisUseCase) fetchBloggerData(ctx context.Context, bloggerID string) (*entity.AnalysisData, error) {
	bloggerRecords, err := uc.store.ListAllRecords(ctx, feishu.TableBloggers)
	if err != nil {
		return nil, fmt.Errorf("load bloggers: %w", err)
	}
	var blogger *entity.Blogger
	for _, r := range bloggerRecords {
		if b := entity.BloggerFromRecord(r); b.BloggerID == bloggerID {
			blogger = &b
			break
		}
	}
	if blogger == nil {
		return nil, fmt.Errorf("blogger %s not found", bloggerID)
	}

	noteRecords, err := uc.store.ListAllRecords(ctx, feishu.TableNotes)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	data := &entity.AnalysisData{Blogger: *blogger}
	noteIDs := make(map[string]struct{})
	for _, r := range noteRecords {
		n := entity.NoteFromRecord(r)
		if n.BloggerID != bloggerID {
			continue
		}
		data.Notes = append(data.Notes, n)
		noteIDs[n.NoteID] = struct{}{}
	}

	commentRecords, err := uc.store.ListAllRecords(ctx, feishu.TableComments)
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	for _, r := range commentRecords {
		c := entity.CommentFromRecord(r)
		if _, ok := noteIDs[c.NoteID]; ok {
			data.Comments = append(data.Comments, c)
		}
	}

	uc.logger.Info("corpus for %s (%s): %d notes, %d comments",
		blogger.Nickname, bloggerID, len(data.Notes), len(data.Comments))
	return data, nil
}

func (uc *analysisUseCase) AnalyzeBlogger(ctx context.Context, bloggerID string) (*AnalysisReport, error) {
	data, err := uc.fetchBloggerData(ctx, bloggerID)
	if err != nil {
		return nil, err
	}

	bundle, err := uc.suite.Run(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", bloggerID, err)
	}

	now := time.Now()
	markdown := uc.generator.Generate(bundle, now)
	result := &AnalysisReport{
		BloggerID:   bloggerID,
		Nickname:    data.Blogger.Nickname,
		Markdown:    string(markdown),
		GeneratedAt: now,
	}

	uc.cacheReport(ctx, bloggerID, result.Markdown)

	if uc.archive != nil {
		key := fmt.Sprintf("reports/%s/%s.md", bloggerID, now.Format("20060102-150405"))
		url, err := uc.archive.UploadReport(key, markdown)
		if err != nil {
			uc.logger.Warn("archive report for %s: %v", bloggerID, err)
		} else {
			result.ArchiveURL = url
		}
	}

	doc, err := uc.store.UploadAnalysisReport(ctx, bloggerID, data.Blogger.Nickname, result.Markdown)
	if err != nil {
		uc.logger.Warn("publish report doc for %s: %v", bloggerID, err)
	} else {
		result.DocURL = doc.URL
	}

	uc.logger.Info("analysis done for %s (%s)", data.Blogger.Nickname, bloggerID)
	return result, nil
}

// AnalyzeAll runs the pipeline for every known blogger. Individual
// failures are logged and skipped so one broken corpus does not sink the
// whole batch.
func (uc *analysisUseCase) AnalyzeAll(ctx context.Context) ([]*AnalysisReport, error) {
	bloggers, err := uc.ListBloggers(ctx)
	if err != nil {
		return nil, err
	}

	var reports []*AnalysisReport
	for _, b := range bloggers {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		r, err := uc.AnalyzeBlogger(ctx, b.BloggerID)
		if err != nil {
			uc.logger.Error("analyze %s failed: %v", b.BloggerID, err)
			continue
		}
		reports = append(reports, r)
	}
	uc.logger.Info("analyzed %d/%d bloggers", len(reports), len(bloggers))
	return reports, nil
}

// GetCachedReport returns the last rendered report for a blogger, or
// redis.Nil when none is cached.
func (uc *analysisUseCase) GetCachedReport(ctx context.Context, bloggerID string) (string, error) {
	if uc.redisClient == nil {
		return "", redis.Nil
	}
	return uc.redisClient.Get(ctx, reportCacheKey(bloggerID)).Result()
}

func (uc *analysisUseCase) cacheReport(ctx context.Context, bloggerID, markdown string) {
	if uc.redisClient == nil {
		return
	}
	if err := uc.redisClient.Set(ctx, reportCacheKey(bloggerID), markdown, reportCacheTTL).Err(); err != nil {
		uc.logger.Warn("cache report for %s: %v", bloggerID, err)
	}
}

func reportCacheKey(bloggerID string) string {
	return fmt.Sprintf("report:%s", bloggerID)
}
