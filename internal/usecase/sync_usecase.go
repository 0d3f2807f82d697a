package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

const (
	// First sync of a blogger only keeps the last six months of notes.
	firstSyncWindow = 180 * 24 * time.Hour

	// SyncAll stops after this many bloggers fail back to back, which
	// usually means the session cookie died rather than one bad profile.
	maxConsecutiveFailures = 3
)

// Scraper is the crawler surface the sync pipeline needs.
type Scraper interface {
	FetchAll(ctx context.Context, profileURL string) (*entity.AnalysisData, error)
}

// SyncStore is the slice of the Feishu client the sync side writes to.
type SyncStore interface {
	FindRecordByField(ctx context.Context, tableName, fieldName, value string) (entity.Record, error)
	BatchUpsertRecords(ctx context.Context, tableName, keyField string, records []entity.Record) (feishu.UpsertStats, error)
}

// SyncStats counts the rows written by one sync run.
type SyncStats struct {
	Notes    int `json:"notes"`
	Comments int `json:"comments"`
}

type SyncUseCase interface {
	SyncBlogger(ctx context.Context, profileURL string) (SyncStats, error)
	SyncAll(ctx context.Context, profileURLs []string) (SyncStats, error)
}

type syncUseCase struct {
	scraper Scraper
	store   SyncStore
	logger  *logger.Logger
	now     func() time.Time
}

func NewSyncUseCase(scraper Scraper, store SyncStore, log *logger.Logger) SyncUseCase {
	return &syncUseCase{
		scraper: scraper,
		store:   store,
		logger:  log,
		now:     time.Now,
	}
}

// SyncBlogger crawls one profile and writes the result to the tables. The
// blogger row is upserted with a fresh last_sync_at; notes and comments
// are written incrementally, keeping only what was published after the
// previous sync.
func (uc *syncUseCase) SyncBlogger(ctx context.Context, profileURL string) (SyncStats, error) {
	var stats SyncStats

	data, err := uc.scraper.FetchAll(ctx, profileURL)
	if err != nil {
		return stats, fmt.Errorf("crawl %s: %w", profileURL, err)
	}
	blogger := data.Blogger

	since, err := uc.lastSyncAt(ctx, blogger.BloggerID)
	if err != nil {
		return stats, err
	}

	nowMillis := uc.now().UnixMilli()
	blogger.LastSyncAt = nowMillis
	if _, err := uc.store.BatchUpsertRecords(ctx, feishu.TableBloggers, "blogger_id", []entity.Record{blogger.ToRecord()}); err != nil {
		return stats, fmt.Errorf("sync blogger %s: %w", blogger.BloggerID, err)
	}
	uc.logger.Info("synced blogger %s (fans: %d)", blogger.Nickname, blogger.FansCount)

	newNotes, noteIDs := filterNewNotes(data.Notes, since)
	if len(newNotes) > 0 {
		records := make([]entity.Record, 0, len(newNotes))
		for i := range newNotes {
			newNotes[i].CrawlTime = nowMillis
			records = append(records, newNotes[i].ToRecord())
		}
		res, err := uc.store.BatchUpsertRecords(ctx, feishu.TableNotes, "note_id", records)
		if err != nil {
			return stats, fmt.Errorf("sync notes for %s: %w", blogger.BloggerID, err)
		}
		stats.Notes = res.Created
		uc.logger.Info("notes for %s: %d created, %d refreshed", blogger.BloggerID, res.Created, res.Updated)
	}

	var comments []entity.Record
	for i := range data.Comments {
		c := &data.Comments[i]
		if _, ok := noteIDs[c.NoteID]; !ok {
			continue
		}
		c.CrawlTime = nowMillis
		comments = append(comments, c.ToRecord())
	}
	if len(comments) > 0 {
		res, err := uc.store.BatchUpsertRecords(ctx, feishu.TableComments, "comment_id", comments)
		if err != nil {
			return stats, fmt.Errorf("sync comments for %s: %w", blogger.BloggerID, err)
		}
		stats.Comments = res.Created
		uc.logger.Info("comments for %s: %d created", blogger.BloggerID, res.Created)
	}

	return stats, nil
}

// lastSyncAt returns the incremental cutoff in epoch milliseconds. A
// blogger never synced before gets the first-sync window instead.
func (uc *syncUseCase) lastSyncAt(ctx context.Context, bloggerID string) (int64, error) {
	record, err := uc.store.FindRecordByField(ctx, feishu.TableBloggers, "blogger_id", bloggerID)
	if err != nil {
		return 0, fmt.Errorf("look up blogger %s: %w", bloggerID, err)
	}
	if record != nil {
		if b := entity.BloggerFromRecord(record); b.LastSyncAt > 0 {
			return b.LastSyncAt, nil
		}
	}
	return uc.now().Add(-firstSyncWindow).UnixMilli(), nil
}

// filterNewNotes keeps notes published after the cutoff. Notes without a
// usable publish time are kept; dropping them silently would hide data.
func filterNewNotes(notes []entity.Note, sinceMillis int64) ([]entity.Note, map[string]struct{}) {
	var kept []entity.Note
	ids := make(map[string]struct{})
	for _, n := range notes {
		if pt := toMillis(n.PublishTime); pt > 0 && pt <= sinceMillis {
			continue
		}
		kept = append(kept, n)
		ids[n.NoteID] = struct{}{}
	}
	return kept, ids
}

// toMillis normalizes an epoch value that may be seconds or milliseconds.
// Values above 1e10 are already milliseconds.
func toMillis(ts int64) int64 {
	if ts > 0 && ts <= 10_000_000_000 {
		return ts * 1000
	}
	return ts
}

// SyncAll walks the configured profiles in order. One bad profile is
// logged and skipped; a run of consecutive failures aborts the batch.
func (uc *syncUseCase) SyncAll(ctx context.Context, profileURLs []string) (SyncStats, error) {
	var total SyncStats
	failures := 0
	for i, url := range profileURLs {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		uc.logger.Info("[%d/%d] syncing %s", i+1, len(profileURLs), url)

		stats, err := uc.SyncBlogger(ctx, url)
		if err != nil {
			failures++
			uc.logger.Error("sync %s failed (%d/%d): %v", url, failures, maxConsecutiveFailures, err)
			if failures >= maxConsecutiveFailures {
				return total, fmt.Errorf("aborting after %d consecutive failures: %w", failures, err)
			}
			continue
		}
		failures = 0
		total.Notes += stats.Notes
		total.Comments += stats.Comments
	}
	uc.logger.Info("sync finished: %d new notes, %d new comments", total.Notes, total.Comments)
	return total, nil
}
