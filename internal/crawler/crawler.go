package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

const (
	pageTimeout   = 60 * time.Second
	renderWait    = 3 * time.Second
	cookieDomain  = ".xiaohongshu.com"
	browserUA     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	unavailableJS = `document.body.innerText.includes("无法浏览") || document.body.innerText.includes("你访问的页面不见了")`
)

// ErrNoteUnavailable marks a note page that has been taken down or made
// private since it appeared in the profile feed.
var ErrNoteUnavailable = errors.New("crawler: note page unavailable")

// ErrStateMissing means the page rendered without the expected state
// subtree, usually because the session cookie expired.
var ErrStateMissing = errors.New("crawler: page state missing")

// initialStateJS walks window.__INITIAL_STATE__ along a path, unwrapping
// the framework's ref containers (.value / ._value) at each step, and
// returns the subtree as a JSON string. The path placeholder is filled
// with a JSON-encoded string array.
const initialStateJS = `(() => {
	const unwrap = (v) => {
		if (v && typeof v === "object") {
			if (v.value !== undefined) return v.value;
			if (v._value !== undefined) return v._value;
		}
		return v;
	};
	let cur = window.__INITIAL_STATE__;
	for (const key of %s) {
		cur = unwrap(cur);
		if (cur == null) return "null";
		cur = cur[key];
	}
	cur = unwrap(cur);
	return JSON.stringify(cur === undefined ? null : cur);
})()`

// Crawler drives a headless browser session against creator pages. It is
// not safe for concurrent use; the sync pipeline runs one crawl at a time.
type Crawler struct {
	cfg *config.Config
	log *logger.Logger

	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	browserCtx    context.Context
}

func New(cfg *config.Config, log *logger.Logger) *Crawler {
	return &Crawler{cfg: cfg, log: log}
}

// Start launches the browser and installs the session cookie. It must be
// called before any fetch method and paired with Close.
func (c *Crawler) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.CrawlerHeadless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(browserUA),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx, c.setCookies()); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("crawler: start browser: %w", err)
	}
	c.allocCancel = allocCancel
	c.browserCancel = browserCancel
	c.browserCtx = browserCtx
	return nil
}

// Close tears the browser down. Safe to call on a crawler that never
// started.
func (c *Crawler) Close() {
	if c.browserCancel != nil {
		c.browserCancel()
	}
	if c.allocCancel != nil {
		c.allocCancel()
	}
}

// setCookies installs the configured session cookie string ("k=v; k2=v2")
// for the target domain.
func (c *Crawler) setCookies() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		if c.cfg.XHSCookie == "" {
			return nil
		}
		for _, pair := range strings.Split(c.cfg.XHSCookie, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok || name == "" {
				continue
			}
			err := network.SetCookie(name, value).
				WithDomain(cookieDomain).
				WithPath("/").
				Do(ctx)
			if err != nil {
				return fmt.Errorf("set cookie %s: %w", name, err)
			}
		}
		return nil
	}
}

// navigate loads a page and waits for the client-side render to settle.
func (c *Crawler) navigate(ctx context.Context, url string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderWait),
	)
}

// extractState evaluates the initial-state walker on the current page and
// returns the requested subtree. A "null" result surfaces as
// ErrStateMissing.
func (c *Crawler) extractState(ctx context.Context, path ...string) (json.RawMessage, error) {
	pathJSON, err := json.Marshal(path)
	if err != nil {
		return nil, err
	}
	var out string
	expr := fmt.Sprintf(initialStateJS, pathJSON)
	if err := chromedp.Run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return nil, fmt.Errorf("crawler: evaluate state %v: %w", path, err)
	}
	if out == "" || out == "null" {
		return nil, fmt.Errorf("%w: %s", ErrStateMissing, strings.Join(path, "."))
	}
	return json.RawMessage(out), nil
}

func (c *Crawler) pageCtx(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if c.browserCtx == nil {
		return nil, nil, errors.New("crawler: not started")
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	pageCtx, cancel := context.WithTimeout(c.browserCtx, pageTimeout)
	return pageCtx, cancel, nil
}

// FetchBlogger loads the creator page once and decodes both the profile
// header and the note feed from it. The feed is capped at the configured
// maximum.
func (c *Crawler) FetchBlogger(ctx context.Context, ref CreatorRef) (*entity.Blogger, []entity.Note, error) {
	pageCtx, cancel, err := c.pageCtx(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer cancel()

	addr := profileURL(ref)
	c.log.Info("crawler: loading profile %s", addr)
	if err := c.navigate(pageCtx, addr); err != nil {
		return nil, nil, fmt.Errorf("crawler: load profile: %w", err)
	}

	pageData, err := c.extractState(pageCtx, "user", "userPageData")
	if err != nil {
		return nil, nil, err
	}
	blogger, err := parseUserPageData(pageData, ref.UserID)
	if err != nil {
		return nil, nil, err
	}

	notes := []entity.Note{}
	if rawNotes, err := c.extractState(pageCtx, "user", "notes"); err == nil {
		notes, err = parseNoteList(rawNotes, ref.UserID, ref.XsecToken)
		if err != nil {
			return nil, nil, err
		}
	} else {
		c.log.Warn("crawler: %s has no note feed: %v", ref.UserID, err)
	}
	if max := c.cfg.CrawlerMaxNotes; max > 0 && len(notes) > max {
		notes = notes[:max]
	}
	c.log.Info("crawler: %s (%s) with %d notes", blogger.Nickname, ref.UserID, len(notes))
	return blogger, notes, nil
}

// FetchNoteDetail loads a note page and fills in the fields the feed view
// does not carry. The returned entry keeps the raw detail record so
// comments can be decoded without a second page load.
func (c *Crawler) FetchNoteDetail(ctx context.Context, note *entity.Note) (map[string]interface{}, error) {
	pageCtx, cancel, err := c.pageCtx(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	if err := c.navigate(pageCtx, note.NoteURL); err != nil {
		return nil, fmt.Errorf("crawler: load note %s: %w", note.NoteID, err)
	}
	var gone bool
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(unavailableJS, &gone)); err == nil && gone {
		return nil, fmt.Errorf("%w: %s", ErrNoteUnavailable, note.NoteID)
	}

	raw, err := c.extractState(pageCtx, "note", "noteDetailMap")
	if err != nil {
		return nil, err
	}
	entry, ok := detailEntry(raw, note.NoteID)
	if !ok {
		return nil, fmt.Errorf("%w: note %s detail", ErrStateMissing, note.NoteID)
	}
	applyNoteDetail(note, entry)
	return entry, nil
}

// FetchAll is the one-shot crawl for a shared creator link: profile, feed,
// then per-note detail and comments with a polite delay between pages.
// Notes whose detail page is gone keep their feed-level fields.
func (c *Crawler) FetchAll(ctx context.Context, rawURL string) (*entity.AnalysisData, error) {
	ref, err := ParseCreatorURL(rawURL)
	if err != nil {
		return nil, err
	}
	blogger, notes, err := c.FetchBlogger(ctx, ref)
	if err != nil {
		return nil, err
	}

	data := &entity.AnalysisData{Blogger: *blogger, Notes: notes}
	for i := range data.Notes {
		if err := c.sleep(ctx); err != nil {
			return nil, err
		}
		note := &data.Notes[i]
		entry, err := c.FetchNoteDetail(ctx, note)
		if err != nil {
			if errors.Is(err, ErrNoteUnavailable) || errors.Is(err, ErrStateMissing) {
				c.log.Warn("crawler: skipping detail for %s: %v", note.NoteID, err)
				continue
			}
			return nil, err
		}
		comments := parseCommentList(entry, note.NoteID, c.cfg.CrawlerMaxComments)
		data.Comments = append(data.Comments, comments...)
	}
	c.log.Info("crawler: done %s: %d notes, %d comments",
		data.Blogger.Nickname, len(data.Notes), len(data.Comments))
	return data, nil
}

func (c *Crawler) sleep(ctx context.Context) error {
	d := time.Duration(c.cfg.CrawlerSleepSec) * time.Second
	if d <= 0 {
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
