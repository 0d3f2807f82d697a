package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/crawler"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/usecase"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

// One-shot crawl-and-sync runner. Takes shared profile links as
// arguments and writes the crawled data to the Bitable tables.
func main() {
	flag.Parse()
	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: sync PROFILE_URL [PROFILE_URL...]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New()

	if cfg.XHSCookie == "" {
		log.Error("XHS_COOKIE is not set, the creator pages will not render")
		os.Exit(1)
	}

	feishuClient, err := feishu.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to create Feishu client: %v", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cr := crawler.New(cfg, log)
	if err := cr.Start(ctx); err != nil {
		log.Error("Failed to start crawler: %v", err)
		os.Exit(1)
	}
	defer cr.Close()

	uc := usecase.NewSyncUseCase(cr, feishuClient, log)
	stats, err := uc.SyncAll(ctx, urls)
	if err != nil {
		log.Error("Sync failed: %v", err)
		os.Exit(1)
	}
	fmt.Printf("synced %d new notes, %d new comments\n", stats.Notes, stats.Comments)
}
