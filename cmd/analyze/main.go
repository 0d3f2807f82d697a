package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/feishu"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/usecase"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/config"
	"github.com/bamao88/Topic-Monitoring-feishu/pkg/logger"
)

// One-shot analysis runner: renders the teardown report for one blogger,
// or for every blogger in the table with -all.
func main() {
	all := flag.Bool("all", false, "analyze every blogger in the table")
	flag.Parse()

	bloggerID := flag.Arg(0)
	if bloggerID == "" && !*all {
		fmt.Fprintln(os.Stderr, "usage: analyze BLOGGER_ID")
		fmt.Fprintln(os.Stderr, "       analyze -all")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := logger.New()

	feishuClient, err := feishu.NewClient(cfg, log)
	if err != nil {
		log.Error("Failed to create Feishu client: %v", err)
		os.Exit(1)
	}

	uc := usecase.NewAnalysisUseCase(feishuClient, analyzer.NewSuite(nil), nil, nil, log)
	ctx := context.Background()

	if *all {
		reports, err := uc.AnalyzeAll(ctx)
		if err != nil {
			log.Error("Analysis failed: %v", err)
			os.Exit(1)
		}
		for _, r := range reports {
			printResult(r)
		}
		return
	}

	r, err := uc.AnalyzeBlogger(ctx, bloggerID)
	if err != nil {
		log.Error("Analysis failed for %s: %v", bloggerID, err)
		os.Exit(1)
	}
	printResult(r)
}

func printResult(r *usecase.AnalysisReport) {
	fmt.Printf("analyzed %s (%s)\n", r.Nickname, r.BloggerID)
	if r.DocURL != "" {
		fmt.Printf("  report: %s\n", r.DocURL)
	}
}
