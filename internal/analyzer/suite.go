package analyzer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// Bundle carries the full set of results for one blogger.
type Bundle struct {
	Basic       *BasicInfoResult   `json:"basic_info"`
	Position    *PositionResult    `json:"account_position"`
	Topic       *TopicResult       `json:"topic_analysis"`
	Format      *FormatResult      `json:"content_format"`
	Copywriting *CopywritingResult `json:"copywriting"`
	Operations  *OperationsResult  `json:"operations"`
	Viral       *ViralNotesResult  `json:"viral_notes"`
	Evaluation  *EvaluationResult  `json:"evaluation"`
}

// Suite owns one instance of every analyzer and fans a corpus out across
// them.
type Suite struct {
	basic       *BasicInfoAnalyzer
	position    *PositionAnalyzer
	topic       *TopicAnalyzer
	format      *FormatAnalyzer
	copywriting *CopywritingAnalyzer
	operations  *OperationsAnalyzer
	viral       *ViralNotesAnalyzer
	evaluation  *EvaluationAnalyzer
}

func NewSuite(cfg *Config) *Suite {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Suite{
		basic:       NewBasicInfoAnalyzer(),
		position:    NewPositionAnalyzer(cfg),
		topic:       NewTopicAnalyzer(cfg),
		format:      NewFormatAnalyzer(),
		copywriting: NewCopywritingAnalyzer(cfg),
		operations:  NewOperationsAnalyzer(cfg),
		viral:       NewViralNotesAnalyzer(cfg),
		evaluation:  NewEvaluationAnalyzer(cfg),
	}
}

// Run executes the seven independent analyzers concurrently, then feeds
// their results to the evaluation pass.
func (s *Suite) Run(ctx context.Context, data *entity.AnalysisData) (*Bundle, error) {
	b := &Bundle{}
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error { b.Basic = s.basic.Analyze(data); return nil })
	g.Go(func() error { b.Position = s.position.Analyze(data); return nil })
	g.Go(func() error { b.Topic = s.topic.Analyze(data); return nil })
	g.Go(func() error { b.Format = s.format.Analyze(data); return nil })
	g.Go(func() error { b.Copywriting = s.copywriting.Analyze(data); return nil })
	g.Go(func() error { b.Operations = s.operations.Analyze(data); return nil })
	g.Go(func() error { b.Viral = s.viral.Analyze(data); return nil })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.Evaluation = s.evaluation.Analyze(b.Basic, b.Position, b.Topic, b.Copywriting, b.Operations, b.Viral)
	return b, nil
}
