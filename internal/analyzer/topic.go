package analyzer

import "github.com/bamao88/Topic-Monitoring-feishu/internal/entity"

// TopicResult 选题拆解
type TopicResult struct {
	TotalNotes    int         `json:"total_notes"`
	ImageCount    int         `json:"image_count"`
	VideoCount    int         `json:"video_count"`
	ImageRatio    float64     `json:"image_ratio"`
	VideoRatio    float64     `json:"video_ratio"`
	TopTags       []WordCount `json:"top_tags"`
	TopKeywords   []WordCount `json:"top_keywords"`
	TitleKeywords []WordCount `json:"title_keywords"`
}

// TopicAnalyzer surfaces the ranked tag and keyword vocabulary of the corpus.
type TopicAnalyzer struct {
	cfg *Config
}

func NewTopicAnalyzer(cfg *Config) *TopicAnalyzer {
	return &TopicAnalyzer{cfg: cfg}
}

func (a *TopicAnalyzer) Analyze(data *entity.AnalysisData) *TopicResult {
	notes := data.Notes
	total := len(notes)
	if total == 0 {
		return &TopicResult{}
	}

	videoCount := 0
	for _, n := range notes {
		if n.IsVideo() {
			videoCount++
		}
	}
	imageCount := total - videoCount

	tags := newCounter()
	for _, n := range notes {
		for _, tag := range splitTags(n.Tags, true) {
			if len([]rune(tag)) >= 2 {
				tags.add(tag)
			}
		}
	}

	descs := newCounter()
	titles := newCounter()
	descTexts := make([]string, 0, total)
	titleTexts := make([]string, 0, total)
	for _, n := range notes {
		descTexts = append(descTexts, n.Desc)
		titleTexts = append(titleTexts, n.Title)
	}
	countWords(descTexts, a.cfg.Stopwords, descs)
	countWords(titleTexts, a.cfg.Stopwords, titles)

	return &TopicResult{
		TotalNotes:    total,
		ImageCount:    imageCount,
		VideoCount:    videoCount,
		ImageRatio:    round1(float64(imageCount) / float64(total) * 100),
		VideoRatio:    round1(float64(videoCount) / float64(total) * 100),
		TopTags:       tags.topN(10),
		TopKeywords:   descs.topN(15),
		TitleKeywords: titles.topN(10),
	}
}
