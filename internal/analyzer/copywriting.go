package analyzer

import (
	"regexp"
	"strings"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// CopywritingResult 文案结构拆解
type CopywritingResult struct {
	TotalNotes         int            `json:"total_notes"`
	AvgTitleLength     float64        `json:"avg_title_length"`
	TitlePatterns      map[string]int `json:"title_patterns"`
	NumberTitleCount   int            `json:"number_title_count"`
	QuestionTitleCount int            `json:"question_title_count"`
	EmojiTitleCount    int            `json:"emoji_title_count"`
	HookWords          []WordCount    `json:"hook_words"`
	OpeningHooks       []string       `json:"opening_hooks"`
	AvgDescLength      float64        `json:"avg_desc_length"`
	EmojiUsageRate     float64        `json:"emoji_usage_rate"`
}

// CopywritingAnalyzer classifies title constructions and hook word usage.
type CopywritingAnalyzer struct {
	cfg         *Config
	numberRes   []*regexp.Regexp
	questionRes []*regexp.Regexp
}

func NewCopywritingAnalyzer(cfg *Config) *CopywritingAnalyzer {
	a := &CopywritingAnalyzer{cfg: cfg}
	for _, p := range cfg.NumberPatterns {
		a.numberRes = append(a.numberRes, regexp.MustCompile(p))
	}
	for _, p := range cfg.QuestionPatterns {
		a.questionRes = append(a.questionRes, regexp.MustCompile(p))
	}
	return a
}

func (a *CopywritingAnalyzer) hasNumberPattern(title string) bool {
	for _, re := range a.numberRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

func (a *CopywritingAnalyzer) hasQuestionPattern(title string) bool {
	for _, re := range a.questionRes {
		if re.MatchString(title) {
			return true
		}
	}
	return false
}

// titlePatterns buckets every title into exactly one category, number form
// taking precedence over question form over exclamation.
func (a *CopywritingAnalyzer) titlePatterns(notes []entity.Note) map[string]int {
	patterns := map[string]int{
		"数字型": 0,
		"问句型": 0,
		"感叹型": 0,
		"陈述型": 0,
	}
	for _, n := range notes {
		switch {
		case a.hasNumberPattern(n.Title):
			patterns["数字型"]++
		case a.hasQuestionPattern(n.Title):
			patterns["问句型"]++
		case strings.Contains(n.Title, "!") || strings.Contains(n.Title, "！"):
			patterns["感叹型"]++
		default:
			patterns["陈述型"]++
		}
	}
	return patterns
}

func (a *CopywritingAnalyzer) hookWords(notes []entity.Note) []WordCount {
	c := newCounter()
	for _, n := range notes {
		text := strings.ToLower(n.Title + " " + n.Desc)
		for _, hook := range a.cfg.HookWords {
			if strings.Contains(text, hook) {
				c.add(hook)
			}
		}
	}
	return c.topN(15)
}

func (a *CopywritingAnalyzer) openingHooks(notes []entity.Note) []string {
	var openings []string
	for _, n := range notes {
		if n.Desc == "" {
			continue
		}
		runes := []rune(n.Desc)
		if len(runes) > 50 {
			runes = runes[:50]
		}
		opening := strings.TrimSpace(string(runes))
		if opening != "" {
			openings = append(openings, opening)
		}
	}
	if len(openings) > 5 {
		openings = openings[:5]
	}
	return openings
}

func (a *CopywritingAnalyzer) Analyze(data *entity.AnalysisData) *CopywritingResult {
	notes := data.Notes
	total := len(notes)
	if total == 0 {
		return &CopywritingResult{TitlePatterns: map[string]int{}}
	}

	totalTitleLen := 0
	totalDescLen := 0
	numberCount := 0
	questionCount := 0
	emojiTitleCount := 0
	emojiNotesCount := 0
	for _, n := range notes {
		totalTitleLen += len([]rune(n.Title))
		totalDescLen += len([]rune(n.Desc))
		if a.hasNumberPattern(n.Title) {
			numberCount++
		}
		if a.hasQuestionPattern(n.Title) {
			questionCount++
		}
		if hasEmoji(n.Title) {
			emojiTitleCount++
		}
		if hasEmoji(n.Title) || hasEmoji(n.Desc) {
			emojiNotesCount++
		}
	}

	return &CopywritingResult{
		TotalNotes:         total,
		AvgTitleLength:     round1(float64(totalTitleLen) / float64(total)),
		TitlePatterns:      a.titlePatterns(notes),
		NumberTitleCount:   numberCount,
		QuestionTitleCount: questionCount,
		EmojiTitleCount:    emojiTitleCount,
		HookWords:          a.hookWords(notes),
		OpeningHooks:       a.openingHooks(notes),
		AvgDescLength:      round1(float64(totalDescLen) / float64(total)),
		EmojiUsageRate:     round1(float64(emojiNotesCount) / float64(total) * 100),
	}
}
