package analyzer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// ViralNoteDetail 爆款笔记详情
type ViralNoteDetail struct {
	Rank              int    `json:"rank"`
	NoteID            string `json:"note_id"`
	Title             string `json:"title"`
	Type              string `json:"type"`
	LikedCount        int    `json:"liked_count"`
	CollectedCount    int    `json:"collected_count"`
	CommentCount      int    `json:"comment_count"`
	ShareCount        int    `json:"share_count"`
	TotalInteractions int    `json:"total_interactions"`
	NoteURL           string `json:"note_url"`
	Tags              string `json:"tags"`
	CoverURL          string `json:"cover_url"`
	Desc              string `json:"desc"`
}

// ViralCommonFeatures 爆款共同特征
type ViralCommonFeatures struct {
	AvgTitleLength   float64  `json:"avg_title_length"`
	HasNumberRatio   float64  `json:"has_number_ratio"`
	HasQuestionRatio float64  `json:"has_question_ratio"`
	HasEmojiRatio    float64  `json:"has_emoji_ratio"`
	VideoRatio       float64  `json:"video_ratio"`
	CommonKeywords   []string `json:"common_keywords"`
}

// ViralNotesResult 爆款笔记拆解
type ViralNotesResult struct {
	TotalNotes           int                  `json:"total_notes"`
	TopNotes             []ViralNoteDetail    `json:"top_notes"`
	ViralCommonFeatures  *ViralCommonFeatures `json:"viral_common_features"`
	AvgViralLikes        float64              `json:"avg_viral_likes"`
	AvgViralInteractions float64              `json:"avg_viral_interactions"`
	ViralContentType     string               `json:"viral_content_type"`
	ViralTags            []WordCount          `json:"viral_tags"`
}

var (
	viralNumberRe   = regexp.MustCompile(`\d+`)
	viralQuestionRe = regexp.MustCompile(`[?？如何怎么为什么]`)
	viralKeywordRe  = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,4}`)
)

// ViralNotesAnalyzer ranks the highest-interaction notes and profiles what
// they share.
type ViralNotesAnalyzer struct {
	topCount int
}

func NewViralNotesAnalyzer(cfg *Config) *ViralNotesAnalyzer {
	return &ViralNotesAnalyzer{topCount: cfg.ViralTopCount}
}

func (a *ViralNotesAnalyzer) topNotes(notes []entity.Note) []entity.Note {
	sorted := make([]entity.Note, len(notes))
	copy(sorted, notes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalInteractions() > sorted[j].TotalInteractions()
	})
	if len(sorted) > a.topCount {
		sorted = sorted[:a.topCount]
	}
	return sorted
}

func noteDetails(top []entity.Note) []ViralNoteDetail {
	details := make([]ViralNoteDetail, 0, len(top))
	for i, n := range top {
		url := n.NoteURL
		if url == "" {
			url = fmt.Sprintf("https://www.xiaohongshu.com/explore/%s", n.NoteID)
		}
		details = append(details, ViralNoteDetail{
			Rank:              i + 1,
			NoteID:            n.NoteID,
			Title:             n.Title,
			Type:              n.Type,
			LikedCount:        n.LikedCount,
			CollectedCount:    n.CollectedCount,
			CommentCount:      n.CommentCount,
			ShareCount:        n.ShareCount,
			TotalInteractions: n.TotalInteractions(),
			NoteURL:           url,
			Tags:              n.Tags,
			CoverURL:          n.CoverURL,
			Desc:              n.Desc,
		})
	}
	return details
}

func commonFeatures(top []entity.Note) *ViralCommonFeatures {
	if len(top) == 0 {
		return nil
	}

	totalTitleLen := 0
	hasNumber := 0
	hasQuestion := 0
	hasEmojiCount := 0
	videoCount := 0
	for _, n := range top {
		totalTitleLen += len([]rune(n.Title))
		if viralNumberRe.MatchString(n.Title) {
			hasNumber++
		}
		if viralQuestionRe.MatchString(n.Title) {
			hasQuestion++
		}
		if containsEmoji(n.Title, viralEmojiRanges) {
			hasEmojiCount++
		}
		if n.IsVideo() {
			videoCount++
		}
	}

	c := newCounter()
	var texts []string
	for _, n := range top {
		texts = append(texts, n.Title+" "+n.Tags)
	}
	for _, word := range viralKeywordRe.FindAllString(strings.Join(texts, " "), -1) {
		c.add(word)
	}
	topWords := c.topN(10)
	keywords := make([]string, len(topWords))
	for i, w := range topWords {
		keywords[i] = w.Word
	}

	n := float64(len(top))
	return &ViralCommonFeatures{
		AvgTitleLength:   round1(float64(totalTitleLen) / n),
		HasNumberRatio:   round1(float64(hasNumber) / n * 100),
		HasQuestionRatio: round1(float64(hasQuestion) / n * 100),
		HasEmojiRatio:    round1(float64(hasEmojiCount) / n * 100),
		VideoRatio:       round1(float64(videoCount) / n * 100),
		CommonKeywords:   keywords,
	}
}

func viralTags(top []entity.Note) []WordCount {
	c := newCounter()
	for _, n := range top {
		for _, tag := range splitTags(n.Tags, true) {
			if len([]rune(tag)) >= 2 {
				c.add(tag)
			}
		}
	}
	return c.topN(10)
}

func viralContentType(top []entity.Note) string {
	if len(top) == 0 {
		return "未知"
	}
	videoCount := 0
	for _, n := range top {
		if n.IsVideo() {
			videoCount++
		}
	}
	imageCount := len(top) - videoCount
	switch {
	case videoCount > imageCount:
		return "视频型"
	case imageCount > videoCount:
		return "图文型"
	default:
		return "混合型"
	}
}

func (a *ViralNotesAnalyzer) Analyze(data *entity.AnalysisData) *ViralNotesResult {
	notes := data.Notes
	if len(notes) == 0 {
		return &ViralNotesResult{ViralContentType: "未知"}
	}

	top := a.topNotes(notes)

	var totalLikes, totalInteractions int
	for _, n := range top {
		totalLikes += n.LikedCount
		totalInteractions += n.TotalInteractions()
	}

	return &ViralNotesResult{
		TotalNotes:           len(notes),
		TopNotes:             noteDetails(top),
		ViralCommonFeatures:  commonFeatures(top),
		AvgViralLikes:        round1(float64(totalLikes) / float64(len(top))),
		AvgViralInteractions: round1(float64(totalInteractions) / float64(len(top))),
		ViralContentType:     viralContentType(top),
		ViralTags:            viralTags(top),
	}
}
