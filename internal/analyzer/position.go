package analyzer

import (
	"sort"
	"strings"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// PositionResult 账号定位分析
type PositionResult struct {
	Nickname         string   `json:"nickname"`
	NicknameKeywords []string `json:"nickname_keywords"`
	Desc             string   `json:"desc"`
	DescKeywords     []string `json:"desc_keywords"`
	MainTags         []string `json:"main_tags"`
	ContentStyle     string   `json:"content_style"`
	VideoRatio       float64  `json:"video_ratio"`
	ImageRatio       float64  `json:"image_ratio"`
	ContentThemes    []string `json:"content_themes"`
}

// PositionAnalyzer derives the account's positioning from its profile text,
// note tags and the mix of content formats.
type PositionAnalyzer struct {
	cfg *Config
}

func NewPositionAnalyzer(cfg *Config) *PositionAnalyzer {
	return &PositionAnalyzer{cfg: cfg}
}

func (a *PositionAnalyzer) Analyze(data *entity.AnalysisData) *PositionResult {
	blogger := data.Blogger
	notes := data.Notes

	style, videoRatio, imageRatio := a.contentStyle(notes)

	return &PositionResult{
		Nickname:         blogger.Nickname,
		NicknameKeywords: extractKeywords(blogger.Nickname, 10),
		Desc:             blogger.Desc,
		DescKeywords:     extractKeywords(blogger.Desc, 10),
		MainTags:         a.mainTags(notes),
		ContentStyle:     style,
		VideoRatio:       videoRatio,
		ImageRatio:       imageRatio,
		ContentThemes:    a.detectThemes(notes, blogger.Desc),
	}
}

func (a *PositionAnalyzer) mainTags(notes []entity.Note) []string {
	c := newCounter()
	for _, note := range notes {
		for _, tag := range splitTags(note.Tags, false) {
			c.add(tag)
		}
	}
	top := c.topN(10)
	tags := make([]string, len(top))
	for i, t := range top {
		tags[i] = t.Word
	}
	return tags
}

func (a *PositionAnalyzer) contentStyle(notes []entity.Note) (string, float64, float64) {
	if len(notes) == 0 {
		return "未知", 0, 0
	}

	videoCount := 0
	for _, n := range notes {
		if n.IsVideo() {
			videoCount++
		}
	}
	imageCount := len(notes) - videoCount

	videoRatio := float64(videoCount) / float64(len(notes)) * 100
	imageRatio := float64(imageCount) / float64(len(notes)) * 100

	var style string
	switch {
	case videoRatio >= 70:
		style = "视频型"
	case imageRatio >= 70:
		style = "图文型"
	default:
		style = "混合型"
	}
	return style, round1(videoRatio), round1(imageRatio)
}

func (a *PositionAnalyzer) detectThemes(notes []entity.Note, desc string) []string {
	var b strings.Builder
	b.WriteString(desc)
	b.WriteString(" ")
	for _, n := range notes {
		b.WriteString(n.Title)
		b.WriteString(" ")
		b.WriteString(n.Desc)
		b.WriteString(" ")
		b.WriteString(n.Tags)
		b.WriteString(" ")
	}
	allText := strings.ToLower(b.String())

	type match struct {
		theme string
		count int
	}
	var detected []match
	for _, dk := range a.cfg.DomainKeywords {
		matchCount := 0
		for _, kw := range dk.Keywords {
			if strings.Contains(allText, kw) {
				matchCount++
			}
		}
		if matchCount >= 2 {
			detected = append(detected, match{dk.Theme, matchCount})
		}
	}
	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].count > detected[j].count
	})
	if len(detected) > 5 {
		detected = detected[:5]
	}
	themes := make([]string, len(detected))
	for i, m := range detected {
		themes[i] = m.theme
	}
	return themes
}
