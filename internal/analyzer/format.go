package analyzer

import "github.com/bamao88/Topic-Monitoring-feishu/internal/entity"

// FormatResult 内容形式拆解
type FormatResult struct {
	TotalNotes      int     `json:"total_notes"`
	ImageNotesCount int     `json:"image_notes_count"`
	VideoNotesCount int     `json:"video_notes_count"`
	ImageRatio      float64 `json:"image_ratio"`
	VideoRatio      float64 `json:"video_ratio"`
	AvgDescLength   float64 `json:"avg_desc_length"`
	AvgTitleLength  float64 `json:"avg_title_length"`
	HasCoverCount   int     `json:"has_cover_count"`
	CoverRatio      float64 `json:"cover_ratio"`
}

// FormatAnalyzer profiles the structural shape of the notes.
type FormatAnalyzer struct{}

func NewFormatAnalyzer() *FormatAnalyzer {
	return &FormatAnalyzer{}
}

func (a *FormatAnalyzer) Analyze(data *entity.AnalysisData) *FormatResult {
	notes := data.Notes
	total := len(notes)
	if total == 0 {
		return &FormatResult{}
	}

	videoCount := 0
	totalDescLen := 0
	totalTitleLen := 0
	hasCoverCount := 0
	for _, n := range notes {
		if n.IsVideo() {
			videoCount++
		}
		totalDescLen += len([]rune(n.Desc))
		totalTitleLen += len([]rune(n.Title))
		if n.CoverURL != "" {
			hasCoverCount++
		}
	}
	imageCount := total - videoCount

	return &FormatResult{
		TotalNotes:      total,
		ImageNotesCount: imageCount,
		VideoNotesCount: videoCount,
		ImageRatio:      round1(float64(imageCount) / float64(total) * 100),
		VideoRatio:      round1(float64(videoCount) / float64(total) * 100),
		AvgDescLength:   round1(float64(totalDescLen) / float64(total)),
		AvgTitleLength:  round1(float64(totalTitleLen) / float64(total)),
		HasCoverCount:   hasCoverCount,
		CoverRatio:      round1(float64(hasCoverCount) / float64(total) * 100),
	}
}
