package analyzer

import "github.com/bamao88/Topic-Monitoring-feishu/internal/entity"

// BasicInfoResult 基础信息汇总
type BasicInfoResult struct {
	BloggerID           string  `json:"blogger_id"`
	Nickname            string  `json:"nickname"`
	Avatar              string  `json:"avatar"`
	FansCount           int     `json:"fans_count"`
	NotesCount          int     `json:"notes_count"`
	LikedCount          int     `json:"liked_count"`
	CollectedCount      int     `json:"collected_count"`
	CommentCount        int     `json:"comment_count"`
	ShareCount          int     `json:"share_count"`
	LikeFanRatio        float64 `json:"like_fan_ratio"`
	AvgLikesPerNote     float64 `json:"avg_likes_per_note"`
	AvgInteractionsNote float64 `json:"avg_interactions_per_note"`
	EngagementRate      float64 `json:"engagement_rate"`
}

// BasicInfoAnalyzer aggregates interaction totals and fan-relative ratios.
type BasicInfoAnalyzer struct{}

func NewBasicInfoAnalyzer() *BasicInfoAnalyzer {
	return &BasicInfoAnalyzer{}
}

func (a *BasicInfoAnalyzer) Analyze(data *entity.AnalysisData) *BasicInfoResult {
	blogger := data.Blogger
	notes := data.Notes

	var totalLiked, totalCollected, totalComments, totalShares int
	for _, n := range notes {
		totalLiked += n.LikedCount
		totalCollected += n.CollectedCount
		totalComments += n.CommentCount
		totalShares += n.ShareCount
	}
	totalInteractions := totalLiked + totalCollected + totalComments + totalShares

	notesCount := len(notes)
	if notesCount == 0 {
		notesCount = blogger.NotesCount
	}
	fansCount := blogger.FansCount
	if fansCount == 0 {
		fansCount = 1
	}

	likeFanRatio := float64(blogger.LikedCount) / float64(fansCount)
	engagementRate := float64(totalInteractions) / float64(fansCount) * 100

	var avgLikes, avgInteractions float64
	if notesCount > 0 {
		avgLikes = float64(totalLiked) / float64(notesCount)
		avgInteractions = float64(totalInteractions) / float64(notesCount)
	}

	return &BasicInfoResult{
		BloggerID:           blogger.BloggerID,
		Nickname:            blogger.Nickname,
		Avatar:              blogger.Avatar,
		FansCount:           blogger.FansCount,
		NotesCount:          notesCount,
		LikedCount:          blogger.LikedCount,
		CollectedCount:      totalCollected,
		CommentCount:        totalComments,
		ShareCount:          totalShares,
		LikeFanRatio:        round2(likeFanRatio),
		AvgLikesPerNote:     round1(avgLikes),
		AvgInteractionsNote: round1(avgInteractions),
		EngagementRate:      round2(engagementRate),
	}
}
