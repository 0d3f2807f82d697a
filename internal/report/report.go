// Package report renders an analysis bundle into a Markdown teardown
// document.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
)

var (
	patternOrder   = []string{"数字型", "问句型", "感叹型", "陈述型"}
	dimensionOrder = []string{"互动表现", "运营策略", "内容质量", "爆款潜力"}
	weekdayOrder   = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}
)

// Generator formats analysis bundles. The zero value is ready to use.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the full report. Section numbering follows the teardown
// sheet layout, which skips sheets that need external data.
func (g *Generator) Generate(b *analyzer.Bundle, generatedAt time.Time) []byte {
	sections := []string{
		g.header(b.Basic.Nickname, generatedAt, b.Evaluation.OverallScore),
		g.basicInfo(b.Basic),
		g.accountPosition(b.Position),
		g.topicAnalysis(b.Topic),
		g.contentFormat(b.Format),
		g.copywriting(b.Copywriting),
		g.operations(b.Operations),
		g.viralNotes(b.Viral),
		g.evaluation(b.Evaluation),
		g.footer(),
	}
	return []byte(strings.Join(sections, "\n\n"))
}

// comma inserts thousands separators into a non-negative integer.
func comma(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

func wordList(words []analyzer.WordCount, max int) string {
	if len(words) > max {
		words = words[:max]
	}
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = fmt.Sprintf("%s(%d)", w.Word, w.Count)
	}
	return strings.Join(parts, ", ")
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func (g *Generator) header(nickname string, generatedAt time.Time, score float64) string {
	return fmt.Sprintf(`# 博主分析报告: %s

> 生成时间: %s
>
> 综合评分: **%.0f** / 100`, nickname, generatedAt.Format("2006-01-02 15:04:05"), score)
}

func (g *Generator) basicInfo(info *analyzer.BasicInfoResult) string {
	return fmt.Sprintf(`## 1. 基础信息汇总

| 指标 | 数值 |
|------|------|
| 粉丝数 | %s |
| 笔记数 | %s |
| 获赞数 | %s |
| 总收藏数 | %s |
| 总评论数 | %s |
| 赞粉比 | %.2f |
| 平均每篇点赞 | %.0f |
| 平均每篇互动 | %.0f |
| 互动率 | %.2f%% |`,
		comma(info.FansCount), comma(info.NotesCount), comma(info.LikedCount),
		comma(info.CollectedCount), comma(info.CommentCount),
		info.LikeFanRatio, info.AvgLikesPerNote, info.AvgInteractionsNote, info.EngagementRate)
}

func (g *Generator) accountPosition(info *analyzer.PositionResult) string {
	themes := "暂无明显主题"
	if len(info.ContentThemes) > 0 {
		themes = strings.Join(info.ContentThemes, ", ")
	}
	tags := "暂无标签"
	if len(info.MainTags) > 0 {
		main := info.MainTags
		if len(main) > 10 {
			main = main[:10]
		}
		tags = strings.Join(main, ", ")
	}
	desc := info.Desc
	if desc == "" {
		desc = "暂无"
	}

	return fmt.Sprintf(`## 2. 账号定位分析

### 基本信息
- **昵称**: %s
- **简介**: %s

### 内容定位
- **内容主题**: %s
- **内容风格**: %s (图文 %v%% / 视频 %v%%)
- **主要标签**: %s`,
		info.Nickname, desc, themes, info.ContentStyle, info.ImageRatio, info.VideoRatio, tags)
}

func (g *Generator) topicAnalysis(info *analyzer.TopicResult) string {
	var tagRows []string
	topTags := info.TopTags
	if len(topTags) > 10 {
		topTags = topTags[:10]
	}
	for _, t := range topTags {
		tagRows = append(tagRows, fmt.Sprintf("| %s | %d |", t.Word, t.Count))
	}

	return fmt.Sprintf(`## 4. 选题拆解

### 内容类型分布
- **图文笔记**: %d 篇 (%v%%)
- **视频笔记**: %d 篇 (%v%%)

### 高频标签 TOP 10
| 标签 | 出现次数 |
|------|----------|
%s

### 内容关键词
%s

### 标题高频词
%s`,
		info.ImageCount, info.ImageRatio, info.VideoCount, info.VideoRatio,
		strings.Join(tagRows, "\n"), wordList(info.TopKeywords, 10), wordList(info.TitleKeywords, 8))
}

func (g *Generator) contentFormat(info *analyzer.FormatResult) string {
	return fmt.Sprintf(`## 5. 内容形式拆解

| 维度 | 数据 |
|------|------|
| 图文笔记占比 | %v%% (%d 篇) |
| 视频笔记占比 | %v%% (%d 篇) |
| 平均标题长度 | %.0f 字 |
| 平均正文长度 | %.0f 字 |
| 封面覆盖率 | %v%% |`,
		info.ImageRatio, info.ImageNotesCount, info.VideoRatio, info.VideoNotesCount,
		info.AvgTitleLength, info.AvgDescLength, info.CoverRatio)
}

func (g *Generator) copywriting(info *analyzer.CopywritingResult) string {
	var patternRows []string
	for _, p := range patternOrder {
		if count, ok := info.TitlePatterns[p]; ok {
			patternRows = append(patternRows, fmt.Sprintf("| %s | %d |", p, count))
		}
	}

	var openings []string
	hooks := info.OpeningHooks
	if len(hooks) > 3 {
		hooks = hooks[:3]
	}
	for _, opening := range hooks {
		openings = append(openings, fmt.Sprintf("> %s...", opening))
	}

	return fmt.Sprintf(`## 6. 文案结构拆解

### 标题分析
- **平均标题长度**: %.0f 字
- **数字型标题**: %d 篇
- **问句型标题**: %d 篇
- **含 emoji 标题**: %d 篇

### 标题模式分布
| 模式 | 数量 |
|------|------|
%s

### 常用钩子词
%s

### 开头钩子示例
%s

### 内容特征
- **平均正文长度**: %.0f 字
- **emoji 使用率**: %.0f%%`,
		info.AvgTitleLength, info.NumberTitleCount, info.QuestionTitleCount, info.EmojiTitleCount,
		strings.Join(patternRows, "\n"), wordList(info.HookWords, 10), strings.Join(openings, "\n"),
		info.AvgDescLength, info.EmojiUsageRate)
}

func (g *Generator) operations(info *analyzer.OperationsResult) string {
	var hourRows []string
	for h := 0; h < 24; h++ {
		count := info.PublishHourDist[h]
		if count == 0 {
			continue
		}
		bars := count
		if bars > 20 {
			bars = 20
		}
		hourRows = append(hourRows, fmt.Sprintf("| %02d:00 | %d | %s |", h, count, strings.Repeat("█", bars)))
	}
	hourTable := "| - | - | - |"
	if len(hourRows) > 0 {
		hourTable = strings.Join(hourRows, "\n")
	}

	var weekdayRows []string
	for _, day := range weekdayOrder {
		weekdayRows = append(weekdayRows, fmt.Sprintf("| %s | %d |", day, info.PublishWeekdayDist[day]))
	}

	bestHours := "数据不足"
	if len(info.BestPublishHours) > 0 {
		parts := make([]string, len(info.BestPublishHours))
		for i, h := range info.BestPublishHours {
			parts[i] = fmt.Sprintf("%d:00", h)
		}
		bestHours = strings.Join(parts, ", ")
	}
	bestDays := "数据不足"
	if len(info.BestPublishWeekdays) > 0 {
		bestDays = strings.Join(info.BestPublishWeekdays, ", ")
	}

	return fmt.Sprintf(`## 7. 运营策略拆解

### 更新频率
- **周更新频率**: %.1f 篇/周
- **平均发布间隔**: %.1f 天
- **发布一致性评分**: %.0f/100
- **数据跨度**: %d 天

### 最佳发布时间
- **最佳发布时段**: %s
- **最佳发布日**: %s

### 发布时段分布
| 时段 | 笔记数 | 分布 |
|------|--------|------|
%s

### 发布星期分布
| 星期 | 笔记数 |
|------|--------|
%s`,
		info.UpdateFrequency, info.AvgDaysBetweenPosts, info.ConsistencyScore, info.DateRangeDays,
		bestHours, bestDays, hourTable, strings.Join(weekdayRows, "\n"))
}

func (g *Generator) viralNotes(info *analyzer.ViralNotesResult) string {
	var noteRows []string
	for _, n := range info.TopNotes {
		noteRows = append(noteRows, fmt.Sprintf("| %d | %s | %s | %s | %s | %s | [链接](%s) |",
			n.Rank, truncateRunes(n.Title, 30), n.Type,
			comma(n.LikedCount), comma(n.CollectedCount), comma(n.CommentCount), n.NoteURL))
	}
	notesTable := "| - | - | - | - | - | - | - |"
	if len(noteRows) > 0 {
		notesTable = strings.Join(noteRows, "\n")
	}

	var cards []string
	for _, n := range info.TopNotes {
		cover := "*无封面图片*"
		if n.CoverURL != "" {
			cover = fmt.Sprintf("![封面](%s)", n.CoverURL)
		}
		desc := "*无正文内容*"
		if n.Desc != "" {
			desc = truncateRunes(n.Desc, 500)
		}
		tags := "*无标签*"
		if n.Tags != "" {
			tags = n.Tags
		}
		cards = append(cards, fmt.Sprintf(`#### %d. %s

**基础数据**: 👍 %s | ⭐ %s | 💬 %s | 类型: %s

**封面**:
%s

**正文**:
> %s

**标签**: %s

**链接**: [查看原文](%s)

---`,
			n.Rank, n.Title, comma(n.LikedCount), comma(n.CollectedCount), comma(n.CommentCount),
			n.Type, cover, desc, tags, n.NoteURL))
	}
	cardsText := "暂无数据"
	if len(cards) > 0 {
		cardsText = strings.Join(cards, "\n\n")
	}

	featuresText := "数据不足"
	if f := info.ViralCommonFeatures; f != nil {
		lines := []string{
			fmt.Sprintf("- 平均标题长度: %.0f 字", f.AvgTitleLength),
			fmt.Sprintf("- 数字型标题占比: %.0f%%", f.HasNumberRatio),
			fmt.Sprintf("- 问句型标题占比: %.0f%%", f.HasQuestionRatio),
			fmt.Sprintf("- emoji 使用占比: %.0f%%", f.HasEmojiRatio),
			fmt.Sprintf("- 视频占比: %.0f%%", f.VideoRatio),
		}
		if len(f.CommonKeywords) > 0 {
			keywords := f.CommonKeywords
			if len(keywords) > 8 {
				keywords = keywords[:8]
			}
			lines = append(lines, fmt.Sprintf("- 共同关键词: %s", strings.Join(keywords, ", ")))
		}
		featuresText = strings.Join(lines, "\n")
	}

	viralTags := "暂无"
	if len(info.ViralTags) > 0 {
		viralTags = wordList(info.ViralTags, 8)
	}

	return fmt.Sprintf(`## 9. 爆款笔记拆解

### 数据概览
- **爆款内容类型偏好**: %s
- **TOP10 平均点赞**: %.0f
- **TOP10 平均互动**: %.0f

### TOP 10 高互动笔记
| 排名 | 标题 | 类型 | 点赞 | 收藏 | 评论 | 链接 |
|------|------|------|------|------|------|------|
%s

### 爆款笔记详情

%s

### 爆款特征分析
%s

### 爆款高频标签
%s`,
		info.ViralContentType, info.AvgViralLikes, info.AvgViralInteractions,
		notesTable, cardsText, featuresText, viralTags)
}

func (g *Generator) evaluation(info *analyzer.EvaluationResult) string {
	strengths := "- 暂无"
	if len(info.Strengths) > 0 {
		lines := make([]string, len(info.Strengths))
		for i, s := range info.Strengths {
			lines[i] = "- " + s
		}
		strengths = strings.Join(lines, "\n")
	}
	weaknesses := "- 暂无"
	if len(info.Weaknesses) > 0 {
		lines := make([]string, len(info.Weaknesses))
		for i, w := range info.Weaknesses {
			lines[i] = "- " + w
		}
		weaknesses = strings.Join(lines, "\n")
	}
	actions := "1. 暂无"
	if len(info.ActionItems) > 0 {
		lines := make([]string, len(info.ActionItems))
		for i, a := range info.ActionItems {
			lines[i] = fmt.Sprintf("%d. %s", i+1, a)
		}
		actions = strings.Join(lines, "\n")
	}

	var scoreRows []string
	for _, dim := range dimensionOrder {
		if score, ok := info.DimensionScores[dim]; ok {
			scoreRows = append(scoreRows, fmt.Sprintf("| %s | %.0f |", dim, score))
		}
	}

	return fmt.Sprintf(`## 10. 综合评估与行动计划

### 各维度评分
| 维度 | 得分 |
|------|------|
%s
| **总分** | **%.0f** |

### 优势
%s

### 待改进
%s

### 行动建议
%s`,
		strings.Join(scoreRows, "\n"), info.OverallScore, strengths, weaknesses, actions)
}

func (g *Generator) footer() string {
	return `---

*注: 粉丝画像分析和变现模式分析需要外部数据，暂不支持*

*报告由「小红书对标博主拆解系统」自动生成*`
}
