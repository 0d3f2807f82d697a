package analyzer

import (
	"fmt"
	"strings"
)

// EvaluationResult 综合评估与行动计划
type EvaluationResult struct {
	Strengths       []string           `json:"strengths"`
	Weaknesses      []string           `json:"weaknesses"`
	ActionItems     []string           `json:"action_items"`
	OverallScore    float64            `json:"overall_score"`
	DimensionScores map[string]float64 `json:"dimension_scores"`
}

// EvaluationAnalyzer rolls the per-dimension findings into a scored action
// plan.
type EvaluationAnalyzer struct {
	cfg EvaluationConfig
}

func NewEvaluationAnalyzer(cfg *Config) *EvaluationAnalyzer {
	return &EvaluationAnalyzer{cfg: cfg.Evaluation}
}

type dimensionFindings struct {
	score      float64
	strengths  []string
	weaknesses []string
	actions    []string
}

func (a *EvaluationAnalyzer) evaluateEngagement(basic *BasicInfoResult) dimensionFindings {
	var f dimensionFindings

	ratio := basic.LikeFanRatio
	switch {
	case ratio >= a.cfg.LikeFanRatio.Excellent:
		f.score += 30
		f.strengths = append(f.strengths, fmt.Sprintf("赞粉比优秀 (%.2f)，粉丝质量高", ratio))
	case ratio >= a.cfg.LikeFanRatio.Good:
		f.score += 20
		f.strengths = append(f.strengths, fmt.Sprintf("赞粉比良好 (%.2f)", ratio))
	case ratio >= a.cfg.LikeFanRatio.Average:
		f.score += 10
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("赞粉比一般 (%.2f)，可提高内容质量", ratio))
	default:
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("赞粉比较低 (%.2f)，需提升内容吸引力", ratio))
		f.actions = append(f.actions, "优化内容质量，提高互动率")
	}

	engagement := basic.EngagementRate
	switch {
	case engagement >= a.cfg.EngagementRate.Excellent*100:
		f.score += 20
		f.strengths = append(f.strengths, fmt.Sprintf("互动率高 (%.1f%%)", engagement))
	case engagement >= a.cfg.EngagementRate.Good*100:
		f.score += 15
	case engagement >= a.cfg.EngagementRate.Average*100:
		f.score += 10
	default:
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("互动率偏低 (%.1f%%)", engagement))
		f.actions = append(f.actions, "增加互动引导，如提问、征集意见等")
	}

	return f
}

func (a *EvaluationAnalyzer) evaluateOperations(ops *OperationsResult) dimensionFindings {
	var f dimensionFindings

	freq := ops.UpdateFrequency
	switch {
	case freq >= a.cfg.UpdateFrequency.High:
		f.score += 20
		f.strengths = append(f.strengths, fmt.Sprintf("更新频率高 (%.1f篇/周)", freq))
	case freq >= a.cfg.UpdateFrequency.Medium:
		f.score += 15
		f.strengths = append(f.strengths, fmt.Sprintf("更新频率适中 (%.1f篇/周)", freq))
	default:
		f.score += 5
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("更新频率较低 (%.1f篇/周)", freq))
		f.actions = append(f.actions, "建议提高更新频率至每周3-5篇")
	}

	switch {
	case ops.ConsistencyScore >= 70:
		f.score += 15
		f.strengths = append(f.strengths, "发布节奏稳定，用户粘性好")
	case ops.ConsistencyScore >= 50:
		f.score += 10
	default:
		f.weaknesses = append(f.weaknesses, "发布节奏不稳定")
		f.actions = append(f.actions, "制定固定的发布计划，保持更新节奏")
	}

	return f
}

func (a *EvaluationAnalyzer) evaluateContent(topic *TopicResult, cw *CopywritingResult) dimensionFindings {
	var f dimensionFindings

	if len(topic.TopTags) >= 5 {
		f.score += 10
		f.strengths = append(f.strengths, "标签使用丰富，利于被发现")
	} else {
		f.weaknesses = append(f.weaknesses, "标签使用较少")
		f.actions = append(f.actions, "增加相关标签，每篇笔记使用3-5个标签")
	}

	if cw.TotalNotes > 0 {
		numberRatio := float64(cw.NumberTitleCount) / float64(cw.TotalNotes) * 100
		questionRatio := float64(cw.QuestionTitleCount) / float64(cw.TotalNotes) * 100
		if numberRatio >= 30 || questionRatio >= 20 {
			f.score += 15
			f.strengths = append(f.strengths, "标题技巧运用得当")
		} else {
			f.actions = append(f.actions, "尝试使用数字型或问句型标题，提高点击率")
		}
	}

	if len(cw.HookWords) >= 5 {
		f.score += 10
		f.strengths = append(f.strengths, "善用钩子词吸引用户")
	} else {
		f.actions = append(f.actions, "学习使用钩子词，如'必看'、'干货'、'宝藏'等")
	}

	return f
}

func (a *EvaluationAnalyzer) evaluateViralPotential(viral *ViralNotesResult) dimensionFindings {
	var f dimensionFindings

	switch {
	case viral.AvgViralLikes >= 1000:
		f.score += 15
		f.strengths = append(f.strengths, fmt.Sprintf("已有高互动笔记 (TOP10平均点赞 %.0f)", viral.AvgViralLikes))
	case viral.AvgViralLikes >= 500:
		f.score += 10
		f.strengths = append(f.strengths, "具备一定的爆款能力")
	default:
		f.weaknesses = append(f.weaknesses, "暂无高互动笔记")
		f.actions = append(f.actions, "分析竞品爆款，学习爆款特征")
	}

	if features := viral.ViralCommonFeatures; features != nil {
		if features.HasNumberRatio >= 50 {
			f.strengths = append(f.strengths, "爆款标题善用数字")
		}
		if features.VideoRatio >= 60 {
			f.strengths = append(f.strengths, "视频内容更容易获得高互动")
		} else if features.VideoRatio <= 40 {
			f.strengths = append(f.strengths, "图文内容更容易获得高互动")
		}
	}

	return f
}

func (a *EvaluationAnalyzer) Analyze(
	basic *BasicInfoResult,
	position *PositionResult,
	topic *TopicResult,
	copywriting *CopywritingResult,
	operations *OperationsResult,
	viral *ViralNotesResult,
) *EvaluationResult {
	var strengths, weaknesses, actions []string
	dimensionScores := make(map[string]float64, 4)

	collect := func(name string, f dimensionFindings) {
		dimensionScores[name] = f.score
		strengths = append(strengths, f.strengths...)
		weaknesses = append(weaknesses, f.weaknesses...)
		actions = append(actions, f.actions...)
	}

	collect("互动表现", a.evaluateEngagement(basic))
	collect("运营策略", a.evaluateOperations(operations))
	collect("内容质量", a.evaluateContent(topic, copywriting))
	collect("爆款潜力", a.evaluateViralPotential(viral))

	var overall float64
	for _, s := range dimensionScores {
		overall += s
	}

	if len(position.ContentThemes) > 0 {
		themes := position.ContentThemes
		if len(themes) > 3 {
			themes = themes[:3]
		}
		strengths = append([]string{fmt.Sprintf("内容定位清晰: %s", strings.Join(themes, ", "))}, strengths...)
	}

	if len(operations.BestPublishHours) > 0 {
		hours := operations.BestPublishHours
		if len(hours) > 3 {
			hours = hours[:3]
		}
		parts := make([]string, len(hours))
		for i, h := range hours {
			parts[i] = fmt.Sprintf("%d:00", h)
		}
		actions = append(actions, fmt.Sprintf("建议发布时间: %s", strings.Join(parts, ", ")))
	}

	return &EvaluationResult{
		Strengths:       capList(strengths, 10),
		Weaknesses:      capList(weaknesses, 5),
		ActionItems:     capList(actions, 8),
		OverallScore:    overall,
		DimensionScores: dimensionScores,
	}
}

func capList(items []string, max int) []string {
	if len(items) > max {
		return items[:max]
	}
	return items
}
