package analyzer

import (
	"math"
	"sort"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// OperationsResult 运营策略拆解
type OperationsResult struct {
	TotalNotes          int            `json:"total_notes"`
	UpdateFrequency     float64        `json:"update_frequency"`
	PublishHourDist     map[int]int    `json:"publish_hour_distribution"`
	PublishWeekdayDist  map[string]int `json:"publish_weekday_distribution"`
	BestPublishHours    []int          `json:"best_publish_hours"`
	BestPublishWeekdays []string       `json:"best_publish_weekdays"`
	AvgDaysBetweenPosts float64        `json:"avg_days_between_posts"`
	ConsistencyScore    float64        `json:"consistency_score"`
	DateRangeDays       int            `json:"date_range_days"`
}

// OperationsAnalyzer reads the posting schedule out of publish timestamps.
type OperationsAnalyzer struct {
	cfg *Config
}

func NewOperationsAnalyzer(cfg *Config) *OperationsAnalyzer {
	return &OperationsAnalyzer{cfg: cfg}
}

func (a *OperationsAnalyzer) validTimes(notes []entity.Note) []time.Time {
	var times []time.Time
	for _, n := range notes {
		if n.PublishTime == 0 {
			continue
		}
		if t, ok := parseTimestamp(n.PublishTime); ok {
			times = append(times, t)
		}
	}
	return times
}

// publishDistributions always returns all 24 hour keys and all 7 weekday
// keys, zero-filled.
func (a *OperationsAnalyzer) publishDistributions(times []time.Time) (map[int]int, map[string]int) {
	hourDist := make(map[int]int, 24)
	for h := 0; h < 24; h++ {
		hourDist[h] = 0
	}
	weekdayDist := make(map[string]int, 7)
	for _, d := range a.cfg.WeekdayNames {
		weekdayDist[d] = 0
	}
	for _, t := range times {
		hourDist[t.Hour()]++
		weekdayDist[a.cfg.WeekdayNames[weekdayIndex(t.Weekday())]]++
	}
	return hourDist, weekdayDist
}

func bestHours(hourDist map[int]int) []int {
	type hc struct {
		hour  int
		count int
	}
	entries := make([]hc, 0, 24)
	for h := 0; h < 24; h++ {
		entries = append(entries, hc{h, hourDist[h]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	var best []int
	for _, e := range entries[:3] {
		if e.count > 0 {
			best = append(best, e.hour)
		}
	}
	return best
}

func (a *OperationsAnalyzer) bestWeekdays(weekdayDist map[string]int) []string {
	type dc struct {
		day   string
		count int
	}
	entries := make([]dc, 0, 7)
	for _, d := range a.cfg.WeekdayNames {
		entries = append(entries, dc{d, weekdayDist[d]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	var best []string
	for _, e := range entries[:3] {
		if e.count > 0 {
			best = append(best, e.day)
		}
	}
	return best
}

// daysBetween counts whole days, truncating partial ones.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func (a *OperationsAnalyzer) frequency(times []time.Time) (float64, float64, int) {
	if len(times) < 2 {
		return 0, 0, 0
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	dateRange := daysBetween(sorted[0], sorted[len(sorted)-1])
	if dateRange == 0 {
		dateRange = 1
	}

	weeks := float64(dateRange) / 7.0
	if weeks < 1 {
		weeks = 1
	}
	frequency := float64(len(sorted)) / weeks
	avgInterval := float64(dateRange) / float64(len(sorted)-1)

	return round2(frequency), round1(avgInterval), dateRange
}

// consistency scores how regular the gaps between posts are, from the
// coefficient of variation of whole-day intervals.
func (a *OperationsAnalyzer) consistency(times []time.Time) float64 {
	if len(times) < 3 {
		return 0
	}
	sorted := make([]time.Time, len(times))
	copy(sorted, times)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, float64(daysBetween(sorted[i-1], sorted[i])))
	}

	var sum float64
	for _, v := range intervals {
		sum += v
	}
	mean := sum / float64(len(intervals))
	if mean == 0 {
		return 100
	}

	var variance float64
	for _, v := range intervals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(intervals))
	cv := math.Sqrt(variance) / mean

	return round1(math.Max(0, 100-cv*50))
}

func (a *OperationsAnalyzer) Analyze(data *entity.AnalysisData) *OperationsResult {
	notes := data.Notes
	total := len(notes)

	times := a.validTimes(notes)
	hourDist, weekdayDist := a.publishDistributions(times)

	result := &OperationsResult{
		TotalNotes:         total,
		PublishHourDist:    hourDist,
		PublishWeekdayDist: weekdayDist,
	}
	if total == 0 {
		return result
	}

	result.BestPublishHours = bestHours(hourDist)
	result.BestPublishWeekdays = a.bestWeekdays(weekdayDist)
	result.UpdateFrequency, result.AvgDaysBetweenPosts, result.DateRangeDays = a.frequency(times)
	result.ConsistencyScore = a.consistency(times)
	return result
}
