package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

func notesAt(times ...time.Time) []entity.Note {
	notes := make([]entity.Note, 0, len(times))
	for _, t := range times {
		notes = append(notes, entity.Note{Type: "图文", PublishTime: t.Unix()})
	}
	return notes
}

func TestOperationsDistributionsAlwaysComplete(t *testing.T) {
	a := NewOperationsAnalyzer(DefaultConfig())

	result := a.Analyze(&entity.AnalysisData{})

	assert.Len(t, result.PublishHourDist, 24)
	assert.Len(t, result.PublishWeekdayDist, 7)
	for h := 0; h < 24; h++ {
		assert.Contains(t, result.PublishHourDist, h)
	}
	for _, d := range DefaultConfig().WeekdayNames {
		assert.Contains(t, result.PublishWeekdayDist, d)
	}
	assert.Empty(t, result.BestPublishHours)
	assert.Empty(t, result.BestPublishWeekdays)
	assert.Zero(t, result.UpdateFrequency)
	assert.Zero(t, result.ConsistencyScore)
}

func TestOperationsWeeklyCadence(t *testing.T) {
	a := NewOperationsAnalyzer(DefaultConfig())

	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.Local) // a Monday
	notes := notesAt(base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14))

	result := a.Analyze(&entity.AnalysisData{Notes: notes})

	assert.Equal(t, 14, result.DateRangeDays)
	assert.Equal(t, 1.5, result.UpdateFrequency)
	assert.Equal(t, 7.0, result.AvgDaysBetweenPosts)
	// identical gaps, zero variance
	assert.Equal(t, 100.0, result.ConsistencyScore)
	assert.Equal(t, []string{"周一"}, result.BestPublishWeekdays)
	assert.Equal(t, []int{12}, result.BestPublishHours)
	assert.Equal(t, 3, result.PublishWeekdayDist["周一"])
}

func TestOperationsConsistencyDropsWithVariance(t *testing.T) {
	a := NewOperationsAnalyzer(DefaultConfig())

	base := time.Date(2024, 6, 3, 12, 0, 0, 0, time.Local)
	// same mean gap of 7 days, uneven spacing
	uneven := notesAt(base, base.AddDate(0, 0, 2), base.AddDate(0, 0, 14))

	even := a.Analyze(&entity.AnalysisData{Notes: notesAt(base, base.AddDate(0, 0, 7), base.AddDate(0, 0, 14))})
	jittered := a.Analyze(&entity.AnalysisData{Notes: uneven})

	assert.Less(t, jittered.ConsistencyScore, even.ConsistencyScore)
}

func TestOperationsMillisecondTimestamps(t *testing.T) {
	a := NewOperationsAnalyzer(DefaultConfig())

	base := time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local)
	notes := []entity.Note{
		{Type: "图文", PublishTime: base.UnixMilli()},
		{Type: "图文", PublishTime: base.AddDate(0, 0, 1).Unix()},
	}

	result := a.Analyze(&entity.AnalysisData{Notes: notes})

	assert.Equal(t, 1, result.DateRangeDays)
	assert.Equal(t, 2, result.PublishHourDist[9])
}

func TestOperationsSkipsMissingTimestamps(t *testing.T) {
	a := NewOperationsAnalyzer(DefaultConfig())

	base := time.Date(2024, 6, 3, 9, 0, 0, 0, time.Local)
	notes := append(notesAt(base), entity.Note{Type: "图文"}, entity.Note{Type: "图文", PublishTime: -5})

	result := a.Analyze(&entity.AnalysisData{Notes: notes})

	assert.Equal(t, 3, result.TotalNotes)
	assert.Equal(t, 1, result.PublishHourDist[9])
	// fewer than two usable timestamps
	assert.Zero(t, result.UpdateFrequency)
	assert.Zero(t, result.DateRangeDays)
}
