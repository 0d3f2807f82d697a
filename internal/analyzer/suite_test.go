package analyzer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

func sampleData() *entity.AnalysisData {
	base := time.Date(2024, 6, 3, 20, 0, 0, 0, time.Local)
	return &entity.AnalysisData{
		Blogger: entity.Blogger{
			BloggerID:  "b1",
			Nickname:   "收纳小能手",
			Desc:       "分享收纳和家居好物",
			FansCount:  5000,
			NotesCount: 3,
			LikedCount: 12000,
		},
		Notes: []entity.Note{
			{
				NoteID: "n1", Title: "5个收纳技巧", Desc: "干货分享 收纳 好物", Type: "图文",
				Tags: "收纳,家居", LikedCount: 1200, CollectedCount: 300, CommentCount: 80,
				PublishTime: base.Unix(),
			},
			{
				NoteID: "n2", Title: "如何整理衣柜？", Desc: "保姆级教程", Type: "视频",
				Tags: "收纳,衣柜", LikedCount: 800, CollectedCount: 200, CommentCount: 40,
				PublishTime: base.AddDate(0, 0, 7).Unix(),
			},
			{
				NoteID: "n3", Title: "今日家居记录", Desc: "日常分享", Type: "图文",
				Tags: "家居", LikedCount: 300, CollectedCount: 50, CommentCount: 10,
				PublishTime: base.AddDate(0, 0, 14).Unix(),
			},
		},
	}
}

func TestSuiteRun(t *testing.T) {
	suite := NewSuite(nil)

	bundle, err := suite.Run(context.Background(), sampleData())
	require.NoError(t, err)

	require.NotNil(t, bundle.Basic)
	require.NotNil(t, bundle.Position)
	require.NotNil(t, bundle.Topic)
	require.NotNil(t, bundle.Format)
	require.NotNil(t, bundle.Copywriting)
	require.NotNil(t, bundle.Operations)
	require.NotNil(t, bundle.Viral)
	require.NotNil(t, bundle.Evaluation)

	assert.Equal(t, 3, bundle.Basic.NotesCount)
	assert.Equal(t, "混合型", bundle.Position.ContentStyle)
	assert.Equal(t, 1, bundle.Viral.TopNotes[0].Rank)
	assert.Equal(t, "n1", bundle.Viral.TopNotes[0].NoteID)
	assert.Equal(t, 100.0, bundle.Operations.ConsistencyScore)
	assert.NotZero(t, bundle.Evaluation.OverallScore)
}

func TestSuiteRunEmptyCorpus(t *testing.T) {
	suite := NewSuite(DefaultConfig())

	bundle, err := suite.Run(context.Background(), &entity.AnalysisData{
		Blogger: entity.Blogger{BloggerID: "b1"},
	})
	require.NoError(t, err)

	assert.Zero(t, bundle.Topic.TotalNotes)
	assert.Empty(t, bundle.Viral.TopNotes)
	assert.Len(t, bundle.Operations.PublishHourDist, 24)
	assert.NotNil(t, bundle.Evaluation)
}

func TestSuiteRunIdempotent(t *testing.T) {
	suite := NewSuite(nil)
	data := sampleData()

	first, err := suite.Run(context.Background(), data)
	require.NoError(t, err)
	second, err := suite.Run(context.Background(), data)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}

func TestSuiteRunCancelled(t *testing.T) {
	suite := NewSuite(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := suite.Run(ctx, sampleData())
	assert.Error(t, err)
}
