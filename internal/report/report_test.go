package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/analyzer"
	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

func sampleBundle(t *testing.T) *analyzer.Bundle {
	t.Helper()

	base := time.Date(2024, 6, 3, 20, 0, 0, 0, time.Local)
	data := &entity.AnalysisData{
		Blogger: entity.Blogger{
			BloggerID:  "b1",
			Nickname:   "收纳小能手",
			Desc:       "分享收纳和家居好物",
			FansCount:  5000,
			NotesCount: 2,
			LikedCount: 12000,
		},
		Notes: []entity.Note{
			{
				NoteID: "n1", Title: "5个收纳技巧", Desc: "干货分享", Type: "图文",
				Tags: "收纳,家居", LikedCount: 1200, CollectedCount: 300,
				PublishTime: base.Unix(),
			},
			{
				NoteID: "n2", Title: "如何整理衣柜？", Desc: "保姆级教程", Type: "视频",
				Tags: "收纳", LikedCount: 800, CommentCount: 40,
				PublishTime: base.AddDate(0, 0, 7).Unix(),
			},
		},
	}

	bundle, err := analyzer.NewSuite(nil).Run(context.Background(), data)
	require.NoError(t, err)
	return bundle
}

func TestGenerateReportSections(t *testing.T) {
	bundle := sampleBundle(t)
	generatedAt := time.Date(2024, 6, 20, 10, 30, 0, 0, time.Local)

	content := string(NewGenerator().Generate(bundle, generatedAt))

	assert.Contains(t, content, "# 博主分析报告: 收纳小能手")
	assert.Contains(t, content, "生成时间: 2024-06-20 10:30:00")
	assert.Contains(t, content, "## 1. 基础信息汇总")
	assert.Contains(t, content, "## 2. 账号定位分析")
	assert.Contains(t, content, "## 4. 选题拆解")
	assert.Contains(t, content, "## 5. 内容形式拆解")
	assert.Contains(t, content, "## 6. 文案结构拆解")
	assert.Contains(t, content, "## 7. 运营策略拆解")
	assert.Contains(t, content, "## 9. 爆款笔记拆解")
	assert.Contains(t, content, "## 10. 综合评估与行动计划")
	assert.Contains(t, content, "| 粉丝数 | 5,000 |")
	assert.Contains(t, content, "| 获赞数 | 12,000 |")
	assert.Contains(t, content, "[链接](https://www.xiaohongshu.com/explore/n1)")
}

func TestGenerateReportDeterministic(t *testing.T) {
	bundle := sampleBundle(t)
	generatedAt := time.Now()

	first := NewGenerator().Generate(bundle, generatedAt)
	second := NewGenerator().Generate(bundle, generatedAt)

	assert.Equal(t, string(first), string(second))
}

func TestGenerateReportEmptyCorpus(t *testing.T) {
	bundle, err := analyzer.NewSuite(nil).Run(context.Background(), &entity.AnalysisData{
		Blogger: entity.Blogger{BloggerID: "b1", Nickname: "新人"},
	})
	require.NoError(t, err)

	content := string(NewGenerator().Generate(bundle, time.Now()))

	assert.Contains(t, content, "最佳发布时段**: 数据不足")
	assert.Contains(t, content, "| - | - | - |")
	assert.Contains(t, content, "暂无数据")
}

func TestCommaFormatting(t *testing.T) {
	assert.Equal(t, "0", comma(0))
	assert.Equal(t, "999", comma(999))
	assert.Equal(t, "1,000", comma(1000))
	assert.Equal(t, "1,234,567", comma(1234567))
}

func TestTitleTruncation(t *testing.T) {
	long := strings.Repeat("标题", 20)
	assert.Equal(t, 33, len([]rune(truncateRunes(long, 30))))
	assert.Equal(t, "短标题", truncateRunes("短标题", 30))
}
