package crawler

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

func noteFixture() entity.Note {
	return entity.Note{NoteID: "n1", BloggerID: "u1", Type: "normal"}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   interface{}
		want int
	}{
		{"1.2万", 12000},
		{"3亿", 300000000},
		{"2.5w", 25000},
		{"4580", 4580},
		{" 88 ", 88},
		{float64(512), 512},
		{"", 0},
		{"abc", 0},
		{nil, 0},
		{true, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseCount(tc.in), "input %v", tc.in)
	}
}

func TestParseCreatorURL(t *testing.T) {
	ref, err := ParseCreatorURL("https://www.xiaohongshu.com/user/profile/5ff0e6410000000001008400?xsec_token=ABtoken123&xsec_source=pc_search")
	require.NoError(t, err)
	assert.Equal(t, "5ff0e6410000000001008400", ref.UserID)
	assert.Equal(t, "ABtoken123", ref.XsecToken)
	assert.Equal(t, "pc_search", ref.XsecSource)

	ref, err = ParseCreatorURL("https://www.xiaohongshu.com/user/profile/abc123DEF")
	require.NoError(t, err)
	assert.Equal(t, "abc123DEF", ref.UserID)
	assert.Empty(t, ref.XsecToken)
	assert.Equal(t, "pc_note", ref.XsecSource)

	_, err = ParseCreatorURL("https://www.xiaohongshu.com/explore/123")
	assert.Error(t, err)
}

func TestProfileURL(t *testing.T) {
	u := profileURL(CreatorRef{UserID: "u1", XsecToken: "tok", XsecSource: "pc_note"})
	assert.Equal(t, "https://www.xiaohongshu.com/user/profile/u1?xsec_token=tok&xsec_source=pc_note", u)

	u = profileURL(CreatorRef{UserID: "u1"})
	assert.Equal(t, "https://www.xiaohongshu.com/user/profile/u1", u)
}

func TestParseUserPageData(t *testing.T) {
	raw := json.RawMessage(`{
		"basicInfo": {"nickname": "小美", "imageb": "https://img.example/avatar.jpg", "desc": "美妆分享"},
		"interactions": [
			{"type": "follows", "name": "关注", "count": "120"},
			{"type": "fans", "name": "粉丝", "count": "1.2万"},
			{"type": "interaction", "name": "获赞与收藏", "count": "35.6万"},
			{"type": "notes", "name": "笔记", "count": "86"}
		]
	}`)
	b, err := parseUserPageData(raw, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", b.BloggerID)
	assert.Equal(t, "小美", b.Nickname)
	assert.Equal(t, "https://img.example/avatar.jpg", b.Avatar)
	assert.Equal(t, "美妆分享", b.Desc)
	assert.Equal(t, 12000, b.FansCount)
	assert.Equal(t, 86, b.NotesCount)
	assert.Equal(t, 356000, b.LikedCount)
}

func TestParseUserPageDataMalformed(t *testing.T) {
	_, err := parseUserPageData(json.RawMessage(`[1,2,3]`), "u1")
	assert.Error(t, err)
}

func TestParseNoteList(t *testing.T) {
	raw := json.RawMessage(`[
		[
			{"id": "n1", "xsecToken": "tok1", "noteCard": {
				"type": "normal",
				"displayTitle": "平价好物分享",
				"cover": {"urlDefault": "https://img.example/c1.jpg"},
				"interactInfo": {"likedCount": "1.1万"}
			}},
			{"noteCard": {"id": "n2", "type": "video", "displayTitle": "教程"}}
		],
		[{"noteCard": {"displayTitle": "没有id，丢弃"}}]
	]`)
	notes, err := parseNoteList(raw, "u1", "fallback")
	require.NoError(t, err)
	require.Len(t, notes, 2)

	assert.Equal(t, "n1", notes[0].NoteID)
	assert.Equal(t, "u1", notes[0].BloggerID)
	assert.Equal(t, "平价好物分享", notes[0].Title)
	assert.Equal(t, "normal", notes[0].Type)
	assert.Equal(t, "https://img.example/c1.jpg", notes[0].CoverURL)
	assert.Equal(t, 11000, notes[0].LikedCount)
	assert.Equal(t, "https://www.xiaohongshu.com/explore/n1?xsec_token=tok1&xsec_source=pc_note", notes[0].NoteURL)

	assert.Equal(t, "n2", notes[1].NoteID)
	assert.Equal(t, "video", notes[1].Type)
	assert.Contains(t, notes[1].NoteURL, "xsec_token=fallback")
}

func TestApplyNoteDetail(t *testing.T) {
	raw := json.RawMessage(`{"n1": {
		"note": {
			"title": "完整标题",
			"desc": "正文内容",
			"type": "video",
			"time": 1718000000000,
			"tagList": [{"name": "美妆"}, {"name": "平价"}],
			"interactInfo": {
				"likedCount": "1.5万",
				"collectedCount": "3200",
				"commentCount": "450",
				"shareCount": "120"
			}
		}
	}}`)
	entry, ok := detailEntry(raw, "n1")
	require.True(t, ok)

	n := noteFixture()
	applyNoteDetail(&n, entry)
	assert.Equal(t, "完整标题", n.Title)
	assert.Equal(t, "正文内容", n.Desc)
	assert.Equal(t, "video", n.Type)
	assert.Equal(t, "美妆,平价", n.Tags)
	assert.Equal(t, 15000, n.LikedCount)
	assert.Equal(t, 3200, n.CollectedCount)
	assert.Equal(t, 450, n.CommentCount)
	assert.Equal(t, 120, n.ShareCount)
	assert.Equal(t, int64(1718000000000), n.PublishTime)
}

func TestDetailEntryFallsBackToFirstKey(t *testing.T) {
	raw := json.RawMessage(`{"other": {"note": {"title": "别的笔记"}}}`)
	entry, ok := detailEntry(raw, "n1")
	require.True(t, ok)
	n := noteFixture()
	applyNoteDetail(&n, entry)
	assert.Equal(t, "别的笔记", n.Title)

	_, ok = detailEntry(json.RawMessage(`{}`), "n1")
	assert.False(t, ok)
	_, ok = detailEntry(json.RawMessage(`"oops"`), "n1")
	assert.False(t, ok)
}

func TestParseCommentList(t *testing.T) {
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"comments": {"list": [
			{
				"id": "c1",
				"content": "太实用了",
				"likeCount": "32",
				"createTime": 1718000001000,
				"ipLocation": "上海",
				"userInfo": {"userId": "fan1", "nickname": "路人甲"},
				"subComments": [
					{"id": "c1-1", "content": "同感", "likeCount": 2,
					 "userInfo": {"userId": "fan2", "nickname": "路人乙"}}
				]
			},
			{"id": "c2", "content": "已收藏", "targetCommentId": "c0"}
		]}
	}`), &entry))

	comments := parseCommentList(entry, "n1", 0)
	require.Len(t, comments, 3)

	assert.Equal(t, "c1", comments[0].CommentID)
	assert.Equal(t, "n1", comments[0].NoteID)
	assert.Empty(t, comments[0].ParentID)
	assert.Equal(t, "太实用了", comments[0].Content)
	assert.Equal(t, 32, comments[0].LikedCount)
	assert.Equal(t, "上海", comments[0].IPLocation)
	assert.Equal(t, int64(1718000001000), comments[0].CreateTime)
	assert.Equal(t, "fan1", comments[0].UserID)
	assert.Equal(t, "路人甲", comments[0].UserNickname)

	assert.Equal(t, "c1-1", comments[1].CommentID)
	assert.Equal(t, "c1", comments[1].ParentID)

	assert.Equal(t, "c2", comments[2].CommentID)
	assert.Equal(t, "c0", comments[2].ParentID)
}

func TestParseCommentListMax(t *testing.T) {
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(`{
		"comments": {"list": [
			{"id": "c1", "subComments": [{"id": "c1-1"}, {"id": "c1-2"}]},
			{"id": "c2"}
		]}
	}`), &entry))

	comments := parseCommentList(entry, "n1", 2)
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].CommentID)
	assert.Equal(t, "c1-1", comments[1].CommentID)

	assert.Nil(t, parseCommentList(map[string]interface{}{}, "n1", 0))
}
