package feishu

// FieldDefinition is one column of a Bitable data table. Type codes follow
// the Bitable field type enum: 1 text, 2 number, 3 single select, 5 datetime,
// 15 url.
type FieldDefinition struct {
	FieldName   string
	Type        int
	Description string
}

// FieldDefinitions holds the schema for each data table, used when
// bootstrapping a fresh Bitable app.
var FieldDefinitions = map[string][]FieldDefinition{
	TableBloggers: {
		{"blogger_id", 1, "小红书用户ID"},
		{"nickname", 1, "昵称"},
		{"avatar", 15, "头像链接"},
		{"desc", 1, "个人简介"},
		{"fans_count", 2, "粉丝数"},
		{"notes_count", 2, "笔记数"},
		{"liked_count", 2, "获赞数"},
		{"last_sync_at", 5, "最后同步时间"},
		{"analysis_doc_url", 15, "拆解分析文档链接"},
	},
	TableNotes: {
		{"note_id", 1, "笔记ID"},
		{"blogger_id", 1, "博主ID"},
		{"blogger_nickname", 1, "博主名称"},
		{"title", 1, "标题"},
		{"desc", 1, "正文内容"},
		{"type", 3, "类型(图文/视频)"},
		{"cover_url", 15, "封面图"},
		{"tags", 1, "标签"},
		{"liked_count", 2, "点赞数"},
		{"collected_count", 2, "收藏数"},
		{"comment_count", 2, "评论数"},
		{"share_count", 2, "分享数"},
		{"publish_time", 5, "发布时间"},
		{"crawl_time", 5, "抓取时间"},
		{"note_url", 15, "笔记链接"},
	},
	TableComments: {
		{"comment_id", 1, "评论ID"},
		{"note_id", 1, "关联笔记ID"},
		{"note_title", 1, "笔记标题"},
		{"parent_id", 1, "父评论ID"},
		{"user_id", 1, "评论者ID"},
		{"user_nickname", 1, "评论者昵称"},
		{"content", 1, "评论内容"},
		{"liked_count", 2, "点赞数"},
		{"ip_location", 1, "IP属地"},
		{"create_time", 5, "评论时间"},
		{"crawl_time", 5, "抓取时间"},
	},
}
