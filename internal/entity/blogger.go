package entity

// NoteType values as stored in the notes table.
const (
	NoteTypeImage = "图文"
	NoteTypeVideo = "视频"
)

// Blogger is one tracked creator account.
type Blogger struct {
	BloggerID  string `json:"blogger_id"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	Desc       string `json:"desc"`
	FansCount  int    `json:"fans_count"`
	NotesCount int    `json:"notes_count"`
	LikedCount int    `json:"liked_count"`
	LastSyncAt int64  `json:"last_sync_at"`
	RecordID   string `json:"record_id,omitempty"`
}

// Note is one scraped content item with its engagement counters.
type Note struct {
	NoteID         string `json:"note_id"`
	BloggerID      string `json:"blogger_id"`
	Title          string `json:"title"`
	Desc           string `json:"desc"`
	Type           string `json:"type"` // 图文/视频 (or normal/video from the crawler)
	CoverURL       string `json:"cover_url"`
	Tags           string `json:"tags"` // comma or whitespace separated labels
	LikedCount     int    `json:"liked_count"`
	CollectedCount int    `json:"collected_count"`
	CommentCount   int    `json:"comment_count"`
	ShareCount     int    `json:"share_count"`
	PublishTime    int64  `json:"publish_time"` // epoch seconds or milliseconds
	CrawlTime      int64  `json:"crawl_time"`
	NoteURL        string `json:"note_url"`
	RecordID       string `json:"record_id,omitempty"`
}

// TotalInteractions is the sum of all four engagement counters. It is
// recomputed on demand, never stored.
func (n *Note) TotalInteractions() int {
	return n.LikedCount + n.CollectedCount + n.CommentCount + n.ShareCount
}

// IsVideo reports whether the note is a video note. The crawler emits
// "video"/"normal" while the table stores 视频/图文.
func (n *Note) IsVideo() bool {
	return n.Type == NoteTypeVideo || n.Type == "video"
}

// Comment is one comment under a note. The analytics core passes comments
// through untouched.
type Comment struct {
	CommentID    string `json:"comment_id"`
	NoteID       string `json:"note_id"`
	ParentID     string `json:"parent_id"`
	UserID       string `json:"user_id"`
	UserNickname string `json:"user_nickname"`
	Content      string `json:"content"`
	LikedCount   int    `json:"liked_count"`
	IPLocation   string `json:"ip_location"`
	CreateTime   int64  `json:"create_time"`
	CrawlTime    int64  `json:"crawl_time"`
	RecordID     string `json:"record_id,omitempty"`
}

// AnalysisData is the complete in-memory snapshot for one analysis run.
// It is built once per run and read-only afterwards.
type AnalysisData struct {
	Blogger  Blogger
	Notes    []Note
	Comments []Comment
}
