package entity

import (
	"fmt"
	"strconv"
)

// Record is one row of a Bitable table: field name to raw value, plus the
// record_id assigned by Feishu.
type Record map[string]interface{}

// Bitable returns numbers as float64, text either as a plain string or as a
// list of text segments, and link fields as {"link": ..., "text": ...}.

func recordString(r Record, key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		if link, ok := t["link"].(string); ok {
			return link
		}
		if text, ok := t["text"].(string); ok {
			return text
		}
		return ""
	case []interface{}:
		out := ""
		for _, seg := range t {
			if m, ok := seg.(map[string]interface{}); ok {
				if text, ok := m["text"].(string); ok {
					out += text
				}
			} else if s, ok := seg.(string); ok {
				out += s
			}
		}
		return out
	default:
		return fmt.Sprintf("%v", t)
	}
}

func recordInt(r Record, key string) int {
	return int(recordInt64(r, key))
}

func recordInt64(r Record, key string) int64 {
	v, ok := r[key]
	if !ok || v == nil {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return int64(t)
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

// BloggerFromRecord builds a Blogger from a bloggers-table record. Missing or
// malformed fields fall back to zero values.
func BloggerFromRecord(r Record) Blogger {
	return Blogger{
		BloggerID:  recordString(r, "blogger_id"),
		Nickname:   recordString(r, "nickname"),
		Avatar:     recordString(r, "avatar"),
		Desc:       recordString(r, "desc"),
		FansCount:  recordInt(r, "fans_count"),
		NotesCount: recordInt(r, "notes_count"),
		LikedCount: recordInt(r, "liked_count"),
		LastSyncAt: recordInt64(r, "last_sync_at"),
		RecordID:   recordString(r, "record_id"),
	}
}

// ToRecord maps the blogger onto bloggers-table fields.
func (b *Blogger) ToRecord() Record {
	rec := Record{
		"blogger_id":  b.BloggerID,
		"nickname":    b.Nickname,
		"desc":        b.Desc,
		"fans_count":  b.FansCount,
		"notes_count": b.NotesCount,
		"liked_count": b.LikedCount,
	}
	if b.Avatar != "" {
		rec["avatar"] = map[string]interface{}{"link": b.Avatar}
	}
	if b.LastSyncAt != 0 {
		rec["last_sync_at"] = b.LastSyncAt
	}
	return rec
}

// NoteFromRecord builds a Note from a notes-table record.
func NoteFromRecord(r Record) Note {
	return Note{
		NoteID:         recordString(r, "note_id"),
		BloggerID:      recordString(r, "blogger_id"),
		Title:          recordString(r, "title"),
		Desc:           recordString(r, "desc"),
		Type:           recordString(r, "type"),
		CoverURL:       recordString(r, "cover_url"),
		Tags:           recordString(r, "tags"),
		LikedCount:     recordInt(r, "liked_count"),
		CollectedCount: recordInt(r, "collected_count"),
		CommentCount:   recordInt(r, "comment_count"),
		ShareCount:     recordInt(r, "share_count"),
		PublishTime:    recordInt64(r, "publish_time"),
		CrawlTime:      recordInt64(r, "crawl_time"),
		NoteURL:        recordString(r, "note_url"),
		RecordID:       recordString(r, "record_id"),
	}
}

// ToRecord maps the note onto notes-table fields.
func (n *Note) ToRecord() Record {
	rec := Record{
		"note_id":         n.NoteID,
		"blogger_id":      n.BloggerID,
		"title":           n.Title,
		"desc":            n.Desc,
		"type":            n.Type,
		"tags":            n.Tags,
		"liked_count":     n.LikedCount,
		"collected_count": n.CollectedCount,
		"comment_count":   n.CommentCount,
		"share_count":     n.ShareCount,
	}
	if n.CoverURL != "" {
		rec["cover_url"] = map[string]interface{}{"link": n.CoverURL}
	}
	noteURL := n.NoteURL
	if noteURL == "" {
		noteURL = "https://www.xiaohongshu.com/explore/" + n.NoteID
	}
	rec["note_url"] = map[string]interface{}{"link": noteURL}
	if n.PublishTime != 0 {
		rec["publish_time"] = n.PublishTime
	}
	if n.CrawlTime != 0 {
		rec["crawl_time"] = n.CrawlTime
	}
	return rec
}

// CommentFromRecord builds a Comment from a comments-table record.
func CommentFromRecord(r Record) Comment {
	return Comment{
		CommentID:    recordString(r, "comment_id"),
		NoteID:       recordString(r, "note_id"),
		ParentID:     recordString(r, "parent_id"),
		UserID:       recordString(r, "user_id"),
		UserNickname: recordString(r, "user_nickname"),
		Content:      recordString(r, "content"),
		LikedCount:   recordInt(r, "liked_count"),
		IPLocation:   recordString(r, "ip_location"),
		CreateTime:   recordInt64(r, "create_time"),
		CrawlTime:    recordInt64(r, "crawl_time"),
		RecordID:     recordString(r, "record_id"),
	}
}

// ToRecord maps the comment onto comments-table fields.
func (c *Comment) ToRecord() Record {
	rec := Record{
		"comment_id":    c.CommentID,
		"note_id":       c.NoteID,
		"parent_id":     c.ParentID,
		"user_id":       c.UserID,
		"user_nickname": c.UserNickname,
		"content":       c.Content,
		"liked_count":   c.LikedCount,
		"ip_location":   c.IPLocation,
	}
	if c.CreateTime != 0 {
		rec["create_time"] = c.CreateTime
	}
	if c.CrawlTime != 0 {
		rec["crawl_time"] = c.CrawlTime
	}
	return rec
}
