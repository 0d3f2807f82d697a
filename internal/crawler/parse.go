package crawler

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

var creatorPathRe = regexp.MustCompile(`/user/profile/([a-zA-Z0-9]+)`)

// CreatorRef identifies one creator page. The xsec parameters come from a
// shared profile link and are required for the page to render note data.
type CreatorRef struct {
	UserID     string
	XsecToken  string
	XsecSource string
}

// ParseCreatorURL pulls the user id and xsec parameters out of a shared
// profile link.
func ParseCreatorURL(rawURL string) (CreatorRef, error) {
	m := creatorPathRe.FindStringSubmatch(rawURL)
	if m == nil {
		return CreatorRef{}, fmt.Errorf("crawler: no user id in url %q", rawURL)
	}
	ref := CreatorRef{UserID: m[1], XsecSource: "pc_note"}
	if u, err := url.Parse(rawURL); err == nil {
		q := u.Query()
		ref.XsecToken = q.Get("xsec_token")
		if src := q.Get("xsec_source"); src != "" {
			ref.XsecSource = src
		}
	}
	return ref, nil
}

// profileURL builds the creator page address for a parsed reference.
func profileURL(ref CreatorRef) string {
	u := "https://www.xiaohongshu.com/user/profile/" + ref.UserID
	if ref.XsecToken != "" {
		u += "?xsec_token=" + url.QueryEscape(ref.XsecToken) + "&xsec_source=" + url.QueryEscape(ref.XsecSource)
	}
	return u
}

func noteURL(noteID, xsecToken string) string {
	u := "https://www.xiaohongshu.com/explore/" + noteID
	if xsecToken != "" {
		u += "?xsec_token=" + url.QueryEscape(xsecToken) + "&xsec_source=pc_note"
	}
	return u
}

// parseCount converts an engagement counter to an int. The page renders
// large counters as strings like "1.2万" or "3亿"; smaller ones arrive as
// plain numbers. Anything unparsable counts as zero.
func parseCount(v interface{}) int {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		return int(n)
	case int:
		return n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0
		}
		mult := 1.0
		switch {
		case strings.HasSuffix(s, "万"):
			mult = 10_000
			s = strings.TrimSuffix(s, "万")
		case strings.HasSuffix(s, "亿"):
			mult = 100_000_000
			s = strings.TrimSuffix(s, "亿")
		case strings.HasSuffix(s, "w"), strings.HasSuffix(s, "W"):
			mult = 10_000
			s = s[:len(s)-1]
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		return int(f * mult)
	}
	return 0
}

func getMap(m map[string]interface{}, keys ...string) map[string]interface{} {
	for _, k := range keys {
		if sub, ok := m[k].(map[string]interface{}); ok {
			return sub
		}
	}
	return nil
}

func getList(m map[string]interface{}, keys ...string) []interface{} {
	for _, k := range keys {
		if sub, ok := m[k].([]interface{}); ok {
			return sub
		}
	}
	return nil
}

func getString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func getInt64(m map[string]interface{}, keys ...string) int64 {
	for _, k := range keys {
		switch n := m[k].(type) {
		case float64:
			return int64(n)
		case string:
			if v, err := strconv.ParseInt(n, 10, 64); err == nil {
				return v
			}
		}
	}
	return 0
}

// parseUserPageData decodes the "user.userPageData" state subtree into a
// blogger entity. The profile counters live in an interactions list keyed
// by display name, not by a stable field.
func parseUserPageData(raw json.RawMessage, bloggerID string) (*entity.Blogger, error) {
	var page map[string]interface{}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("crawler: decode user page data: %w", err)
	}
	b := &entity.Blogger{BloggerID: bloggerID}
	if basic := getMap(page, "basicInfo", "basic_info"); basic != nil {
		b.Nickname = getString(basic, "nickname", "nickName")
		b.Avatar = getString(basic, "imageb", "images", "image")
		b.Desc = getString(basic, "desc")
	}
	for _, item := range getList(page, "interactions") {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		name := getString(entry, "name")
		count := parseCount(entry["count"])
		switch {
		case strings.Contains(name, "粉丝"):
			b.FansCount = count
		case strings.Contains(name, "笔记"):
			b.NotesCount = count
		case strings.Contains(name, "赞") || strings.Contains(name, "收藏"):
			b.LikedCount = count
		}
	}
	return b, nil
}

// parseNoteList decodes the "user.notes" subtree. The page groups notes
// into nested arrays per feed column, so the tree is flattened first. Items
// missing an id are dropped. Notes without their own xsec_token reuse the
// profile link's token.
func parseNoteList(raw json.RawMessage, bloggerID, fallbackToken string) ([]entity.Note, error) {
	var tree interface{}
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("crawler: decode note list: %w", err)
	}
	var notes []entity.Note
	flattenNotes(tree, func(item map[string]interface{}) {
		if n := parseNoteItem(item, bloggerID, fallbackToken); n != nil {
			notes = append(notes, *n)
		}
	})
	return notes, nil
}

func flattenNotes(v interface{}, emit func(map[string]interface{})) {
	switch node := v.(type) {
	case []interface{}:
		for _, child := range node {
			flattenNotes(child, emit)
		}
	case map[string]interface{}:
		emit(node)
	}
}

func parseNoteItem(item map[string]interface{}, bloggerID, fallbackToken string) *entity.Note {
	card := item
	if nc := getMap(item, "noteCard", "note_card"); nc != nil {
		card = nc
	}
	id := getString(item, "noteId", "note_id", "id")
	if id == "" {
		id = getString(card, "noteId", "note_id", "id")
	}
	if id == "" {
		return nil
	}
	typ := "normal"
	if getString(card, "type") == "video" {
		typ = "video"
	}
	token := getString(item, "xsecToken", "xsec_token")
	if token == "" {
		token = getString(card, "xsecToken", "xsec_token")
	}
	if token == "" {
		token = fallbackToken
	}
	n := &entity.Note{
		NoteID:    id,
		BloggerID: bloggerID,
		Title:     getString(card, "displayTitle", "display_title", "title"),
		Type:      typ,
		NoteURL:   noteURL(id, token),
	}
	if cover := getMap(card, "cover"); cover != nil {
		n.CoverURL = getString(cover, "urlDefault", "url_default", "url")
	}
	if info := getMap(card, "interactInfo", "interact_info"); info != nil {
		n.LikedCount = firstCount(info, "likedCount", "liked_count")
	}
	return n
}

func firstCount(m map[string]interface{}, keys ...string) int {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return parseCount(v)
		}
	}
	return 0
}

// detailEntry picks the detail record for a note out of the noteDetailMap
// subtree. The map normally carries a single key; when it carries several,
// the note's own id wins.
func detailEntry(raw json.RawMessage, noteID string) (map[string]interface{}, bool) {
	var detailMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &detailMap); err != nil || len(detailMap) == 0 {
		return nil, false
	}
	pick := func(key json.RawMessage) (map[string]interface{}, bool) {
		var entry map[string]interface{}
		if err := json.Unmarshal(key, &entry); err != nil {
			return nil, false
		}
		return entry, true
	}
	if own, ok := detailMap[noteID]; ok {
		return pick(own)
	}
	for _, v := range detailMap {
		return pick(v)
	}
	return nil, false
}

// applyNoteDetail fills in the fields the note list view does not carry:
// description, tags, full engagement counters and the publish timestamp.
func applyNoteDetail(n *entity.Note, entry map[string]interface{}) {
	detail := getMap(entry, "note")
	if detail == nil {
		return
	}
	if title := getString(detail, "title"); title != "" {
		n.Title = title
	}
	n.Desc = getString(detail, "desc")
	if getString(detail, "type") == "video" {
		n.Type = "video"
	}
	var tags []string
	for _, item := range getList(detail, "tagList", "tag_list") {
		if tag, ok := item.(map[string]interface{}); ok {
			if name := getString(tag, "name"); name != "" {
				tags = append(tags, name)
			}
		}
	}
	n.Tags = strings.Join(tags, ",")
	if info := getMap(detail, "interactInfo", "interact_info"); info != nil {
		n.LikedCount = firstCount(info, "likedCount", "liked_count")
		n.CollectedCount = firstCount(info, "collectedCount", "collected_count")
		n.CommentCount = firstCount(info, "commentCount", "comment_count")
		n.ShareCount = firstCount(info, "shareCount", "share_count")
	}
	if ts := getInt64(detail, "time"); ts > 0 {
		n.PublishTime = ts
	}
	if n.CoverURL == "" {
		if images := getList(detail, "imageList", "image_list"); len(images) > 0 {
			if img, ok := images[0].(map[string]interface{}); ok {
				n.CoverURL = getString(img, "urlDefault", "url_default", "url")
			}
		}
	}
}

// parseCommentList decodes the comments attached to a note detail entry.
// Replies arrive nested under their parent and are flattened with the
// parent id carried over. A non-positive max means no limit.
func parseCommentList(entry map[string]interface{}, noteID string, max int) []entity.Comment {
	comments := getMap(entry, "comments")
	if comments == nil {
		return nil
	}
	var out []entity.Comment
	for _, item := range getList(comments, "list") {
		raw, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		c := parseComment(raw, noteID, "")
		if c == nil {
			continue
		}
		out = append(out, *c)
		for _, sub := range getList(raw, "subComments", "sub_comments") {
			subRaw, ok := sub.(map[string]interface{})
			if !ok {
				continue
			}
			if sc := parseComment(subRaw, noteID, c.CommentID); sc != nil {
				out = append(out, *sc)
			}
		}
		if max > 0 && len(out) >= max {
			return out[:max]
		}
	}
	return out
}

func parseComment(raw map[string]interface{}, noteID, parentID string) *entity.Comment {
	id := getString(raw, "id", "commentId", "comment_id")
	if id == "" {
		return nil
	}
	c := &entity.Comment{
		CommentID:  id,
		NoteID:     noteID,
		ParentID:   parentID,
		Content:    getString(raw, "content"),
		LikedCount: firstCount(raw, "likeCount", "like_count", "likedCount"),
		IPLocation: getString(raw, "ipLocation", "ip_location"),
		CreateTime: getInt64(raw, "createTime", "create_time"),
	}
	if c.ParentID == "" {
		c.ParentID = getString(raw, "targetCommentId", "target_comment_id")
	}
	if user := getMap(raw, "userInfo", "user_info", "user"); user != nil {
		c.UserID = getString(user, "userId", "user_id")
		c.UserNickname = getString(user, "nickname", "nickName")
	}
	return c
}
