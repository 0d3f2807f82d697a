package analyzer

import (
	"math"
	"regexp"
	"strings"
	"time"
)

// WordCount is one ranked vocabulary entry.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// counter tallies words preserving first-seen order so that equal counts
// rank in encounter order, run after run.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(word string) {
	if _, seen := c.counts[word]; !seen {
		c.order = append(c.order, word)
	}
	c.counts[word]++
}

// topN returns the n most frequent entries, ties broken by first-seen order.
func (c *counter) topN(n int) []WordCount {
	out := make([]WordCount, 0, len(c.order))
	for _, w := range c.order {
		out = append(out, WordCount{Word: w, Count: c.counts[w]})
	}
	// insertion order is already the tiebreak, so a stable sort suffices
	stableSortByCountDesc(out)
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func stableSortByCountDesc(entries []WordCount) {
	// insertion sort keeps the pass simple and stable for the small lists
	// involved here
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Count > entries[j-1].Count; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

var (
	cjkWordRe   = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]{2,6}`)
	latinWordRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

	// tag strings are comma or whitespace separated; topic extraction also
	// strips leading # markers
	tagSplitRe     = regexp.MustCompile(`[,，\s]+`)
	tagHashSplitRe = regexp.MustCompile(`[,，\s#]+`)

	nicknameCleanRe = regexp.MustCompile(`[^\x{4e00}-\x{9fa5}a-zA-Z0-9\s]`)
)

// extractKeywords tokenizes free text on punctuation and whitespace, keeping
// tokens of at least two characters, capped at max entries.
func extractKeywords(text string, max int) []string {
	if text == "" {
		return nil
	}
	clean := nicknameCleanRe.ReplaceAllString(text, " ")
	words := strings.Fields(clean)

	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) >= 2 {
			keywords = append(keywords, w)
			if len(keywords) == max {
				break
			}
		}
	}
	return keywords
}

// countWords feeds CJK runs of 2-6 characters (minus stopwords) and lowercased
// latin runs of 3+ characters from each text into the counter.
func countWords(texts []string, stopwords map[string]struct{}, c *counter) {
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, word := range cjkWordRe.FindAllString(text, -1) {
			if _, stop := stopwords[word]; !stop {
				c.add(word)
			}
		}
		for _, word := range latinWordRe.FindAllString(strings.ToLower(text), -1) {
			c.add(word)
		}
	}
}

// splitTags breaks a raw tag string into trimmed labels.
func splitTags(tags string, stripHash bool) []string {
	if tags == "" {
		return nil
	}
	re := tagSplitRe
	if stripHash {
		re = tagHashSplitRe
	}
	parts := re.Split(tags, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// emojiRanges is the fixed code point set the original rate calculations were
// tuned against. It misses skin tone modifiers and several newer pictograph
// blocks; do not widen it.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // emoticons
	{0x1F300, 0x1F5FF}, // symbols & pictographs
	{0x1F680, 0x1F6FF}, // transport & map symbols
	{0x1F1E0, 0x1F1FF}, // flags
	{0x2702, 0x27B0},
	{0x24C2, 0x1F251},
}

// viralEmojiRanges is the narrower set used when profiling top notes.
var viralEmojiRanges = emojiRanges[:4]

func containsEmoji(text string, ranges [][2]rune) bool {
	for _, r := range text {
		for _, rng := range ranges {
			if r >= rng[0] && r <= rng[1] {
				return true
			}
		}
	}
	return false
}

func hasEmoji(text string) bool {
	return containsEmoji(text, emojiRanges)
}

// parseTimestamp converts an epoch value to local time. Values above 1e10 are
// treated as milliseconds. Zero and negative values are rejected.
func parseTimestamp(ts int64) (time.Time, bool) {
	if ts <= 0 {
		return time.Time{}, false
	}
	if ts > 10_000_000_000 {
		ts /= 1000
	}
	return time.Unix(ts, 0), true
}

// weekdayIndex maps time.Weekday onto Monday-first 0..6.
func weekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
