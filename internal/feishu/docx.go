package feishu

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// docx block type codes.
const (
	blockTypeText     = 2
	blockTypeHeading1 = 3
	blockTypeHeading2 = 4
	blockTypeHeading3 = 5
	blockTypeCode     = 14
	blockTypeDivider  = 22
)

const blockBatchSize = 50

var codeLanguages = map[string]int{
	"text": 1, "python": 2, "javascript": 3, "java": 4,
	"go": 5, "cpp": 6, "c": 7, "csharp": 8, "php": 9,
	"ruby": 10, "swift": 11, "kotlin": 12, "rust": 13,
	"sql": 14, "shell": 15, "bash": 15, "json": 16,
	"yaml": 17, "xml": 18, "html": 19, "css": 20,
	"markdown": 21, "typescript": 22,
}

type docBlock map[string]interface{}

func textPayload(content string) map[string]interface{} {
	return map[string]interface{}{
		"elements": []map[string]interface{}{
			{"text_run": map[string]interface{}{"content": content}},
		},
	}
}

func textBlock(content string) docBlock {
	return docBlock{"block_type": blockTypeText, "text": textPayload(content)}
}

func headingBlock(level int, content string) docBlock {
	switch level {
	case 1:
		return docBlock{"block_type": blockTypeHeading1, "heading1": textPayload(content)}
	case 2:
		return docBlock{"block_type": blockTypeHeading2, "heading2": textPayload(content)}
	default:
		return docBlock{"block_type": blockTypeHeading3, "heading3": textPayload(content)}
	}
}

func codeBlock(content, language string) docBlock {
	code := textPayload(content)
	lang := codeLanguages[strings.ToLower(language)]
	if lang == 0 {
		lang = codeLanguages["text"]
	}
	code["style"] = map[string]interface{}{"language": lang}
	return docBlock{"block_type": blockTypeCode, "code": code}
}

func dividerBlock() docBlock {
	return docBlock{"block_type": blockTypeDivider, "divider": map[string]interface{}{}}
}

func isParagraphBreak(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}
	for _, prefix := range []string{"#", ">", "```", "---", "***", "___", "|"} {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// markdownToBlocks converts a Markdown document into docx blocks. Tables are
// carried over as plain paragraphs since the blocks API has no table
// primitive in this flow.
func markdownToBlocks(markdown string) []docBlock {
	var blocks []docBlock
	lines := strings.Split(markdown, "\n")

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue

		case strings.HasPrefix(line, "# "):
			blocks = append(blocks, headingBlock(1, strings.TrimSpace(line[2:])))
		case strings.HasPrefix(line, "## "):
			blocks = append(blocks, headingBlock(2, strings.TrimSpace(line[3:])))
		case strings.HasPrefix(line, "### "):
			blocks = append(blocks, headingBlock(3, strings.TrimSpace(line[4:])))
		case strings.HasPrefix(line, "#### "):
			blocks = append(blocks, headingBlock(3, strings.TrimSpace(line[5:])))

		case trimmed == "---" || trimmed == "***" || trimmed == "___":
			blocks = append(blocks, dividerBlock())

		case strings.HasPrefix(line, "> "):
			quote := strings.TrimSpace(line[2:])
			for i+1 < len(lines) && strings.HasPrefix(lines[i+1], "> ") {
				i++
				quote += "\n" + strings.TrimSpace(lines[i][2:])
			}
			blocks = append(blocks, textBlock("> "+quote))

		case strings.HasPrefix(line, "```"):
			language := strings.TrimSpace(line[3:])
			if language == "" {
				language = "text"
			}
			var code []string
			i++
			for i < len(lines) && !strings.HasPrefix(lines[i], "```") {
				code = append(code, lines[i])
				i++
			}
			blocks = append(blocks, codeBlock(strings.Join(code, "\n"), language))

		default:
			paragraph := trimmed
			for i+1 < len(lines) && !isParagraphBreak(lines[i+1]) {
				i++
				paragraph += "\n" + strings.TrimSpace(lines[i])
			}
			blocks = append(blocks, textBlock(paragraph))
		}
	}
	return blocks
}

// DocumentInfo identifies a created docx document.
type DocumentInfo struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
}

// CreateDocument creates an empty docx document, in folderToken when given.
func (c *Client) CreateDocument(ctx context.Context, title, folderToken string) (*DocumentInfo, error) {
	payload := map[string]interface{}{"title": title}
	if folderToken != "" {
		payload["folder_token"] = folderToken
	}

	var data struct {
		Document struct {
			DocumentID string `json:"document_id"`
			Title      string `json:"title"`
		} `json:"document"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/open-apis/docx/v1/documents", payload, &data); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	info := &DocumentInfo{
		DocumentID: data.Document.DocumentID,
		Title:      data.Document.Title,
		URL:        c.documentURL(data.Document.DocumentID),
	}
	c.logger.Info("created document %q with id %s", title, info.DocumentID)
	return info, nil
}

func (c *Client) documentURL(documentID string) string {
	return fmt.Sprintf("https://%s/docx/%s", c.domain, documentID)
}

// AddDocumentBlocks appends blocks to the document root in batches. A failed
// batch is logged and skipped so partial content still lands.
func (c *Client) AddDocumentBlocks(ctx context.Context, documentID string, blocks []docBlock) error {
	if len(blocks) == 0 {
		return nil
	}

	added := 0
	index := 0
	for start := 0; start < len(blocks); start += blockBatchSize {
		end := start + blockBatchSize
		if end > len(blocks) {
			end = len(blocks)
		}
		batch := blocks[start:end]

		payload := map[string]interface{}{
			"children": batch,
			"index":    index,
		}
		path := fmt.Sprintf("/open-apis/docx/v1/documents/%s/blocks/%s/children?document_revision_id=-1",
			documentID, documentID)
		if err := c.doJSON(ctx, http.MethodPost, path, payload, nil); err != nil {
			c.logger.Error("append block batch at %d: %v", start, err)
			continue
		}
		added += len(batch)
		index += len(batch)
	}

	if added == 0 {
		return fmt.Errorf("no document blocks were added")
	}
	c.logger.Info("added %d/%d blocks to document %s", added, len(blocks), documentID)
	return nil
}

// CreateDocumentFromMarkdown creates a document and fills it with the
// rendered Markdown content.
func (c *Client) CreateDocumentFromMarkdown(ctx context.Context, title, markdown, folderToken string) (*DocumentInfo, error) {
	info, err := c.CreateDocument(ctx, title, folderToken)
	if err != nil {
		return nil, err
	}

	blocks := markdownToBlocks(markdown)
	if len(blocks) == 0 {
		c.logger.Warn("markdown content is empty, document %s left blank", info.DocumentID)
		return info, nil
	}
	if err := c.AddDocumentBlocks(ctx, info.DocumentID, blocks); err != nil {
		c.logger.Warn("document %s created but content failed: %v", info.DocumentID, err)
	}
	return info, nil
}

// UploadAnalysisReport publishes a teardown report as a docx document and
// backfills the blogger row with the document link.
func (c *Client) UploadAnalysisReport(ctx context.Context, bloggerID, bloggerName, markdown string) (*DocumentInfo, error) {
	if c.reportFolderToken == "" {
		c.logger.Warn("no report folder configured, document goes to the drive root")
	}

	title := fmt.Sprintf("%s：%s", bloggerName, time.Now().Format("20060102"))
	info, err := c.CreateDocumentFromMarkdown(ctx, title, markdown, c.reportFolderToken)
	if err != nil {
		return nil, err
	}

	record, err := c.FindRecordByField(ctx, TableBloggers, "blogger_id", bloggerID)
	if err != nil {
		c.logger.Warn("look up blogger %s for doc link: %v", bloggerID, err)
		return info, nil
	}
	if record == nil {
		c.logger.Warn("blogger %s has no row, skipping doc link backfill", bloggerID)
		return info, nil
	}

	update := entity.Record{
		"record_id": record["record_id"],
		"analysis_doc_url": map[string]interface{}{
			"link": info.URL,
			"text": title,
		},
	}
	if _, err := c.BatchUpdateRecords(ctx, TableBloggers, []entity.Record{update}); err != nil {
		c.logger.Warn("backfill doc link for blogger %s: %v", bloggerID, err)
	}
	return info, nil
}
