package feishu

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownToBlocks(t *testing.T) {
	markdown := `# 标题

## 小节

> 引用第一行
> 引用第二行

---

正文第一行
正文第二行

` + "```go\nfmt.Println(1)\n```"

	blocks := markdownToBlocks(markdown)
	require.Len(t, blocks, 6)

	assert.Equal(t, blockTypeHeading1, blocks[0]["block_type"])
	assert.Equal(t, blockTypeHeading2, blocks[1]["block_type"])
	assert.Equal(t, blockTypeText, blocks[2]["block_type"])
	assert.Equal(t, blockTypeDivider, blocks[3]["block_type"])
	assert.Equal(t, blockTypeText, blocks[4]["block_type"])
	assert.Equal(t, blockTypeCode, blocks[5]["block_type"])

	quote := blocks[2]["text"].(map[string]interface{})
	elements := quote["elements"].([]map[string]interface{})
	run := elements[0]["text_run"].(map[string]interface{})
	assert.Equal(t, "> 引用第一行\n引用第二行", run["content"])

	paragraph := blocks[4]["text"].(map[string]interface{})
	elements = paragraph["elements"].([]map[string]interface{})
	run = elements[0]["text_run"].(map[string]interface{})
	assert.Equal(t, "正文第一行\n正文第二行", run["content"])

	code := blocks[5]["code"].(map[string]interface{})
	style := code["style"].(map[string]interface{})
	assert.Equal(t, 5, style["language"])
}

func TestMarkdownToBlocksEmpty(t *testing.T) {
	assert.Empty(t, markdownToBlocks(""))
	assert.Empty(t, markdownToBlocks("\n\n\n"))
}

func TestUploadAnalysisReport(t *testing.T) {
	tokenRequests := 0
	var blockBatches int
	var backfilled map[string]interface{}

	mux := http.NewServeMux()
	mux.HandleFunc("/open-apis/auth/v3/tenant_access_token/internal", tokenHandler(t, &tokenRequests))
	mux.HandleFunc("/open-apis/docx/v1/documents", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"code": 0, "msg": "ok",
			"data": map[string]interface{}{
				"document": map[string]interface{}{"document_id": "doc123", "title": "报告"},
			},
		})
	})
	mux.HandleFunc("/open-apis/docx/v1/documents/doc123/blocks/doc123/children",
		func(w http.ResponseWriter, r *http.Request) {
			blockBatches++
			writeJSON(t, w, map[string]interface{}{"code": 0, "msg": "ok"})
		})
	mux.HandleFunc("/open-apis/bitable/v1/apps/base-token/tables/tbl-bloggers/records",
		func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, map[string]interface{}{
				"code": 0, "msg": "ok",
				"data": map[string]interface{}{
					"items": []map[string]interface{}{
						{"record_id": "rec1", "fields": map[string]interface{}{"blogger_id": "b1"}},
					},
					"has_more": false,
				},
			})
		})
	mux.HandleFunc("/open-apis/bitable/v1/apps/base-token/tables/tbl-bloggers/records/batch_update",
		func(w http.ResponseWriter, r *http.Request) {
			var payload struct {
				Records []struct {
					RecordID string                 `json:"record_id"`
					Fields   map[string]interface{} `json:"fields"`
				} `json:"records"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			require.Len(t, payload.Records, 1)
			backfilled = payload.Records[0].Fields
			writeJSON(t, w, map[string]interface{}{
				"code": 0, "msg": "ok",
				"data": map[string]interface{}{"records": []map[string]interface{}{{"record_id": "rec1"}}},
			})
		})

	client, _ := testClient(t, mux)

	info, err := client.UploadAnalysisReport(context.Background(), "b1", "收纳小能手", "# 报告\n\n正文")
	require.NoError(t, err)
	assert.Equal(t, "doc123", info.DocumentID)
	assert.Equal(t, "https://example.feishu.cn/docx/doc123", info.URL)
	assert.Equal(t, 1, blockBatches)

	require.NotNil(t, backfilled)
	link := backfilled["analysis_doc_url"].(map[string]interface{})
	assert.Equal(t, "https://example.feishu.cn/docx/doc123", link["link"])
}
