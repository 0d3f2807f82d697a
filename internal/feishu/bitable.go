package feishu

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bamao88/Topic-Monitoring-feishu/internal/entity"
)

// Table names used throughout the sync and analysis flows.
const (
	TableBloggers = "bloggers"
	TableNotes    = "notes"
	TableComments = "comments"
)

// UpsertStats reports how a batch upsert split between creates and updates.
type UpsertStats struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

type recordPayload struct {
	RecordID string        `json:"record_id,omitempty"`
	Fields   entity.Record `json:"fields"`
}

type recordItem struct {
	RecordID string        `json:"record_id"`
	Fields   entity.Record `json:"fields"`
}

// fields strips the record_id bookkeeping key and nil values before the map
// goes on the wire.
func fields(r entity.Record) entity.Record {
	out := make(entity.Record, len(r))
	for k, v := range r {
		if k == "record_id" || v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

// BatchCreateRecords creates records in one call and returns their IDs.
func (c *Client) BatchCreateRecords(ctx context.Context, tableName string, records []entity.Record) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	tableID, err := c.tableID(tableName)
	if err != nil {
		return nil, err
	}

	payload := struct {
		Records []recordPayload `json:"records"`
	}{}
	for _, r := range records {
		payload.Records = append(payload.Records, recordPayload{Fields: fields(r)})
	}

	var data struct {
		Records []recordItem `json:"records"`
	}
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records/batch_create", c.appToken, tableID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &data); err != nil {
		return nil, fmt.Errorf("batch create in %s: %w", tableName, err)
	}

	ids := make([]string, 0, len(data.Records))
	for _, r := range data.Records {
		ids = append(ids, r.RecordID)
	}
	c.logger.Info("created %d records in table %s", len(ids), tableName)
	return ids, nil
}

// BatchUpdateRecords updates records carrying a record_id key. Records
// without one are skipped.
func (c *Client) BatchUpdateRecords(ctx context.Context, tableName string, records []entity.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tableID, err := c.tableID(tableName)
	if err != nil {
		return 0, err
	}

	payload := struct {
		Records []recordPayload `json:"records"`
	}{}
	for _, r := range records {
		recordID, _ := r["record_id"].(string)
		if recordID == "" {
			continue
		}
		payload.Records = append(payload.Records, recordPayload{RecordID: recordID, Fields: fields(r)})
	}
	if len(payload.Records) == 0 {
		return 0, nil
	}

	var data struct {
		Records []recordItem `json:"records"`
	}
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records/batch_update", c.appToken, tableID)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &data); err != nil {
		return 0, fmt.Errorf("batch update in %s: %w", tableName, err)
	}
	c.logger.Info("updated %d records in table %s", len(data.Records), tableName)
	return len(data.Records), nil
}

// ListAllRecords pages through the whole table. Each returned record carries
// its record_id alongside the stored fields.
func (c *Client) ListAllRecords(ctx context.Context, tableName string) ([]entity.Record, error) {
	tableID, err := c.tableID(tableName)
	if err != nil {
		return nil, err
	}

	var all []entity.Record
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("page_size", fmt.Sprint(listPageSize))
		if pageToken != "" {
			query.Set("page_token", pageToken)
		}

		var data struct {
			Items     []recordItem `json:"items"`
			HasMore   bool         `json:"has_more"`
			PageToken string       `json:"page_token"`
		}
		path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables/%s/records?%s", c.appToken, tableID, query.Encode())
		if err := c.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
			return nil, fmt.Errorf("list records of %s: %w", tableName, err)
		}

		for _, item := range data.Items {
			record := entity.Record{"record_id": item.RecordID}
			for k, v := range item.Fields {
				record[k] = v
			}
			all = append(all, record)
		}

		if !data.HasMore {
			break
		}
		pageToken = data.PageToken
	}

	c.logger.Info("fetched %d records from table %s", len(all), tableName)
	return all, nil
}

// FindRecordByField returns the first record whose field equals value, or nil.
func (c *Client) FindRecordByField(ctx context.Context, tableName, fieldName, value string) (entity.Record, error) {
	records, err := c.ListAllRecords(ctx, tableName)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if s, ok := r[fieldName].(string); ok && s == value {
			return r, nil
		}
	}
	return nil, nil
}

// BatchUpsertRecords matches incoming records against existing rows by
// keyField and creates or updates accordingly.
func (c *Client) BatchUpsertRecords(ctx context.Context, tableName, keyField string, records []entity.Record) (UpsertStats, error) {
	var stats UpsertStats
	if len(records) == 0 {
		return stats, nil
	}

	existing, err := c.ListAllRecords(ctx, tableName)
	if err != nil {
		return stats, err
	}
	existingByKey := make(map[string]entity.Record, len(existing))
	for _, r := range existing {
		if key, ok := r[keyField].(string); ok && key != "" {
			existingByKey[key] = r
		}
	}

	var toCreate, toUpdate []entity.Record
	for _, r := range records {
		key, _ := r[keyField].(string)
		if key == "" {
			continue
		}
		if found, ok := existingByKey[key]; ok {
			r["record_id"] = found["record_id"]
			toUpdate = append(toUpdate, r)
		} else {
			toCreate = append(toCreate, r)
		}
	}

	if len(toCreate) > 0 {
		if _, err := c.BatchCreateRecords(ctx, tableName, toCreate); err != nil {
			return stats, err
		}
		stats.Created = len(toCreate)
	}
	if len(toUpdate) > 0 {
		if _, err := c.BatchUpdateRecords(ctx, tableName, toUpdate); err != nil {
			return stats, err
		}
		stats.Updated = len(toUpdate)
	}
	return stats, nil
}

// TableInfo is one data table inside the Bitable app.
type TableInfo struct {
	TableID  string `json:"table_id"`
	Name     string `json:"name"`
	Revision int    `json:"revision"`
}

// ListTables lists the data tables of the configured Bitable app.
func (c *Client) ListTables(ctx context.Context) ([]TableInfo, error) {
	var data struct {
		Items []TableInfo `json:"items"`
	}
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables", c.appToken)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &data); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return data.Items, nil
}

// CreateTable creates a data table with the given field schema and returns
// its table ID.
func (c *Client) CreateTable(ctx context.Context, name string, defs []FieldDefinition) (string, error) {
	type fieldPayload struct {
		FieldName string `json:"field_name"`
		Type      int    `json:"type"`
	}
	payloadFields := make([]fieldPayload, 0, len(defs))
	for _, d := range defs {
		payloadFields = append(payloadFields, fieldPayload{FieldName: d.FieldName, Type: d.Type})
	}

	payload := map[string]interface{}{
		"table": map[string]interface{}{
			"name":   name,
			"fields": payloadFields,
		},
	}

	var data struct {
		TableID string `json:"table_id"`
	}
	path := fmt.Sprintf("/open-apis/bitable/v1/apps/%s/tables", c.appToken)
	if err := c.doJSON(ctx, http.MethodPost, path, payload, &data); err != nil {
		return "", fmt.Errorf("create table %s: %w", name, err)
	}
	c.logger.Info("created table %s with id %s", name, data.TableID)
	return data.TableID, nil
}
