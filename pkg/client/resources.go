package client

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/naveenspark/estate/pkg/domain"
)

// Collection is the path of a CRUD resource under the API root.
type Collection string

const (
	Properties  Collection = "/properties/"
	Owners      Collection = "/owners/"
	Tenants     Collection = "/tenants/"
	Leases      Collection = "/leases/"
	Maintenance Collection = "/maintenance/"
	Documents   Collection = "/documents/"
	Folders     Collection = "/documents/folders/"
)

// Name returns the collection's last path segment, e.g. "properties".
func (col Collection) Name() string {
	s := string(col)
	s = s[:len(s)-1]
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return s[i+1:]
		}
	}
	return s
}

// List fetches one page of a collection. params carries filters, search and page.
func List[T any](ctx context.Context, c *Client, col Collection, params url.Values) (*domain.Page[T], error) {
	var page domain.Page[T]
	if err := c.get(ctx, withQuery(string(col), params), &page); err != nil {
		return nil, fmt.Errorf("client.List %s: %w", col.Name(), err)
	}
	return &page, nil
}

// Get fetches a single record.
func Get[T any](ctx context.Context, c *Client, col Collection, id int64) (*T, error) {
	var out T
	if err := c.get(ctx, idPath(string(col), id), &out); err != nil {
		return nil, fmt.Errorf("client.Get %s: %w", col.Name(), err)
	}
	return &out, nil
}

// Create posts a new record and returns the stored version.
func Create[T any](ctx context.Context, c *Client, col Collection, fields Fields) (*T, error) {
	var out T
	if err := c.post(ctx, string(col), fields, &out); err != nil {
		return nil, fmt.Errorf("client.Create %s: %w", col.Name(), err)
	}
	return &out, nil
}

// Update patches the given fields of a record.
func Update[T any](ctx context.Context, c *Client, col Collection, id int64, fields Fields) (*T, error) {
	var out T
	if err := c.patch(ctx, idPath(string(col), id), fields, &out); err != nil {
		return nil, fmt.Errorf("client.Update %s: %w", col.Name(), err)
	}
	return &out, nil
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, col Collection, id int64) error {
	if err := c.delete(ctx, idPath(string(col), id)); err != nil {
		return fmt.Errorf("client.DeleteRecord %s: %w", col.Name(), err)
	}
	return nil
}

// CollectionStatistics returns the aggregate figures of a collection.
func (c *Client) CollectionStatistics(ctx context.Context, col Collection) (domain.Statistics, error) {
	var stats domain.Statistics
	if err := c.get(ctx, string(col)+"statistics/", &stats); err != nil {
		return nil, fmt.Errorf("client.CollectionStatistics %s: %w", col.Name(), err)
	}
	return stats, nil
}

// GetDashboardStatistics returns the portfolio summary over the last days
// days. Zero uses the backend default of 30.
func (c *Client) GetDashboardStatistics(ctx context.Context, days int) (*domain.DashboardStatistics, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	var stats domain.DashboardStatistics
	if err := c.get(ctx, withQuery("/dashboard/statistics/", params), &stats); err != nil {
		return nil, fmt.Errorf("client.GetDashboardStatistics: %w", err)
	}
	return &stats, nil
}

// UploadDocument sends a file as multipart/form-data.
func (c *Client) UploadDocument(ctx context.Context, up domain.DocumentUpload) (*domain.Document, error) {
	if up.FileName == "" {
		return nil, fmt.Errorf("client.UploadDocument: file name is required")
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"title":         up.Title,
		"description":   up.Description,
		"document_type": up.DocumentType,
	}
	if up.Folder != nil {
		fields["folder"] = strconv.FormatInt(*up.Folder, 10)
	}
	if up.Property != nil {
		fields["property"] = strconv.FormatInt(*up.Property, 10)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("client.UploadDocument: %w", err)
		}
	}
	part, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, fmt.Errorf("client.UploadDocument: %w", err)
	}
	if _, err := part.Write(up.Content); err != nil {
		return nil, fmt.Errorf("client.UploadDocument: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("client.UploadDocument: %w", err)
	}

	r := request{
		method:      http.MethodPost,
		path:        string(Documents),
		body:        buf.Bytes(),
		contentType: w.FormDataContentType(),
	}
	var doc domain.Document
	if err := c.send(ctx, r, attempt{}, &doc); err != nil {
		return nil, fmt.Errorf("client.UploadDocument: %w", err)
	}
	return &doc, nil
}
