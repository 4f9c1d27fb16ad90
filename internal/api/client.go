package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nikbrunner/postmark/internal/model"
)

const maxResponseBytes = 4 << 20

// Client talks to the postmark HTTP API. Every failure is a *model.RemoteError.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient creates a client for the API rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api url %q must be absolute", baseURL)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type problem struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// do sends a request and decodes a 2xx JSON body into out (if non-nil).
// path is already escaped.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL.JoinPath(path)
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &model.RemoteError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &model.RemoteError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &model.RemoteError{Op: op, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &model.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var p problem
		detail := strings.TrimSpace(string(respBody))
		if json.Unmarshal(respBody, &p) == nil && (p.Detail != "" || p.Title != "") {
			detail = p.Detail
			if detail == "" {
				detail = p.Title
			}
		}
		return &model.RemoteError{Op: op, Status: resp.StatusCode, Detail: detail}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &model.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// ListFolders returns all folders, the default folder first.
func (c *Client) ListFolders(ctx context.Context) ([]model.Folder, error) {
	var folders []model.Folder
	if err := c.do(ctx, "list folders", http.MethodGet, "/api/folders", nil, nil, &folders); err != nil {
		return nil, err
	}
	return folders, nil
}

// CreateFolder creates a folder with the given name.
func (c *Client) CreateFolder(ctx context.Context, name string) (model.Folder, error) {
	var folder model.Folder
	err := c.do(ctx, "create folder", http.MethodPost, "/api/folders", nil,
		map[string]string{"name": name}, &folder)
	return folder, err
}

// RenameFolder renames a non-default folder.
func (c *Client) RenameFolder(ctx context.Context, id, name string) (model.Folder, error) {
	var folder model.Folder
	err := c.do(ctx, "rename folder", http.MethodPatch, "/api/folders/"+url.PathEscape(id), nil,
		map[string]string{"name": name}, &folder)
	return folder, err
}

// DeleteFolder deletes a folder, keeping or removing its bookmarks per mode.
func (c *Client) DeleteFolder(ctx context.Context, id string, mode model.DeleteMode) error {
	query := url.Values{"mode": {mode.String()}}
	return c.do(ctx, "delete folder", http.MethodDelete, "/api/folders/"+url.PathEscape(id), query, nil, nil)
}

// ListBookmarks returns the bookmarks matching q, newest first.
func (c *Client) ListBookmarks(ctx context.Context, q model.BookmarkQuery) ([]model.Bookmark, error) {
	query := url.Values{}
	if q.FolderID != nil {
		query.Set("folder_id", *q.FolderID)
	}
	if q.Q != "" {
		query.Set("q", q.Q)
	}

	var bookmarks []model.Bookmark
	if err := c.do(ctx, "list bookmarks", http.MethodGet, "/api/bookmarks", query, nil, &bookmarks); err != nil {
		return nil, err
	}
	return bookmarks, nil
}

type createBookmarkRequest struct {
	URL       string   `json:"url"`
	FolderIDs []string `json:"folder_ids,omitempty"`
}

// CreateBookmark saves rawURL into folderIDs, or the default folder when empty.
func (c *Client) CreateBookmark(ctx context.Context, rawURL string, folderIDs []string) (model.Bookmark, error) {
	var bookmark model.Bookmark
	err := c.do(ctx, "create bookmark", http.MethodPost, "/api/bookmarks", nil,
		createBookmarkRequest{URL: rawURL, FolderIDs: folderIDs}, &bookmark)
	return bookmark, err
}

// SetBookmarkFolders replaces a bookmark's folder membership.
func (c *Client) SetBookmarkFolders(ctx context.Context, id string, folderIDs []string) (model.Bookmark, error) {
	var bookmark model.Bookmark
	body := map[string][]string{"folder_ids": model.NormalizeIDs(folderIDs)}
	err := c.do(ctx, "set bookmark folders", http.MethodPatch, "/api/bookmarks/"+url.PathEscape(id), nil,
		body, &bookmark)
	return bookmark, err
}

// DeleteBookmark deletes a bookmark.
func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, "delete bookmark", http.MethodDelete, "/api/bookmarks/"+url.PathEscape(id), nil, nil, nil)
}

// Preview fetches preview metadata for a URL.
func (c *Client) Preview(ctx context.Context, rawURL string) (model.Preview, error) {
	var p model.Preview
	err := c.do(ctx, "preview", http.MethodGet, "/api/preview", url.Values{"url": {rawURL}}, nil, &p)
	return p, err
}
