package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

// Client creates posts through the WordPress REST API using application
// passwords (Basic auth).
type Client struct {
	apiBase    string
	authHeader string
	postStatus string
	tagPrefix  string
	httpClient *http.Client
}

var _ ports.PostPublisher = (*Client)(nil)

// NewClient builds a client for the site at baseURL; postStatus is
// "draft" or "publish".
func NewClient(baseURL, username, appPassword, postStatus, tagPrefix string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}

	token := base64.StdEncoding.EncodeToString([]byte(username + ":" + appPassword))

	return &Client{
		apiBase:    strings.TrimRight(baseURL, "/") + "/wp-json/wp/v2",
		authHeader: "Basic " + token,
		postStatus: postStatus,
		tagPrefix:  tagPrefix,
		httpClient: client,
	}
}

// VerifyAuth checks the credentials against the API before a run touches
// the feed, so a bad app password fails early and clearly.
func (c *Client) VerifyAuth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/users/me", nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("verify auth: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("wordpress rejected credentials: %s", responseExcerpt(resp.Body))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("verify auth: wordpress returned %s", resp.Status)
	}

	return nil
}

type postPayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// Publish renders the bookmark into a post and creates it, returning the
// new post id.
func (c *Client) Publish(ctx context.Context, bookmark domain.Bookmark) (int64, error) {
	content, err := RenderPost(bookmark, c.tagPrefix)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ports.ErrPublishFailed, err)
	}

	body, err := json.Marshal(postPayload{
		Title:   bookmark.Title,
		Content: content,
		Status:  c.postStatus,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: marshal post: %w", ports.ErrPublishFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/posts", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("%w: new request: %w", ports.ErrPublishFailed, err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: create post: %w", ports.ErrPublishFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return 0, fmt.Errorf("%w: wordpress returned %s: %s", ports.ErrPublishFailed, resp.Status, responseExcerpt(resp.Body))
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("%w: decode response: %w", ports.ErrPublishFailed, err)
	}

	return created.ID, nil
}

func responseExcerpt(body io.Reader) string {
	payload, _ := io.ReadAll(io.LimitReader(body, 1024))
	return strings.TrimSpace(string(payload))
}
