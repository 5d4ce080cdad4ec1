// Package bluesky publishes posts to Bluesky through the atproto XRPC API.
package bluesky

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"papersbot/internal/publish"
)

const defaultBaseURL = "https://bsky.social"

// Credentials identify the account: the handle (or DID) and an app password.
type Credentials struct {
	Identifier string
	Password   string
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL overrides the PDS base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// Client implements publish.Publisher over atproto XRPC.
type Client struct {
	creds      Credentials
	baseURL    string
	httpClient HTTPClient
	session    *session
	now        func() time.Time
}

// New creates a Client. A session is established lazily on first publish.
func New(creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		creds:      creds,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements publish.Publisher.
func (c *Client) Name() string { return "bluesky" }

// Publish implements publish.Publisher. The URL inside the text gets a link
// facet so it renders as a clickable link; an image, when present, is
// uploaded as a blob and embedded.
func (c *Client) Publish(ctx context.Context, post publish.Post) (publish.Result, error) {
	if err := c.ensureSession(ctx); err != nil {
		return publish.Result{}, err
	}

	record := map[string]interface{}{
		"$type":     "app.bsky.feed.post",
		"text":      post.Text,
		"createdAt": c.now().UTC().Format(time.RFC3339),
	}
	if facet := linkFacet(post.Text); facet != nil {
		record["facets"] = []interface{}{facet}
	}

	if post.ImagePath != "" {
		blob, err := c.uploadBlob(ctx, post.ImagePath)
		if err != nil {
			return publish.Result{}, fmt.Errorf("failed to upload image: %w", err)
		}
		record["embed"] = map[string]interface{}{
			"$type": "app.bsky.embed.images",
			"images": []interface{}{
				map[string]interface{}{"alt": "", "image": blob},
			},
		}
	}

	reqBody := map[string]interface{}{
		"repo":       c.session.DID,
		"collection": "app.bsky.feed.post",
		"record":     record,
	}
	body, err := c.xrpc(ctx, "com.atproto.repo.createRecord", "application/json", jsonReader(reqBody))
	if err != nil {
		return publish.Result{}, err
	}

	var created createRecordResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return publish.Result{}, fmt.Errorf("failed to parse createRecord response: %w", err)
	}
	return publish.Result{ID: created.URI}, nil
}

// ensureSession logs in once per process and caches the access token.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.session != nil {
		return nil
	}

	reqBody := map[string]string{
		"identifier": c.creds.Identifier,
		"password":   c.creds.Password,
	}
	body, err := c.xrpc(ctx, "com.atproto.server.createSession", "application/json", jsonReader(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create bluesky session: %w", err)
	}

	var s session
	if err := json.Unmarshal(body, &s); err != nil {
		return fmt.Errorf("failed to parse session response: %w", err)
	}
	if s.AccessJwt == "" || s.DID == "" {
		return fmt.Errorf("bluesky session response missing token or DID")
	}
	c.session = &s
	return nil
}

// uploadBlob sends the image bytes and returns the blob reference to embed.
func (c *Client) uploadBlob(ctx context.Context, path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	contentType := http.DetectContentType(data)
	body, err := c.xrpc(ctx, "com.atproto.repo.uploadBlob", contentType, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	var uploaded uploadBlobResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return nil, fmt.Errorf("failed to parse uploadBlob response: %w", err)
	}
	return uploaded.Blob, nil
}

// xrpc performs one POST to the named XRPC method.
func (c *Client) xrpc(ctx context.Context, method, contentType string, payload io.Reader) ([]byte, error) {
	url := fmt.Sprintf("%s/xrpc/%s", c.baseURL, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.session != nil {
		req.Header.Set("Authorization", "Bearer "+c.session.AccessJwt)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, classifyError(resp.StatusCode, body)
	}
	return body, nil
}

// classifyError maps XRPC failures onto the publish sentinels.
func classifyError(statusCode int, body []byte) error {
	msg := strings.ToLower(string(body))
	switch {
	case statusCode == http.StatusTooManyRequests || strings.Contains(msg, "ratelimitexceeded"):
		return fmt.Errorf("bluesky: %w", publish.ErrRateLimited)
	case strings.Contains(msg, "duplicate"):
		return fmt.Errorf("bluesky: %w", publish.ErrDuplicate)
	default:
		return fmt.Errorf("bluesky API error: status %d: %s", statusCode, strings.TrimSpace(string(body)))
	}
}

// linkFacet builds a richtext link facet covering the trailing URL in text.
// Byte offsets are required by the lexicon.
func linkFacet(text string) map[string]interface{} {
	start := strings.LastIndex(text, "https://")
	if start < 0 {
		start = strings.LastIndex(text, "http://")
	}
	if start < 0 {
		return nil
	}

	url := text[start:]
	if i := strings.IndexAny(url, " \n"); i >= 0 {
		url = url[:i]
	}

	return map[string]interface{}{
		"index": map[string]int{
			"byteStart": start,
			"byteEnd":   start + len(url),
		},
		"features": []interface{}{
			map[string]interface{}{
				"$type": "app.bsky.richtext.facet#link",
				"uri":   url,
			},
		},
	}
}

func jsonReader(v interface{}) io.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

type session struct {
	AccessJwt string `json:"accessJwt"`
	DID       string `json:"did"`
	Handle    string `json:"handle"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

type uploadBlobResponse struct {
	Blob json.RawMessage `json:"blob"`
}
