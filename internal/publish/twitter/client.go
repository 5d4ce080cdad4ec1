// Package twitter publishes posts through the X (Twitter) API.
//
// Tweets are created with the v2 API; media still goes through the v1.1
// chunked upload endpoint, signed with the same OAuth 1.0a user context.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"

	"github.com/dghubble/oauth1"

	"papersbot/internal/publish"
)

const (
	defaultAPIBaseURL    = "https://api.twitter.com"
	defaultUploadBaseURL = "https://upload.twitter.com"
)

// Credentials holds the OAuth 1.0a user-context keys.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, bypassing OAuth signing.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIBaseURL overrides the API base URL (useful for testing).
func WithAPIBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.apiBaseURL = url
	}
}

// WithUploadBaseURL overrides the media upload base URL (useful for testing).
func WithUploadBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.uploadBaseURL = url
	}
}

// Client is an X API client implementing publish.Publisher.
type Client struct {
	httpClient    HTTPClient
	apiBaseURL    string
	uploadBaseURL string
}

// New creates a Client with an OAuth1-signing HTTP client built from creds.
func New(creds Credentials, opts ...ClientOption) *Client {
	config := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessKey, creds.AccessSecret)

	c := &Client{
		httpClient:    config.Client(oauth1.NoContext, token),
		apiBaseURL:    defaultAPIBaseURL,
		uploadBaseURL: defaultUploadBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements publish.Publisher.
func (c *Client) Name() string { return "twitter" }

// Publish implements publish.Publisher. A 403 duplicate-content rejection
// maps to publish.ErrDuplicate and a 429 to publish.ErrRateLimited.
func (c *Client) Publish(ctx context.Context, post publish.Post) (publish.Result, error) {
	var mediaIDs []string
	if post.ImagePath != "" {
		mediaID, err := c.uploadMedia(ctx, post.ImagePath)
		if err != nil {
			return publish.Result{}, fmt.Errorf("failed to upload media: %w", err)
		}
		mediaIDs = append(mediaIDs, mediaID)
	}

	reqBody := tweetRequest{Text: post.Text}
	if len(mediaIDs) > 0 {
		reqBody.Media = &tweetMedia{MediaIDs: mediaIDs}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return publish.Result{}, fmt.Errorf("failed to encode tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBaseURL+"/2/tweets", bytes.NewReader(payload))
	if err != nil {
		return publish.Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return publish.Result{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return publish.Result{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return publish.Result{}, classifyError(resp.StatusCode, body)
	}

	var created tweetResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return publish.Result{}, fmt.Errorf("failed to parse tweet response: %w", err)
	}
	return publish.Result{ID: created.Data.ID}, nil
}

// uploadMedia sends the image through the v1.1 upload endpoint and returns
// the media id to attach to the tweet.
func (c *Client) uploadMedia(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("media", "media")
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload form: %w", err)
	}

	url := c.uploadBaseURL + "/1.1/media/upload.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", classifyError(resp.StatusCode, body)
	}

	var uploaded mediaUploadResponse
	if err := json.Unmarshal(body, &uploaded); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	return uploaded.MediaIDString, nil
}

// classifyError maps X API failures onto the publish sentinels.
func classifyError(statusCode int, body []byte) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("twitter: %w", publish.ErrRateLimited)
	case statusCode == http.StatusForbidden && strings.Contains(strings.ToLower(string(body)), "duplicate"):
		return fmt.Errorf("twitter: %w", publish.ErrDuplicate)
	default:
		return fmt.Errorf("twitter API error: status %d: %s", statusCode, strings.TrimSpace(string(body)))
	}
}

// API request/response types

type tweetRequest struct {
	Text  string      `json:"text"`
	Media *tweetMedia `json:"media,omitempty"`
}

type tweetMedia struct {
	MediaIDs []string `json:"media_ids"`
}

type tweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type mediaUploadResponse struct {
	MediaIDString string `json:"media_id_string"`
}
