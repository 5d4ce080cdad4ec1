// Package mastodon publishes posts to a Mastodon instance.
package mastodon

import (
	"context"
	"fmt"
	"strings"

	gomastodon "github.com/mattn/go-mastodon"

	"papersbot/internal/publish"
)

// Credentials identify the instance and account to post as.
type Credentials struct {
	Server      string
	AccessToken string
}

// api is the slice of go-mastodon's client this publisher uses (allows
// injection for testing).
type api interface {
	UploadMedia(ctx context.Context, file string) (*gomastodon.Attachment, error)
	PostStatus(ctx context.Context, toot *gomastodon.Toot) (*gomastodon.Status, error)
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithAPI sets a custom backing API client.
func WithAPI(a api) ClientOption {
	return func(c *Client) {
		c.api = a
	}
}

// Client implements publish.Publisher for Mastodon.
type Client struct {
	api api
}

// New creates a Client for the given instance and token.
func New(creds Credentials, opts ...ClientOption) *Client {
	c := &Client{
		api: gomastodon.NewClient(&gomastodon.Config{
			Server:      creds.Server,
			AccessToken: creds.AccessToken,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements publish.Publisher.
func (c *Client) Name() string { return "mastodon" }

// Publish implements publish.Publisher. The image, when present, is
// uploaded first and attached to the status.
func (c *Client) Publish(ctx context.Context, post publish.Post) (publish.Result, error) {
	toot := &gomastodon.Toot{Status: post.Text}

	if post.ImagePath != "" {
		attachment, err := c.api.UploadMedia(ctx, post.ImagePath)
		if err != nil {
			return publish.Result{}, fmt.Errorf("failed to upload media: %w", classify(err))
		}
		toot.MediaIDs = []gomastodon.ID{attachment.ID}
	}

	status, err := c.api.PostStatus(ctx, toot)
	if err != nil {
		return publish.Result{}, fmt.Errorf("mastodon: %w", classify(err))
	}
	return publish.Result{ID: string(status.ID)}, nil
}

// classify maps go-mastodon errors onto the publish sentinels. The library
// surfaces API failures as formatted errors carrying the HTTP status text,
// so classification goes by message.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "too many requests"):
		return publish.ErrRateLimited
	case strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "422") || strings.Contains(msg, "unprocessable"):
		return publish.ErrDuplicate
	default:
		return err
	}
}
