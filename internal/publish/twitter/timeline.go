package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"
)

// Tweet is one of the account's own posts with its engagement counts.
type Tweet struct {
	ID        string
	Text      string
	Likes     int
	Retweets  int
	CreatedAt time.Time
}

// Engagement is the score tweets are ranked by.
func (t Tweet) Engagement() int { return t.Likes + t.Retweets }

// TopTweets fetches the account's recent tweets and returns the n with the
// highest engagement, best first.
func (c *Client) TopTweets(ctx context.Context, n int) ([]Tweet, error) {
	userID, err := c.authenticatedUserID(ctx)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/2/users/%s/tweets?max_results=100&tweet.fields=public_metrics,created_at",
		c.apiBaseURL, userID)
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var timeline timelineResponse
	if err := json.Unmarshal(body, &timeline); err != nil {
		return nil, fmt.Errorf("failed to parse timeline response: %w", err)
	}

	tweets := make([]Tweet, 0, len(timeline.Data))
	for _, item := range timeline.Data {
		createdAt, _ := time.Parse(time.RFC3339, item.CreatedAt)
		tweets = append(tweets, Tweet{
			ID:        item.ID,
			Text:      item.Text,
			Likes:     item.PublicMetrics.LikeCount,
			Retweets:  item.PublicMetrics.RetweetCount,
			CreatedAt: createdAt,
		})
	}

	sort.SliceStable(tweets, func(i, j int) bool {
		return tweets[i].Engagement() > tweets[j].Engagement()
	})
	if n > 0 && len(tweets) > n {
		tweets = tweets[:n]
	}
	return tweets, nil
}

func (c *Client) authenticatedUserID(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.apiBaseURL+"/2/users/me")
	if err != nil {
		return "", err
	}

	var me meResponse
	if err := json.Unmarshal(body, &me); err != nil {
		return "", fmt.Errorf("failed to parse user response: %w", err)
	}
	if me.Data.ID == "" {
		return "", fmt.Errorf("twitter API returned no user id")
	}
	return me.Data.ID, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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

type meResponse struct {
	Data struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"data"`
}

type timelineResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Text          string `json:"text"`
		CreatedAt     string `json:"created_at"`
		PublicMetrics struct {
			LikeCount    int `json:"like_count"`
			RetweetCount int `json:"retweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}
