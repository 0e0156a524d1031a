// Package social polls the social API for posts mentioning the bot and
// feeds them into the pipeline over NATS.
package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/storage"
)

// Poller periodically fetches recent posts matching a query and publishes
// unseen ones to the posts subject. The cursor (newest post ID) is persisted
// so restarts do not replay old posts.
type Poller struct {
	apiURL   string
	token    string
	query    string
	interval time.Duration

	http      *http.Client
	messenger *messaging.Messenger
	store     storage.Store
}

func NewPoller(apiURL, token, query string, interval time.Duration, m *messaging.Messenger, s storage.Store) *Poller {
	return &Poller{
		apiURL:    apiURL,
		token:     token,
		query:     query,
		interval:  interval,
		http:      &http.Client{Timeout: 15 * time.Second},
		messenger: m,
		store:     s,
	}
}

// Run polls until ctx is cancelled. A failed poll logs and waits for the
// next tick; there is no backoff beyond the poll interval.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.pollOnce(ctx); err != nil {
			log.Printf("social poll failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// pollOnce fetches posts newer than the cursor and publishes them.
func (p *Poller) pollOnce(ctx context.Context) error {
	cursor, err := p.store.GetCursor()
	if err != nil {
		return fmt.Errorf("read cursor: %w", err)
	}

	posts, err := p.fetchRecent(ctx, cursor)
	if err != nil {
		return err
	}

	// API returns newest first; publish oldest first so launches keep
	// post order, then advance the cursor to the newest ID.
	for i := len(posts) - 1; i >= 0; i-- {
		if err := p.messenger.PublishJSON(core.SubjectPosts, posts[i]); err != nil {
			return fmt.Errorf("publish post %s: %w", posts[i].ID, err)
		}
	}
	if len(posts) > 0 {
		if err := p.store.SetCursor(posts[0].ID); err != nil {
			return fmt.Errorf("save cursor: %w", err)
		}
		log.Printf("social: published %d new posts", len(posts))
	}
	return nil
}

// recentResponse mirrors the recent-search endpoint's JSON shape.
type recentResponse struct {
	Data []struct {
		ID        string `json:"id"`
		AuthorID  string `json:"author_id"`
		Text      string `json:"text"`
		CreatedAt string `json:"created_at"`
	} `json:"data"`
}

func (p *Poller) fetchRecent(ctx context.Context, sinceID string) ([]core.Post, error) {
	q := url.Values{}
	q.Set("query", p.query)
	q.Set("tweet.fields", "author_id,created_at")
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.apiURL+"/tweets/search/recent?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("social API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("social API returned %d: %s", resp.StatusCode, body)
	}

	var parsed recentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode social response: %w", err)
	}

	posts := make([]core.Post, 0, len(parsed.Data))
	for _, d := range parsed.Data {
		created, _ := time.Parse(time.RFC3339, d.CreatedAt)
		posts = append(posts, core.Post{
			ID:        d.ID,
			Author:    d.AuthorID,
			Text:      d.Text,
			CreatedAt: created.Unix(),
		})
	}
	return posts, nil
}
