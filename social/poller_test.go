package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/storage"
)

func newTestServer(t *testing.T, wantSinceID string, posts []map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("since_id"); got != wantSinceID {
			t.Errorf("since_id = %q, want %q", got, wantSinceID)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": posts})
	}))
}

func TestPollOncePublishesAndAdvancesCursor(t *testing.T) {
	srv := newTestServer(t, "", []map[string]string{
		{"id": "3", "author_id": "cat", "text": "newest", "created_at": "2026-08-30T10:00:00Z"},
		{"id": "2", "author_id": "dog", "text": "older", "created_at": "2026-08-30T09:00:00Z"},
	})
	defer srv.Close()

	m, err := messaging.NewEmbeddedMessenger()
	if err != nil {
		t.Fatalf("messenger: %v", err)
	}
	defer m.Close()

	store, err := storage.Open(storage.TestConfig())
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	defer store.Close()

	received := make(chan core.Post, 2)
	_, err = m.Subscribe(core.SubjectPosts, func(msg *nats.Msg) {
		var p core.Post
		if err := json.Unmarshal(msg.Data, &p); err == nil {
			received <- p
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	p := NewPoller(srv.URL, "token", "@launchmeow", time.Minute, m, store)
	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("pollOnce: %v", err)
	}

	// oldest first
	first := waitPost(t, received)
	second := waitPost(t, received)
	if first.ID != "2" || second.ID != "3" {
		t.Fatalf("publish order = %s, %s; want 2, 3", first.ID, second.ID)
	}

	cursor, err := store.GetCursor()
	if err != nil || cursor != "3" {
		t.Fatalf("cursor = %q, %v; want 3", cursor, err)
	}
}

func TestPollOnceEmptyResponse(t *testing.T) {
	srv := newTestServer(t, "9", nil)
	defer srv.Close()

	m, err := messaging.NewEmbeddedMessenger()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	store, err := storage.Open(storage.TestConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	if err := store.SetCursor("9"); err != nil {
		t.Fatal(err)
	}

	p := NewPoller(srv.URL, "token", "@launchmeow", time.Minute, m, store)
	if err := p.pollOnce(context.Background()); err != nil {
		t.Fatalf("pollOnce: %v", err)
	}

	// cursor untouched when nothing new arrived
	cursor, _ := store.GetCursor()
	if cursor != "9" {
		t.Fatalf("cursor = %q, want 9", cursor)
	}
}

func TestPollOnceAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	m, err := messaging.NewEmbeddedMessenger()
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()

	store, err := storage.Open(storage.TestConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	p := NewPoller(srv.URL, "token", "@launchmeow", time.Minute, m, store)
	if err := p.pollOnce(context.Background()); err == nil {
		t.Fatal("pollOnce succeeded on a 429 response")
	}
}

func waitPost(t *testing.T, ch chan core.Post) core.Post {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post")
		return core.Post{}
	}
}
