package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nats-io/nats.go"

	"github.com/ttma1046/launchmeow/core"
	"github.com/ttma1046/launchmeow/messaging"
	"github.com/ttma1046/launchmeow/storage"
)

func newTestServer(t *testing.T) (*Server, *gin.Engine, *messaging.Messenger) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(storage.TestConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	m, err := messaging.NewEmbeddedMessenger()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)

	s := NewServer(store, m)
	router := gin.New()
	s.SetupRoutes(router)
	return s, router, m
}

func TestGetStatus(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestLaunchEndpoints(t *testing.T) {
	s, router, _ := newTestServer(t)

	launch := core.Launch{ID: "abc", Status: core.StatusSubmitted, CreatedAt: 1}
	if err := s.store.SaveLaunch(launch); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/launches", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var listResp struct {
		Launches []core.Launch `json:"launches"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatal(err)
	}
	if len(listResp.Launches) != 1 || listResp.Launches[0].ID != "abc" {
		t.Fatalf("launches = %+v", listResp.Launches)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/launches/abc", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/launches/missing", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing launch status = %d", w.Code)
	}
}

func TestTriggerLaunch(t *testing.T) {
	_, router, m := newTestServer(t)

	posts := make(chan core.Post, 1)
	if _, err := m.Subscribe(core.SubjectPosts, func(msg *nats.Msg) {
		var p core.Post
		if json.Unmarshal(msg.Data, &p) == nil {
			posts <- p
		}
	}); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/launch",
		strings.NewReader(`{"text": "launch a cat token"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("trigger status = %d: %s", w.Code, w.Body)
	}

	p := waitPost(t, posts)
	if p.Text != "launch a cat token" || p.Author != "manual" {
		t.Fatalf("post = %+v", p)
	}
}

func TestTriggerLaunchValidation(t *testing.T) {
	_, router, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/launch", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
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
