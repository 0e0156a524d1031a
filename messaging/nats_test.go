package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ttma1046/launchmeow/core"
)

func TestEmbeddedPublishSubscribe(t *testing.T) {
	m, err := NewEmbeddedMessenger()
	if err != nil {
		t.Fatalf("NewEmbeddedMessenger: %v", err)
	}
	defer m.Close()

	received := make(chan core.Post, 1)
	_, err = m.Subscribe(core.SubjectPosts, func(msg *nats.Msg) {
		var p core.Post
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			t.Errorf("unmarshal: %v", err)
			return
		}
		received <- p
	})
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	want := core.Post{ID: "42", Author: "cat", Text: "meow"}
	if err := m.PublishJSON(core.SubjectPosts, want); err != nil {
		t.Fatalf("PublishJSON: %v", err)
	}

	select {
	case got := <-received:
		if got != want {
			t.Fatalf("got %+v, want %+v", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for post")
	}
}
