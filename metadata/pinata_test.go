package metadata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ttma1046/launchmeow/core"
)

func TestPinTokenMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pinning/pinJSONToIPFS" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer jwt" {
			t.Errorf("Authorization = %q", got)
		}

		var req struct {
			PinataContent core.TokenMetadata `json:"pinataContent"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.PinataContent.Symbol != "MEOW" {
			t.Errorf("pinned symbol = %q", req.PinataContent.Symbol)
		}

		json.NewEncoder(w).Encode(map[string]string{"IpfsHash": "QmTest123"})
	}))
	defer srv.Close()

	c := NewPinataClientWithURL(srv.URL, "jwt")
	uri, err := c.PinTokenMetadata(context.Background(), core.TokenMetadata{
		Name:   "Meow",
		Symbol: "MEOW",
	})
	if err != nil {
		t.Fatalf("PinTokenMetadata: %v", err)
	}
	if uri != "ipfs://QmTest123" {
		t.Fatalf("uri = %q", uri)
	}
}

func TestPinTokenMetadataErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad jwt", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewPinataClientWithURL(srv.URL, "jwt")
	if _, err := c.PinTokenMetadata(context.Background(), core.TokenMetadata{}); err == nil {
		t.Fatal("PinTokenMetadata succeeded on a 401 response")
	}
}
