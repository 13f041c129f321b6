package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecentlyPlayed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "1" {
			t.Errorf("Expected page=1, got %q", got)
		}
		fmt.Fprint(w, `{
			"items": [
				{"played_at": "2024-01-15T08:30:00Z", "track_name": "Levitating", "artist_name": "Dua Lipa", "ms_played": 203000}
			],
			"total_pages": 3
		}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	items, pages, err := client.RecentlyPlayed(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentlyPlayed failed: %v", err)
	}
	if pages != 3 {
		t.Errorf("Expected 3 total pages, got %d", pages)
	}
	if len(items) != 1 || items[0].PlayedAt != "2024-01-15T08:30:00Z" {
		t.Errorf("Unexpected items: %+v", items)
	}
}

func TestRecentlyPlayedRetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"items": [], "total_pages": 1}`)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, _, err := client.RecentlyPlayed(context.Background(), 1)
	if err != nil {
		t.Fatalf("Expected retries to recover, got: %v", err)
	}
	if calls < 3 {
		t.Errorf("Expected at least 3 attempts, got %d", calls)
	}
}

func TestRecentlyPlayedDoesNotRetryClientErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, _, err := client.RecentlyPlayed(context.Background(), 1)
	if err == nil {
		t.Fatalf("Expected error for HTTP 404")
	}
	if calls != 1 {
		t.Errorf("Expected a single attempt for a client error, got %d", calls)
	}
}
