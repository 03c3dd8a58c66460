package wordpress

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

func testBookmark() domain.Bookmark {
	return domain.Bookmark{
		ID:          "http://example.com/post",
		Title:       "A Bookmark",
		URL:         "http://example.com/post",
		Description: "some **bold** notes",
		Tags:        []string{"golang", "testing"},
		CreatedAt:   time.Date(2026, time.August, 29, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublishSendsAuthenticatedPost(t *testing.T) {
	t.Parallel()

	var got struct {
		path    string
		auth    string
		payload postPayload
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got.payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": 123}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "alice", "secret pass", "publish", "https://pinboard.in/u:alice", server.Client())

	postID, err := client.Publish(context.Background(), testBookmark())
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if postID != 123 {
		t.Fatalf("postID = %d, want 123", postID)
	}
	if got.path != "/wp-json/wp/v2/posts" {
		t.Fatalf("unexpected path: %s", got.path)
	}
	// base64("alice:secret pass")
	if got.auth != "Basic YWxpY2U6c2VjcmV0IHBhc3M=" {
		t.Fatalf("unexpected auth header: %s", got.auth)
	}
	if got.payload.Title != "A Bookmark" {
		t.Fatalf("unexpected title: %s", got.payload.Title)
	}
	if got.payload.Status != "publish" {
		t.Fatalf("unexpected status: %s", got.payload.Status)
	}
	if !strings.Contains(got.payload.Content, "deliciouslink") {
		t.Fatalf("content missing source link: %s", got.payload.Content)
	}
}

func TestPublishRejectionIsPublishFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_cannot_create"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "wrong", "draft", "", server.Client())

	_, err := client.Publish(context.Background(), testBookmark())
	if !errors.Is(err, ports.ErrPublishFailed) {
		t.Fatalf("expected ErrPublishFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "rest_cannot_create") {
		t.Fatalf("error must carry the response excerpt: %v", err)
	}
}

func TestVerifyAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/users/me" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id": 1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "secret", "draft", "", server.Client())
	if err := client.VerifyAuth(context.Background()); err != nil {
		t.Fatalf("VerifyAuth: %v", err)
	}
}

func TestVerifyAuthRejected(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "alice", "wrong", "draft", "", server.Client())

	err := client.VerifyAuth(context.Background())
	if err == nil {
		t.Fatal("expected an error for rejected credentials")
	}
	if !strings.Contains(err.Error(), "rejected credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}
