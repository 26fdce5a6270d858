package wordpress

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/lectio/publish"
)

func newTestClient(serverURL string) *Client {
	return &Client{
		apiBase:    serverURL,
		token:      "test-token",
		http:       &http.Client{Timeout: 5 * time.Second},
		logger:     slog.Default(),
		categoryID: make(map[string]int),
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{SiteURL: "example.wordpress.com", AccessToken: "tok"}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Timeout, "default timeout applied")

	assert.Error(t, (&Config{AccessToken: "tok"}).Validate())
	assert.Error(t, (&Config{SiteURL: "x"}).Validate())
}

func TestClient_Publish(t *testing.T) {
	var gotAuth string
	var gotPayload postPayload

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/posts" && r.Method == http.MethodPost:
			gotAuth = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
			json.NewEncoder(w).Encode(postResponse{ID: 77, Link: "https://example.org/p/77"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	receipt, err := client.Publish(context.Background(), &publish.Post{
		Title: "Day 1: Book 1, Chapter 1",
		Body:  "<p>content</p>",
		Date:  time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "77", receipt.DestinationID)
	assert.Equal(t, "https://example.org/p/77", receipt.URL)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "Day 1: Book 1, Chapter 1", gotPayload.Title)
	assert.Equal(t, "publish", gotPayload.Status)
	assert.Equal(t, "2026-01-01T09:00:00Z", gotPayload.Date)
	assert.Empty(t, gotPayload.Categories)
}

func TestClient_PublishResolvesCategory(t *testing.T) {
	var mu sync.Mutex
	searches, creates := 0, 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/categories" && r.Method == http.MethodGet:
			mu.Lock()
			searches++
			mu.Unlock()
			json.NewEncoder(w).Encode([]categoryResponse{})
		case r.URL.Path == "/categories" && r.Method == http.MethodPost:
			mu.Lock()
			creates++
			mu.Unlock()
			json.NewEncoder(w).Encode(categoryResponse{ID: 5, Name: "History"})
		case r.URL.Path == "/posts":
			var payload postPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []int{5}, payload.Categories)
			json.NewEncoder(w).Encode(postResponse{ID: 1, Link: "https://example.org/p/1"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	post := &publish.Post{Title: "t", Body: "b", Category: "History"}

	_, err := client.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, 1, searches)
	assert.Equal(t, 1, creates, "missing category is created")

	// Second publish uses the cached category ID.
	_, err = client.Publish(context.Background(), post)
	require.NoError(t, err)
	assert.Equal(t, 1, searches, "category lookup is cached")
}

func TestClient_PublishExistingCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/categories" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]categoryResponse{{ID: 9, Name: "History"}})
		case r.URL.Path == "/posts":
			var payload postPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, []int{9}, payload.Categories)
			json.NewEncoder(w).Encode(postResponse{ID: 2, Link: ""})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Publish(context.Background(), &publish.Post{Title: "t", Body: "b", Category: "History"})
	require.NoError(t, err)
}

func TestClient_PublishServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Publish(context.Background(), &publish.Post{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "invalid token")
}
