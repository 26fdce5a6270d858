// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package wordpress publishes posts through the WordPress.com REST API v2
// using a bearer access token.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/poiesic/lectio/publish"
)

// Config holds WordPress API credentials and destination settings.
type Config struct {
	// SiteURL is the site identifier, e.g. "example.wordpress.com".
	SiteURL string

	// AccessToken is the OAuth bearer token.
	AccessToken string

	// Timeout bounds each API request. Default: 30s.
	Timeout time.Duration
}

// Validate checks that the configuration is complete.
func (c *Config) Validate() error {
	if c.SiteURL == "" {
		return errors.New("wordpress config: SiteURL is required")
	}
	if c.AccessToken == "" {
		return errors.New("wordpress config: AccessToken is required")
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// Client implements publish.Publisher against the WordPress.com REST API.
type Client struct {
	apiBase string
	token   string
	http    *http.Client
	logger  *slog.Logger

	mu         sync.Mutex
	categoryID map[string]int
}

var _ publish.Publisher = (*Client)(nil)

// NewClient creates a WordPress publisher.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		apiBase:    fmt.Sprintf("https://public-api.wordpress.com/wp/v2/sites/%s", config.SiteURL),
		token:      config.AccessToken,
		http:       &http.Client{Timeout: config.Timeout},
		logger:     slog.Default().With("component", "wordpress"),
		categoryID: make(map[string]int),
	}, nil
}

type postPayload struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	Date       string `json:"date,omitempty"`
	Categories []int  `json:"categories,omitempty"`
}

type postResponse struct {
	ID   int    `json:"id"`
	Link string `json:"link"`
}

type categoryResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Publish creates a post via POST /posts. The post's category is resolved
// to an ID first, created if the site doesn't have it yet.
func (c *Client) Publish(ctx context.Context, post *publish.Post) (*publish.Receipt, error) {
	payload := postPayload{
		Title:   post.Title,
		Content: post.Body,
		Status:  "publish",
	}
	if !post.Date.IsZero() {
		payload.Date = post.Date.Format(time.RFC3339)
	}

	if post.Category != "" {
		id, err := c.categoryIDFor(ctx, post.Category)
		if err != nil {
			// A missing category shouldn't block the day's post.
			c.logger.Warn("failed to resolve category, publishing without it",
				"category", post.Category, "err", err)
		} else {
			payload.Categories = []int{id}
		}
	}

	var result postResponse
	if err := c.do(ctx, http.MethodPost, c.apiBase+"/posts", payload, &result); err != nil {
		return nil, err
	}

	c.logger.Debug("created post", "id", result.ID, "link", result.Link)
	return &publish.Receipt{
		DestinationID: strconv.Itoa(result.ID),
		URL:           result.Link,
	}, nil
}

// categoryIDFor finds or creates a category by name. IDs are cached for the
// client's lifetime.
func (c *Client) categoryIDFor(ctx context.Context, name string) (int, error) {
	c.mu.Lock()
	if id, ok := c.categoryID[name]; ok {
		c.mu.Unlock()
		return id, nil
	}
	c.mu.Unlock()

	var categories []categoryResponse
	searchURL := fmt.Sprintf("%s/categories?search=%s", c.apiBase, url.QueryEscape(name))
	if err := c.do(ctx, http.MethodGet, searchURL, nil, &categories); err != nil {
		return 0, err
	}

	var id int
	if len(categories) > 0 {
		id = categories[0].ID
	} else {
		var created categoryResponse
		err := c.do(ctx, http.MethodPost, c.apiBase+"/categories", map[string]string{"name": name}, &created)
		if err != nil {
			return 0, err
		}
		id = created.ID
		c.logger.Info("created category", "name", name, "id", id)
	}

	c.mu.Lock()
	c.categoryID[name] = id
	c.mu.Unlock()
	return id, nil
}

// do executes one API request and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, method, requestURL string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("wordpress api: %s %s returned %d: %s",
			method, requestURL, resp.StatusCode, string(detail))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
