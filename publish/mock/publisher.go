package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/lectio/publish"
)

// MockPublisher is a test double for publish.Publisher.
// It allows custom behavior injection via function fields.
type MockPublisher struct {
	// PublishFunc is called by Publish if set.
	// If nil, returns a deterministic receipt and records the post.
	PublishFunc func(ctx context.Context, post *publish.Post) (*publish.Receipt, error)

	callCount int
	posts     []*publish.Post
}

// NewMockPublisher creates a mock publisher with default behavior.
// Note: Returns concrete type to allow test assertions via CallCount().
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish returns a deterministic receipt derived from the call count.
func (m *MockPublisher) Publish(ctx context.Context, post *publish.Post) (*publish.Receipt, error) {
	m.callCount++

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, post)
	}

	m.posts = append(m.posts, post)
	id := fmt.Sprintf("post-%d", m.callCount)
	return &publish.Receipt{
		DestinationID: id,
		URL:           "https://example.org/" + id,
	}, nil
}

// CallCount returns the number of times Publish was called.
func (m *MockPublisher) CallCount() int {
	return m.callCount
}

// Posts returns the posts delivered via the default behavior.
func (m *MockPublisher) Posts() []*publish.Post {
	return m.posts
}

// Reset clears the call count, recorded posts, and custom functions.
func (m *MockPublisher) Reset() {
	m.callCount = 0
	m.posts = nil
	m.PublishFunc = nil
}
