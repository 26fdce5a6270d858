package publish

import (
	"context"
	"time"
)

// Post is a fully formatted publication ready for a destination.
type Post struct {
	// Title is the post headline, e.g. "Day 12: Book 1, Chapter 5".
	Title string

	// Body is the HTML content.
	Body string

	// Date is the nominal publication date.
	Date time.Time

	// Category is the destination category name, empty for none.
	Category string
}

// Receipt identifies a successfully published post at the destination.
type Receipt struct {
	// DestinationID is the destination's identifier for the post.
	DestinationID string

	// URL is the public address of the post, when the destination
	// reports one.
	URL string
}

// Publisher delivers a post to an external destination.
// Implementations must be thread-safe for concurrent use.
type Publisher interface {
	// Publish delivers the post and returns the destination's receipt.
	// A non-nil error means the post may not have been delivered; the
	// caller decides whether to retry.
	Publish(ctx context.Context, post *Post) (*Receipt, error)
}
