package publish

import "time"

// Schedule maps chunk indices to posting dates: chunk 0 posts on StartDate,
// chunk N posts N days later. A zero StartDate means posts carry the
// publication time instead of a nominal date.
type Schedule struct {
	StartDate time.Time
}

// DateFor returns the nominal posting date for a chunk index.
func (s Schedule) DateFor(index int) time.Time {
	if s.StartDate.IsZero() {
		return time.Time{}
	}
	return s.StartDate.AddDate(0, 0, index)
}

// IndexFor returns which chunk is due on the given date. Dates before
// StartDate map to 0.
func (s Schedule) IndexFor(date time.Time) int {
	if s.StartDate.IsZero() {
		return 0
	}
	days := int(date.Sub(s.StartDate).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
