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


package publish

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/poiesic/lectio/core"
)

// Formatter renders an enriched chunk as an HTML post.
type Formatter struct {
	// SiteURL appears in the post footer, empty to omit the footer.
	SiteURL string

	// Category is attached to every formatted post.
	Category string
}

// FormatPost renders the chunk with its enrichment sections. The chunk must
// be enriched; total is the chunk count used for the progress line.
func (f *Formatter) FormatPost(chunk *core.Chunk, total int, date time.Time) (*Post, error) {
	if chunk == nil || !chunk.Enriched() {
		return nil, ErrNotReady
	}
	e := chunk.Enrichment

	var b strings.Builder

	progress := float64(chunk.Index+1) / float64(total) * 100
	fmt.Fprintf(&b, "<p><em>Day %d of %d • Book %d, Chapter %d • %.1f%% Complete</em></p>\n",
		chunk.Index+1, total, chunk.Location.Book, chunk.Location.Chapter, progress)

	b.WriteString("<h2>Original Text</h2>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n<hr>\n", html.EscapeString(chunk.Text))

	b.WriteString("<h2>Modern Translation</h2>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n<hr>\n", html.EscapeString(e.Rendering))

	b.WriteString("<h2>What's Happening</h2>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n<hr>\n", html.EscapeString(e.Context))

	if len(e.Themes) > 0 {
		b.WriteString("<h2>Key Themes</h2>\n<ul>\n")
		for _, theme := range e.Themes {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(theme))
		}
		b.WriteString("</ul>\n")
	}

	if len(e.Annotations) > 0 {
		b.WriteString("<h2>Annotations</h2>\n")
		for _, ann := range e.Annotations {
			fmt.Fprintf(&b, "<h3>%s</h3>\n", html.EscapeString(ann.Topic))
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(ann.Explanation))
			if ann.Link != "" {
				fmt.Fprintf(&b, "<p><a href=%q>Learn more</a></p>\n", ann.Link)
			}
		}
	}

	if len(e.Vocabulary) > 0 {
		b.WriteString("<h2>Important Terms</h2>\n<ul>\n")
		for _, v := range e.Vocabulary {
			fmt.Fprintf(&b, "<li><strong>%s</strong>: %s</li>\n",
				html.EscapeString(v.Term), html.EscapeString(v.Definition))
		}
		b.WriteString("</ul>\n")
	}

	if len(e.ParallelAccounts) > 0 {
		b.WriteString("<h2>Parallel Accounts from Other Ancient Historians</h2>\n")
		for _, acc := range e.ParallelAccounts {
			fmt.Fprintf(&b, "<h3>%s: <em>%s</em> (%s)</h3>\n",
				html.EscapeString(acc.Author), html.EscapeString(acc.Work), html.EscapeString(acc.Reference))
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(acc.Relevance))
			if acc.Link != "" {
				fmt.Fprintf(&b, "<p><a href=%q>Read the passage</a></p>\n", acc.Link)
			}
		}
	}

	if len(e.RelatedPassages) > 0 {
		b.WriteString("<h2>Related Passages</h2>\n")
		for _, rp := range e.RelatedPassages {
			fmt.Fprintf(&b, "<p><strong>Book %d, Chapter %d</strong>: %s <em>(%s)</em></p>\n",
				rp.Book, rp.Chapter, html.EscapeString(rp.Summary), html.EscapeString(rp.Connection))
		}
	}

	if len(e.DiscussionPrompts) > 0 {
		b.WriteString("<h2>Discussion Questions</h2>\n<ol>\n")
		for _, q := range e.DiscussionPrompts {
			fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(q))
		}
		b.WriteString("</ol>\n")
	}

	b.WriteString("<hr>\n")
	if f.SiteURL != "" {
		fmt.Fprintf(&b, "<p><em>Daily readings at <a href=\"https://%s\">%s</a></em></p>", f.SiteURL, f.SiteURL)
	}

	return &Post{
		Title:    fmt.Sprintf("Day %d: Book %d, Chapter %d", chunk.Index+1, chunk.Location.Book, chunk.Location.Chapter),
		Body:     b.String(),
		Date:     date,
		Category: f.Category,
	}, nil
}
