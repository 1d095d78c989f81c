// Package domain holds the value types flowing through the detection
// pipeline: content snapshots in, candidates and findings out.
package domain

import "time"

// PageType classifies the surface a ContentRecord was captured from.
type PageType string

// PageType constants.
const (
	PageTypeProduct  PageType = "product"
	PageTypeCheckout PageType = "checkout"
	PageTypeListing  PageType = "listing"
	PageTypeSocial   PageType = "social"
	PageTypeArticle  PageType = "article"
	PageTypeUnknown  PageType = "unknown"
)

// FormControl describes one interactive control captured from a form.
// Pre-checked opt-ins are a bundling signal, so the checked state travels
// with the snapshot.
type FormControl struct {
	Kind    string `json:"kind"` // "checkbox", "radio", "select", "button"
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
	Hidden  bool   `json:"hidden"`
}

// Link is a captured anchor with its visible text.
type Link struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ContentRecord is an immutable snapshot of one page or feed surface,
// produced by an external content builder. The pipeline never mutates it.
// All collections are always present; a page with no links carries an
// empty slice, never nil.
type ContentRecord struct {
	// Identity
	Origin string `json:"origin"` // scheme://host
	Path   string `json:"path"`

	// Textual content
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Headings []string `json:"headings"`

	// Structure
	Links        []Link        `json:"links"`
	FormControls []FormControl `json:"form_controls"`
	Metadata     map[string]string `json:"metadata"`

	PageType   PageType  `json:"page_type"`
	CapturedAt time.Time `json:"captured_at"`
}

// Normalize fills nil collections with empty ones so extractors never see
// an absent section.
func (c *ContentRecord) Normalize() {
	if c.Headings == nil {
		c.Headings = []string{}
	}
	if c.Links == nil {
		c.Links = []Link{}
	}
	if c.FormControls == nil {
		c.FormControls = []FormControl{}
	}
	if c.Metadata == nil {
		c.Metadata = map[string]string{}
	}
	if c.PageType == "" {
		c.PageType = PageTypeUnknown
	}
}

// Normalized returns a shallow copy of the record with Normalize applied,
// leaving the receiver untouched.
func (c *ContentRecord) Normalized() *ContentRecord {
	cp := *c
	cp.Normalize()
	return &cp
}

// Domain returns the host portion of the origin, without scheme or port.
func (c *ContentRecord) Domain() string {
	origin := c.Origin
	for _, prefix := range []string{"https://", "http://"} {
		if len(origin) > len(prefix) && origin[:len(prefix)] == prefix {
			origin = origin[len(prefix):]
			break
		}
	}
	for i := 0; i < len(origin); i++ {
		if origin[i] == ':' || origin[i] == '/' {
			return origin[:i]
		}
	}
	return origin
}
