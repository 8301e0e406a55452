package event

import "time"

// NameValue is one query-string pair. Order and duplicates are preserved.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// API identifies the vendor endpoint a payload arrived on.
type API struct {
	Vendor  string `json:"vendor"`
	Version string `json:"version"`
}

// Source describes the collector that captured the payload.
type Source struct {
	Name     string `json:"name"`
	Encoding string `json:"encoding"`
	Hostname string `json:"hostname,omitempty"`
}

// Context carries request metadata captured at ingestion time.
type Context struct {
	Timestamp time.Time `json:"timestamp"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Referer   string    `json:"referer,omitempty"`
	Headers   []string  `json:"headers,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
}

// CollectorPayload is the raw inbound webhook request before any
// vendor-specific interpretation. Body and ContentType are nil when the
// request carried none.
type CollectorPayload struct {
	API         API         `json:"api"`
	QueryString []NameValue `json:"querystring"`
	ContentType *string     `json:"content_type,omitempty"`
	Body        *string     `json:"body,omitempty"`
	Source      Source      `json:"source"`
	Context     Context     `json:"context"`
}

// RawEvent is the canonical record handed to the downstream pipeline.
type RawEvent struct {
	API         API               `json:"api"`
	Parameters  map[string]string `json:"parameters"`
	ContentType *string           `json:"content_type,omitempty"`
	Source      Source            `json:"source"`
	Context     Context           `json:"context"`
}
