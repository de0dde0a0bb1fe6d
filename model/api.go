// Package model - API types for server registration and support checks
package model

// RegisterServerRequest is the body for POST /api/v1/servers.
type RegisterServerRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

// CheckServerRequest is the body for POST /api/v1/servers/check.
type CheckServerRequest struct {
	URL string `json:"url"`
}

// CheckServerResponse reports the outcome of a support evaluation.
type CheckServerResponse struct {
	Success           bool               `json:"success"`
	Message           string             `json:"message,omitempty"`
	URL               string             `json:"url,omitempty"`
	Version           string             `json:"version,omitempty"`
	Supported         bool               `json:"supported"`
	ExpirationMessage *TranslatedMessage `json:"expiration_message,omitempty"`
}

// PolicySummary is the admin view of a resolved policy snapshot.
type PolicySummary struct {
	Source        string   `json:"source"`
	Timestamp     string   `json:"timestamp"`
	VersionCount  int      `json:"version_count"`
	Versions      []string `json:"versions"`
	HasExceptions bool     `json:"has_exceptions"`
	MessageCount  int      `json:"message_count"`
}
