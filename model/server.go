// Package model - Server defines the workspace server descriptor stored in
// the database and the shapes returned by a server's /api/info endpoint.
package model

import "time"

// Server represents a registered chat workspace server.
type Server struct {
	Key     string `json:"_key,omitempty"`
	ObjType string `json:"objtype,omitempty"`
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version,omitempty"`

	// Workspace identifier reported by the server itself
	WorkspaceUID string `json:"workspace_uid,omitempty"`

	// Self-reported signed policy token cached from the last /api/info fetch
	SupportedVersionsToken string `json:"supported_versions_token,omitempty"`

	// Latest evaluation outcome
	Supported            *bool              `json:"supported,omitempty"`
	ExpirationMessage    *TranslatedMessage `json:"expiration_message,omitempty"`
	LastCheckedAt        time.Time          `json:"last_checked_at,omitempty"`
	MinimumClientVersion string             `json:"minimum_client_version,omitempty"`
}

// NewServer creates a Server with default values.
func NewServer(url, title string) *Server {
	return &Server{
		ObjType: "Server",
		URL:     url,
		Title:   title,
	}
}

// ServerInfo is the JSON document returned by GET {serverURL}/api/info.
type ServerInfo struct {
	Info struct {
		Version string `json:"version"`
	} `json:"info"`
	Version               string                 `json:"version,omitempty"`
	UniqueID              string                 `json:"uniqueID,omitempty"`
	SupportedVersions     *SignedSupportedInfo   `json:"supportedVersions,omitempty"`
	MinimumClientVersions *MinimumClientVersions `json:"minimumClientVersions,omitempty"`
	Success               bool                   `json:"success"`
}

// ServerVersion returns the server version, preferring the nested info block.
func (i *ServerInfo) ServerVersion() string {
	if i == nil {
		return ""
	}
	if i.Info.Version != "" {
		return i.Info.Version
	}
	return i.Version
}

// SignedSupportedInfo wraps the server's self-reported signed policy token.
type SignedSupportedInfo struct {
	Signed string `json:"signed"`
}

// MinimumClientVersions carries the oldest client builds the server accepts.
type MinimumClientVersions struct {
	Desktop string `json:"desktop,omitempty"`
	Mobile  string `json:"mobile,omitempty"`
}

// CloudSupportedVersions is the JSON document returned by the cloud releases
// endpoint; SupportedVersions is a signed policy token.
type CloudSupportedVersions struct {
	SupportedVersions string `json:"supportedVersions"`
	Success           bool   `json:"success"`
}

// DispatchRecord is one entry of dispatch history: the expiration message
// state pushed for a server at a point in time.
type DispatchRecord struct {
	Key               string             `json:"_key,omitempty"`
	ObjType           string             `json:"objtype,omitempty"`
	URL               string             `json:"url"`
	Supported         bool               `json:"supported"`
	ExpirationMessage *TranslatedMessage `json:"expiration_message,omitempty"`
	DispatchedAt      time.Time          `json:"dispatched_at"`
}
