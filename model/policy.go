// Package model - SupportedVersions defines the signed version-support policy
// snapshot and the messaging attached to expiring release lines.
package model

import (
	"time"
)

// MessageType classifies the visual urgency of an expiration message.
type MessageType string

// Message urgency levels, in increasing severity.
const (
	MessageTypePrimary MessageType = "primary"
	MessageTypeWarning MessageType = "warning"
	MessageTypeDanger  MessageType = "danger"
)

// Message is a threshold-tagged expiration message. It becomes eligible once
// the days remaining until a version's expiration drop to RemainingDays or
// below. Title, Subtitle and Description are dictionary keys, not display
// strings; Params carries extra placeholder values overlaying the defaults.
type Message struct {
	RemainingDays int               `json:"remainingDays"`
	Title         string            `json:"title,omitempty"`
	Subtitle      string            `json:"subtitle,omitempty"`
	Description   string            `json:"description,omitempty"`
	Type          MessageType       `json:"type,omitempty"`
	Params        map[string]string `json:"params,omitempty"`
	Link          string            `json:"link,omitempty"`
}

// Version represents one supported release line and its end-of-support date.
// Messages, when present, override the policy's global message list for this
// release line.
type Version struct {
	Version    string    `json:"version"`
	Expiration time.Time `json:"expiration"`
	Messages   []Message `json:"messages,omitempty"`
}

// Exceptions carries a workspace-specific override policy, evaluated only
// when the general version list has no current match.
type Exceptions struct {
	Domain   string    `json:"domain,omitempty"`
	UniqueID string    `json:"uniqueId,omitempty"`
	Messages []Message `json:"messages,omitempty"`
	Versions []Version `json:"versions,omitempty"`
}

// Dictionary maps a language code to a mapping of message key to localized
// template string. Templates use {{placeholder}} syntax.
type Dictionary map[string]map[string]string

// SupportedVersions is one complete version-support snapshot, decoded from a
// signed policy token. Snapshots come from three sources (built-in, server
// self-reported, cloud); the freshest timestamp wins.
type SupportedVersions struct {
	Timestamp  string      `json:"timestamp"`
	Messages   []Message   `json:"messages,omitempty"`
	Versions   []Version   `json:"versions"`
	Exceptions *Exceptions `json:"exceptions,omitempty"`
	I18n       Dictionary  `json:"i18n,omitempty"`
}

// TimestampTime parses the snapshot timestamp into a time value.
// Freshness comparison must happen on parsed times, never on the raw
// strings; an unparseable timestamp orders as the zero time.
func (s *SupportedVersions) TimestampTime() time.Time {
	if s == nil || s.Timestamp == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, s.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// TranslatedMessage is the fully localized expiration banner produced by the
// translator. Fields left empty had no dictionary entry for their key.
type TranslatedMessage struct {
	Title       string      `json:"title,omitempty"`
	Subtitle    string      `json:"subtitle,omitempty"`
	Description string      `json:"description,omitempty"`
	Type        MessageType `json:"type,omitempty"`
	Link        string      `json:"link,omitempty"`
}
