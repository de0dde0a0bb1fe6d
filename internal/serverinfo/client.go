// Package serverinfo fetches a workspace server's /api/info document, the
// source of its version, workspace identifier, and self-reported policy token.
package serverinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/relaychat/supportgate/model"
	"github.com/relaychat/supportgate/util"
)

// infoRequestTimeout bounds a single /api/info round trip.
const infoRequestTimeout = 10 * time.Second

// Client retrieves server metadata over HTTP.
type Client struct {
	HTTP *http.Client
}

// NewClient creates a Client with the default timeout.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: infoRequestTimeout}}
}

// Fetch retrieves {serverURL}/api/info and returns the parsed document.
func (c *Client) Fetch(ctx context.Context, serverURL string) (*model.ServerInfo, error) {
	endpoint, err := url.Parse(strings.TrimRight(serverURL, "/") + "/api/info")
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("server info request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("server info request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info model.ServerInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("failed to parse server info response: %w", err)
	}

	return &info, nil
}

// Apply copies the fetched info onto a stored server record: version,
// workspace identifier, self-reported policy token, and the desktop minimum
// client version.
func Apply(server *model.Server, info *model.ServerInfo) {
	if server == nil || info == nil {
		return
	}
	if v := info.ServerVersion(); v != "" {
		server.Version = util.CleanVersion(v)
	}
	if info.UniqueID != "" {
		server.WorkspaceUID = info.UniqueID
	}
	if info.SupportedVersions != nil && info.SupportedVersions.Signed != "" {
		server.SupportedVersionsToken = info.SupportedVersions.Signed
	}
	if info.MinimumClientVersions != nil && info.MinimumClientVersions.Desktop != "" {
		server.MinimumClientVersion = info.MinimumClientVersions.Desktop
	}
}
