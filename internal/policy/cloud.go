package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/relaychat/supportgate/model"
)

// cloudRequestTimeout bounds a single releases-endpoint round trip.
const cloudRequestTimeout = 15 * time.Second

// CloudHTTPClient fetches signed policy tokens from the cloud releases
// endpoint.
type CloudHTTPClient struct {
	BaseURL string
	Client  *http.Client
}

// NewCloudHTTPClient creates a client for the given releases endpoint base
// URL (e.g. https://releases.relay.chat).
func NewCloudHTTPClient(baseURL string) *CloudHTTPClient {
	return &CloudHTTPClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: cloudRequestTimeout},
	}
}

// FetchSupportedVersions retrieves the signed policy token for a workspace.
func (c *CloudHTTPClient) FetchSupportedVersions(ctx context.Context, workspaceUID, domain string) (string, error) {
	endpoint, err := url.Parse(c.BaseURL + "/v2/server/supportedVersions")
	if err != nil {
		return "", fmt.Errorf("invalid cloud endpoint: %w", err)
	}

	q := endpoint.Query()
	q.Set("uniqueId", workspaceUID)
	if domain != "" {
		q.Set("domain", domain)
	}
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloud policy request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("cloud policy request returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var payload model.CloudSupportedVersions
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse cloud policy response: %w", err)
	}

	if payload.SupportedVersions == "" {
		return "", fmt.Errorf("cloud policy response carried no token")
	}

	return payload.SupportedVersions, nil
}

// Ensure compile-time interface check
var _ CloudClient = (*CloudHTTPClient)(nil)
