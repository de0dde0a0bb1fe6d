package serverinfo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/relaychat/supportgate/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_ParsesInfoDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/info", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"info": {"version": "6.5.3"},
			"supportedVersions": {"signed": "signed-token"},
			"minimumClientVersions": {"desktop": "3.9.0", "mobile": "4.1.0"},
			"success": true
		}`))
	}))
	defer srv.Close()

	c := NewClient()
	info, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "6.5.3", info.ServerVersion())
	require.NotNil(t, info.SupportedVersions)
	assert.Equal(t, "signed-token", info.SupportedVersions.Signed)
	require.NotNil(t, info.MinimumClientVersions)
	assert.Equal(t, "3.9.0", info.MinimumClientVersions.Desktop)
	assert.True(t, info.Success)
}

func TestFetch_TopLevelVersionFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"version": "5.4.2", "success": true}`))
	}))
	defer srv.Close()

	c := NewClient()
	info, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "5.4.2", info.ServerVersion())
}

func TestFetch_TrailingSlashURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/info", r.URL.Path)
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.Fetch(context.Background(), srv.URL+"/")
	require.NoError(t, err)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "status 503")
}

func TestFetch_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	c := NewClient()
	_, err := c.Fetch(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "parse")
}

func TestApply(t *testing.T) {
	server := model.NewServer("https://chat.acme.example", "Acme")
	server.Version = "6.4.0"

	info := &model.ServerInfo{
		UniqueID:              "ws-1",
		SupportedVersions:     &model.SignedSupportedInfo{Signed: "tok"},
		MinimumClientVersions: &model.MinimumClientVersions{Desktop: "3.9.0"},
	}
	info.Info.Version = "6.5.3"

	Apply(server, info)

	assert.Equal(t, "6.5.3", server.Version)
	assert.Equal(t, "ws-1", server.WorkspaceUID)
	assert.Equal(t, "tok", server.SupportedVersionsToken)
	assert.Equal(t, "3.9.0", server.MinimumClientVersion)
}

func TestApply_EmptyInfoLeavesServerUntouched(t *testing.T) {
	server := model.NewServer("https://chat.acme.example", "Acme")
	server.Version = "6.4.0"
	server.SupportedVersionsToken = "existing"

	Apply(server, &model.ServerInfo{})
	Apply(server, nil)
	Apply(nil, &model.ServerInfo{})

	assert.Equal(t, "6.4.0", server.Version)
	assert.Equal(t, "existing", server.SupportedVersionsToken)
}
