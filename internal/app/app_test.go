package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/tenderdesk/internal/config"
	"github.com/five82/tenderdesk/internal/gateway"
	"github.com/five82/tenderdesk/internal/mockapi"
	"github.com/five82/tenderdesk/internal/roles"
)

func newMockClient(t *testing.T) *gateway.Client {
	t.Helper()
	srv := httptest.NewServer(mockapi.New(mockapi.NewSeededStore(), nil).Handler())
	t.Cleanup(srv.Close)
	client, err := gateway.NewClient(srv.URL)
	require.NoError(t, err)
	return client
}

func TestSignIn_WithCredentials(t *testing.T) {
	client := newMockClient(t)

	session, err := signIn(context.Background(), client, config.Config{Username: "finance", Password: "finance"})
	require.NoError(t, err)
	assert.Equal(t, roles.Finance, session.Role)
	assert.Equal(t, "finance", session.User.Username)
}

func TestSignIn_BadPassword(t *testing.T) {
	client := newMockClient(t)

	_, err := signIn(context.Background(), client, config.Config{Username: "finance", Password: "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credentials")
}

func TestSignIn_PresetIdentity(t *testing.T) {
	cfg := config.Config{Identity: config.Identity{Username: "ops", FullName: "Ops Desk", Role: roles.Technical}}

	session, err := signIn(context.Background(), nil, cfg)
	require.NoError(t, err)
	assert.Equal(t, roles.Technical, session.Role)
	assert.Equal(t, "Ops Desk", session.User.FullName)
}

func TestSignIn_NothingConfigured(t *testing.T) {
	_, err := signIn(context.Background(), nil, config.Config{Path: "/tmp/config.toml"})
	assert.True(t, errors.Is(err, ErrNoIdentity))
}

func TestDashboard_AgainstMockAPI(t *testing.T) {
	srv := httptest.NewServer(mockapi.New(mockapi.NewSeededStore(), nil).Handler())
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		`api_url = "` + srv.URL + `"`,
		`username = "admin"`,
		`password = "admin"`,
		`log_dir = "` + dir + `"`,
	}, "\n")
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	session, tiles, err := Dashboard(context.Background(), Options{ConfigPath: cfgPath})
	require.NoError(t, err)
	assert.Equal(t, roles.Admin, session.Role)
	require.Len(t, tiles, 4)
	assert.Equal(t, "Active Tenders", tiles[0].Title)
	assert.Equal(t, 3, tiles[0].Value)

	_, err = os.Stat(filepath.Join(dir, "tenderdesk.log"))
	assert.NoError(t, err)
}
