package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
)

func testConfig() *Config {
	return &Config{
		StorageConfig: StorageConfig{Driver: StorageDriverMemory},
		ServerConfig:  ServerConfig{Port: 8080, AdminToken: "secret"},
		LobbyConfig: LobbyConfig{
			Manifests:  []string{"../extension/testdata/example.yaml"},
			MaxPlayers: 8,
		},
	}
}

func TestReadConfig(t *testing.T) {
	logging.Log = logrus.New()
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Run("Happy path - defaults", func(t *testing.T) {
		conf := ReadConfig()
		assert.Equal(t, StorageDriverDynamo, conf.Driver)
		assert.Equal(t, 8080, conf.Port)
		assert.Equal(t, lobby.DefaultMaxPlayers, conf.MaxPlayers)
		assert.Empty(t, conf.Manifests)
	})

	t.Run("Happy path - values from viper", func(t *testing.T) {
		viper.Set("storage.driver", StorageDriverMemory)
		viper.Set("lobby.manifests", []string{"mods/*.yaml"})
		viper.Set("lobby.selectionPrefix", "Rules.")
		viper.Set("server.adminToken", "secret")

		conf := ReadConfig()
		assert.Equal(t, StorageDriverMemory, conf.Driver)
		assert.Equal(t, []string{"mods/*.yaml"}, conf.Manifests)
		assert.Equal(t, "secret", conf.AdminToken)
		assert.Equal(t, "Rules.", conf.LobbySettings().SelectionPrefix)
	})
}

func TestServerRouter(t *testing.T) {
	logging.Log = logrus.New()
	t.Setenv("APP_ENV", "test")

	s := NewServer(testConfig(), lobby.ReferenceHost)
	l, err := s.BuildLobby()
	require.NoError(t, err)
	assert.Equal(t, 8, l.Settings().MaxPlayers)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	results, snapshots, err := s.storages(ctx)
	require.NoError(t, err)
	r := s.Router(l, results, snapshots)

	t.Run("Happy path - catalog route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/catalog", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Happy path - metrics route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.Contains(w.Body.String(), "votecatalog_committed_entries"))
	})

	t.Run("Happy path - CORS preflight", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/sync/adopt", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Unhappy path - unknown route", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
