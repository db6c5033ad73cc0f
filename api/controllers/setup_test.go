package controllers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/storage"
)

const adminToken = "secret"

var adminHeaders = map[string]string{"x-admin-token": adminToken}

type testServer struct {
	lobby     *lobby.Context
	results   *storage.MemoryResultStorage
	snapshots *storage.MemorySnapshotStorage
	router    *gin.Engine
}

func setupTestServer(t *testing.T, commit bool) *testServer {
	t.Helper()
	logging.Log = logrus.New()

	l, err := lobby.New(lobby.Settings{})
	require.NoError(t, err)
	require.NoError(t, l.LoadExtensions([]string{"../../extension/testdata/example.yaml"}))
	if commit {
		_, err := l.Commit(lobby.ReferenceHost)
		require.NoError(t, err)
	}

	s := &testServer{
		lobby:     l,
		results:   storage.NewMemoryResultStorage(),
		snapshots: storage.NewMemorySnapshotStorage(),
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewCatalogController(l).RegisterRoutes(r)
	NewPollController(l).RegisterRoutes(r)
	NewSyncController(l, s.results, s.snapshots, adminToken).RegisterRoutes(r)
	NewSessionController(s.results, s.snapshots).RegisterRoutes(r)
	s.router = r
	return s
}
