package controllers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testutils "github.com/tung362/votecatalog/api/controllers/testing"
	"github.com/tung362/votecatalog/api/models"
)

func TestGetCatalog(t *testing.T) {
	t.Run("Happy path - categories sorted by position", func(t *testing.T) {
		s := setupTestServer(t, true)

		w := testutils.PerformRequest(s.router, http.MethodGet, "/api/catalog", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res models.CatalogResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 4, res.SelectionCount)
		assert.Equal(t, 9, res.ChoiceCount)
		assert.Equal(t, 2, res.HostSelections)
		assert.Equal(t, 5, res.HostChoices)
		require.Len(t, res.Categories, 4)
		assert.Equal(t, "Difficulty", res.Categories[0].DisplayName)
		assert.Equal(t, "Artifacts", res.Categories[1].DisplayName)
		assert.Equal(t, "Game Modes", res.Categories[2].DisplayName)
		assert.Equal(t, "Example Settings", res.Categories[3].DisplayName)
		assert.Equal(t, "Votes.Spawn Mobs Selection", res.Categories[3].Selections[0].GlobalName)
	})

	t.Run("Unhappy path - catalog not committed", func(t *testing.T) {
		s := setupTestServer(t, false)

		w := testutils.PerformRequest(s.router, http.MethodGet, "/api/catalog", nil, nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestGetSelection(t *testing.T) {
	s := setupTestServer(t, true)

	t.Run("Happy path - selection by global name", func(t *testing.T) {
		path := "/api/catalog/selections/" + url.PathEscape("Votes.Spawn Mobs Selection")
		w := testutils.PerformRequest(s.router, http.MethodGet, path, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var res models.SelectionResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
		assert.Equal(t, 3, res.GlobalIndex)
		require.Len(t, res.Choices, 2)
		assert.Equal(t, "Votes.Spawn Mobs Selection.Spawn Mobs", res.Choices[0].GlobalName)
		assert.Equal(t, 1, res.Choices[0].VoteBit)
		assert.Equal(t, "Mobs will spawn on each stage", res.Choices[0].Tooltip.Body)
	})

	t.Run("Unhappy path - unknown selection", func(t *testing.T) {
		w := testutils.PerformRequest(s.router, http.MethodGet, "/api/catalog/selections/Votes.Nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
