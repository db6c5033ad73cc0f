package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tung362/votecatalog/api/models"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/storage"
)

type SessionController struct {
	resultStorage storage.ResultStorage
	snapshotStore storage.SnapshotStorage
}

func NewSessionController(results storage.ResultStorage, snapshots storage.SnapshotStorage) *SessionController {
	return &SessionController{resultStorage: results, snapshotStore: snapshots}
}

func (c *SessionController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/sessions")

	group.GET("", c.getAll)
	group.GET("/:id/results", c.getResults)
	group.GET("/:id/snapshot", c.getSnapshot)
}

// @Summary List all stored poll results
// @Tags Sessions
// @Produce json
// @Success 200 {array} storage.PollResult
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sessions [get]
func (c *SessionController) getAll(g *gin.Context) {
	results, err := c.resultStorage.GetAll(g.Request.Context())
	if err != nil {
		logging.Logger().Errorf("SESSION: failed to list results: %v", err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if results == nil {
		results = []*storage.PollResult{}
	}
	g.JSON(http.StatusOK, results)
}

// @Summary Get the poll results stored for a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {array} storage.PollResult
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sessions/{id}/results [get]
func (c *SessionController) getResults(g *gin.Context) {
	id := g.Param("id")
	results, err := c.resultStorage.GetBySession(g.Request.Context(), id)
	if err != nil {
		logging.Logger().Errorf("SESSION: failed to get results for %s: %v", id, err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	if len(results) == 0 {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "session not found"})
		return
	}
	g.JSON(http.StatusOK, results)
}

// @Summary Get the last rule book snapshot of a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} storage.Snapshot
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sessions/{id}/snapshot [get]
func (c *SessionController) getSnapshot(g *gin.Context) {
	id := g.Param("id")
	snapshot, err := c.snapshotStore.Get(g.Request.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "snapshot not found"})
		return
	}
	if err != nil {
		logging.Logger().Errorf("SESSION: failed to get snapshot for %s: %v", id, err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}
	g.JSON(http.StatusOK, snapshot)
}
