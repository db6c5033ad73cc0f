package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tung362/votecatalog/api/models"
	"github.com/tung362/votecatalog/api/transport"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
	"github.com/tung362/votecatalog/storage"
	"github.com/tung362/votecatalog/wire"
)

const octetStream = "application/octet-stream"

type SyncController struct {
	lobby         *lobby.Context
	resultStorage storage.ResultStorage
	snapshotStore storage.SnapshotStorage
	adminToken    string
}

func NewSyncController(l *lobby.Context, results storage.ResultStorage, snapshots storage.SnapshotStorage, adminToken string) *SyncController {
	return &SyncController{
		lobby:         l,
		resultStorage: results,
		snapshotStore: snapshots,
		adminToken:    adminToken,
	}
}

func (c *SyncController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/sync")

	group.GET("/rulebook", c.getRuleBook)
	group.POST("/rulebook", transport.AdminAuthMiddleware(c.adminToken), c.postRuleBook)
	group.POST("/adopt", transport.AdminAuthMiddleware(c.adminToken), c.adopt)
	group.GET("/votes", c.listVoters)
	group.GET("/votes/:voter", c.getVotes)
	group.POST("/votes/:voter", c.postVotes)
}

// @Summary Encode the current rule book as a full-state message
// @Tags Sync
// @Produce octet-stream
// @Success 200 {file} binary
// @Failure 503 {object} models.ErrorResponse
// @Router /api/sync/rulebook [get]
func (c *SyncController) getRuleBook(g *gin.Context) {
	msg, err := c.lobby.EncodeRuleBook()
	if err != nil {
		logging.Logger().Errorf("SYNC: failed to encode rule book: %v", err)
		g.JSON(statusFor(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	g.Data(http.StatusOK, octetStream, msg)
}

// @Security AdminToken
// @Summary Apply a full-state message to the current rule book
// @Tags Sync
// @Accept octet-stream
// @Produce json
// @Success 200 {object} models.RuleBookResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/sync/rulebook [post]
func (c *SyncController) postRuleBook(g *gin.Context) {
	msg, err := g.GetRawData()
	if err != nil || len(msg) == 0 {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing rule book message"})
		return
	}
	applied, err := c.lobby.ApplyRuleBook(msg)
	if err != nil {
		logging.Logger().Warnf("SYNC: rejected rule book message: %v", err)
		g.JSON(statusFor(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	snapshot := &storage.Snapshot{
		SessionID:  applied.SessionID,
		Message:    msg,
		Selections: applied.Selections,
		UpdatedAt:  time.Now().UTC(),
	}
	if err := c.snapshotStore.Put(g.Request.Context(), snapshot); err != nil {
		logging.Logger().Errorf("SYNC: failed to store snapshot for session %s: %v", snapshot.SessionID, err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Logger().Infof("SYNC: applied rule book for session %s", snapshot.SessionID)
	g.JSON(http.StatusOK, models.RuleBookResponse{SessionID: snapshot.SessionID, Selections: snapshot.Selections})
}

// @Security AdminToken
// @Summary Adopt the current rule state and persist the poll results
// @Tags Sync
// @Produce json
// @Success 200 {object} models.AdoptResponse
// @Failure 500 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/sync/adopt [post]
func (c *SyncController) adopt(g *gin.Context) {
	adoption, err := c.lobby.Adopt()
	if err != nil {
		logging.Logger().Errorf("SYNC: failed to adopt rule state: %v", err)
		g.JSON(statusFor(err), models.ErrorResponse{Error: err.Error()})
		return
	}

	gameMode := ""
	if adoption.Mode != nil {
		gameMode = adoption.Mode.Name()
	}
	now := time.Now().UTC()
	results := make([]*storage.PollResult, 0, len(adoption.Snapshot.Keys()))
	for _, key := range adoption.Snapshot.Keys() {
		p, _ := adoption.Snapshot.Poll(key)
		payloads := make(map[string]string, len(p.ExtraData))
		for selection, payload := range p.ExtraData {
			payloads[selection] = fmt.Sprint(payload)
		}
		results = append(results, &storage.PollResult{
			SessionID: adoption.SessionID,
			PollKey:   key,
			Mask:      uint32(p.Mask),
			Payloads:  payloads,
			GameMode:  gameMode,
			CreatedAt: now,
		})
	}

	if err := c.resultStorage.Create(g.Request.Context(), results); err != nil {
		logging.Logger().Errorf("SYNC: failed to store results for session %s: %v", adoption.SessionID, err)
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	logging.Logger().Infof("SYNC: stored %d poll results for session %s", len(results), adoption.SessionID)
	g.JSON(http.StatusOK, models.AdoptResponse{SessionID: adoption.SessionID, GameMode: gameMode, Results: results})
}

// @Summary List the voters holding a vote sheet in the current session
// @Tags Sync
// @Produce json
// @Success 200 {array} string
// @Router /api/sync/votes [get]
func (c *SyncController) listVoters(g *gin.Context) {
	g.JSON(http.StatusOK, c.lobby.Voters())
}

// @Summary Encode a voter's votes as a selection-diff message
// @Tags Sync
// @Produce octet-stream
// @Param voter path string true "Voter id"
// @Success 200 {file} binary
// @Failure 404 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/sync/votes/{voter} [get]
func (c *SyncController) getVotes(g *gin.Context) {
	msg, err := c.lobby.EncodeVotes(g.Param("voter"))
	if err != nil {
		logging.Logger().Warnf("SYNC: failed to encode votes: %v", err)
		g.JSON(statusFor(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	g.Data(http.StatusOK, octetStream, msg)
}

// @Summary Apply a voter's selection-diff message
// @Tags Sync
// @Accept octet-stream
// @Produce json
// @Param voter path string true "Voter id"
// @Success 200 {object} models.VotesResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/sync/votes/{voter} [post]
func (c *SyncController) postVotes(g *gin.Context) {
	voter := g.Param("voter")
	msg, err := g.GetRawData()
	if err != nil || len(msg) == 0 {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "missing votes message"})
		return
	}
	votes, err := c.lobby.ApplyVotes(voter, msg)
	if err != nil {
		logging.Logger().Warnf("SYNC: rejected votes of %s: %v", voter, err)
		g.JSON(statusFor(err), models.ErrorResponse{Error: err.Error()})
		return
	}
	logging.Logger().Infof("SYNC: applied %d votes of %s", len(votes), voter)
	g.JSON(http.StatusOK, models.VotesResponse{Voter: voter, Votes: votes})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, lobby.ErrNotCommitted):
		return http.StatusServiceUnavailable
	case errors.Is(err, lobby.ErrUnknownVoter):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrLobbyFull):
		return http.StatusConflict
	case errors.Is(err, wire.ErrBufferUnderrun), errors.Is(err, wire.ErrMalformed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
