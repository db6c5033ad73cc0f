package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tung362/votecatalog/api/models"
	"github.com/tung362/votecatalog/bitmask"
	"github.com/tung362/votecatalog/lobby"
)

type PollController struct {
	lobby *lobby.Context
}

func NewPollController(l *lobby.Context) *PollController {
	return &PollController{lobby: l}
}

func (c *PollController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/polls")

	group.GET("", c.getAll)
	group.GET("/:key", c.get)
	group.GET("/:key/votes/:bit", c.hasVote)
}

// @Summary Get the resolved result of every poll
// @Tags Polls
// @Produce json
// @Success 200 {array} models.PollResponse
// @Router /api/polls [get]
func (c *PollController) getAll(g *gin.Context) {
	snapshot := c.lobby.Resolver().Current()
	keys := snapshot.Keys()
	responses := make([]models.PollResponse, 0, len(keys))
	for _, key := range keys {
		if p, ok := snapshot.Poll(key); ok {
			responses = append(responses, models.TransformPoll(p))
		}
	}
	g.JSON(http.StatusOK, responses)
}

// @Summary Get the resolved result of a poll
// @Tags Polls
// @Produce json
// @Param key path string true "Poll key"
// @Success 200 {object} models.PollResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/polls/{key} [get]
func (c *PollController) get(g *gin.Context) {
	key := g.Param("key")
	p, ok := c.lobby.Resolver().Current().Poll(key)
	if !ok {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "poll not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformPoll(p))
}

// @Summary Check whether a vote bit is set in a poll
// @Tags Polls
// @Produce json
// @Param key path string true "Poll key"
// @Param bit path int true "Vote bit"
// @Success 200 {object} models.VoteBitResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/polls/{key}/votes/{bit} [get]
func (c *PollController) hasVote(g *gin.Context) {
	key := g.Param("key")
	bit, err := strconv.Atoi(g.Param("bit"))
	if err != nil || bit < 0 || bit >= bitmask.Width {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid vote bit"})
		return
	}
	p, ok := c.lobby.Resolver().Current().Poll(key)
	if !ok {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "poll not found"})
		return
	}
	g.JSON(http.StatusOK, models.VoteBitResponse{Key: key, Bit: bit, Voted: p.HasVote(bit)})
}
