package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/tung362/votecatalog/api/models"
	"github.com/tung362/votecatalog/lobby"
	"github.com/tung362/votecatalog/logging"
)

type CatalogController struct {
	lobby *lobby.Context
}

func NewCatalogController(l *lobby.Context) *CatalogController {
	return &CatalogController{lobby: l}
}

func (c *CatalogController) RegisterRoutes(engine *gin.Engine) {
	group := engine.Group("/api/catalog")

	group.GET("", c.getCatalog)
	group.GET("/selections/:name", c.getSelection)
}

// @Summary Get the committed vote catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} models.CatalogResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/catalog [get]
func (c *CatalogController) getCatalog(g *gin.Context) {
	if !c.lobby.Committed() {
		g.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: lobby.ErrNotCommitted.Error()})
		return
	}

	cat := c.lobby.Catalog()
	categories := cat.Categories()
	responses := make([]models.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		responses = append(responses, models.TransformCategory(category))
	}
	// Sort by position so the listing matches the host UI order
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].Position < responses[j].Position
	})

	logging.Logger().Infof("API: listed catalog with %d categories", len(responses))
	g.JSON(http.StatusOK, models.CatalogResponse{
		Categories:     responses,
		SelectionCount: cat.SelectionCount(),
		ChoiceCount:    cat.ChoiceCount(),
		HostSelections: c.lobby.Registry().HostSelectionCount(),
		HostChoices:    c.lobby.Registry().HostChoiceCount(),
	})
}

// @Summary Get a selection by global name
// @Tags Catalog
// @Produce json
// @Param name path string true "Selection global name"
// @Success 200 {object} models.SelectionResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/catalog/selections/{name} [get]
func (c *CatalogController) getSelection(g *gin.Context) {
	name := g.Param("name")
	s := c.lobby.Catalog().FindSelection(name)
	if s == nil {
		g.JSON(http.StatusNotFound, models.ErrorResponse{Error: "selection not found"})
		return
	}
	g.JSON(http.StatusOK, models.TransformSelection(s))
}
