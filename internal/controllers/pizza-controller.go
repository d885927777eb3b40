package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/franciscosanchezn/pizza-search-api/internal/models"
	"github.com/franciscosanchezn/pizza-search-api/internal/search"
	"github.com/franciscosanchezn/pizza-search-api/internal/services"
	"github.com/gin-gonic/gin"
)

// StoreRejectedMessage is the plain text body sent when the document store refuses a new pizza
const StoreRejectedMessage = "Can not create the pizza!"

// PizzaController handles HTTP requests related to pizzas
type PizzaController interface {
	// GetAllPizzas retrieves all pizzas
	GetAllPizzas(c *gin.Context)
	// CreatePizza creates a new pizza
	CreatePizza(c *gin.Context)
}

type controller struct {
	service services.PizzaService
}

// NewPizzaController creates a new instance of PizzaController
func NewPizzaController(service services.PizzaService) *controller {
	return &controller{service: service}
}

// GetAllPizzas godoc
// @Summary Get all pizzas
// @Description Get every pizza stored in the index, in the order the store returns them
// @Tags pizzas
// @Produce json
// @Success 200 {array} models.Pizza
// @Failure 502 {object} models.APIError
// @Failure 504 {object} models.APIError
// @Router /all-pizzas [get]
func (c *controller) GetAllPizzas(ctx *gin.Context) {
	pizzas, err := c.service.GetAllPizzas(ctx.Request.Context())
	if err != nil {
		respondWithUpstreamError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, pizzas)
}

// CreatePizza godoc
// @Summary Create a new pizza
// @Description Index a new pizza; the id is assigned by the document store
// @Tags pizzas
// @Accept json
// @Produce json
// @Param pizza body models.PizzaCreate true "Pizza object"
// @Success 200 {object} models.Pizza
// @Failure 400 {object} models.APIError
// @Failure 502 {string} string "Can not create the pizza!"
// @Failure 504 {object} models.APIError
// @Router /pizza [post]
func (c *controller) CreatePizza(ctx *gin.Context) {
	var pizza models.PizzaCreate
	if err := ctx.ShouldBindJSON(&pizza); err != nil {
		ctx.Error(err)
		var de *models.DeserializationError
		if errors.As(err, &de) {
			ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrPizzaInvalidData, de.Error(), de.Details()))
			return
		}
		ctx.JSON(http.StatusBadRequest, models.NewAPIError(models.ErrBadRequest, "Invalid request body"))
		return
	}

	createdPizza, err := c.service.CreatePizza(ctx.Request.Context(), pizza)
	if errors.Is(err, services.ErrStoreRejected) {
		ctx.Error(err)
		ctx.String(http.StatusBadGateway, StoreRejectedMessage)
		return
	}
	if err != nil {
		respondWithUpstreamError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, createdPizza)
}

// respondWithUpstreamError maps a failed document store interaction to a gateway status
func respondWithUpstreamError(ctx *gin.Context, err error) {
	ctx.Error(err)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		ctx.JSON(http.StatusGatewayTimeout, models.NewAPIError(models.ErrUpstreamTimeout, "Document store did not answer in time"))
	case errors.Is(err, context.Canceled):
		// the client went away, nobody reads this response
		ctx.AbortWithStatus(499)
	case errors.Is(err, services.ErrInvalidDocument):
		ctx.JSON(http.StatusBadGateway, models.NewAPIError(models.ErrUpstreamInvalidDocument, "Document store returned a document that is not a pizza"))
	case errors.Is(err, services.ErrStoreRejected),
		errors.Is(err, search.ErrUnavailable),
		errors.Is(err, search.ErrMalformedResponse):
		ctx.JSON(http.StatusBadGateway, models.NewAPIError(models.ErrUpstreamUnavailable, "Document store request failed"))
	default:
		ctx.JSON(http.StatusInternalServerError, models.NewAPIError(models.ErrInternalServer, "Unexpected error"))
	}
}
