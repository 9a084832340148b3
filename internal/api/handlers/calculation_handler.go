package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/engine"
	"github.com/formulab/backend-go/internal/repository"
	"github.com/formulab/backend-go/internal/service"
	"github.com/formulab/backend-go/internal/units"
)

type CalculationHandler struct {
	service *service.CalculationService
}

func NewCalculationHandler(service *service.CalculationService) *CalculationHandler {
	return &CalculationHandler{service: service}
}

// Scale runs the engine over an ad-hoc calculation input supplied in the
// request body, without touching stored formulations.
func (h *CalculationHandler) Scale(c *gin.Context) {
	var input domain.CalculationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.Calculate(c.Request.Context(), input)
	if err != nil {
		respondCalculationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScaleFormulation loads a stored formulation by id and scales it to the
// requested batch size.
func (h *CalculationHandler) ScaleFormulation(c *gin.Context) {
	var req service.ScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.service.CalculateForFormulation(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondCalculationError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondCalculationError(c *gin.Context, err error) {
	var invalid *engine.InvalidInputError
	if errors.As(err, &invalid) {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Reason, "field": invalid.Field})
		return
	}

	var conversion *units.ConversionError
	if errors.As(err, &conversion) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     conversion.Error(),
			"from_unit": conversion.FromUnit,
			"to_unit":   conversion.ToUnit,
		})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "formulation not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "calculation failed", "details": err.Error()})
}
