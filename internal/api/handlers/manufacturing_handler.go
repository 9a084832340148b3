package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/formulab/backend-go/internal/manufacturing"
)

// ManufacturingHandler serves the unit-operation catalog backing processing
// cost estimates.
type ManufacturingHandler struct {
	estimator *manufacturing.Estimator
}

func NewManufacturingHandler(estimator *manufacturing.Estimator) *ManufacturingHandler {
	return &ManufacturingHandler{estimator: estimator}
}

func (h *ManufacturingHandler) GetUnitOperations(c *gin.Context) {
	c.JSON(http.StatusOK, h.estimator.Catalog().UnitOperations)
}

func (h *ManufacturingHandler) GetEquipment(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"equipment": h.estimator.Catalog().Equipment})
}

func (h *ManufacturingHandler) GetMaterialGrades(c *gin.Context) {
	c.JSON(http.StatusOK, h.estimator.Catalog().MaterialGrades)
}

func (h *ManufacturingHandler) GetAll(c *gin.Context) {
	catalog := h.estimator.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"unit_operations": catalog.UnitOperations,
		"equipment":       catalog.Equipment,
		"material_grades": catalog.MaterialGrades,
	})
}
