package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/formulab/backend-go/internal/domain"
	"github.com/formulab/backend-go/internal/repository"
	"github.com/formulab/backend-go/internal/service"
)

type FormulationHandler struct {
	service *service.FormulationService
}

func NewFormulationHandler(service *service.FormulationService) *FormulationHandler {
	return &FormulationHandler{service: service}
}

func (h *FormulationHandler) parseFilter(c *gin.Context) domain.FormulationFilter {
	filter := domain.FormulationFilter{
		Page:     1,
		PageSize: 50,
	}

	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("page_size", "50")); err == nil && size > 0 {
		filter.PageSize = size
	}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = strings.ToLower(status)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = search
	}

	return filter
}

func (h *FormulationHandler) List(c *gin.Context) {
	filter := h.parseFilter(c)
	formulations, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list formulations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"formulations": formulations,
		"total":        total,
	})
}

func (h *FormulationHandler) Get(c *gin.Context) {
	formulation, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "formulation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get formulation", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, formulation)
}

func (h *FormulationHandler) Create(c *gin.Context) {
	var formulation domain.Formulation
	if err := c.ShouldBindJSON(&formulation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := h.service.Create(c.Request.Context(), &formulation); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, formulation)
}

func (h *FormulationHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "formulation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete formulation", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FormulationHandler) GetBOM(c *gin.Context) {
	bom, err := h.service.GetBOM(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no BOM for formulation"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get BOM", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bom)
}

func (h *FormulationHandler) SaveBOM(c *gin.Context) {
	var bom domain.BillOfMaterials
	if err := c.ShouldBindJSON(&bom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	bom.FormulationID = c.Param("id")

	if err := h.service.SaveBOM(c.Request.Context(), &bom); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "formulation not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, bom)
}
