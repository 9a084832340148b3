// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/formulab/backend-go/internal/api/handlers"
	"github.com/formulab/backend-go/internal/api/middleware"
	"github.com/formulab/backend-go/internal/service"
)

type Services struct {
	CalculationService *service.CalculationService
	FormulationService *service.FormulationService
	Manufacturing      *handlers.ManufacturingHandler
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.CalculationService != nil {
			calcHandler := handlers.NewCalculationHandler(services.CalculationService)
			calcGroup := apiGroup.Group("/calculations")
			{
				calcGroup.POST("/scale", calcHandler.Scale)
			}
			apiGroup.POST("/formulations/:id/scale", calcHandler.ScaleFormulation)
		}

		if services.FormulationService != nil {
			formulationHandler := handlers.NewFormulationHandler(services.FormulationService)
			formulationGroup := apiGroup.Group("/formulations")
			{
				formulationGroup.GET("", formulationHandler.List)
				formulationGroup.POST("", formulationHandler.Create)
				formulationGroup.GET("/:id", formulationHandler.Get)
				formulationGroup.DELETE("/:id", formulationHandler.Delete)
				formulationGroup.GET("/:id/bom", formulationHandler.GetBOM)
				formulationGroup.PUT("/:id/bom", formulationHandler.SaveBOM)
			}
		}

		if services.Manufacturing != nil {
			manufacturingGroup := apiGroup.Group("/manufacturing")
			{
				manufacturingGroup.GET("/unit-operations", services.Manufacturing.GetUnitOperations)
				manufacturingGroup.GET("/equipment", services.Manufacturing.GetEquipment)
				manufacturingGroup.GET("/material-grades", services.Manufacturing.GetMaterialGrades)
				manufacturingGroup.GET("/all", services.Manufacturing.GetAll)
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
