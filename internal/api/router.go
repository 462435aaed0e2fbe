package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/api/handlers"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
	"github.com/MatthewCrocker7/bestball-backend/internal/services"
)

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(
	group *gin.RouterGroup,
	manager *services.GameManagerService,
	pgaRepo *repository.PgaRepository,
	scheduler *services.UpdateScheduler,
	breaker *services.CircuitBreakerService,
	logger *logrus.Logger,
) {
	gameHandler := handlers.NewGameHandler(manager, logger)
	pgaHandler := handlers.NewPgaHandler(pgaRepo, logger)
	adminHandler := handlers.NewAdminHandler(scheduler, breaker, logger)

	// Game endpoints
	group.POST("/games", gameHandler.CreateGame)
	group.GET("/games", gameHandler.ListActiveGames)
	group.GET("/games/:id", gameHandler.GetGame)
	group.POST("/games/:id/join", gameHandler.JoinGame)
	group.DELETE("/games/:id", gameHandler.DeleteGame)

	// Reference data endpoints
	group.GET("/pga/rankings", pgaHandler.GetWorldRankings)
	group.GET("/pga/schedule", pgaHandler.GetSchedule)
	group.GET("/pga/tournaments/:id", pgaHandler.GetTournament)

	// Admin endpoints for the sync pipeline (should be protected in
	// production)
	group.GET("/admin/jobs", adminHandler.GetJobs)
	group.POST("/admin/jobs/:id/trigger", adminHandler.TriggerJob)
	group.GET("/admin/breakers", adminHandler.GetBreakers)
}
