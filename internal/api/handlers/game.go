package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
	"github.com/MatthewCrocker7/bestball-backend/internal/services"
	"github.com/MatthewCrocker7/bestball-backend/pkg/utils"
)

// GameHandler exposes the game lifecycle endpoints.
type GameHandler struct {
	manager *services.GameManagerService
	logger  *logrus.Logger
}

func NewGameHandler(manager *services.GameManagerService, logger *logrus.Logger) *GameHandler {
	return &GameHandler{
		manager: manager,
		logger:  logger,
	}
}

type createGameRequest struct {
	TournamentID uuid.UUID   `json:"tournament_id" binding:"required"`
	UserID       uuid.UUID   `json:"user_id" binding:"required"`
	GolferIDs    []uuid.UUID `json:"golfer_ids" binding:"required"`
	BuyIn        float64     `json:"buy_in"`
	NumPlayers   int         `json:"num_players"`
}

// CreateGame creates a new best ball game with the caller as creator.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid game request", err.Error())
		return
	}
	if req.NumPlayers <= 0 {
		req.NumPlayers = 10
	}

	game, err := h.manager.NewGame(c.Request.Context(), req.TournamentID, req.UserID, req.GolferIDs, req.BuyIn, req.NumPlayers)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRosterSize):
			utils.SendValidationError(c, err.Error(), "")
		case errors.Is(err, repository.ErrNotFound):
			utils.SendNotFound(c, "Tournament not found")
		default:
			h.logger.WithError(err).Error("Failed to create game")
			utils.SendInternalError(c, "Failed to create game")
		}
		return
	}

	utils.SendCreated(c, game)
}

type joinGameRequest struct {
	UserID    uuid.UUID   `json:"user_id" binding:"required"`
	GolferIDs []uuid.UUID `json:"golfer_ids" binding:"required"`
}

// JoinGame adds a team to an open game.
func (h *GameHandler) JoinGame(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid game id", err.Error())
		return
	}

	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid join request", err.Error())
		return
	}

	game, err := h.manager.JoinGame(c.Request.Context(), gameID, req.UserID, req.GolferIDs)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRosterSize):
			utils.SendValidationError(c, err.Error(), "")
		case errors.Is(err, repository.ErrNotFound):
			utils.SendNotFound(c, "Game not found")
		case errors.Is(err, services.ErrGameFull),
			errors.Is(err, services.ErrGameStarted),
			errors.Is(err, services.ErrAlreadyJoined):
			utils.SendConflict(c, err.Error())
		default:
			h.logger.WithError(err).Error("Failed to join game")
			utils.SendInternalError(c, "Failed to join game")
		}
		return
	}

	utils.SendSuccess(c, game)
}

// GetGame returns one game with its teams and computed rounds.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid game id", err.Error())
		return
	}

	game, err := h.manager.LoadGame(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.SendNotFound(c, "Game not found")
			return
		}
		h.logger.WithError(err).Error("Failed to load game")
		utils.SendInternalError(c, "Failed to load game")
		return
	}

	utils.SendSuccess(c, game)
}

// ListActiveGames returns every game that has not finished.
func (h *GameHandler) ListActiveGames(c *gin.Context) {
	games, err := h.manager.ActiveGames(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list active games")
		utils.SendInternalError(c, "Failed to list games")
		return
	}

	utils.SendSuccess(c, games)
}

type deleteGameRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// DeleteGame removes a game. Only its creator may do so.
func (h *GameHandler) DeleteGame(c *gin.Context) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid game id", err.Error())
		return
	}

	var req deleteGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid delete request", err.Error())
		return
	}

	if err := h.manager.DeleteGame(c.Request.Context(), gameID, req.UserID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.SendNotFound(c, "Game not found")
		case errors.Is(err, services.ErrNotAuthorized):
			utils.SendForbidden(c, err.Error())
		default:
			h.logger.WithError(err).Error("Failed to delete game")
			utils.SendInternalError(c, "Failed to delete game")
		}
		return
	}

	utils.SendSuccess(c, gin.H{"deleted": gameID})
}
