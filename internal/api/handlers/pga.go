package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
	"github.com/MatthewCrocker7/bestball-backend/pkg/utils"
)

// PgaHandler serves the synced reference data: rankings, the season
// schedule and tournament details.
type PgaHandler struct {
	repo   *repository.PgaRepository
	logger *logrus.Logger
}

func NewPgaHandler(repo *repository.PgaRepository, logger *logrus.Logger) *PgaHandler {
	return &PgaHandler{
		repo:   repo,
		logger: logger,
	}
}

// GetWorldRankings returns the top ranked golfers.
func (h *PgaHandler) GetWorldRankings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))
	if limit > 500 {
		limit = 500
	}

	players, err := h.repo.GetWorldRankings(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch world rankings")
		utils.SendInternalError(c, "Failed to fetch world rankings")
		return
	}

	utils.SendSuccess(c, players)
}

// GetSchedule returns the tournament schedule for a season.
func (h *PgaHandler) GetSchedule(c *gin.Context) {
	season, err := strconv.Atoi(c.DefaultQuery("season", strconv.Itoa(time.Now().Year())))
	if err != nil {
		utils.SendValidationError(c, "Invalid season", err.Error())
		return
	}

	tournaments, err := h.repo.GetSchedule(c.Request.Context(), season)
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch schedule")
		utils.SendInternalError(c, "Failed to fetch schedule")
		return
	}

	utils.SendSuccess(c, tournaments)
}

// GetTournament returns one tournament with courses and round status.
func (h *PgaHandler) GetTournament(c *gin.Context) {
	tournamentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid tournament id", err.Error())
		return
	}

	tournament, err := h.repo.GetTournament(c.Request.Context(), tournamentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.SendNotFound(c, "Tournament not found")
			return
		}
		h.logger.WithError(err).Error("Failed to fetch tournament")
		utils.SendInternalError(c, "Failed to fetch tournament")
		return
	}

	utils.SendSuccess(c, tournament)
}
