package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
)

// GameStore is the game persistence surface the sync pass writes
// through.
type GameStore interface {
	GetActiveGames(ctx context.Context) ([]models.Game, error)
	SaveGame(ctx context.Context, game *models.Game) error
}

// ScoreStore supplies the reference data the sync pass reads.
type ScoreStore interface {
	GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error)
	GetPlayerRounds(ctx context.Context, tournamentID uuid.UUID, playerIDs []uuid.UUID) ([]models.PlayerRound, error)
}

// GameSyncService recomputes every active game from the latest stored
// scorecards. Games are grouped by tournament so the reference data is
// loaded once per event, and each game is written exactly once per
// pass.
type GameSyncService struct {
	games  GameStore
	scores ScoreStore
	logger *logrus.Logger
}

func NewGameSyncService(games GameStore, scores ScoreStore, logger *logrus.Logger) *GameSyncService {
	return &GameSyncService{
		games:  games,
		scores: scores,
		logger: logger,
	}
}

// UpdateGames runs one sync pass over all active games. A failure in
// one tournament's group leaves the other groups untouched.
func (s *GameSyncService) UpdateGames(ctx context.Context) error {
	active, err := s.games.GetActiveGames(ctx)
	if err != nil {
		return err
	}
	if len(active) == 0 {
		return nil
	}

	byTournament := make(map[uuid.UUID][]*models.Game)
	for i := range active {
		game := &active[i]
		byTournament[game.TournamentID] = append(byTournament[game.TournamentID], game)
	}

	var lastErr error
	for tournamentID, group := range byTournament {
		if err := s.syncTournamentGames(ctx, tournamentID, group); err != nil {
			s.logger.WithFields(logrus.Fields{
				"tournament": tournamentID,
				"games":      len(group),
				"error":      err.Error(),
			}).Error("Failed to sync games for tournament")
			lastErr = err
		}
	}
	return lastErr
}

func (s *GameSyncService) syncTournamentGames(ctx context.Context, tournamentID uuid.UUID, group []*models.Game) error {
	tournament, err := s.scores.GetTournament(ctx, tournamentID)
	if errors.Is(err, repository.ErrNotFound) {
		// Schedule sync has not seen this event yet; try again next
		// pass.
		s.logger.WithField("tournament", tournamentID).Warn("Skipping games for unknown tournament")
		return nil
	}
	if err != nil {
		return err
	}

	golferIDs := golfersAcross(group)
	rounds, err := s.scores.GetPlayerRounds(ctx, tournamentID, golferIDs)
	if err != nil {
		return err
	}

	for _, game := range group {
		BuildTeamRounds(game, rounds)

		if tournament.State == models.TournamentComplete {
			game.State = models.GameComplete
		} else if len(rounds) > 0 && game.State == models.GameCreated {
			game.State = models.GameInProgress
		}

		if err := s.games.SaveGame(ctx, game); err != nil {
			return err
		}
	}
	return nil
}

func golfersAcross(games []*models.Game) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, game := range games {
		for _, id := range GolferIDsForGame(game) {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
