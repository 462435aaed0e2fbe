package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
	"github.com/MatthewCrocker7/bestball-backend/internal/providers"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
)

// upcomingWindow is how far ahead of its start date a tournament's
// details are refreshed.
const upcomingWindow = 7 * 24 * time.Hour

// PgaUpdateService runs the Sportradar sync passes: world rankings and
// season schedule are replaced wholesale, tournament details and round
// scorecards are upserted for events in play.
type PgaUpdateService struct {
	client  *providers.SportradarClient
	repo    *repository.PgaRepository
	breaker *CircuitBreakerService
	logger  *logrus.Logger
}

func NewPgaUpdateService(client *providers.SportradarClient, repo *repository.PgaRepository, breaker *CircuitBreakerService, logger *logrus.Logger) *PgaUpdateService {
	return &PgaUpdateService{
		client:  client,
		repo:    repo,
		breaker: breaker,
		logger:  logger,
	}
}

func (s *PgaUpdateService) season() int {
	return time.Now().Year()
}

// SyncWorldRankings replaces the stored world rankings with the feed's
// current set.
func (s *PgaUpdateService) SyncWorldRankings(ctx context.Context) error {
	year := s.season()
	result, err := s.breaker.Execute("rankings", func() (interface{}, error) {
		return s.client.FetchWorldRankings(ctx, year)
	})
	if err != nil {
		return err
	}
	players := result.([]models.PgaPlayer)

	if err := s.repo.ReplaceWorldRankings(ctx, players); err != nil {
		return err
	}
	s.logger.WithField("players", len(players)).Info("World rankings updated")
	return nil
}

// SyncSeasonSchedule replaces the stored schedule for the current
// season.
func (s *PgaUpdateService) SyncSeasonSchedule(ctx context.Context) error {
	year := s.season()
	result, err := s.breaker.Execute("schedule", func() (interface{}, error) {
		return s.client.FetchSeasonSchedule(ctx, year)
	})
	if err != nil {
		return err
	}
	tournaments := result.([]models.Tournament)

	if err := s.repo.ReplaceSeasonSchedule(ctx, year, tournaments); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"season":      year,
		"tournaments": len(tournaments),
	}).Info("Season schedule updated")
	return nil
}

// SyncTournamentDetails refreshes the detailed state of every event
// that is in progress or starting within the upcoming window. A failure
// on one tournament does not stop the rest.
func (s *PgaUpdateService) SyncTournamentDetails(ctx context.Context) error {
	year := s.season()
	schedule, err := s.repo.GetSchedule(ctx, year)
	if err != nil {
		return err
	}

	now := time.Now()
	var lastErr error
	for _, t := range schedule {
		if !s.needsDetailRefresh(&t, now) {
			continue
		}

		result, err := s.breaker.Execute("tournaments", func() (interface{}, error) {
			return s.client.FetchTournamentSummary(ctx, year, t.TournamentID)
		})
		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"tournament": t.TournamentID,
				"error":      err.Error(),
			}).Error("Failed to refresh tournament details")
			lastErr = err
			continue
		}
		summary := result.(*models.Tournament)

		if err := s.repo.UpsertTournament(ctx, summary); err != nil {
			s.logger.WithFields(logrus.Fields{
				"tournament": t.TournamentID,
				"error":      err.Error(),
			}).Error("Failed to store tournament details")
			lastErr = err
		}
	}
	return lastErr
}

func (s *PgaUpdateService) needsDetailRefresh(t *models.Tournament, now time.Time) bool {
	switch t.State {
	case models.TournamentInProgress:
		return true
	case models.TournamentScheduled:
		return t.StartDate.Before(now.Add(upcomingWindow))
	default:
		return false
	}
}

// SyncRoundScores pulls the scorecards for every active round of every
// in progress tournament.
func (s *PgaUpdateService) SyncRoundScores(ctx context.Context) error {
	year := s.season()
	schedule, err := s.repo.GetSchedule(ctx, year)
	if err != nil {
		return err
	}

	var lastErr error
	for _, t := range schedule {
		if t.State != models.TournamentInProgress {
			continue
		}
		for _, round := range t.ActiveRounds {
			roundNumber := int(round)
			result, err := s.breaker.Execute("scorecards", func() (interface{}, error) {
				return s.client.FetchRoundScores(ctx, year, t.TournamentID, roundNumber)
			})
			if err != nil {
				s.logger.WithFields(logrus.Fields{
					"tournament": t.TournamentID,
					"round":      roundNumber,
					"error":      err.Error(),
				}).Error("Failed to fetch round scores")
				lastErr = err
				continue
			}
			rounds := result.([]models.PlayerRound)

			if err := s.repo.SavePlayerRounds(ctx, rounds); err != nil {
				s.logger.WithFields(logrus.Fields{
					"tournament": t.TournamentID,
					"round":      roundNumber,
					"error":      err.Error(),
				}).Error("Failed to store round scores")
				lastErr = err
				continue
			}
			s.logger.WithFields(logrus.Fields{
				"tournament": t.TournamentID,
				"round":      roundNumber,
				"scorecards": len(rounds),
			}).Debug("Round scores updated")
		}
	}
	return lastErr
}
