package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("repository: not found")

// PgaRepository persists the reference data pulled from Sportradar.
// Rankings and the season schedule are replaced wholesale each cycle;
// tournament details and scorecards are upserted.
type PgaRepository struct {
	db *gorm.DB
}

func NewPgaRepository(db *gorm.DB) *PgaRepository {
	return &PgaRepository{db: db}
}

// ReplaceWorldRankings swaps the stored rankings for the given set in a
// single transaction.
func (r *PgaRepository) ReplaceWorldRankings(ctx context.Context, players []models.PgaPlayer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.PgaPlayer{}).Error; err != nil {
			return fmt.Errorf("failed to clear world rankings: %w", err)
		}
		if len(players) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(players, 100).Error; err != nil {
			return fmt.Errorf("failed to insert world rankings: %w", err)
		}
		return nil
	})
}

// ReplaceSeasonSchedule swaps the stored schedule for one season.
// Tournament detail rows written by the summary job survive only as
// part of the new schedule, so the sync order matters.
func (r *PgaRepository) ReplaceSeasonSchedule(ctx context.Context, season int, tournaments []models.Tournament) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uuid.UUID
		if err := tx.Model(&models.Tournament{}).Where("season = ?", season).Pluck("tournament_id", &ids).Error; err != nil {
			return fmt.Errorf("failed to load existing schedule: %w", err)
		}
		if len(ids) > 0 {
			if err := tx.Where("tournament_id IN ?", ids).Delete(&models.TournamentRound{}).Error; err != nil {
				return fmt.Errorf("failed to clear tournament rounds: %w", err)
			}
			if err := tx.Where("tournament_id IN ?", ids).Delete(&models.TournamentCourse{}).Error; err != nil {
				return fmt.Errorf("failed to clear tournament courses: %w", err)
			}
			if err := tx.Where("season = ?", season).Delete(&models.Tournament{}).Error; err != nil {
				return fmt.Errorf("failed to clear schedule: %w", err)
			}
		}
		if len(tournaments) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(tournaments, 50).Error; err != nil {
			return fmt.Errorf("failed to insert schedule: %w", err)
		}
		return nil
	})
}

// UpsertTournament writes the detailed tournament state, replacing the
// scheduled row when it already exists.
func (r *PgaRepository) UpsertTournament(ctx context.Context, tournament *models.Tournament) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Courses", "Rounds").Clauses(clause.OnConflict{UpdateAll: true}).Create(tournament).Error; err != nil {
			return fmt.Errorf("failed to upsert tournament: %w", err)
		}
		if len(tournament.Courses) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(tournament.Courses).Error; err != nil {
				return fmt.Errorf("failed to upsert courses: %w", err)
			}
		}
		if len(tournament.Rounds) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(tournament.Rounds).Error; err != nil {
				return fmt.Errorf("failed to upsert rounds: %w", err)
			}
		}
		return nil
	})
}

// SavePlayerRounds upserts a batch of player scorecards. Each row fully
// replaces the previous version of the same golfer/round.
func (r *PgaRepository) SavePlayerRounds(ctx context.Context, rounds []models.PlayerRound) error {
	if len(rounds) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rounds, 100).Error; err != nil {
		return fmt.Errorf("failed to save player rounds: %w", err)
	}
	return nil
}

// GetTournament loads one tournament with its courses and rounds.
func (r *PgaRepository) GetTournament(ctx context.Context, id uuid.UUID) (*models.Tournament, error) {
	var tournament models.Tournament
	err := r.db.WithContext(ctx).
		Preload("Courses").
		Preload("Rounds").
		First(&tournament, "tournament_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	return &tournament, nil
}

// GetSchedule loads the season schedule ordered by start date.
func (r *PgaRepository) GetSchedule(ctx context.Context, season int) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := r.db.WithContext(ctx).
		Where("season = ?", season).
		Order("start_date").
		Find(&tournaments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return tournaments, nil
}

// GetWorldRankings loads the top ranked golfers.
func (r *PgaRepository) GetWorldRankings(ctx context.Context, limit int) ([]models.PgaPlayer, error) {
	var players []models.PgaPlayer
	q := r.db.WithContext(ctx).Order("world_rank")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to load world rankings: %w", err)
	}
	return players, nil
}

// GetPlayers loads specific golfers by id.
func (r *PgaRepository) GetPlayers(ctx context.Context, ids []uuid.UUID) ([]models.PgaPlayer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var players []models.PgaPlayer
	if err := r.db.WithContext(ctx).Where("player_id IN ?", ids).Find(&players).Error; err != nil {
		return nil, fmt.Errorf("failed to load players: %w", err)
	}
	return players, nil
}

// GetPlayerRounds loads the scorecards for the given golfers in one
// tournament.
func (r *PgaRepository) GetPlayerRounds(ctx context.Context, tournamentID uuid.UUID, playerIDs []uuid.UUID) ([]models.PlayerRound, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var rounds []models.PlayerRound
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND player_id IN ?", tournamentID, playerIDs).
		Order("round_number").
		Find(&rounds).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load player rounds: %w", err)
	}
	return rounds, nil
}
