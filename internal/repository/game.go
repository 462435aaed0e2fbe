package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

// Cache is the subset of the cache service the repository needs. Cache
// failures degrade to database reads, they never fail a request.
type Cache interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

const (
	gameCacheTTL        = 10 * time.Minute
	activeGamesCacheTTL = 1 * time.Minute
)

func gameCacheKey(gameID uuid.UUID) string {
	return fmt.Sprintf("game:%s", gameID)
}

const activeGamesCacheKey = "games:active"

// GameRepository persists games, teams and their computed rounds. Game
// reads go through redis; every write evicts the affected keys.
type GameRepository struct {
	db     *gorm.DB
	cache  Cache
	logger *logrus.Logger
}

func NewGameRepository(db *gorm.DB, cache Cache, logger *logrus.Logger) *GameRepository {
	return &GameRepository{db: db, cache: cache, logger: logger}
}

// CreateGame inserts a new game with its creator team.
func (r *GameRepository) CreateGame(ctx context.Context, game *models.Game) error {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	r.evict(ctx, activeGamesCacheKey)
	return nil
}

// GetGame loads one game with teams and team rounds, serving from cache
// when possible.
func (r *GameRepository) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	if r.cache != nil {
		var cached models.Game
		if err := r.cache.Get(ctx, gameCacheKey(id), &cached); err == nil {
			return &cached, nil
		}
	}

	var game models.Game
	err := r.db.WithContext(ctx).
		Preload("Teams").
		Preload("Teams.Rounds").
		First(&game, "game_id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, gameCacheKey(id), &game, gameCacheTTL); err != nil {
			r.logger.WithError(err).Warn("Failed to cache game")
		}
	}
	return &game, nil
}

// GetActiveGames loads every game that is not complete, with teams.
func (r *GameRepository) GetActiveGames(ctx context.Context) ([]models.Game, error) {
	if r.cache != nil {
		var cached []models.Game
		if err := r.cache.Get(ctx, activeGamesCacheKey, &cached); err == nil {
			return cached, nil
		}
	}

	var games []models.Game
	err := r.db.WithContext(ctx).
		Preload("Teams").
		Preload("Teams.Rounds").
		Where("state IN ?", []models.GameState{models.GameCreated, models.GameInProgress}).
		Find(&games).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active games: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, activeGamesCacheKey, games, activeGamesCacheTTL); err != nil {
			r.logger.WithError(err).Warn("Failed to cache active games")
		}
	}
	return games, nil
}

// SaveGame writes a game aggregate in one transaction: the game row,
// its teams, and their computed rounds.
func (r *GameRepository) SaveGame(ctx context.Context, game *models.Game) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Teams").Save(game).Error; err != nil {
			return fmt.Errorf("failed to save game: %w", err)
		}
		for i := range game.Teams {
			team := &game.Teams[i]
			if err := tx.Omit("Rounds").Clauses(clause.OnConflict{UpdateAll: true}).Create(team).Error; err != nil {
				return fmt.Errorf("failed to save team: %w", err)
			}
			if len(team.Rounds) > 0 {
				if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(team.Rounds).Error; err != nil {
					return fmt.Errorf("failed to save team rounds: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.evict(ctx, gameCacheKey(game.GameID), activeGamesCacheKey)
	return nil
}

// AddTeam attaches a new team to an existing game.
func (r *GameRepository) AddTeam(ctx context.Context, team *models.Team) error {
	if err := r.db.WithContext(ctx).Create(team).Error; err != nil {
		return fmt.Errorf("failed to add team: %w", err)
	}
	r.evict(ctx, gameCacheKey(team.GameID), activeGamesCacheKey)
	return nil
}

// DeleteGame removes a game and everything hanging off it.
func (r *GameRepository) DeleteGame(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("game_id = ?", id).Delete(&models.TeamRound{}).Error; err != nil {
			return fmt.Errorf("failed to delete team rounds: %w", err)
		}
		if err := tx.Where("game_id = ?", id).Delete(&models.Team{}).Error; err != nil {
			return fmt.Errorf("failed to delete teams: %w", err)
		}
		if err := tx.Delete(&models.Game{}, "game_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete game: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.evict(ctx, gameCacheKey(id), activeGamesCacheKey)
	return nil
}

func (r *GameRepository) evict(ctx context.Context, keys ...string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, keys...); err != nil {
		r.logger.WithError(err).Warn("Failed to evict cache keys")
	}
}
