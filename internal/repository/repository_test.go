package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tournament{},
		&models.TournamentCourse{},
		&models.TournamentRound{},
		&models.PgaPlayer{},
		&models.PlayerRound{},
		&models.Game{},
		&models.Team{},
		&models.TeamRound{},
	))
	return db
}

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestReplaceWorldRankings_SwapsFullSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPgaRepository(db)
	ctx := context.Background()

	first := []models.PgaPlayer{
		{PlayerID: uuid.New(), Name: "Golfer A", WorldRank: 1},
		{PlayerID: uuid.New(), Name: "Golfer B", WorldRank: 2},
	}
	require.NoError(t, repo.ReplaceWorldRankings(ctx, first))

	second := []models.PgaPlayer{
		{PlayerID: uuid.New(), Name: "Golfer C", WorldRank: 1},
	}
	require.NoError(t, repo.ReplaceWorldRankings(ctx, second))

	players, err := repo.GetWorldRankings(ctx, 0)
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "Golfer C", players[0].Name)
}

func TestReplaceSeasonSchedule_ReplacesSeason(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPgaRepository(db)
	ctx := context.Background()

	season := 2026
	start := time.Date(season, 3, 1, 0, 0, 0, 0, time.UTC)

	first := []models.Tournament{
		{TournamentID: uuid.New(), Season: season, Name: "Old Event", StartDate: start, EndDate: start.AddDate(0, 0, 3)},
	}
	require.NoError(t, repo.ReplaceSeasonSchedule(ctx, season, first))

	second := []models.Tournament{
		{TournamentID: uuid.New(), Season: season, Name: "New Event", StartDate: start, EndDate: start.AddDate(0, 0, 3)},
		{TournamentID: uuid.New(), Season: season, Name: "Second Event", StartDate: start.AddDate(0, 1, 0), EndDate: start.AddDate(0, 1, 3)},
	}
	require.NoError(t, repo.ReplaceSeasonSchedule(ctx, season, second))

	schedule, err := repo.GetSchedule(ctx, season)
	require.NoError(t, err)
	require.Len(t, schedule, 2)
	assert.Equal(t, "New Event", schedule[0].Name)
}

func TestSavePlayerRounds_UpsertReplacesScores(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPgaRepository(db)
	ctx := context.Background()

	playerID := uuid.New()
	tournamentID := uuid.New()

	initial := models.PlayerRound{
		RoundID:      uuid.New(),
		PlayerID:     playerID,
		TournamentID: tournamentID,
		RoundNumber:  1,
		Scores: models.HoleScores{
			{HoleNumber: 1, Par: 4, Strokes: 5, ScoreType: models.ScoreBogey},
		},
	}
	require.NoError(t, repo.SavePlayerRounds(ctx, []models.PlayerRound{initial}))

	updated := initial
	updated.Scores = models.HoleScores{
		{HoleNumber: 1, Par: 4, Strokes: 4, ScoreType: models.ScorePar},
		{HoleNumber: 2, Par: 3, Strokes: 3, ScoreType: models.ScorePar},
	}
	require.NoError(t, repo.SavePlayerRounds(ctx, []models.PlayerRound{updated}))

	rounds, err := repo.GetPlayerRounds(ctx, tournamentID, []uuid.UUID{playerID})
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0].Scores, 2)
	assert.Equal(t, 4, rounds[0].Scores[0].Strokes)
}

func TestUpsertTournament_UpdatesExistingRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPgaRepository(db)
	ctx := context.Background()

	id := uuid.New()
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	scheduled := &models.Tournament{
		TournamentID: id,
		Season:       2026,
		Name:         "US Open",
		State:        models.TournamentScheduled,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 3),
	}
	require.NoError(t, repo.UpsertTournament(ctx, scheduled))

	live := &models.Tournament{
		TournamentID: id,
		Season:       2026,
		Name:         "US Open",
		State:        models.TournamentInProgress,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 3),
		Rounds: []models.TournamentRound{
			{RoundID: uuid.New(), TournamentID: id, RoundNumber: 1, Status: models.RoundInProgress},
		},
	}
	require.NoError(t, repo.UpsertTournament(ctx, live))

	loaded, err := repo.GetTournament(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentInProgress, loaded.State)
	require.Len(t, loaded.Rounds, 1)
}

func TestGetTournament_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPgaRepository(db)

	_, err := repo.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGameRepository_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGameRepository(db, nil, silentLogger())
	ctx := context.Background()

	tournamentID := uuid.New()
	game := &models.Game{
		GameID:       uuid.New(),
		TournamentID: tournamentID,
		GameType:     models.GameBestBall,
		State:        models.GameCreated,
		BuyIn:        25,
		NumPlayers:   10,
		Teams: []models.Team{{
			TeamID:    uuid.New(),
			UserID:    uuid.New(),
			Role:      models.RoleCreator,
			GolferIDs: models.UUIDSlice{uuid.New(), uuid.New(), uuid.New(), uuid.New()},
		}},
	}
	game.Teams[0].GameID = game.GameID
	require.NoError(t, repo.CreateGame(ctx, game))

	loaded, err := repo.GetGame(ctx, game.GameID)
	require.NoError(t, err)
	require.Len(t, loaded.Teams, 1)
	assert.Len(t, loaded.Teams[0].GolferIDs, 4)
	assert.Equal(t, models.RoleCreator, loaded.Teams[0].Role)
}

func TestGameRepository_SaveGameWritesTeamRounds(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGameRepository(db, nil, silentLogger())
	ctx := context.Background()

	game := &models.Game{
		GameID:       uuid.New(),
		TournamentID: uuid.New(),
		State:        models.GameCreated,
		Teams: []models.Team{{
			TeamID:    uuid.New(),
			UserID:    uuid.New(),
			GolferIDs: models.UUIDSlice{uuid.New()},
		}},
	}
	game.Teams[0].GameID = game.GameID
	require.NoError(t, repo.CreateGame(ctx, game))

	game.State = models.GameInProgress
	game.Teams[0].Rounds = []models.TeamRound{{
		TeamID:       game.Teams[0].TeamID,
		TournamentID: game.TournamentID,
		RoundNumber:  1,
		GameID:       game.GameID,
		Strokes:      70,
		ToPar:        -2,
	}}
	require.NoError(t, repo.SaveGame(ctx, game))

	// Second save upserts the same round with new totals.
	game.Teams[0].Rounds[0].Strokes = 68
	game.Teams[0].Rounds[0].ToPar = -4
	require.NoError(t, repo.SaveGame(ctx, game))

	loaded, err := repo.GetGame(ctx, game.GameID)
	require.NoError(t, err)
	assert.Equal(t, models.GameInProgress, loaded.State)
	require.Len(t, loaded.Teams[0].Rounds, 1)
	assert.Equal(t, 68, loaded.Teams[0].Rounds[0].Strokes)
	assert.Equal(t, -4, loaded.Teams[0].Rounds[0].ToPar)
}

func TestGameRepository_ActiveGamesExcludesComplete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGameRepository(db, nil, silentLogger())
	ctx := context.Background()

	active := &models.Game{GameID: uuid.New(), TournamentID: uuid.New(), State: models.GameInProgress}
	done := &models.Game{GameID: uuid.New(), TournamentID: uuid.New(), State: models.GameComplete}
	require.NoError(t, repo.CreateGame(ctx, active))
	require.NoError(t, repo.CreateGame(ctx, done))

	games, err := repo.GetActiveGames(ctx)
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, active.GameID, games[0].GameID)
}

func TestGameRepository_DeleteGameRemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGameRepository(db, nil, silentLogger())
	ctx := context.Background()

	game := &models.Game{
		GameID:       uuid.New(),
		TournamentID: uuid.New(),
		State:        models.GameCreated,
		Teams: []models.Team{{
			TeamID:    uuid.New(),
			UserID:    uuid.New(),
			GolferIDs: models.UUIDSlice{uuid.New()},
		}},
	}
	game.Teams[0].GameID = game.GameID
	require.NoError(t, repo.CreateGame(ctx, game))
	require.NoError(t, repo.DeleteGame(ctx, game.GameID))

	_, err := repo.GetGame(ctx, game.GameID)
	assert.ErrorIs(t, err, ErrNotFound)

	var teamCount int64
	require.NoError(t, db.Model(&models.Team{}).Where("game_id = ?", game.GameID).Count(&teamCount).Error)
	assert.Zero(t, teamCount)
}
