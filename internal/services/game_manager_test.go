package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
)

func setupManager(t *testing.T) (*GameManagerService, uuid.UUID) {
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

	pgaRepo := repository.NewPgaRepository(db)
	gameRepo := repository.NewGameRepository(db, nil, testLogger())

	tournamentID := uuid.New()
	start := time.Now().AddDate(0, 0, 7)
	require.NoError(t, db.Create(&models.Tournament{
		TournamentID: tournamentID,
		Season:       start.Year(),
		Name:         "Test Invitational",
		State:        models.TournamentScheduled,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 3),
	}).Error)

	return NewGameManagerService(gameRepo, pgaRepo, 0.01, testLogger()), tournamentID
}

func roster() []uuid.UUID {
	return []uuid.UUID{uuid.New(), uuid.New(), uuid.New(), uuid.New()}
}

func TestNewGame_CreatesCreatorTeamAndPot(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()
	creator := uuid.New()

	game, err := manager.NewGame(ctx, tournamentID, creator, roster(), 100, 10)
	require.NoError(t, err)

	assert.Equal(t, models.GameCreated, game.State)
	require.Len(t, game.Teams, 1)
	assert.Equal(t, models.RoleCreator, game.Teams[0].Role)
	assert.Equal(t, creator, game.Teams[0].UserID)

	// Ten expected players at $100 buy in, 1% fee, fixed at creation.
	assert.Equal(t, 10, game.NumPlayers)
	assert.InDelta(t, 990.0, game.Pot, 0.001)
}

func TestNewGame_RejectsWrongRosterSize(t *testing.T) {
	manager, tournamentID := setupManager(t)

	_, err := manager.NewGame(context.Background(), tournamentID, uuid.New(), roster()[:3], 100, 10)
	assert.ErrorIs(t, err, ErrRosterSize)
}

func TestNewGame_UnknownTournament(t *testing.T) {
	manager, _ := setupManager(t)

	_, err := manager.NewGame(context.Background(), uuid.New(), uuid.New(), roster(), 100, 10)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestJoinGame_AddsTeamKeepsPot(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()

	game, err := manager.NewGame(ctx, tournamentID, uuid.New(), roster(), 100, 10)
	require.NoError(t, err)

	joined, err := manager.JoinGame(ctx, game.GameID, uuid.New(), roster())
	require.NoError(t, err)

	require.Len(t, joined.Teams, 2)
	assert.Equal(t, models.RoleParticipant, joined.Teams[1].Role)

	// Joining does not move the pot; it was sized for ten players when
	// the game was created.
	assert.InDelta(t, 990.0, joined.Pot, 0.001)
}

func TestJoinGame_RejectsDuplicateUser(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()
	creator := uuid.New()

	game, err := manager.NewGame(ctx, tournamentID, creator, roster(), 100, 10)
	require.NoError(t, err)

	_, err = manager.JoinGame(ctx, game.GameID, creator, roster())
	assert.ErrorIs(t, err, ErrAlreadyJoined)
}

func TestJoinGame_RejectsFullGame(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()

	game, err := manager.NewGame(ctx, tournamentID, uuid.New(), roster(), 50, 2)
	require.NoError(t, err)

	_, err = manager.JoinGame(ctx, game.GameID, uuid.New(), roster())
	require.NoError(t, err)

	_, err = manager.JoinGame(ctx, game.GameID, uuid.New(), roster())
	assert.ErrorIs(t, err, ErrGameFull)
}

func TestJoinGame_RejectsStartedGame(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()

	game, err := manager.NewGame(ctx, tournamentID, uuid.New(), roster(), 50, 10)
	require.NoError(t, err)

	loaded, err := manager.LoadGame(ctx, game.GameID)
	require.NoError(t, err)
	loaded.State = models.GameInProgress
	require.NoError(t, manager.games.SaveGame(ctx, loaded))

	_, err = manager.JoinGame(ctx, game.GameID, uuid.New(), roster())
	assert.ErrorIs(t, err, ErrGameStarted)
}

func TestLoadGame_EnrichesStartedGame(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()

	golfers := roster()
	game, err := manager.NewGame(ctx, tournamentID, uuid.New(), golfers, 100, 10)
	require.NoError(t, err)

	players := make([]models.PgaPlayer, len(golfers))
	for i, id := range golfers {
		players[i] = models.PgaPlayer{PlayerID: id, Name: "Golfer", WorldRank: i + 1}
	}
	require.NoError(t, manager.pga.ReplaceWorldRankings(ctx, players))
	require.NoError(t, manager.pga.SavePlayerRounds(ctx, []models.PlayerRound{
		scorecard(golfers[0], tournamentID, 1, fullCard(4)),
	}))

	// Before the game starts a load stays lean.
	created, err := manager.LoadGame(ctx, game.GameID)
	require.NoError(t, err)
	assert.Nil(t, created.Tournament)
	assert.Empty(t, created.Teams[0].Golfers)

	created.State = models.GameInProgress
	require.NoError(t, manager.games.SaveGame(ctx, created))

	loaded, err := manager.LoadGame(ctx, game.GameID)
	require.NoError(t, err)

	require.NotNil(t, loaded.Tournament)
	assert.Equal(t, tournamentID, loaded.Tournament.TournamentID)

	require.Len(t, loaded.Teams, 1)
	require.Len(t, loaded.Teams[0].Golfers, 4)

	// Only the golfer with a posted scorecard carries rounds.
	withRounds := 0
	for _, golfer := range loaded.Teams[0].Golfers {
		if len(golfer.Rounds) > 0 {
			withRounds++
		}
	}
	assert.Equal(t, 1, withRounds)
}

func TestDeleteGame_OnlyCreatorMayDelete(t *testing.T) {
	manager, tournamentID := setupManager(t)
	ctx := context.Background()
	creator := uuid.New()

	game, err := manager.NewGame(ctx, tournamentID, creator, roster(), 50, 10)
	require.NoError(t, err)

	intruder := uuid.New()
	_, err = manager.JoinGame(ctx, game.GameID, intruder, roster())
	require.NoError(t, err)

	assert.ErrorIs(t, manager.DeleteGame(ctx, game.GameID, intruder), ErrNotAuthorized)

	require.NoError(t, manager.DeleteGame(ctx, game.GameID, creator))

	_, err = manager.LoadGame(ctx, game.GameID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
