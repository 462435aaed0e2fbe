package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
	"github.com/MatthewCrocker7/bestball-backend/internal/repository"
)

const rosterSize = 4

var (
	ErrNotAuthorized = errors.New("only the game creator may do this")
	ErrGameFull      = errors.New("game has no open team slots")
	ErrGameStarted   = errors.New("game is no longer accepting teams")
	ErrAlreadyJoined = errors.New("user already has a team in this game")
	ErrRosterSize    = errors.New("a team rosters exactly four golfers")
)

// GameManagerService owns the game lifecycle: creation, joining,
// loading and deletion. Score recomputation belongs to the sync pass,
// not here.
type GameManagerService struct {
	games         *repository.GameRepository
	pga           *repository.PgaRepository
	feeMultiplier float64
	logger        *logrus.Logger
}

func NewGameManagerService(games *repository.GameRepository, pga *repository.PgaRepository, feeMultiplier float64, logger *logrus.Logger) *GameManagerService {
	return &GameManagerService{
		games:         games,
		pga:           pga,
		feeMultiplier: feeMultiplier,
		logger:        logger,
	}
}

// NewGame creates a game for a tournament with the creator's team as
// its first entry. The pot is fixed up front from the expected player
// count, not from however many teams have joined so far.
func (s *GameManagerService) NewGame(ctx context.Context, tournamentID, userID uuid.UUID, golferIDs []uuid.UUID, buyIn float64, numPlayers int) (*models.Game, error) {
	if len(golferIDs) != rosterSize {
		return nil, ErrRosterSize
	}
	if _, err := s.pga.GetTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	now := time.Now()
	game := &models.Game{
		GameID:       uuid.New(),
		TournamentID: tournamentID,
		GameType:     models.GameBestBall,
		State:        models.GameCreated,
		Version:      1,
		NumPlayers:   numPlayers,
		BuyIn:        buyIn,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	game.Teams = []models.Team{{
		TeamID:    uuid.New(),
		GameID:    game.GameID,
		UserID:    userID,
		Role:      models.RoleCreator,
		GolferIDs: golferIDs,
	}}
	game.Pot = s.calculatePot(game)

	if err := s.games.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{
		"game":       game.GameID,
		"tournament": tournamentID,
		"creator":    userID,
	}).Info("Game created")
	return game, nil
}

// JoinGame adds a new team for a user to an open game.
func (s *GameManagerService) JoinGame(ctx context.Context, gameID, userID uuid.UUID, golferIDs []uuid.UUID) (*models.Game, error) {
	if len(golferIDs) != rosterSize {
		return nil, ErrRosterSize
	}

	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State != models.GameCreated {
		return nil, ErrGameStarted
	}
	if game.NumPlayers > 0 && len(game.Teams) >= game.NumPlayers {
		return nil, ErrGameFull
	}
	for _, team := range game.Teams {
		if team.UserID == userID {
			return nil, ErrAlreadyJoined
		}
	}

	team := models.Team{
		TeamID:    uuid.New(),
		GameID:    gameID,
		UserID:    userID,
		Role:      models.RoleParticipant,
		GolferIDs: golferIDs,
	}
	if err := s.games.AddTeam(ctx, &team); err != nil {
		return nil, err
	}

	game.Teams = append(game.Teams, team)
	return game, nil
}

// LoadGame fetches a game with its teams and computed rounds. Once the
// game has started, the load also pulls in everything a scoreboard
// needs: the tournament with its courses and rounds, and each team's
// golfers with their scorecards.
func (s *GameManagerService) LoadGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.State == models.GameCreated {
		return game, nil
	}
	if err := s.enrichGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

func (s *GameManagerService) enrichGame(ctx context.Context, game *models.Game) error {
	tournament, err := s.pga.GetTournament(ctx, game.TournamentID)
	if err != nil {
		return err
	}
	game.Tournament = tournament

	ids := GolferIDsForGame(game)
	players, err := s.pga.GetPlayers(ctx, ids)
	if err != nil {
		return err
	}
	rounds, err := s.pga.GetPlayerRounds(ctx, game.TournamentID, ids)
	if err != nil {
		return err
	}

	roundsByPlayer := make(map[uuid.UUID][]models.PlayerRound)
	for _, r := range rounds {
		roundsByPlayer[r.PlayerID] = append(roundsByPlayer[r.PlayerID], r)
	}
	playersByID := make(map[uuid.UUID]models.PgaPlayer, len(players))
	for _, p := range players {
		p.Rounds = roundsByPlayer[p.PlayerID]
		playersByID[p.PlayerID] = p
	}

	for i := range game.Teams {
		team := &game.Teams[i]
		golfers := make([]models.PgaPlayer, 0, len(team.GolferIDs))
		for _, id := range team.GolferIDs {
			if p, ok := playersByID[id]; ok {
				golfers = append(golfers, p)
			}
		}
		team.Golfers = golfers
	}
	return nil
}

// ActiveGames lists every game that has not finished.
func (s *GameManagerService) ActiveGames(ctx context.Context) ([]models.Game, error) {
	return s.games.GetActiveGames(ctx)
}

// DeleteGame removes a game. Only the team that created it may delete
// it.
func (s *GameManagerService) DeleteGame(ctx context.Context, gameID, userID uuid.UUID) error {
	game, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return err
	}

	authorized := false
	for _, team := range game.Teams {
		if team.Role == models.RoleCreator && team.UserID == userID {
			authorized = true
			break
		}
	}
	if !authorized {
		return ErrNotAuthorized
	}

	return s.games.DeleteGame(ctx, gameID)
}

// calculatePot returns the prize pool after the platform fee.
func (s *GameManagerService) calculatePot(game *models.Game) float64 {
	gross := game.BuyIn * float64(game.NumPlayers)
	return gross - gross*s.feeMultiplier
}
