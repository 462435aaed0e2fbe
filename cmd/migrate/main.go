package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
	"github.com/MatthewCrocker7/bestball-backend/pkg/config"
	"github.com/MatthewCrocker7/bestball-backend/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	command := os.Args[1]

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("Failed to drop tables: %v", err)
		}
		logrus.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(db); err != nil {
			logrus.Fatalf("Failed to seed data: %v", err)
		}
		logrus.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	// Enable UUID extension for PostgreSQL
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Auto migrate all models
	if err := db.AutoMigrate(
		&models.Tournament{},
		&models.TournamentCourse{},
		&models.TournamentRound{},
		&models.PgaPlayer{},
		&models.PlayerRound{},
		&models.Game{},
		&models.Team{},
		&models.TeamRound{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	// Create indexes
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_tournaments_season_start ON tournaments(season, start_date)",
		"CREATE INDEX IF NOT EXISTS idx_player_rounds_tournament_player ON player_rounds(tournament_id, player_id)",
		"CREATE INDEX IF NOT EXISTS idx_games_tournament_state ON games(tournament_id, state)",
		"CREATE INDEX IF NOT EXISTS idx_teams_game_user ON teams(game_id, user_id)",
		"CREATE INDEX IF NOT EXISTS idx_team_rounds_game ON team_rounds(game_id)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"team_rounds",
		"teams",
		"games",
		"player_rounds",
		"world_rankings",
		"tournament_rounds",
		"tournament_courses",
		"tournaments",
	}

	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

func seedData(db *database.DB) error {
	now := time.Now()
	tournament := &models.Tournament{
		TournamentID: uuid.New(),
		Season:       now.Year(),
		Name:         "Sample Invitational",
		EventType:    models.EventStroke,
		State:        models.TournamentScheduled,
		StartDate:    now.AddDate(0, 0, 7),
		EndDate:      now.AddDate(0, 0, 10),
	}
	if err := db.Create(tournament).Error; err != nil {
		return fmt.Errorf("failed to seed tournament: %w", err)
	}

	players := []models.PgaPlayer{
		{PlayerID: uuid.New(), Name: "Sample Golfer One", WorldRank: 1},
		{PlayerID: uuid.New(), Name: "Sample Golfer Two", WorldRank: 2},
		{PlayerID: uuid.New(), Name: "Sample Golfer Three", WorldRank: 3},
		{PlayerID: uuid.New(), Name: "Sample Golfer Four", WorldRank: 4},
	}
	if err := db.Create(&players).Error; err != nil {
		return fmt.Errorf("failed to seed players: %w", err)
	}

	return nil
}
