package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// GameState represents the lifecycle state of a best ball game
type GameState string

const (
	GameCreated    GameState = "created"
	GameInProgress GameState = "in_progress"
	GameComplete   GameState = "complete"
)

// GameType is the format of the game. Best ball is the only type the
// scoring engine currently supports.
type GameType string

const (
	GameBestBall GameType = "best_ball"
)

// TeamRole marks a team's relation to the game it belongs to.
type TeamRole string

const (
	RoleCreator     TeamRole = "CREATOR"
	RoleParticipant TeamRole = "PARTICIPANT"
)

// UUIDSlice is an ordered list of ids stored as jsonb.
type UUIDSlice []uuid.UUID

// Value implements driver.Valuer for database storage
func (u UUIDSlice) Value() (driver.Value, error) {
	return json.Marshal(u)
}

// Scan implements sql.Scanner for database retrieval
func (u *UUIDSlice) Scan(value interface{}) error {
	if value == nil {
		*u = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, u)
	case string:
		return json.Unmarshal([]byte(v), u)
	default:
		return errors.New("unsupported type for UUIDSlice")
	}
}

// Game is one best ball contest tied to a single tournament. The sync
// pass rewrites the whole aggregate each cycle, so a partially updated
// game is never observable.
type Game struct {
	GameID       uuid.UUID `gorm:"type:uuid;primary_key" json:"game_id"`
	TournamentID uuid.UUID `gorm:"type:uuid;not null;index" json:"tournament_id"`
	GameType     GameType  `gorm:"type:varchar(20);default:'best_ball'" json:"game_type"`
	State        GameState `gorm:"type:varchar(20);default:'created';index" json:"state"`
	Version      int       `gorm:"default:1" json:"version"`
	NumPlayers   int       `gorm:"default:10" json:"num_players"`
	BuyIn        float64   `gorm:"not null" json:"buy_in"`
	Pot          float64   `json:"pot"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Teams []Team `gorm:"foreignKey:GameID" json:"teams,omitempty"`

	// Attached at read time when the game is loaded, never stored here.
	Tournament *Tournament `gorm:"-" json:"tournament,omitempty"`
}

func (Game) TableName() string {
	return "games"
}

// Team is one entry in a game: an owner plus exactly four golfers.
type Team struct {
	TeamID    uuid.UUID `gorm:"type:uuid;primary_key" json:"team_id"`
	GameID    uuid.UUID `gorm:"type:uuid;not null;index" json:"game_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Role      TeamRole  `gorm:"type:varchar(20);default:'PARTICIPANT'" json:"role"`
	GolferIDs UUIDSlice `gorm:"type:jsonb" json:"golfer_ids"`

	// Aggregates folded in from the computed rounds each sync pass.
	TotalStrokes int `gorm:"column:total_strokes" json:"total_strokes"`
	ToPar        int `gorm:"column:to_par" json:"to_par"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rounds []TeamRound `gorm:"foreignKey:TeamID" json:"rounds,omitempty"`

	// Attached at read time alongside their scorecards.
	Golfers []PgaPlayer `gorm:"-" json:"golfers,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamRound is the best ball result of one team for one round. It is a
// derived row: the scoring engine recomputes it from player rounds and
// the sync pass upserts it wholesale.
type TeamRound struct {
	TeamID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"team_id"`
	TournamentID uuid.UUID  `gorm:"type:uuid;primaryKey" json:"tournament_id"`
	RoundNumber  int        `gorm:"primaryKey;check:round_number BETWEEN 1 AND 4" json:"round_number"`
	RoundID      uuid.UUID  `gorm:"type:uuid" json:"round_id"`
	GameID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"game_id"`
	Scores       HoleScores `gorm:"type:jsonb" json:"scores"`
	FrontNine    int        `gorm:"column:front_nine" json:"front_nine"`
	BackNine     int        `gorm:"column:back_nine" json:"back_nine"`
	Strokes      int        `json:"strokes"`
	ToPar        int        `gorm:"column:to_par" json:"to_par"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (TeamRound) TableName() string {
	return "team_rounds"
}
