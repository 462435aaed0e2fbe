package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TournamentState represents the lifecycle state of a PGA tournament
type TournamentState string

const (
	TournamentScheduled  TournamentState = "scheduled"
	TournamentInProgress TournamentState = "in_progress"
	TournamentComplete   TournamentState = "complete"
	TournamentCancelled  TournamentState = "cancelled"
)

// EventType distinguishes stroke play from match play events
type EventType string

const (
	EventStroke EventType = "stroke"
	EventMatch  EventType = "match"
)

// RoundStatus represents the status of one tournament round
type RoundStatus string

const (
	RoundScheduled  RoundStatus = "scheduled"
	RoundInProgress RoundStatus = "in_progress"
	RoundClosed     RoundStatus = "closed"
)

// ScoreType classifies a recorded hole score. A hole with no recorded
// strokes yet carries ScoreTBD; its Strokes value is meaningless.
type ScoreType string

const (
	ScoreTBD         ScoreType = "tbd"
	ScoreAce         ScoreType = "ace"
	ScoreEagle       ScoreType = "eagle"
	ScoreBirdie      ScoreType = "birdie"
	ScorePar         ScoreType = "par"
	ScoreBogey       ScoreType = "bogey"
	ScoreDoubleBogey ScoreType = "double_bogey"
	ScoreOther       ScoreType = "other"
)

// Recorded reports whether the score has actually been posted.
func (s ScoreType) Recorded() bool {
	return s != ScoreTBD
}

// HoleScore is the score for a single hole of a single round.
type HoleScore struct {
	HoleNumber int       `json:"hole_number"`
	Par        int       `json:"par"`
	Yardage    int       `json:"yardage,omitempty"`
	Strokes    int       `json:"strokes"`
	ScoreType  ScoreType `json:"score_type"`
}

// HoleScores is an ordered hole score sequence stored as jsonb.
type HoleScores []HoleScore

// Value implements driver.Valuer for database storage
func (h HoleScores) Value() (driver.Value, error) {
	return json.Marshal(h)
}

// Scan implements sql.Scanner for database retrieval
func (h *HoleScores) Scan(value interface{}) error {
	if value == nil {
		*h = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported type for HoleScores")
	}
}

// Tournament represents one event on the PGA season schedule. Rows are
// owned by the sync jobs; nothing else mutates them.
type Tournament struct {
	TournamentID uuid.UUID       `gorm:"type:uuid;primary_key" json:"tournament_id"`
	Season       int             `gorm:"not null;index" json:"season"`
	Name         string          `gorm:"not null" json:"name"`
	EventType    EventType       `gorm:"type:varchar(20)" json:"event_type"`
	State        TournamentState `gorm:"type:varchar(20);default:'scheduled';index" json:"state"`
	StartDate    time.Time       `gorm:"not null;index" json:"start_date"`
	EndDate      time.Time       `gorm:"not null" json:"end_date"`
	ActiveRounds pq.Int64Array   `gorm:"type:integer[]" json:"active_rounds"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// Associations
	Courses []TournamentCourse `gorm:"foreignKey:TournamentID" json:"courses,omitempty"`
	Rounds  []TournamentRound  `gorm:"foreignKey:TournamentID" json:"rounds,omitempty"`
}

func (Tournament) TableName() string {
	return "tournaments"
}

// TournamentCourse is one course an event is played on.
type TournamentCourse struct {
	CourseID     uuid.UUID `gorm:"type:uuid;primary_key" json:"course_id"`
	TournamentID uuid.UUID `gorm:"type:uuid;not null;index" json:"tournament_id"`
	Name         string    `json:"name"`
	Par          int       `json:"par"`
	Yardage      int       `json:"yardage"`
}

func (TournamentCourse) TableName() string {
	return "tournament_courses"
}

// TournamentRound is one of the four rounds of a tournament.
type TournamentRound struct {
	RoundID      uuid.UUID   `gorm:"type:uuid;primary_key" json:"round_id"`
	TournamentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"tournament_id"`
	RoundNumber  int         `gorm:"not null;check:round_number BETWEEN 1 AND 4" json:"round_number"`
	Status       RoundStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
}

func (TournamentRound) TableName() string {
	return "tournament_rounds"
}

// PgaPlayer is a world-ranked golfer. Rounds are attached at read time
// by the game sync pass, never stored with the player row.
type PgaPlayer struct {
	PlayerID  uuid.UUID `gorm:"type:uuid;primary_key" json:"player_id"`
	Name      string    `gorm:"not null" json:"name"`
	WorldRank int       `gorm:"column:world_rank;index" json:"world_rank"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Rounds []PlayerRound `gorm:"-" json:"rounds,omitempty"`
}

func (PgaPlayer) TableName() string {
	return "world_rankings"
}

// PlayerRound is one golfer's scorecard for one round. Each poll cycle
// fully replaces the previous row for the same golfer/round; rows are
// never patched in place.
type PlayerRound struct {
	RoundID      uuid.UUID  `gorm:"type:uuid;not null" json:"round_id"`
	PlayerID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"player_id"`
	TournamentID uuid.UUID  `gorm:"type:uuid;primaryKey;index" json:"tournament_id"`
	RoundNumber  int        `gorm:"primaryKey;check:round_number BETWEEN 1 AND 4" json:"round_number"`
	CourseID     uuid.UUID  `gorm:"type:uuid" json:"course_id"`
	Scores       HoleScores `gorm:"type:jsonb" json:"scores"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (PlayerRound) TableName() string {
	return "player_rounds"
}
