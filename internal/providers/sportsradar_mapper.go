package providers

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

// parseID accepts the Sportradar uuid ids and falls back to a stable
// derived uuid for the rare non-uuid id in older feeds.
func parseID(s string) uuid.UUID {
	if id, err := uuid.Parse(s); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(s))
}

func parseDate(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func mapTournamentState(status string) models.TournamentState {
	switch strings.ToLower(status) {
	case "scheduled", "created":
		return models.TournamentScheduled
	case "inprogress", "in_progress", "playing", "delayed":
		return models.TournamentInProgress
	case "closed", "complete", "completed":
		return models.TournamentComplete
	case "cancelled", "canceled":
		return models.TournamentCancelled
	default:
		return models.TournamentScheduled
	}
}

func mapRoundStatus(status string) models.RoundStatus {
	switch strings.ToLower(status) {
	case "inprogress", "in_progress", "playing", "suspended":
		return models.RoundInProgress
	case "closed", "complete", "completed", "official":
		return models.RoundClosed
	default:
		return models.RoundScheduled
	}
}

func mapEventType(eventType string) models.EventType {
	if strings.EqualFold(eventType, "match") {
		return models.EventMatch
	}
	return models.EventStroke
}

// scoreTypeFor classifies a recorded hole result relative to par.
func scoreTypeFor(strokes, par int) models.ScoreType {
	if strokes <= 0 {
		return models.ScoreTBD
	}
	if strokes == 1 {
		return models.ScoreAce
	}
	switch strokes - par {
	case -3, -2:
		return models.ScoreEagle
	case -1:
		return models.ScoreBirdie
	case 0:
		return models.ScorePar
	case 1:
		return models.ScoreBogey
	case 2:
		return models.ScoreDoubleBogey
	default:
		return models.ScoreOther
	}
}

func mapWorldRankings(resp *worldRankingsResponse) []models.PgaPlayer {
	players := make([]models.PgaPlayer, 0, len(resp.Players))
	for _, p := range resp.Players {
		players = append(players, models.PgaPlayer{
			PlayerID:  parseID(p.ID),
			Name:      strings.TrimSpace(p.FirstName + " " + p.LastName),
			WorldRank: p.Rank,
		})
	}
	return players
}

func mapSeasonSchedule(resp *seasonScheduleResponse, season int) []models.Tournament {
	tournaments := make([]models.Tournament, 0, len(resp.Tournaments))
	for _, t := range resp.Tournaments {
		id := parseID(t.ID)
		courses := make([]models.TournamentCourse, 0, len(t.Venue.Courses))
		for _, c := range t.Venue.Courses {
			courses = append(courses, models.TournamentCourse{
				CourseID:     parseID(c.ID),
				TournamentID: id,
				Name:         c.Name,
				Par:          c.Par,
				Yardage:      c.Yardage,
			})
		}
		tournaments = append(tournaments, models.Tournament{
			TournamentID: id,
			Season:       season,
			Name:         t.Name,
			EventType:    mapEventType(t.EventType),
			State:        mapTournamentState(t.Status),
			StartDate:    parseDate(t.StartDate),
			EndDate:      parseDate(t.EndDate),
			Courses:      courses,
		})
	}
	return tournaments
}

func mapTournamentSummary(resp *tournamentSummaryResponse, season int) *models.Tournament {
	id := parseID(resp.ID)

	courses := make([]models.TournamentCourse, 0, len(resp.Venue.Courses))
	for _, c := range resp.Venue.Courses {
		courses = append(courses, models.TournamentCourse{
			CourseID:     parseID(c.ID),
			TournamentID: id,
			Name:         c.Name,
			Par:          c.Par,
			Yardage:      c.Yardage,
		})
	}

	rounds := make([]models.TournamentRound, 0, len(resp.Rounds))
	var active []int64
	for _, r := range resp.Rounds {
		status := mapRoundStatus(r.Status)
		rounds = append(rounds, models.TournamentRound{
			RoundID:      parseID(r.ID),
			TournamentID: id,
			RoundNumber:  r.Number,
			Status:       status,
		})
		if status == models.RoundInProgress {
			active = append(active, int64(r.Number))
		}
	}

	return &models.Tournament{
		TournamentID: id,
		Season:       season,
		Name:         resp.Name,
		EventType:    mapEventType(resp.EventType),
		State:        mapTournamentState(resp.Status),
		StartDate:    parseDate(resp.StartDate),
		EndDate:      parseDate(resp.EndDate),
		ActiveRounds: active,
		Courses:      courses,
		Rounds:       rounds,
	}
}

// mapRoundScores produces one full 18 hole scorecard per player. Holes
// the feed has not reported yet come back as TBD with zero strokes.
func mapRoundScores(resp *roundScoresResponse, tournamentID uuid.UUID) []models.PlayerRound {
	roundID := parseID(resp.ID)
	rounds := make([]models.PlayerRound, 0, len(resp.Players))
	for _, p := range resp.Players {
		byHole := make(map[int]holeScoreDTO, len(p.Scores))
		for _, s := range p.Scores {
			byHole[s.Number] = s
		}

		scores := make(models.HoleScores, 0, 18)
		for hole := 1; hole <= 18; hole++ {
			s, ok := byHole[hole]
			if !ok || s.Strokes <= 0 {
				scores = append(scores, models.HoleScore{
					HoleNumber: hole,
					Par:        s.Par,
					Yardage:    s.Yardage,
					ScoreType:  models.ScoreTBD,
				})
				continue
			}
			scores = append(scores, models.HoleScore{
				HoleNumber: hole,
				Par:        s.Par,
				Yardage:    s.Yardage,
				Strokes:    s.Strokes,
				ScoreType:  scoreTypeFor(s.Strokes, s.Par),
			})
		}

		rounds = append(rounds, models.PlayerRound{
			RoundID:      roundID,
			PlayerID:     parseID(p.ID),
			TournamentID: tournamentID,
			RoundNumber:  resp.Number,
			CourseID:     parseID(p.Course.ID),
			Scores:       scores,
		})
	}
	return rounds
}
