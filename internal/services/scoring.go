package services

import (
	"github.com/google/uuid"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

// Best ball scoring: a team's round is built hole by hole from the
// lowest recorded score among its golfers. Holes nobody has finished
// stay TBD and contribute nothing to the totals.

// ComputeTeamRound builds the best ball result for one team and one
// round number from the golfers' scorecards. It returns nil when none
// of the team's golfers has a scorecard for that round.
func ComputeTeamRound(team *models.Team, rounds []models.PlayerRound, roundNumber int) *models.TeamRound {
	var candidates []models.PlayerRound
	for _, r := range rounds {
		if r.RoundNumber != roundNumber {
			continue
		}
		for _, id := range team.GolferIDs {
			if r.PlayerID == id {
				candidates = append(candidates, r)
				break
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	scores := make(models.HoleScores, 0, 18)
	strokes := 0
	toPar := 0
	frontNine := 0
	backNine := 0

	for hole := 1; hole <= 18; hole++ {
		best := lowestScore(candidates, hole)
		scores = append(scores, best)
		if !best.ScoreType.Recorded() {
			continue
		}
		strokes += best.Strokes
		toPar += best.Strokes - best.Par
		if hole <= 9 {
			frontNine += best.Strokes
		} else {
			backNine += best.Strokes
		}
	}

	return &models.TeamRound{
		TeamID:       team.TeamID,
		TournamentID: candidates[0].TournamentID,
		RoundNumber:  roundNumber,
		RoundID:      candidates[0].RoundID,
		GameID:       team.GameID,
		Scores:       scores,
		FrontNine:    frontNine,
		BackNine:     backNine,
		Strokes:      strokes,
		ToPar:        toPar,
	}
}

// lowestScore picks the best result for one hole across the candidate
// scorecards. Any recorded score beats TBD; among recorded scores the
// fewest strokes wins.
func lowestScore(candidates []models.PlayerRound, hole int) models.HoleScore {
	best := models.HoleScore{HoleNumber: hole, ScoreType: models.ScoreTBD}
	for _, c := range candidates {
		s, ok := holeAt(c.Scores, hole)
		if !ok {
			continue
		}
		if best.Par == 0 && s.Par > 0 {
			best.Par = s.Par
			best.Yardage = s.Yardage
		}
		if !s.ScoreType.Recorded() {
			continue
		}
		if !best.ScoreType.Recorded() || s.Strokes < best.Strokes {
			best = s
		}
	}
	return best
}

func holeAt(scores models.HoleScores, hole int) (models.HoleScore, bool) {
	for _, s := range scores {
		if s.HoleNumber == hole {
			return s, true
		}
	}
	return models.HoleScore{}, false
}

// BuildTeamRounds computes the team rounds for every team of a game
// from the supplied scorecards, replacing whatever was attached before.
func BuildTeamRounds(game *models.Game, rounds []models.PlayerRound) {
	played := make(map[int]bool)
	for _, r := range rounds {
		played[r.RoundNumber] = true
	}

	for i := range game.Teams {
		team := &game.Teams[i]
		var teamRounds []models.TeamRound
		strokes := 0
		toPar := 0
		for roundNumber := 1; roundNumber <= 4; roundNumber++ {
			if !played[roundNumber] {
				continue
			}
			if tr := ComputeTeamRound(team, rounds, roundNumber); tr != nil {
				teamRounds = append(teamRounds, *tr)
				strokes += tr.Strokes
				toPar += tr.ToPar
			}
		}
		team.Rounds = teamRounds
		team.TotalStrokes = strokes
		team.ToPar = toPar
	}
}

// GolferIDsForGame collects the distinct golfer ids rostered across a
// game's teams.
func GolferIDsForGame(game *models.Game) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, team := range game.Teams {
		for _, id := range team.GolferIDs {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}
