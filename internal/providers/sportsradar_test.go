package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

func newTestClient(t *testing.T, serverURL string, keys []string, attempts int) *SportradarClient {
	t.Helper()
	pool, err := NewAPIKeyPool(keys)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewSportradarClient(pool, ClientOptions{
		BaseURL:       serverURL,
		Timeout:       5 * time.Second,
		RequestRate:   1000,
		RetryAttempts: attempts,
		RetryBackoff:  time.Millisecond,
	}, logger)
}

func TestFetchWorldRankings_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/players/wgr/2026/rankings.json", r.URL.Path)
		assert.Equal(t, "key-one", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"players":[
			{"id":"`+uuid.NewString()+`","first_name":"Scottie","last_name":"Scheffler","rank":1},
			{"id":"`+uuid.NewString()+`","first_name":"Rory","last_name":"McIlroy","rank":2}
		]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one"}, 3)

	players, err := client.FetchWorldRankings(context.Background(), 2026)
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "Scottie Scheffler", players[0].Name)
	assert.Equal(t, 1, players[0].WorldRank)
}

func TestFetchWorldRankings_RotatesKeyOnForbidden(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			assert.Equal(t, "bad-key", r.URL.Query().Get("api_key"))
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "good-key", r.URL.Query().Get("api_key"))
		fmt.Fprint(w, `{"players":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"bad-key", "good-key"}, 5)

	_, err := client.FetchWorldRankings(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, "good-key", client.keys.Current())
}

func TestFetchWorldRankings_TransientFailureKeepsKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key-one", r.URL.Query().Get("api_key"))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"players":[]}`)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one", "key-two"}, 5)

	_, err := client.FetchWorldRankings(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, "key-one", client.keys.Current())
}

func TestFetchWorldRankings_RetriesExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one"}, 3)

	_, err := client.FetchWorldRankings(context.Background(), 2026)
	require.Error(t, err)

	var exhausted *RetriesExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, "world rankings", exhausted.Operation)
}

func TestFetchWorldRankings_ContextCancelStopsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one"}, 100)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.FetchWorldRankings(ctx, 2026)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetchRoundScores_FillsUnplayedHolesAsTBD(t *testing.T) {
	tournamentID := uuid.New()
	playerID := uuid.New()
	roundID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, fmt.Sprintf("/scorecards/pga/2026/tournaments/%s/rounds/2/scores.json", tournamentID), r.URL.Path)
		fmt.Fprintf(w, `{
			"id": %q,
			"number": 2,
			"players": [{
				"id": %q,
				"first_name": "Jon",
				"last_name": "Rahm",
				"scores": [
					{"number": 1, "par": 4, "strokes": 3},
					{"number": 2, "par": 5, "strokes": 5}
				]
			}]
		}`, roundID, playerID)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one"}, 3)

	rounds, err := client.FetchRoundScores(context.Background(), 2026, tournamentID, 2)
	require.NoError(t, err)
	require.Len(t, rounds, 1)

	round := rounds[0]
	assert.Equal(t, playerID, round.PlayerID)
	assert.Equal(t, tournamentID, round.TournamentID)
	assert.Equal(t, 2, round.RoundNumber)
	require.Len(t, round.Scores, 18)

	assert.Equal(t, models.ScoreBirdie, round.Scores[0].ScoreType)
	assert.Equal(t, models.ScorePar, round.Scores[1].ScoreType)
	for _, s := range round.Scores[2:] {
		assert.Equal(t, models.ScoreTBD, s.ScoreType)
		assert.Equal(t, 0, s.Strokes)
	}
}

func TestFetchTournamentSummary_MapsRoundsAndActive(t *testing.T) {
	tournamentID := uuid.New()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{
			"id": %q,
			"name": "The Open",
			"event_type": "stroke",
			"status": "inprogress",
			"start_date": "2026-07-16",
			"end_date": "2026-07-19",
			"venue": {"courses": [{"id": %q, "name": "Old Course", "par": 72, "yardage": 7305}]},
			"rounds": [
				{"id": %q, "number": 1, "status": "closed"},
				{"id": %q, "number": 2, "status": "inprogress"},
				{"id": %q, "number": 3, "status": "scheduled"}
			]
		}`, tournamentID, uuid.New(), uuid.New(), uuid.New(), uuid.New())
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, []string{"key-one"}, 3)

	tournament, err := client.FetchTournamentSummary(context.Background(), 2026, tournamentID)
	require.NoError(t, err)

	assert.Equal(t, tournamentID, tournament.TournamentID)
	assert.Equal(t, models.TournamentInProgress, tournament.State)
	require.Len(t, tournament.Rounds, 3)
	assert.Equal(t, models.RoundClosed, tournament.Rounds[0].Status)
	require.Len(t, tournament.ActiveRounds, 1)
	assert.Equal(t, int64(2), tournament.ActiveRounds[0])
	require.Len(t, tournament.Courses, 1)
	assert.Equal(t, 72, tournament.Courses[0].Par)
}

func TestScoreTypeFor(t *testing.T) {
	cases := []struct {
		strokes  int
		par      int
		expected models.ScoreType
	}{
		{0, 4, models.ScoreTBD},
		{1, 3, models.ScoreAce},
		{2, 4, models.ScoreEagle},
		{3, 4, models.ScoreBirdie},
		{4, 4, models.ScorePar},
		{5, 4, models.ScoreBogey},
		{6, 4, models.ScoreDoubleBogey},
		{9, 4, models.ScoreOther},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expected, scoreTypeFor(tc.strokes, tc.par),
			"strokes=%d par=%d", tc.strokes, tc.par)
	}
}
