package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/MatthewCrocker7/bestball-backend/internal/models"
)

// SportradarClient fetches golf data from the Sportradar golf-t2 feed.
// Requests are paced through a shared rate limiter and retried with a
// fixed backoff; an auth or rate limit rejection rotates the key pool
// before the next attempt.
type SportradarClient struct {
	httpClient    *http.Client
	logger        *logrus.Logger
	keys          *APIKeyPool
	baseURL       string
	limiter       *rate.Limiter
	retryAttempts int
	retryBackoff  time.Duration
}

// ClientOptions carries the tunable parameters of the client.
type ClientOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RequestRate   float64
	RetryAttempts int
	RetryBackoff  time.Duration
}

// NewSportradarClient creates a new Sportradar client
func NewSportradarClient(keys *APIKeyPool, opts ClientOptions, logger *logrus.Logger) *SportradarClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.sportradar.us/golf-t2"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestRate <= 0 {
		opts.RequestRate = 1
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = 100
	}
	if opts.RetryBackoff <= 0 {
		opts.RetryBackoff = 3 * time.Second
	}
	return &SportradarClient{
		httpClient:    &http.Client{Timeout: opts.Timeout},
		logger:        logger,
		keys:          keys,
		baseURL:       opts.BaseURL,
		limiter:       rate.NewLimiter(rate.Limit(opts.RequestRate), 1),
		retryAttempts: opts.RetryAttempts,
		retryBackoff:  opts.RetryBackoff,
	}
}

// FetchWorldRankings retrieves the current world golf rankings.
func (c *SportradarClient) FetchWorldRankings(ctx context.Context, year int) ([]models.PgaPlayer, error) {
	var resp worldRankingsResponse
	path := fmt.Sprintf("/players/wgr/%d/rankings.json", year)
	if err := c.fetchJSON(ctx, "world rankings", path, &resp); err != nil {
		return nil, err
	}
	return mapWorldRankings(&resp), nil
}

// FetchSeasonSchedule retrieves the PGA tournament schedule for a season.
func (c *SportradarClient) FetchSeasonSchedule(ctx context.Context, year int) ([]models.Tournament, error) {
	var resp seasonScheduleResponse
	path := fmt.Sprintf("/schedule/pga/%d/tournaments/schedule.json", year)
	if err := c.fetchJSON(ctx, "season schedule", path, &resp); err != nil {
		return nil, err
	}
	return mapSeasonSchedule(&resp, year), nil
}

// FetchTournamentSummary retrieves the detailed state of one tournament,
// including its courses and per round status.
func (c *SportradarClient) FetchTournamentSummary(ctx context.Context, year int, tournamentID uuid.UUID) (*models.Tournament, error) {
	var resp tournamentSummaryResponse
	path := fmt.Sprintf("/summary/pga/%d/tournaments/%s/summary.json", year, tournamentID)
	if err := c.fetchJSON(ctx, "tournament summary", path, &resp); err != nil {
		return nil, err
	}
	return mapTournamentSummary(&resp, year), nil
}

// FetchRoundScores retrieves every player scorecard for one round of a
// tournament.
func (c *SportradarClient) FetchRoundScores(ctx context.Context, year int, tournamentID uuid.UUID, round int) ([]models.PlayerRound, error) {
	var resp roundScoresResponse
	path := fmt.Sprintf("/scorecards/pga/%d/tournaments/%s/rounds/%d/scores.json", year, tournamentID, round)
	if err := c.fetchJSON(ctx, "round scores", path, &resp); err != nil {
		return nil, err
	}
	return mapRoundScores(&resp, tournamentID), nil
}

// fetchJSON runs one logical fetch with the full retry budget. The key
// only rotates when the failure implicates the key itself; transient
// failures retry on the same key.
func (c *SportradarClient) fetchJSON(ctx context.Context, operation, path string, target interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retryAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.retryBackoff):
			}
		}

		err := c.doRequest(ctx, path, target)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return ctx.Err()
		}

		if IsKeyRotationError(err) {
			c.keys.Rotate()
			c.logger.WithFields(logrus.Fields{
				"operation": operation,
				"attempt":   attempt,
			}).Warn("Rotated Sportradar API key after rejection")
			continue
		}

		c.logger.WithFields(logrus.Fields{
			"operation": operation,
			"attempt":   attempt,
			"error":     err.Error(),
		}).Debug("Sportradar request failed, retrying")
	}

	return &RetriesExhaustedError{
		Operation: operation,
		Attempts:  c.retryAttempts,
		LastErr:   lastErr,
	}
}

func (c *SportradarClient) doRequest(ctx context.Context, path string, target interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	url := fmt.Sprintf("%s%s?api_key=%s", c.baseURL, path, c.keys.Current())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransientError{URL: path, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: resp.StatusCode, URL: path}
	case http.StatusTooManyRequests:
		return &RateLimitError{URL: path}
	default:
		return &TransientError{URL: path, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransientError{URL: path, Err: err}
	}
	if err := json.Unmarshal(body, target); err != nil {
		return &TransientError{URL: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
