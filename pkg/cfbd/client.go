// Package cfbd is a minimal client for the CollegeFootballData API,
// covering the feeds the pipeline lands: teams, games, SP+ ratings and
// rosters.
package cfbd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://api.collegefootballdata.com"

const (
	// The free tier throttles aggressively, so calls are spaced out and
	// 429/5xx responses are retried with exponential backoff.
	callDelay   = time.Second
	maxAttempts = 3
	backoffBase = 2 * time.Second
)

// Client talks to the CollegeFootballData API with a bearer token.
type Client struct {
	client   *http.Client
	baseURL  string
	token    string
	lastCall time.Time
}

// New creates a client. An empty baseURL selects the public API.
func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		token:   token,
	}
}

// throttle spaces consecutive calls by callDelay.
func (c *Client) throttle(ctx context.Context) error {
	wait := callDelay - time.Since(c.lastCall)
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastCall = time.Now()
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.throttle(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create cfbd request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("fetch %s: %w", path, err)
		} else {
			if resp.StatusCode == http.StatusOK {
				err := json.NewDecoder(resp.Body).Decode(out)
				resp.Body.Close()
				if err != nil {
					return fmt.Errorf("decode %s response: %w", path, err)
				}
				return nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("cfbd API %s status %d", path, resp.StatusCode)
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return lastErr
			}
		}

		if attempt < maxAttempts {
			select {
			case <-time.After(backoffBase << (attempt - 1)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return lastErr
}

// Teams fetches the FBS team list for a year.
func (c *Client) Teams(ctx context.Context, year int) ([]Team, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	var teams []Team
	if err := c.getJSON(ctx, "/teams/fbs", params, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

// Games fetches the full game feed for a year, regular season and
// postseason both.
func (c *Client) Games(ctx context.Context, year int) ([]Game, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("seasonType", "both")

	var games []Game
	if err := c.getJSON(ctx, "/games", params, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// Ratings fetches SP+ team ratings for a year. The feed includes a
// synthetic "nationalAverages" row.
func (c *Client) Ratings(ctx context.Context, year int) ([]Rating, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))

	var ratings []Rating
	if err := c.getJSON(ctx, "/ratings/sp", params, &ratings); err != nil {
		return nil, err
	}
	return ratings, nil
}

// Roster fetches the roster for one team-year.
func (c *Client) Roster(ctx context.Context, year int, team string) ([]RosterPlayer, error) {
	params := url.Values{}
	params.Set("year", strconv.Itoa(year))
	params.Set("team", team)

	var roster []RosterPlayer
	if err := c.getJSON(ctx, "/roster", params, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}
