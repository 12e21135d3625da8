// Package identity looks up user profiles in the hosted identity provider.
// Only ids are stored locally; names and avatars are fetched on demand.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/hack2025/volunteer-hub/internal/config"
	"github.com/hack2025/volunteer-hub/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var ErrNotConfigured = errors.New("identity provider secret key is not configured")

// Profile is the public part of an identity-provider account.
type Profile struct {
	ID        string  `json:"id"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	FullName  *string `json:"fullName"`
	ImageURL  *string `json:"imageUrl"`
}

// Provider resolves user ids to profiles. Unknown ids are left out of the result.
type Provider interface {
	GetProfiles(ctx context.Context, userIDs []string) (map[string]Profile, error)
}

// Client talks to the identity provider's backend users API.
type Client struct {
	baseURL    string
	secretKey  string
	batchSize  int
	httpClient *http.Client
	maxTries   int
}

func NewClient(cfg config.IdentityConfig) *Client {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		batchSize:  batch,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxTries:   3,
	}
}

// apiUser is the provider's wire representation of a user.
type apiUser struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

// GetProfiles looks up ids in batches; batches are fetched concurrently.
func (c *Client) GetProfiles(ctx context.Context, userIDs []string) (map[string]Profile, error) {
	if c.secretKey == "" {
		return nil, ErrNotConfigured
	}

	ids := dedupe(userIDs)
	profiles := make(map[string]Profile, len(ids))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(ids); start += c.batchSize {
		end := min(start+c.batchSize, len(ids))
		batch := ids[start:end]
		g.Go(func() error {
			users, err := c.fetchUsers(gctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, u := range users {
				profiles[u.ID] = toProfile(u)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (c *Client) fetchUsers(ctx context.Context, ids []string) ([]apiUser, error) {
	q := url.Values{}
	for _, id := range ids {
		q.Add("user_id", id)
	}
	q.Set("limit", strconv.Itoa(len(ids)))
	endpoint := c.baseURL + "/users?" + q.Encode()

	var users []apiUser
	retrier := retry.NewRetrier(c.maxTries, 100*time.Millisecond, time.Second)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return retry.Stop(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.secretKey)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("identity provider returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return retry.Stop(fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, truncate(body, 200)))
		}

		users = nil
		if err := json.Unmarshal(body, &users); err != nil {
			return retry.Stop(fmt.Errorf("decode users: %w", err))
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Int("ids", len(ids)).Msg("[Identity] user lookup failed")
		return nil, err
	}
	return users, nil
}

func toProfile(u apiUser) Profile {
	return Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  fullName(u.FirstName, u.LastName),
		ImageURL:  u.ImageURL,
	}
}

// fullName joins both names when present and otherwise returns whichever
// one is set.
func fullName(first, last *string) *string {
	hasFirst := first != nil && *first != ""
	hasLast := last != nil && *last != ""
	switch {
	case hasFirst && hasLast:
		name := *first + " " + *last
		return &name
	case hasFirst:
		return first
	case hasLast:
		return last
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
