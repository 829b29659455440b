// Package lcu implements the LCU Gateway Router (C4): the server has no
// direct line to any player's local game client, so it RPCs a connected
// client session that has declared itself lcuReachable and proxies the
// request to the local client on the server's behalf.
package lcu

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/session"
)

// Kind selects the shape of data requested from the proxying client.
type Kind string

const (
	KindRecent  Kind = "recent"
	KindDetails Kind = "details"
)

// requestPayload is what the router sends over the session channel.
type requestPayload struct {
	Kind   Kind   `json:"kind"`
	Count  int    `json:"count,omitempty"`
	GameID string `json:"gameId,omitempty"`
}

// RecentGameSummary is the shape returned by a "recent" RPC; used to find
// candidate custom games to expand via "details".
type RecentGameSummary struct {
	GameID   string `json:"gameId"`
	IsCustom bool   `json:"isCustom"`
}

// Router routes fetchMatchHistoryFor/getCustomGamesWithDetails to an
// eligible session.
type Router struct {
	registry *session.Registry
	timeout  time.Duration
}

func NewRouter(registry *session.Registry, timeout time.Duration) *Router {
	return &Router{registry: registry, timeout: timeout}
}

// FetchMatchHistoryFor locates a live, lcu-reachable session for identity
// and issues a request/response RPC over it.
func (r *Router) FetchMatchHistoryFor(ctx context.Context, id domain.Identity, kind Kind, count int) (json.RawMessage, error) {
	s, err := r.eligibleSession(id)
	if err != nil {
		return nil, err
	}
	raw, err := r.registry.RPC(ctx, s, requestPayload{Kind: kind, Count: count}, r.timeout)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// FetchGameDetails fetches the full payload for one external game id.
func (r *Router) FetchGameDetails(ctx context.Context, id domain.Identity, gameID string) (json.RawMessage, error) {
	s, err := r.eligibleSession(id)
	if err != nil {
		return nil, err
	}
	return r.registry.RPC(ctx, s, requestPayload{Kind: KindDetails, GameID: gameID}, r.timeout)
}

// GetCustomGamesWithDetails composes recent + filter-by-custom + parallel
// details fetch, returning the enriched list.
func (r *Router) GetCustomGamesWithDetails(ctx context.Context, id domain.Identity, count int) ([]json.RawMessage, error) {
	raw, err := r.FetchMatchHistoryFor(ctx, id, KindRecent, count)
	if err != nil {
		return nil, err
	}

	var summaries []RecentGameSummary
	if err := json.Unmarshal(raw, &summaries); err != nil {
		return nil, domain.ErrLCUBadPayload
	}

	var customIDs []string
	for _, g := range summaries {
		if g.IsCustom {
			customIDs = append(customIDs, g.GameID)
		}
	}

	type indexedResult struct {
		idx     int
		payload json.RawMessage
		err     error
	}
	results := make([]json.RawMessage, len(customIDs))
	resCh := make(chan indexedResult, len(customIDs))
	var wg sync.WaitGroup

	for i, gameID := range customIDs {
		wg.Add(1)
		go func(i int, gameID string) {
			defer wg.Done()
			payload, err := r.FetchGameDetails(ctx, id, gameID)
			resCh <- indexedResult{idx: i, payload: payload, err: err}
		}(i, gameID)
	}

	wg.Wait()
	close(resCh)

	var firstErr error
	for res := range resCh {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		results[res.idx] = res.payload
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

func (r *Router) eligibleSession(id domain.Identity) (*session.Session, error) {
	for _, s := range r.registry.ByIdentity(id) {
		if s.LCUReachable() {
			return s, nil
		}
	}
	return nil, domain.ErrLCUUnreachable
}
