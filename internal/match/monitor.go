// Package match implements the Game-In-Progress Monitor (C9): the
// transition from a confirmed draft into an in-progress game snapshot,
// and the match's eventual cancellation or hand-off to the Match-Voting
// Service for finalization.
package match

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/riftforge/draftorch/internal/domain"
	"github.com/riftforge/draftorch/internal/matchstore"
	"github.com/riftforge/draftorch/internal/session"
)

// Broadcaster fans an event out to every connected session.
type Broadcaster interface {
	Broadcast(env *session.Envelope)
}

// Monitor builds and tracks each match's in-progress game snapshot.
type Monitor struct {
	store       matchstore.Store
	broadcaster Broadcaster
}

func NewMonitor(store matchstore.Store, broadcaster Broadcaster) *Monitor {
	return &Monitor{store: store, broadcaster: broadcaster}
}

// playerSnapshot is one roster member's resolved draft outcome, as stored
// in gameJson and broadcast in game_started.
type playerSnapshot struct {
	Identity     string `json:"identity"`
	Lane         string `json:"lane"`
	ChampionKey  string `json:"championKey"`
	ChampionName string `json:"championName"`
}

type gameSnapshot struct {
	MatchID   int64             `json:"matchId"`
	StartedAt int64             `json:"startedAt"`
	Team1     []playerSnapshot  `json:"team1"`
	Team2     []playerSnapshot  `json:"team2"`
}

// draftActionView is the minimal shape Monitor needs to read back out of
// a match's persisted draftJson; see internal/draft.Serialize for the
// full contract this is a subset of.
type draftActionView struct {
	Team         int    `json:"team"`
	PlayerSlot   string `json:"playerSlot"`
	Type         string `json:"type"`
	ChampionID   string `json:"championId"`
	ChampionName string `json:"championName"`
}

type draftJSONView struct {
	Actions []draftActionView `json:"actions"`
}

// StartGame implements C9: on 10-of-10 confirmation it reconstructs the
// ten resolved picks from the match's draftJson, persists the snapshot to
// gameJson, flips status to in_progress, and emits game_started. It
// satisfies draft.GameStarter.
func (mon *Monitor) StartGame(ctx context.Context, matchID int64) error {
	m, err := mon.store.Get(ctx, matchID)
	if err != nil {
		return err
	}

	var view draftJSONView
	if err := json.Unmarshal([]byte(m.DraftJSON), &view); err != nil {
		return domain.ErrPersistence.Wrap(err)
	}

	picksByTeamLane := make(map[string]draftActionView, 10)
	for _, a := range view.Actions {
		if a.Type != string(domain.ActionPick) {
			continue
		}
		picksByTeamLane[teamLaneKey(a.Team, a.PlayerSlot)] = a
	}

	snap := gameSnapshot{MatchID: matchID, StartedAt: time.Now().UnixMilli()}
	snap.Team1 = buildSnapshotTeam(m.Team1Players, int(domain.SideBlue), picksByTeamLane)
	snap.Team2 = buildSnapshotTeam(m.Team2Players, int(domain.SideRed), picksByTeamLane)

	raw, err := json.Marshal(snap)
	if err != nil {
		return domain.ErrPersistence.Wrap(err)
	}

	m.GameJSON = string(raw)
	m.Status = domain.StatusInProgress
	if err := mon.store.Update(ctx, m); err != nil {
		return err
	}

	mon.publishGameStarted(snap)
	return nil
}

func buildSnapshotTeam(roster [5]domain.RosterSlot, team int, picks map[string]draftActionView) []playerSnapshot {
	out := make([]playerSnapshot, 0, 5)
	for _, slot := range roster {
		a := picks[teamLaneKey(team, string(slot.Lane))]
		out = append(out, playerSnapshot{
			Identity:     string(slot.Identity),
			Lane:         string(slot.Lane),
			ChampionKey:  a.ChampionID,
			ChampionName: a.ChampionName,
		})
	}
	return out
}

func teamLaneKey(team int, lane string) string {
	return string(rune('0'+team)) + ":" + lane
}

// Cancel implements cancel(matchId, byPlayer): any roster participant may
// request cancellation of a draft or in-progress match.
func (mon *Monitor) Cancel(ctx context.Context, matchID int64, byPlayer domain.Identity) error {
	m, err := mon.store.Get(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.Status.CanCancel() {
		return domain.ErrInvalidStatus
	}
	if !m.HasPlayer(byPlayer) {
		return domain.ErrUnauthorized
	}
	m.Status = domain.StatusCancelled
	if err := mon.store.Update(ctx, m); err != nil {
		return err
	}
	mon.publishDraftCancelled(matchID)
	return nil
}

func (mon *Monitor) publishGameStarted(snap gameSnapshot) {
	env, err := session.NewEnvelope(session.EventGameStarted, snap)
	if err != nil {
		log.Printf("match: game_started envelope build failed for match %d: %v", snap.MatchID, err)
		return
	}
	mon.broadcaster.Broadcast(env)
}

type cancelledPayload struct {
	MatchID int64  `json:"matchId"`
	Reason  string `json:"reason"`
}

func (mon *Monitor) publishDraftCancelled(matchID int64) {
	env, err := session.NewEnvelope(session.EventDraftUpdated, cancelledPayload{
		MatchID: matchID,
		Reason:  "cancelled",
	})
	if err != nil {
		log.Printf("match: cancellation envelope build failed for match %d: %v", matchID, err)
		return
	}
	mon.broadcaster.Broadcast(env)
}
