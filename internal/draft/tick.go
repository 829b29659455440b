package draft

import (
	"time"

	"github.com/riftforge/draftorch/internal/champion"
	"github.com/riftforge/draftorch/internal/domain"
)

// TickEventKind identifies what a Tick call did, so the Manager knows
// which broadcasts and persistence writes to issue.
type TickEventKind string

const (
	TickNone            TickEventKind = "none"
	TickActionAutoSkip   TickEventKind = "auto_skip"
	TickBotPlayed        TickEventKind = "bot_played"
	TickDraftCompleted   TickEventKind = "draft_completed"
	TickConfirmCancelled TickEventKind = "confirm_cancelled"
)

// TickResult reports the outcome of one scheduler sweep over a match's
// draft.
type TickResult struct {
	Kind        TickEventKind
	ActionIndex int
}

// Tick drives every time-based transition in the engine: per-action
// timeout auto-skip, bot auto-play, and confirmation-window timeout. The
// Scheduler (C12) calls this at most once a second per active match,
// under the match's lock. A tick is idempotent and safe to re-run.
func (d *MatchDraft) Tick(now time.Time, catalog *champion.Catalog) TickResult {
	switch d.state.State {
	case domain.EngineRunning:
		return d.tickDraft(now, catalog)
	case domain.EngineCompleted:
		return d.tickConfirmation(now)
	default:
		return TickResult{Kind: TickNone}
	}
}

func (d *MatchDraft) tickDraft(now time.Time, catalog *champion.Catalog) TickResult {
	idx := d.state.CurrentIndex
	if idx < 0 || idx >= domain.TotalActions {
		return TickResult{Kind: TickNone}
	}
	action := &d.state.Actions[idx]
	if !action.IsOpen() {
		return TickResult{Kind: TickNone}
	}

	elapsed := time.Duration(now.UnixMilli()-d.state.LastActionStartMs) * time.Millisecond
	owner := currentTeamOwner(d.state.RosterOf(action.Team), action.PlayerSlot)

	if owner.IsBot() && elapsed >= d.actionTimeout/2+jitter() {
		if key, ok := botAutoPlayKey(d.state, action.Team, catalog); ok {
			name, _ := catalog.NameFor(key)
			action.ChampionKey = &key
			if name != "" {
				action.ChampionName = &name
			}
			owner := owner.Identity
			action.ByPlayer = &owner
			d.advance(now)
			if idx == domain.TotalActions-1 {
				return TickResult{Kind: TickDraftCompleted, ActionIndex: idx}
			}
			return TickResult{Kind: TickBotPlayed, ActionIndex: idx}
		}
		// No candidate champion left: fall through to the ordinary
		// timeout path below, which skips the action outright.
	}

	if elapsed >= d.actionTimeout {
		skip := domain.ChampionSkipped
		action.ChampionKey = &skip
		action.ChampionName = &skip
		timeoutPlayer := domain.TimeoutPlayer
		action.ByPlayer = &timeoutPlayer
		d.advance(now)
		if idx == domain.TotalActions-1 {
			return TickResult{Kind: TickDraftCompleted, ActionIndex: idx}
		}
		return TickResult{Kind: TickActionAutoSkip, ActionIndex: idx}
	}

	return TickResult{Kind: TickNone}
}

// advance moves currentIndex forward by one and either resets the
// per-action clock or enters the confirmation phase.
func (d *MatchDraft) advance(now time.Time) {
	d.state.CurrentIndex++
	if d.state.CurrentIndex < domain.TotalActions {
		d.state.LastActionStartMs = now.UnixMilli()
	} else {
		d.enterConfirmationPhase(now)
	}
}

func (d *MatchDraft) tickConfirmation(now time.Time) TickResult {
	elapsed := time.Duration(now.UnixMilli()-d.state.ConfirmStartMs) * time.Millisecond
	if elapsed < d.confirmTimeout {
		return TickResult{Kind: TickNone}
	}
	if len(d.state.Confirmations) >= totalRoster {
		return TickResult{Kind: TickNone}
	}
	d.state.State = domain.EngineCancelled
	return TickResult{Kind: TickConfirmCancelled}
}
