package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Identity is the stable "gameName#tagLine" player identifier. Comparisons
// are case-insensitive on both components, so Identity values are compared
// through Equal rather than Go's == operator.
type Identity string

var botIdentityPattern = regexp.MustCompile(`(?i)^bot\d+$`)

// NormalizeIdentity trims and lower-cases an identity for use as a map key.
func NormalizeIdentity(id Identity) string {
	return strings.ToLower(strings.TrimSpace(string(id)))
}

// Equal compares two identities case-insensitively, ignoring surrounding
// whitespace.
func (i Identity) Equal(other Identity) bool {
	return NormalizeIdentity(i) == NormalizeIdentity(other)
}

// IsBotPattern reports whether the identity itself matches the bot naming
// convention "bot<digits>". It does not account for a negative numeric
// external id; see RosterSlot.IsBot for the full rule.
func (i Identity) IsBotPattern() bool {
	return botIdentityPattern.MatchString(strings.TrimSpace(string(i)))
}

// LaneRole is one of the five assignable lanes, in the fixed team order
// used to index both roster arrays and the 20-action phase table.
type LaneRole string

const (
	LaneTop     LaneRole = "top"
	LaneJungle  LaneRole = "jungle"
	LaneMid     LaneRole = "mid"
	LaneBot     LaneRole = "bot"
	LaneSupport LaneRole = "support"
)

// LaneOrder is the canonical [top,jungle,mid,bot,support] slot order.
var LaneOrder = [5]LaneRole{LaneTop, LaneJungle, LaneMid, LaneBot, LaneSupport}

// LaneIndex returns the roster-array position of a lane, or -1 if unknown.
func LaneIndex(l LaneRole) int {
	for i, lane := range LaneOrder {
		if lane == l {
			return i
		}
	}
	return -1
}

// RosterSlot is one of the ten roster entries of a match: an identity
// assigned to a lane on a side, with the skill rating used by the balancer
// and an autofill flag recording whether the lane was its preference.
type RosterSlot struct {
	Identity    Identity `json:"identity"`
	ExternalID  *int64   `json:"externalId,omitempty"`
	Lane        LaneRole `json:"lane"`
	SkillRating float64  `json:"skillRating"`
	IsAutofill  bool     `json:"isAutofill"`
}

// IsBot reports whether the slot represents a synthetic player: its
// identity matches the bot naming pattern, or its external id is a
// negative number.
func (r RosterSlot) IsBot() bool {
	if r.Identity.IsBotPattern() {
		return true
	}
	if r.ExternalID != nil && *r.ExternalID < 0 {
		return true
	}
	return false
}

// IsBotIdentity applies the bot-pattern half of the rule to a bare
// identity, for callers that have no RosterSlot (e.g. timeout auto-play
// lookups keyed only by identity string).
func IsBotIdentity(id Identity) bool {
	return id.IsBotPattern()
}

// Side is a team: blue=1, red=2, per the fixed numbering used throughout
// the draft phase table and the match record.
type Side int

const (
	SideBlue Side = 1
	SideRed  Side = 2
)

func (s Side) Other() Side {
	if s == SideBlue {
		return SideRed
	}
	return SideBlue
}

func (s Side) String() string {
	if s == SideBlue {
		return "blue"
	}
	return "red"
}

// ParseNumericID reports whether s is a valid integer external id, and its
// value.
func ParseNumericID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
