package draft

import "github.com/riftforge/draftorch/internal/domain"

// Phases is the fixed 20-action pick/ban order. This is a contract: every
// index's team, type, and lane are exactly as tabulated, regardless of
// which teams are playing.
var Phases = [domain.TotalActions]domain.Phase{
	{Index: 0, Type: domain.ActionBan, Team: domain.SideBlue, PlayerSlot: domain.LaneTop},
	{Index: 1, Type: domain.ActionBan, Team: domain.SideRed, PlayerSlot: domain.LaneTop},
	{Index: 2, Type: domain.ActionBan, Team: domain.SideBlue, PlayerSlot: domain.LaneJungle},
	{Index: 3, Type: domain.ActionBan, Team: domain.SideRed, PlayerSlot: domain.LaneJungle},
	{Index: 4, Type: domain.ActionBan, Team: domain.SideBlue, PlayerSlot: domain.LaneMid},
	{Index: 5, Type: domain.ActionBan, Team: domain.SideRed, PlayerSlot: domain.LaneMid},

	{Index: 6, Type: domain.ActionPick, Team: domain.SideBlue, PlayerSlot: domain.LaneTop},
	{Index: 7, Type: domain.ActionPick, Team: domain.SideRed, PlayerSlot: domain.LaneTop},
	{Index: 8, Type: domain.ActionPick, Team: domain.SideRed, PlayerSlot: domain.LaneJungle},
	{Index: 9, Type: domain.ActionPick, Team: domain.SideBlue, PlayerSlot: domain.LaneJungle},
	{Index: 10, Type: domain.ActionPick, Team: domain.SideBlue, PlayerSlot: domain.LaneMid},
	{Index: 11, Type: domain.ActionPick, Team: domain.SideRed, PlayerSlot: domain.LaneMid},

	{Index: 12, Type: domain.ActionBan, Team: domain.SideRed, PlayerSlot: domain.LaneBot},
	{Index: 13, Type: domain.ActionBan, Team: domain.SideBlue, PlayerSlot: domain.LaneBot},
	{Index: 14, Type: domain.ActionBan, Team: domain.SideRed, PlayerSlot: domain.LaneSupport},
	{Index: 15, Type: domain.ActionBan, Team: domain.SideBlue, PlayerSlot: domain.LaneSupport},

	{Index: 16, Type: domain.ActionPick, Team: domain.SideRed, PlayerSlot: domain.LaneBot},
	{Index: 17, Type: domain.ActionPick, Team: domain.SideBlue, PlayerSlot: domain.LaneBot},
	{Index: 18, Type: domain.ActionPick, Team: domain.SideBlue, PlayerSlot: domain.LaneSupport},
	{Index: 19, Type: domain.ActionPick, Team: domain.SideRed, PlayerSlot: domain.LaneSupport},
}
