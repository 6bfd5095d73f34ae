// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"sort"
	"strconv"
	"strings"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Team is a set of players that have been matched onto the same team.
// Players keep the join order they had in the lobby.
type Team struct {
	Players []playerdata.Player `json:"players"`
}

func (t Team) UserIDs() []playerdata.ID {
	return pie.Map(t.Players, playerdata.ToID)
}

func (t Team) Contains(id playerdata.ID) bool {
	return pie.FindFirstUsing(t.Players, func(p playerdata.Player) bool { return p.ID == id }) >= 0
}

// key is the sorted, comma separated list of quoted member IDs.
// Quoting keeps IDs that contain separators from colliding.
func (t Team) key() string {
	ids := pie.Map(t.Players, func(p playerdata.Player) string { return string(p.ID) })
	sort.Strings(ids)
	return strings.Join(pie.Map(ids, strconv.Quote), ",")
}

// Match is one way to split the ready players into two disjoint teams.
// Matches are values; nothing mutates a Match once generated.
type Match struct {
	Teams [2]Team `json:"teams"`
}

// Key identifies the split regardless of team order, so A vs B and B vs A share a key.
func (m Match) Key() string {
	one, two := m.Teams[0].key(), m.Teams[1].key()
	if two < one {
		one, two = two, one
	}
	return one + "|" + two
}

// Equivalent reports whether both matches describe the same split.
func (m Match) Equivalent(other Match) bool {
	return m.Key() == other.Key()
}

// RankedMatch pairs a match with the strategy's auxiliary value.
// Score meaning is strategy defined (a shuffle position, a skill gap, ...); Position is 1-based serving order.
type RankedMatch struct {
	Match    Match   `json:"match"`
	Score    float64 `json:"score"`
	Position int     `json:"position"`
}
