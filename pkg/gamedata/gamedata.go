// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package gamedata holds historical game records and the providers that load them.
package gamedata

import (
	"time"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Provider loads the game history of one context (a lobby channel, a guild, ...).
type Provider interface {
	Fetch(scope *envelope.Scope, contextKey string) (*GameData, error)
}

// Team is one side of a recorded game.
type Team struct {
	Players []playerdata.ID `json:"players"`
	Score   int             `json:"score"`
}

func (t Team) Contains(id playerdata.ID) bool {
	for _, p := range t.Players {
		if p == id {
			return true
		}
	}
	return false
}

// Game is a finished game. The outcome margin is reported from team one's point of view.
type Game struct {
	Date    time.Time `json:"date"`
	TeamOne Team      `json:"teamOne"`
	TeamTwo Team      `json:"teamTwo"`
}

// TeamModifier is +1 for a player of team one, -1 for team two and 0 for a player who did not play.
func (g Game) TeamModifier(id playerdata.ID) float64 {
	switch {
	case g.TeamOne.Contains(id):
		return 1
	case g.TeamTwo.Contains(id):
		return -1
	default:
		return 0
	}
}

// PercentDifference is the signed score margin of team one relative to the mean score of both teams.
// It is 0 when neither team scored.
func (g Game) PercentDifference() float64 {
	one, two := float64(g.TeamOne.Score), float64(g.TeamTwo.Score)
	if one+two == 0 {
		return 0
	}
	return 100 * (one - two) / ((one + two) / 2)
}

// GameData is an ordered game history.
type GameData struct {
	Games []Game `json:"games"`
}

// AllPlayers returns every player of every game in first-seen order:
// games in order, team one before team two.
func (d *GameData) AllPlayers() []playerdata.ID {
	seen := make(map[playerdata.ID]struct{})
	players := make([]playerdata.ID, 0)
	add := func(ids []playerdata.ID) {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			players = append(players, id)
		}
	}

	for _, g := range d.Games {
		add(g.TeamOne.Players)
		add(g.TeamTwo.Players)
	}

	return players
}
