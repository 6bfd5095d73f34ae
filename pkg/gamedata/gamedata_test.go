// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamedata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

func ids(values ...string) []playerdata.ID {
	result := make([]playerdata.ID, len(values))
	for i, v := range values {
		result[i] = playerdata.ID(v)
	}
	return result
}

func TestGame_TeamModifier(t *testing.T) {
	game := Game{
		TeamOne: Team{Players: ids("a", "b"), Score: 2000},
		TeamTwo: Team{Players: ids("c", "d"), Score: 1000},
	}

	assert.Equal(t, 1.0, game.TeamModifier("a"))
	assert.Equal(t, 1.0, game.TeamModifier("b"))
	assert.Equal(t, -1.0, game.TeamModifier("c"))
	assert.Equal(t, 0.0, game.TeamModifier("z"))
}

func TestGame_PercentDifference(t *testing.T) {
	tests := []struct {
		name     string
		one, two int
		want     float64
	}{
		{name: "team one ahead", one: 2000, two: 1000, want: 100.0 * 1000 / 1500},
		{name: "team two ahead", one: 1000, two: 3000, want: -100},
		{name: "draw", one: 1500, two: 1500, want: 0},
		{name: "no score", one: 0, two: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := Game{TeamOne: Team{Score: tt.one}, TeamTwo: Team{Score: tt.two}}
			assert.InDelta(t, tt.want, game.PercentDifference(), 1e-9)
		})
	}
}

func TestGameData_AllPlayers_FirstSeenOrder(t *testing.T) {
	data := GameData{Games: []Game{
		{TeamOne: Team{Players: ids("c", "a")}, TeamTwo: Team{Players: ids("b", "d")}},
		{TeamOne: Team{Players: ids("a", "e")}, TeamTwo: Team{Players: ids("d", "c")}},
	}}

	assert.Equal(t, ids("c", "a", "b", "d", "e"), data.AllPlayers())
	assert.Empty(t, (&GameData{}).AllPlayers())
}

func TestStaticProvider_FetchReturnsCopies(t *testing.T) {
	scope := envelope.NewRootScope(context.Background(), "test", "")
	defer scope.Finish()

	provider := NewStaticProvider()
	provider.Add("lobby", Game{
		Date:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		TeamOne: Team{Players: ids("a"), Score: 10},
		TeamTwo: Team{Players: ids("b"), Score: 5},
	})

	first, err := provider.Fetch(scope, "lobby")
	require.NoError(t, err)
	require.Len(t, first.Games, 1)
	first.Games[0].TeamOne.Players[0] = "mutated"

	second, err := provider.Fetch(scope, "lobby")
	require.NoError(t, err)
	assert.Equal(t, ids("a"), second.Games[0].TeamOne.Players)
	assert.Equal(t, 2026, second.Games[0].Date.Year())

	empty, err := provider.Fetch(scope, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty.Games)
}
