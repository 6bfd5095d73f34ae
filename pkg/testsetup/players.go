// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"github.com/google/uuid"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Player returns an online player with a random ID.
func Player() playerdata.Player {
	id := uuid.NewString()
	return playerdata.Player{
		ID:      playerdata.ID(id),
		Name:    "player-" + id[:8],
		Mention: "<@" + id + ">",
		Status:  playerdata.StatusOnline,
	}
}

// Players returns n distinct players.
func Players(n int) []playerdata.Player {
	players := make([]playerdata.Player, n)
	for i := range players {
		players[i] = Player()
	}
	return players
}

// NamedPlayer returns an online player whose ID is name, for readable fixtures.
func NamedPlayer(name string) playerdata.Player {
	return playerdata.Player{
		ID:      playerdata.ID(name),
		Name:    name,
		Mention: "<@" + name + ">",
		Status:  playerdata.StatusOnline,
	}
}
