// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package playerdata holds the identity of a lobby participant.
package playerdata

// ID uniquely identifies a player. Two players are the same player if and only if their IDs are equal.
type ID string

// Status is the presence reported by the chat platform. It is informational only.
type Status string

const (
	StatusOnline  Status = "online"
	StatusIdle    Status = "idle"
	StatusOffline Status = "offline"
)

// Player is a participant with its display attributes.
// Name, Mention and Status are presentational and never take part in equality.
type Player struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Mention string `json:"mention"`
	Status  Status `json:"status"`
}

// ToID returns the player ID, handy with pie.Map.
func ToID(p Player) ID {
	return p.ID
}

func IDToString(id ID) string {
	return string(id)
}

// Same reports whether a and b identify the same player.
func Same(a, b Player) bool {
	return a.ID == b.ID
}
