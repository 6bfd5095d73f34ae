// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"time"
)

// SessionInfo stores the matchmaking progress of a lobby
type SessionInfo struct {
	Timestamp     time.Time `json:"timestamp"`
	LobbyID       string    `json:"lobbyID"`
	Closed        bool      `json:"closed"`
	ReadyCount    int       `json:"readyCount"`
	Generations   int       `json:"generations"` // generators started since the session began
	Strategy      string    `json:"strategy,omitempty"`
	State         string    `json:"state"`
	MatchesTotal  int       `json:"matchesTotal"`
	MatchesServed int       `json:"matchesServed"`
}
