// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package models

import (
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// LobbySummary is the structured state handed to the notification sink whenever
// the roster or readiness changes. Rendering it is up to the sink.
type LobbySummary struct {
	LobbyID        string              `json:"lobbyID"`
	Capacity       int                 `json:"capacity"`
	PlayerCount    int                 `json:"playerCount"`
	ReadyCount     int                 `json:"readyCount"`
	SpotsRemaining int                 `json:"spotsRemaining"`
	Full           bool                `json:"full"`
	Ready          []playerdata.Player `json:"ready"`      // ready players in join order
	Alternates     []playerdata.Player `json:"alternates"` // joined but not ready, in join order
}

// Numbers is a headcount snapshot. Online and InVoice are reported by the caller.
type Numbers struct {
	Online  int `json:"online"`
	InVoice int `json:"inVoice"`
	Joined  int `json:"joined"`
	Ready   int `json:"ready"`
}
