// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
)

// Multi forwards every event to each notifier in order.
type Multi []matchmaker.Notifier

func (m Multi) LobbyUpdated(scope *envelope.Scope, summary models.LobbySummary) {
	for _, n := range m {
		n.LobbyUpdated(scope, summary)
	}
}

func (m Multi) LobbyFull(scope *envelope.Scope, summary models.LobbySummary) {
	for _, n := range m {
		n.LobbyFull(scope, summary)
	}
}

func (m Multi) MatchServed(scope *envelope.Scope, lobbyID string, match matchmaker.RankedMatch) {
	for _, n := range m {
		n.MatchServed(scope, lobbyID, match)
	}
}
