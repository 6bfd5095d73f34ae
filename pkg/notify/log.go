// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"github.com/elliotchance/pie/v2"
	"github.com/sirupsen/logrus"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// LogNotifier writes every event to the scope's logger.
type LogNotifier struct {
	// Mention is used in the game starting title, usually the lobby channel mention.
	Mention string
}

func (n LogNotifier) LobbyUpdated(scope *envelope.Scope, summary models.LobbySummary) {
	scope.Log.WithFields(logrus.Fields{
		"players":    summary.PlayerCount,
		"ready":      summary.ReadyCount,
		"alternates": len(summary.Alternates),
	}).Info(StatusLine(summary))
}

func (n LogNotifier) LobbyFull(scope *envelope.Scope, summary models.LobbySummary) {
	scope.Log.
		WithField("players", names(summary.Ready)).
		Info(GameStartingTitle(n.Mention))
}

func (n LogNotifier) MatchServed(scope *envelope.Scope, lobbyID string, match matchmaker.RankedMatch) {
	scope.Log.WithFields(logrus.Fields{
		"lobbyID":  lobbyID,
		"position": match.Position,
		"score":    match.Score,
		"teamOne":  names(match.Match.Teams[0].Players),
		"teamTwo":  names(match.Match.Teams[1].Players),
	}).Info("match served")
}

func names(players []playerdata.Player) []string {
	return pie.Map(players, func(p playerdata.Player) string { return p.Name })
}
