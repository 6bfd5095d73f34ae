// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package matchmaker turns a full lobby into a sequence of candidate team splits.
package matchmaker

import (
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
)

/*
RankingStrategy decides in which order candidate matches are served.

Ordering happens in two steps so that slow work never runs while the lobby is locked:
Prepare is called without holding the lobby lock and may fetch data or fit models,
the returned Ranker is then applied to the candidate list under the lock.
*/
type RankingStrategy interface {
	// Name is used for logs and metrics.
	Name() string

	// Prepare loads whatever the ranking needs. It may block.
	Prepare(scope *envelope.Scope) (Ranker, error)
}

// Ranker orders candidate matches, most desirable first.
// The result must be a permutation of the input: no match added, dropped or duplicated.
type Ranker interface {
	Rank(matches []Match) []RankedMatch
}

// Notifier receives the observable events of a lobby session.
// Implementations render and deliver them; the engine only supplies structured data.
type Notifier interface {
	// LobbyUpdated is called after any change of the roster or readiness.
	LobbyUpdated(scope *envelope.Scope, summary models.LobbySummary)

	// LobbyFull is called when a ready transition brings the ready set to capacity.
	LobbyFull(scope *envelope.Scope, summary models.LobbySummary)

	// MatchServed is called for every match handed out to a caller.
	MatchServed(scope *envelope.Scope, lobbyID string, match RankedMatch)
}
