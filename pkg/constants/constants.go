// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package constants

import "time"

const (
	DefaultTeamSize      = 4
	DefaultSkillCacheTTL = 10 * time.Minute
)

const (
	StrategyShuffle      = "shuffle"
	StrategySkillBalance = "skill_balance"

	EstimatorRegression = "regression"
	EstimatorWinLoss    = "winloss"
)

// Lobby transitions, used as metric labels and log fields.
const (
	TransitionAdd     = "add"
	TransitionRemove  = "remove"
	TransitionKick    = "kick"
	TransitionReady   = "ready"
	TransitionUnready = "unready"

	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
)

// Event types pushed to the notification sink.
const (
	EventLobbyUpdated    = "lobby_updated"
	EventLobbyFull       = "lobby_full"
	EventLobbyAlmostFull = "lobby_almost_full"
	EventMatchServed     = "match_served"
)
