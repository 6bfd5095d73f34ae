// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type LobbyMetrics interface {
	AddLobbyTransition(lobbyID string, transition string, outcome string)
	SetReadyPlayers(lobbyID string, count int)
	AddMatchServed(lobbyID string, strategy string)
	AddSkillFitElapsedTimeMs(estimator string, elapsedTime time.Duration)
	AddScoreCacheResult(hit bool)
}

func NewMetrics(registry *prometheus.Registry) LobbyMetrics {
	return setupPrometheusMetrics(registry)
}
