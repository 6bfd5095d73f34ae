// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type prometheusMetrics struct {
	lobbyTransitions   prometheus.CounterVec
	readyPlayers       prometheus.GaugeVec
	matchesServed      prometheus.CounterVec
	skillFitElapsed    prometheus.HistogramVec
	scoreCacheRequests prometheus.CounterVec
}

func setupPrometheusMetrics(registry *prometheus.Registry) prometheusMetrics {
	factory := promauto.With(registry)

	lobbyTransitions := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_mm_transitions_total",
			Help: "Lobby roster and readiness transitions by outcome",
		}, []string{"lobby", "transition", "outcome"})

	readyPlayers := factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "lobby_mm_ready_players",
			Help: "Number of players currently marked ready",
		}, []string{"lobby"})

	matchesServed := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_mm_matches_served_total",
			Help: "Candidate matches handed out to callers",
		}, []string{"lobby", "strategy"})

	//nolint:promlinter
	skillFitElapsed := factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lobby_mm_skill_fit_elapsed_time_ms",
			Help:    "A histogram of skill model fitting elapsed time in milliseconds",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"estimator"})

	scoreCacheRequests := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lobby_mm_score_cache_requests_total",
			Help: "Skill score table lookups by cache result",
		}, []string{"hit"})

	return prometheusMetrics{
		lobbyTransitions:   *lobbyTransitions,
		readyPlayers:       *readyPlayers,
		matchesServed:      *matchesServed,
		skillFitElapsed:    *skillFitElapsed,
		scoreCacheRequests: *scoreCacheRequests,
	}
}

func (metrics prometheusMetrics) AddLobbyTransition(lobbyID string, transition string, outcome string) {
	metrics.lobbyTransitions.With(prometheus.Labels{"lobby": lobbyID, "transition": transition, "outcome": outcome}).Inc()
}

func (metrics prometheusMetrics) SetReadyPlayers(lobbyID string, count int) {
	metrics.readyPlayers.With(prometheus.Labels{"lobby": lobbyID}).Set(float64(count))
}

func (metrics prometheusMetrics) AddMatchServed(lobbyID string, strategy string) {
	metrics.matchesServed.With(prometheus.Labels{"lobby": lobbyID, "strategy": strategy}).Inc()
}

func (metrics prometheusMetrics) AddSkillFitElapsedTimeMs(estimator string, elapsedTime time.Duration) {
	metrics.skillFitElapsed.With(prometheus.Labels{"estimator": estimator}).Observe(float64(elapsedTime.Milliseconds()))
}

func (metrics prometheusMetrics) AddScoreCacheResult(hit bool) {
	metrics.scoreCacheRequests.With(prometheus.Labels{"hit": strconv.FormatBool(hit)}).Inc()
}
