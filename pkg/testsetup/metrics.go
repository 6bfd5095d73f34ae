// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/metrics"
)

type stubMetricsCollection struct{}

func (s stubMetricsCollection) AddLobbyTransition(lobbyID string, transition string, outcome string) {
}

func (s stubMetricsCollection) SetReadyPlayers(lobbyID string, count int) {
}

func (s stubMetricsCollection) AddMatchServed(lobbyID string, strategy string) {
}

func (s stubMetricsCollection) AddSkillFitElapsedTimeMs(estimator string, elapsedTime time.Duration) {
}

func (s stubMetricsCollection) AddScoreCacheResult(hit bool) {
}

func NewMetrics() metrics.LobbyMetrics {
	return stubMetricsCollection{}
}

// CountingMetrics counts calls instead of exporting them.
type CountingMetrics struct {
	stubMetricsCollection

	mu            sync.Mutex
	CacheHits     int
	CacheMisses   int
	Fits          int
	MatchesServed int
	// ServedBy holds the strategy label of every served match, in order.
	ServedBy []string
}

func (c *CountingMetrics) AddScoreCacheResult(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.CacheHits++
	} else {
		c.CacheMisses++
	}
}

func (c *CountingMetrics) AddSkillFitElapsedTimeMs(string, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fits++
}

func (c *CountingMetrics) AddMatchServed(_ string, strategy string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.MatchesServed++
	c.ServedBy = append(c.ServedBy, strategy)
}

// ServedStrategies returns a copy of ServedBy.
func (c *CountingMetrics) ServedStrategies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ServedBy...)
}

// Snapshot returns hits, misses, fits and served matches.
func (c *CountingMetrics) Snapshot() (hits, misses, fits, served int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CacheHits, c.CacheMisses, c.Fits, c.MatchesServed
}
