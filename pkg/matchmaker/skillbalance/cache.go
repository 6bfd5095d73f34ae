// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package skillbalance

import (
	"fmt"
	"time"

	"github.com/mitchellh/copystructure"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/metrics"
)

// ScoreCache keeps fitted score tables per context for a fixed time window.
// Concurrent misses for the same context share one computation. Failed computations are not cached.
// A zero or negative ttl disables caching.
type ScoreCache struct {
	ttl     time.Duration
	entries *cache.Cache
	flight  singleflight.Group
	metrics metrics.LobbyMetrics
}

func NewScoreCache(ttl time.Duration, lobbyMetrics metrics.LobbyMetrics) *ScoreCache {
	c := &ScoreCache{ttl: ttl, metrics: lobbyMetrics}
	if ttl > 0 {
		c.entries = cache.New(ttl, 2*ttl)
	}
	return c
}

// GetOrCompute returns the table cached for contextKey, or stores and returns the result of compute.
// Callers get their own copy.
func (c *ScoreCache) GetOrCompute(contextKey string, compute func() (ScoreTable, error)) (ScoreTable, error) {
	if c.entries != nil {
		if cached, found := c.entries.Get(contextKey); found {
			c.metrics.AddScoreCacheResult(true)
			return copyTable(cached.(ScoreTable))
		}
	}
	c.metrics.AddScoreCacheResult(false)

	result, err, _ := c.flight.Do(contextKey, func() (interface{}, error) {
		table, err := compute()
		if err != nil {
			return nil, err
		}
		if c.entries != nil {
			c.entries.Set(contextKey, table, cache.DefaultExpiration)
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return copyTable(result.(ScoreTable))
}

// Invalidate forgets the table of contextKey, e.g. after a new game was recorded.
func (c *ScoreCache) Invalidate(contextKey string) {
	if c.entries != nil {
		c.entries.Delete(contextKey)
	}
}

func copyTable(table ScoreTable) (ScoreTable, error) {
	copied, err := copystructure.Copy(table)
	if err != nil {
		return nil, fmt.Errorf("copy score table: %w", err)
	}
	return copied.(ScoreTable), nil
}
