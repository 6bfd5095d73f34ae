// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package shuffle serves candidate matches in uniformly random order.
package shuffle

import (
	"math/rand"
	"sync"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/common"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
)

// Strategy is a matchmaker.RankingStrategy that ignores skill entirely.
// It is safe for concurrent use.
type Strategy struct {
	mu     sync.Mutex
	random *rand.Rand
}

func New() *Strategy {
	return NewWithSeed(common.GenerateRandomSeed())
}

// NewWithSeed returns a strategy with a reproducible order, for tests.
func NewWithSeed(seed int64) *Strategy {
	return &Strategy{random: rand.New(rand.NewSource(seed))}
}

func (s *Strategy) Name() string {
	return constants.StrategyShuffle
}

func (s *Strategy) Prepare(_ *envelope.Scope) (matchmaker.Ranker, error) {
	return s, nil
}

// Rank returns the matches in random order. Score is the position, starting at 0.
func (s *Strategy) Rank(matches []matchmaker.Match) []matchmaker.RankedMatch {
	ranked := make([]matchmaker.RankedMatch, len(matches))
	for i, m := range matches {
		ranked[i].Match = m
	}

	s.mu.Lock()
	s.random.Shuffle(len(ranked), func(i, j int) {
		ranked[i], ranked[j] = ranked[j], ranked[i]
	})
	s.mu.Unlock()

	for i := range ranked {
		ranked[i].Score = float64(i)
	}

	return ranked
}
