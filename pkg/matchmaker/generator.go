// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"errors"
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// ErrMatchesExhausted is returned once every candidate match has been served.
var ErrMatchesExhausted = errors.New("all candidate matches have been served")

type GeneratorState int

const (
	GeneratorUninitialized GeneratorState = iota
	GeneratorActive
	GeneratorExhausted
)

func (s GeneratorState) String() string {
	switch s {
	case GeneratorUninitialized:
		return "uninitialized"
	case GeneratorActive:
		return "active"
	case GeneratorExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("GeneratorState(%d)", int(s))
	}
}

// MatchCombinationGenerator enumerates the splits of one fixed set of ready players once,
// has them ranked, and serves them one at a time without repeats.
// An exhausted generator stays exhausted; a new session needs a new generator.
//
// Not safe for concurrent use.
type MatchCombinationGenerator struct {
	capacity int
	state    GeneratorState
	ordered  []RankedMatch
	served   int // ordered[:served] have been returned
}

func NewMatchCombinationGenerator(capacity int) *MatchCombinationGenerator {
	return &MatchCombinationGenerator{capacity: capacity}
}

// Start computes every split of players and orders them with ranker.
// players must hold exactly capacity distinct players.
func (g *MatchCombinationGenerator) Start(players []playerdata.Player, ranker Ranker) error {
	if g.state != GeneratorUninitialized {
		return models.NewUsageError(models.ErrGeneratorAlreadyStarted, "match generation has already started")
	}
	if len(players) != g.capacity {
		return models.NewUsageError(models.ErrNotEnoughReadyPlayers,
			"need %d ready players to generate matches, have %d", g.capacity, len(players))
	}
	if len(pie.Unique(pie.Map(players, playerdata.ToID))) != len(players) {
		return models.NewUsageError(models.ErrNotEnoughReadyPlayers, "ready players must be distinct")
	}

	candidates := GenerateSplits(players)
	ordered := ranker.Rank(candidates)
	if err := checkPermutation(candidates, ordered); err != nil {
		return err
	}

	for i := range ordered {
		ordered[i].Position = i + 1
	}

	g.ordered = ordered
	g.served = 0
	g.state = GeneratorActive
	if len(g.ordered) == 0 {
		g.state = GeneratorExhausted
	}

	return nil
}

// Next returns the most desirable match not served yet and marks it served.
// It returns ErrMatchesExhausted when nothing is left, on this and every later call.
func (g *MatchCombinationGenerator) Next() (RankedMatch, error) {
	switch g.state {
	case GeneratorUninitialized:
		return RankedMatch{}, models.NewUsageError(models.ErrGeneratorNotStarted, "match generation has not started")
	case GeneratorExhausted:
		return RankedMatch{}, ErrMatchesExhausted
	}

	match := g.ordered[g.served]
	g.served++
	if g.served == len(g.ordered) {
		g.state = GeneratorExhausted
	}

	return match, nil
}

func (g *MatchCombinationGenerator) State() GeneratorState {
	return g.state
}

// Total is the number of distinct matches of the session, 0 before Start.
func (g *MatchCombinationGenerator) Total() int {
	return len(g.ordered)
}

func (g *MatchCombinationGenerator) Remaining() int {
	return len(g.ordered) - g.served
}

func checkPermutation(candidates []Match, ranked []RankedMatch) error {
	if len(candidates) != len(ranked) {
		return fmt.Errorf("ranker returned %d matches for %d candidates", len(ranked), len(candidates))
	}

	counts := make(map[string]int, len(candidates))
	for _, m := range candidates {
		counts[m.Key()]++
	}
	for _, r := range ranked {
		key := r.Match.Key()
		if counts[key] == 0 {
			return fmt.Errorf("ranker returned unknown or duplicated match %s", key)
		}
		counts[key]--
	}

	return nil
}
