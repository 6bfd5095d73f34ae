// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package skillbalance ranks candidate matches by the skill gap between their teams,
// with skills estimated from the game history of the lobby's context.
package skillbalance

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Strategy is a matchmaker.RankingStrategy serving the most balanced matches first.
// It is bound to one context; the game history of that context feeds the estimator.
type Strategy struct {
	contextKey string
	provider   gamedata.Provider
	estimator  Estimator
	cache      *ScoreCache
	metrics    metrics.LobbyMetrics
	pool       *models.Pool
}

// New returns a strategy for contextKey. cache may be shared between strategies of different contexts.
func New(contextKey string, provider gamedata.Provider, estimator Estimator, cache *ScoreCache, lobbyMetrics metrics.LobbyMetrics) *Strategy {
	if cache == nil {
		cache = NewScoreCache(0, lobbyMetrics)
	}

	return &Strategy{
		contextKey: contextKey,
		provider:   provider,
		estimator:  estimator,
		cache:      cache,
		metrics:    lobbyMetrics,
		pool:       models.NewPool(),
	}
}

func (s *Strategy) Name() string {
	return constants.StrategySkillBalance
}

// Prepare fetches and fits the score table, or takes it from the cache.
// It fails with an InsufficientDataError when the history cannot support a ranking.
func (s *Strategy) Prepare(rootScope *envelope.Scope) (matchmaker.Ranker, error) {
	scope := rootScope.NewChildScope("skillbalance.Prepare")
	defer scope.Finish()

	scores, err := s.Scores(scope)
	if err != nil {
		return nil, err
	}

	return &scoreRanker{scores: scores, pool: s.pool, log: scope.Log}, nil
}

// Scores returns the normalised score table of the strategy's context.
func (s *Strategy) Scores(rootScope *envelope.Scope) (ScoreTable, error) {
	scope := rootScope.NewChildScope("skillbalance.Scores")
	defer scope.Finish()
	scope.SetAttributes(envelope.ContextKeyTag, s.contextKey)

	// The fit is shared by every caller waiting on the same context, so no single caller may cancel it.
	return s.cache.GetOrCompute(s.contextKey, func() (ScoreTable, error) {
		return s.fit(scope.Detached())
	})
}

func (s *Strategy) fit(scope *envelope.Scope) (ScoreTable, error) {
	data, err := s.provider.Fetch(scope, s.contextKey)
	if err != nil {
		return nil, fmt.Errorf("fetch game data of %s: %w", s.contextKey, err)
	}

	start := time.Now()
	raw, err := s.estimator.Estimate(data)
	s.metrics.AddSkillFitElapsedTimeMs(s.estimator.Name(), time.Since(start))
	if err != nil {
		return nil, err
	}

	scores, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	scope.Log.
		WithField("contextKey", s.contextKey).
		WithField("estimator", s.estimator.Name()).
		WithField("games", len(data.Games)).
		WithField("players", len(scores)).
		Debug("fitted skill scores")

	return scores, nil
}

// scoreRanker orders matches by ascending team skill gap. Players missing from the table count as average (0).
type scoreRanker struct {
	scores ScoreTable
	pool   *models.Pool
	log    *logrus.Entry
}

func (r *scoreRanker) Rank(matches []matchmaker.Match) []matchmaker.RankedMatch {
	ranked := make([]matchmaker.RankedMatch, len(matches))
	for i, m := range matches {
		ranked[i] = matchmaker.RankedMatch{Match: m, Score: r.gap(m)}
	}

	// stable so ties keep generation order, which is deterministic
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score < ranked[j].Score
	})

	if len(matches) > 0 {
		if unknown := r.unknownPlayers(matches[0]); len(unknown) > 0 {
			r.log.WithField("players", unknown).Info("players without game history are ranked as average")
		}
	}

	return ranked
}

// gap is the absolute difference of the teams' mean scores.
func (r *scoreRanker) gap(m matchmaker.Match) float64 {
	return math.Abs(r.teamMean(m.Teams[0]) - r.teamMean(m.Teams[1]))
}

func (r *scoreRanker) teamMean(team matchmaker.Team) float64 {
	if len(team.Players) == 0 {
		return 0
	}

	values := r.pool.GetScores()
	defer func() { r.pool.PutScores(values) }()

	for _, p := range team.Players {
		values = append(values, r.scores[p.ID])
	}

	return stat.Mean(values, nil)
}

func (r *scoreRanker) unknownPlayers(m matchmaker.Match) []playerdata.ID {
	all := append(m.Teams[0].UserIDs(), m.Teams[1].UserIDs()...)
	return pie.Filter(all, func(id playerdata.ID) bool {
		_, ok := r.scores[id]
		return !ok
	})
}
