// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package skillbalance_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/elliotchance/pie/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker/skillbalance"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/testsetup"
)

func game(one []playerdata.ID, scoreOne int, two []playerdata.ID, scoreTwo int) gamedata.Game {
	return gamedata.Game{
		Date:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		TeamOne: gamedata.Team{Players: one, Score: scoreOne},
		TeamTwo: gamedata.Team{Players: two, Score: scoreTwo},
	}
}

func team(ids ...playerdata.ID) []playerdata.ID {
	return ids
}

// history is a small game log where A is clearly strongest and B weakest.
func history() []gamedata.Game {
	return []gamedata.Game{
		game(team("A", "C"), 2000, team("B", "D"), 1000),
		game(team("A", "D"), 1800, team("B", "C"), 1200),
		game(team("B", "C"), 1100, team("A", "D"), 1900),
		game(team("A", "E"), 1600, team("B", "C"), 1400),
		game(team("C", "D"), 1500, team("B", "E"), 1500),
		game(team("D", "E"), 1300, team("B", "C"), 1250),
		game(team("A", "B"), 1500, team("C", "E"), 1500),
	}
}

var expectedScores = skillbalance.ScoreTable{
	"A": 1.587341,
	"B": -1.090323,
	"C": 0.188191,
	"D": -0.445975,
	"E": -0.239235,
}

func normalizedRegression(t *testing.T, games []gamedata.Game) skillbalance.ScoreTable {
	t.Helper()
	raw, err := skillbalance.NewLinearRegression().Estimate(&gamedata.GameData{Games: games})
	require.NoError(t, err)
	scores, err := skillbalance.Normalize(raw)
	require.NoError(t, err)
	return scores
}

func TestLinearRegression_Scores(t *testing.T) {
	t.Parallel()

	scores := normalizedRegression(t, history())

	require.Len(t, scores, len(expectedScores))
	for id, want := range expectedScores {
		assert.InDelta(t, want, scores[id], 1e-4, "player %s", id)
	}
}

func TestLinearRegression_WinnerOutscoresLoser(t *testing.T) {
	t.Parallel()

	games := []gamedata.Game{
		game(team("W", "X"), 2000, team("L", "Y"), 1000),
		game(team("W", "Y"), 1700, team("L", "X"), 1300),
		game(team("L", "Y"), 900, team("W", "X"), 1500),
		game(team("X", "Y"), 1400, team("W", "L"), 1400),
	}

	scores := normalizedRegression(t, games)

	assert.Greater(t, scores["W"], scores["L"])
	assert.Greater(t, scores["W"], scores["X"])
	assert.Greater(t, scores["Y"], scores["L"])
}

func TestLinearRegression_InsufficientData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data *gamedata.GameData
		kind error
	}{
		{name: "nil data", data: nil, kind: models.ErrNoGames},
		{name: "no games", data: &gamedata.GameData{}, kind: models.ErrNoGames},
		{
			name: "single player",
			data: &gamedata.GameData{Games: []gamedata.Game{game(team("A"), 10, nil, 0)}},
			kind: models.ErrTooFewPlayers,
		},
		{
			name: "single game",
			data: &gamedata.GameData{Games: []gamedata.Game{game(team("A"), 10, team("B"), 5)}},
			kind: models.ErrDegenerateScores,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := skillbalance.NewLinearRegression().Estimate(tt.data)
			assert.True(t, models.IsInsufficientData(err), "got %v", err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestWinLoss_SumsSignedMargins(t *testing.T) {
	t.Parallel()

	raw, err := skillbalance.WinLoss{}.Estimate(&gamedata.GameData{Games: []gamedata.Game{
		game(team("A", "B"), 2000, team("C", "D"), 1000),
		game(team("A", "C"), 1500, team("B", "D"), 1500),
	}})
	require.NoError(t, err)

	margin := 100.0 * 1000 / 1500
	assert.InDelta(t, margin, raw["A"], 1e-9)
	assert.InDelta(t, margin, raw["B"], 1e-9)
	assert.InDelta(t, -margin, raw["C"], 1e-9)
	assert.InDelta(t, -margin, raw["D"], 1e-9)
}

func TestNewEstimator(t *testing.T) {
	t.Parallel()

	estimator, err := skillbalance.NewEstimator(constants.EstimatorRegression)
	require.NoError(t, err)
	assert.Equal(t, constants.EstimatorRegression, estimator.Name())

	estimator, err = skillbalance.NewEstimator(constants.EstimatorWinLoss)
	require.NoError(t, err)
	assert.Equal(t, constants.EstimatorWinLoss, estimator.Name())

	_, err = skillbalance.NewEstimator("elo")
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	scores, err := skillbalance.Normalize(skillbalance.ScoreTable{"a": 1, "b": 2, "c": 3})
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(scores["a"]).To(BeNumerically("~", -1, 1e-9))
	g.Expect(scores["b"]).To(BeNumerically("~", 0, 1e-9))
	g.Expect(scores["c"]).To(BeNumerically("~", 1, 1e-9))

	_, err = skillbalance.Normalize(skillbalance.ScoreTable{"a": 1})
	g.Expect(errors.Is(err, models.ErrTooFewPlayers)).To(BeTrue())

	_, err = skillbalance.Normalize(skillbalance.ScoreTable{"a": 4, "b": 4})
	g.Expect(errors.Is(err, models.ErrDegenerateScores)).To(BeTrue())
	g.Expect(models.IsInsufficientData(err)).To(BeTrue())
}

func newStrategy(provider gamedata.Provider, cache *skillbalance.ScoreCache) *skillbalance.Strategy {
	return skillbalance.New("lobby-channel", provider, skillbalance.NewLinearRegression(), cache, testsetup.NewMetrics())
}

func TestStrategy_RanksByTeamGap(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	strategy := newStrategy(&testsetup.StubGameDataProvider{Games: history()}, nil)
	g.Expect(strategy.Name()).To(Equal(constants.StrategySkillBalance))

	players := pie.Map([]string{"A", "B", "C", "D"}, testsetup.NamedPlayer)
	ranker, err := strategy.Prepare(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())

	ranked := ranker.Rank(matchmaker.GenerateSplits(players))

	keys := pie.Map(ranked, func(r matchmaker.RankedMatch) string { return r.Match.Key() })
	g.Expect(keys).To(Equal([]string{`"A","B"|"C","D"`, `"A","D"|"B","C"`, `"A","C"|"B","D"`}))
	g.Expect(ranked[0].Score).To(BeNumerically("~", 0.3774, 1e-3))
	g.Expect(ranked[1].Score).To(BeNumerically("~", 1.0217, 1e-3))
	g.Expect(ranked[2].Score).To(BeNumerically("~", 1.6559, 1e-3))
}

func TestStrategy_RankIsDeterministicAndAscending(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	strategy := newStrategy(&testsetup.StubGameDataProvider{Games: history()}, nil)

	players := pie.Map([]string{"A", "B", "C", "D", "E", "F", "G", "H"}, testsetup.NamedPlayer)
	matches := matchmaker.GenerateSplits(players)

	ranker, err := strategy.Prepare(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())
	first := ranker.Rank(matches)
	second := ranker.Rank(matches)

	g.Expect(first).To(HaveLen(35))
	g.Expect(first).To(Equal(second))
	for i := 1; i < len(first); i++ {
		g.Expect(first[i].Score).To(BeNumerically(">=", first[i-1].Score))
	}
	// F, G and H have no history and count as average
	g.Expect(first[0].Score).To(BeNumerically(">=", 0))
}

func TestStrategy_InsufficientData(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	strategy := newStrategy(&testsetup.StubGameDataProvider{}, nil)

	_, err := strategy.Prepare(g.TestScope)

	g.Expect(models.IsInsufficientData(err)).To(BeTrue())
	g.Expect(errors.Is(err, models.ErrNoGames)).To(BeTrue())
}

func TestStrategy_ProviderError(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	boom := errors.New("history unavailable")
	strategy := newStrategy(&testsetup.StubGameDataProvider{Err: boom}, nil)

	_, err := strategy.Prepare(g.TestScope)

	g.Expect(errors.Is(err, boom)).To(BeTrue())
	g.Expect(models.IsInsufficientData(err)).To(BeFalse())
}

func TestScoreCache_ReusesFittedTable(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	provider := &testsetup.StubGameDataProvider{Games: history()}
	counting := &testsetup.CountingMetrics{}
	cache := skillbalance.NewScoreCache(time.Minute, counting)
	strategy := skillbalance.New("lobby-channel", provider, skillbalance.NewLinearRegression(), cache, counting)

	first, err := strategy.Scores(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())
	first["A"] = 100

	second, err := strategy.Scores(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(provider.Fetches()).To(Equal(1))
	g.Expect(second["A"]).To(BeNumerically("~", expectedScores["A"], 1e-4))
	hits, misses, fits, _ := counting.Snapshot()
	g.Expect(hits).To(Equal(1))
	g.Expect(misses).To(Equal(1))
	g.Expect(fits).To(Equal(1))

	cache.Invalidate("lobby-channel")
	_, err = strategy.Scores(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(provider.Fetches()).To(Equal(2))
}

func TestScoreCache_Expires(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	provider := &testsetup.StubGameDataProvider{Games: history()}
	strategy := newStrategy(provider, skillbalance.NewScoreCache(20*time.Millisecond, testsetup.NewMetrics()))

	_, err := strategy.Scores(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())
	time.Sleep(60 * time.Millisecond)
	_, err = strategy.Scores(g.TestScope)
	g.Expect(err).ToNot(HaveOccurred())

	g.Expect(provider.Fetches()).To(Equal(2))
}

func TestScoreCache_DisabledAndErrorsNotCached(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)

	provider := &testsetup.StubGameDataProvider{Games: history()}
	strategy := newStrategy(provider, skillbalance.NewScoreCache(0, testsetup.NewMetrics()))
	for i := 0; i < 3; i++ {
		_, err := strategy.Scores(g.TestScope)
		g.Expect(err).ToNot(HaveOccurred())
	}
	g.Expect(provider.Fetches()).To(Equal(3))

	empty := &testsetup.StubGameDataProvider{}
	strategy = newStrategy(empty, skillbalance.NewScoreCache(time.Minute, testsetup.NewMetrics()))
	for i := 0; i < 2; i++ {
		_, err := strategy.Scores(g.TestScope)
		g.Expect(models.IsInsufficientData(err)).To(BeTrue())
	}
	g.Expect(empty.Fetches()).To(Equal(2))
}

func TestScoreCache_ConcurrentMissesShareOneFit(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	provider := &testsetup.StubGameDataProvider{Games: history(), PerFetchDelay: 100 * time.Millisecond}
	strategy := newStrategy(provider, skillbalance.NewScoreCache(time.Minute, testsetup.NewMetrics()))

	var wg sync.WaitGroup
	results := make([]skillbalance.ScoreTable, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			scores, err := strategy.Scores(testsetup.NewTestScope())
			if err == nil {
				results[i] = scores
			}
		}(i)
	}
	wg.Wait()

	g.Expect(provider.Fetches()).To(Equal(1))
	for _, scores := range results {
		g.Expect(scores).To(HaveLen(len(expectedScores)))
	}
}

func TestScoreCache_CancelledCallerDoesNotFailSharedFit(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	provider := &testsetup.StubGameDataProvider{Games: history(), PerFetchDelay: 300 * time.Millisecond}
	strategy := newStrategy(provider, skillbalance.NewScoreCache(time.Minute, testsetup.NewMetrics()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	first := envelope.NewRootScope(ctx, "first", "")
	defer first.Finish()

	firstDone := make(chan error, 1)
	go func() {
		_, err := strategy.Scores(first)
		firstDone <- err
	}()
	g.Eventually(provider.Fetches).Should(Equal(1))

	secondDone := make(chan skillbalance.ScoreTable, 1)
	go func() {
		scores, err := strategy.Scores(testsetup.NewTestScope())
		if err != nil {
			scores = nil
		}
		secondDone <- scores
	}()
	cancel()

	g.Eventually(secondDone, time.Second).Should(Receive(HaveLen(len(expectedScores))))
	g.Eventually(firstDone, time.Second).Should(Receive(BeNil()))
	g.Expect(provider.Fetches()).To(Equal(1))
}
