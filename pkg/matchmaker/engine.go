// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package matchmaker

import (
	"sync"
	"time"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/lobby"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/metrics"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Engine binds one lobby to the match generator of its current ready set.
//
// Every lobby mutation and every served match happens under one mutex, so concurrent callers see
// linearizable transitions. Strategy preparation (data fetch, model fitting) runs outside the mutex.
// Notifications are delivered after the mutex is released.
type Engine struct {
	mu sync.Mutex

	lobby            *lobby.Lobby
	generator        *MatchCombinationGenerator
	generatorVersion uint64
	generations      int
	strategyName     string
	closed           bool

	notifier Notifier
	metrics  metrics.LobbyMetrics
}

// NewEngine starts a session with an empty lobby of the given capacity.
func NewEngine(lobbyID string, capacity int, notifier Notifier, lobbyMetrics metrics.LobbyMetrics) (*Engine, error) {
	l, err := lobby.New(lobbyID, capacity)
	if err != nil {
		return nil, err
	}

	if notifier == nil {
		notifier = noopNotifier{}
	}
	if lobbyMetrics == nil {
		lobbyMetrics = noopMetrics{}
	}

	return &Engine{
		lobby:    l,
		notifier: notifier,
		metrics:  lobbyMetrics,
	}, nil
}

func (e *Engine) LobbyID() string {
	return e.lobby.ID()
}

// Add puts player on the roster on behalf of mover.
func (e *Engine) Add(rootScope *envelope.Scope, player playerdata.Player, mover playerdata.ID) error {
	scope := rootScope.NewChildScope("Engine.Add").WithLobby(e.lobby.ID())
	defer scope.Finish()
	scope.SetAttributes(envelope.PlayerTag, string(player.ID))

	e.mu.Lock()
	if err := e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	err := e.lobby.Add(player, mover)
	summary := e.lobby.Summary()
	e.mu.Unlock()

	if err != nil {
		scope.Log.WithField("player", player.ID).WithField("mover", mover).Info("add rejected: ", err)
		e.metrics.AddLobbyTransition(e.lobby.ID(), constants.TransitionAdd, constants.OutcomeRejected)
		return err
	}

	e.metrics.AddLobbyTransition(e.lobby.ID(), constants.TransitionAdd, constants.OutcomeOK)
	e.notifier.LobbyUpdated(scope, summary)

	return nil
}

// Remove takes player off the roster. A removal by someone else does not block the player from being added back.
func (e *Engine) Remove(rootScope *envelope.Scope, player playerdata.ID, mover playerdata.ID) error {
	scope := rootScope.NewChildScope("Engine.Remove").WithLobby(e.lobby.ID())
	defer scope.Finish()
	scope.SetAttributes(envelope.PlayerTag, string(player))

	e.mu.Lock()
	if err := e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	present := e.lobby.Contains(player)
	e.lobby.Remove(player, mover)
	e.invalidateLocked()
	summary := e.lobby.Summary()
	e.mu.Unlock()

	transition := constants.TransitionRemove
	if player != mover {
		transition = constants.TransitionKick
	}
	e.metrics.AddLobbyTransition(e.lobby.ID(), transition, constants.OutcomeOK)
	e.metrics.SetReadyPlayers(e.lobby.ID(), summary.ReadyCount)

	if present {
		e.notifier.LobbyUpdated(scope, summary)
	}

	return nil
}

// Ready marks player ready, adding them first when needed.
// The ready transition that fills the lobby also emits LobbyFull.
func (e *Engine) Ready(rootScope *envelope.Scope, player playerdata.Player) error {
	scope := rootScope.NewChildScope("Engine.Ready").WithLobby(e.lobby.ID())
	defer scope.Finish()
	scope.SetAttributes(envelope.PlayerTag, string(player.ID))

	e.mu.Lock()
	if err := e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	becameFull, err := e.lobby.Ready(player)
	e.invalidateLocked()
	summary := e.lobby.Summary()
	e.mu.Unlock()

	if err != nil {
		scope.Log.WithField("player", player.ID).Info("ready rejected: ", err)
		e.metrics.AddLobbyTransition(e.lobby.ID(), constants.TransitionReady, constants.OutcomeRejected)
		return err
	}

	e.metrics.AddLobbyTransition(e.lobby.ID(), constants.TransitionReady, constants.OutcomeOK)
	e.metrics.SetReadyPlayers(e.lobby.ID(), summary.ReadyCount)
	e.notifier.LobbyUpdated(scope, summary)
	if becameFull {
		scope.Log.WithField("readyCount", summary.ReadyCount).Info("lobby is full")
		e.notifier.LobbyFull(scope, summary)
	}

	return nil
}

func (e *Engine) Unready(rootScope *envelope.Scope, player playerdata.ID) error {
	scope := rootScope.NewChildScope("Engine.Unready").WithLobby(e.lobby.ID())
	defer scope.Finish()
	scope.SetAttributes(envelope.PlayerTag, string(player))

	e.mu.Lock()
	if err := e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	wasReady := e.lobby.IsReady(player)
	e.lobby.Unready(player)
	e.invalidateLocked()
	summary := e.lobby.Summary()
	e.mu.Unlock()

	e.metrics.AddLobbyTransition(e.lobby.ID(), constants.TransitionUnready, constants.OutcomeOK)
	e.metrics.SetReadyPlayers(e.lobby.ID(), summary.ReadyCount)
	if wasReady {
		e.notifier.LobbyUpdated(scope, summary)
	}

	return nil
}

/*
GetNextMatch serves the next candidate match of the current ready set.

When no generator exists for the current ready set, the strategy is prepared outside the lock,
then a generator is started on the ready players of that moment. If another caller armed a
generator in the meantime, that one is used instead. An existing generator is served from
regardless of the strategy passed in; use ResetMatches to switch strategies. Served matches are
counted under the strategy that armed the generator. A request whose context is already done
takes no match.

It returns ErrMatchesExhausted once every split has been served, and a UsageError wrapping
models.ErrNotEnoughReadyPlayers while the lobby is not full.
*/
func (e *Engine) GetNextMatch(rootScope *envelope.Scope, strategy RankingStrategy) (RankedMatch, error) {
	scope := rootScope.NewChildScope("Engine.GetNextMatch").WithLobby(e.lobby.ID())
	defer scope.Finish()
	scope.SetAttributes(envelope.StrategyTag, strategy.Name())

	e.mu.Lock()
	if err := e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return RankedMatch{}, err
	}
	if e.generatorValidLocked() {
		if err := scope.Ctx.Err(); err != nil {
			e.mu.Unlock()
			return RankedMatch{}, err
		}
		match, err := e.generator.Next()
		strategyName := e.strategyName
		e.mu.Unlock()
		return e.served(scope, strategyName, match, err)
	}
	if !e.lobby.IsFull() {
		readyCount := e.lobby.ReadyCount()
		e.mu.Unlock()
		return RankedMatch{}, models.NewUsageError(models.ErrNotEnoughReadyPlayers,
			"need %d ready players to start, have %d", e.lobby.Capacity(), readyCount)
	}
	e.mu.Unlock()

	ranker, err := strategy.Prepare(scope)
	if err != nil {
		scope.Log.WithField("strategy", strategy.Name()).Warn("unable to prepare ranking: ", err)
		return RankedMatch{}, err
	}
	if err = scope.Ctx.Err(); err != nil {
		return RankedMatch{}, err
	}

	e.mu.Lock()
	if err = e.checkOpenLocked(); err != nil {
		e.mu.Unlock()
		return RankedMatch{}, err
	}
	if !e.generatorValidLocked() {
		generator := NewMatchCombinationGenerator(e.lobby.Capacity())
		if err = generator.Start(e.lobby.ReadyPlayers(), ranker); err != nil {
			e.mu.Unlock()
			return RankedMatch{}, err
		}
		e.generator = generator
		e.generatorVersion = e.lobby.ReadyVersion()
		e.generations++
		e.strategyName = strategy.Name()
		scope.Log.WithField("strategy", strategy.Name()).WithField("matches", generator.Total()).Info("match generation started")
	}
	if err = scope.Ctx.Err(); err != nil {
		e.mu.Unlock()
		return RankedMatch{}, err
	}
	match, err := e.generator.Next()
	strategyName := e.strategyName
	e.mu.Unlock()

	return e.served(scope, strategyName, match, err)
}

// ResetMatches discards the current generator; the next GetNextMatch starts over.
func (e *Engine) ResetMatches() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generator = nil
}

// SessionInfo reports the progress of the current match generation.
func (e *Engine) SessionInfo() SessionInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	info := SessionInfo{
		Timestamp:   time.Now().UTC(),
		LobbyID:     e.lobby.ID(),
		Closed:      e.closed,
		ReadyCount:  e.lobby.ReadyCount(),
		Generations: e.generations,
		State:       GeneratorUninitialized.String(),
	}
	if e.generatorValidLocked() {
		info.Strategy = e.strategyName
		info.State = e.generator.State().String()
		info.MatchesTotal = e.generator.Total()
		info.MatchesServed = e.generator.Total() - e.generator.Remaining()
	}

	return info
}

// Summary returns the current lobby summary.
func (e *Engine) Summary() models.LobbySummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lobby.Summary()
}

// Numbers combines caller supplied presence counts with the lobby headcount.
func (e *Engine) Numbers(online int, inVoice int) models.Numbers {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.Numbers{
		Online:  online,
		InVoice: inVoice,
		Joined:  e.lobby.PlayerCount(),
		Ready:   e.lobby.ReadyCount(),
	}
}

func (e *Engine) HasLeftBefore(player playerdata.ID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lobby.HasLeftBefore(player)
}

// Close tears the session down. Every later operation fails with models.ErrSessionClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.generator = nil
}

// served records a match handed out by the generator that strategyName armed.
func (e *Engine) served(scope *envelope.Scope, strategyName string, match RankedMatch, err error) (RankedMatch, error) {
	if err != nil {
		return RankedMatch{}, err
	}

	e.metrics.AddMatchServed(e.lobby.ID(), strategyName)
	e.notifier.MatchServed(scope, e.lobby.ID(), match)

	return match, nil
}

func (e *Engine) checkOpenLocked() error {
	if e.closed {
		return models.NewUsageError(models.ErrSessionClosed, "lobby %s is closed", e.lobby.ID())
	}
	return nil
}

func (e *Engine) generatorValidLocked() bool {
	return e.generator != nil && e.generatorVersion == e.lobby.ReadyVersion()
}

// invalidateLocked drops a generator built for a ready set that no longer exists.
func (e *Engine) invalidateLocked() {
	if e.generator != nil && !e.generatorValidLocked() {
		e.generator = nil
	}
}

type noopNotifier struct{}

func (noopNotifier) LobbyUpdated(*envelope.Scope, models.LobbySummary) {}

func (noopNotifier) LobbyFull(*envelope.Scope, models.LobbySummary) {}

func (noopNotifier) MatchServed(*envelope.Scope, string, RankedMatch) {}

type noopMetrics struct{}

func (noopMetrics) AddLobbyTransition(string, string, string) {}

func (noopMetrics) SetReadyPlayers(string, int) {}

func (noopMetrics) AddMatchServed(string, string) {}

func (noopMetrics) AddSkillFitElapsedTimeMs(string, time.Duration) {}

func (noopMetrics) AddScoreCacheResult(bool) {}
