// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync/atomic"
	"time"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
)

// StubGameDataProvider serves the same history for every context, after an optional delay.
type StubGameDataProvider struct {
	Games         []gamedata.Game
	Err           error
	PerFetchDelay time.Duration

	fetches atomic.Int32
}

func (s *StubGameDataProvider) Fetch(scope *envelope.Scope, _ string) (*gamedata.GameData, error) {
	s.fetches.Add(1)
	if s.PerFetchDelay > 0 {
		select {
		case <-time.After(s.PerFetchDelay):
		case <-scope.Ctx.Done():
			return nil, scope.Ctx.Err()
		}
	}
	if s.Err != nil {
		return nil, s.Err
	}

	games := make([]gamedata.Game, len(s.Games))
	copy(games, s.Games)

	return &gamedata.GameData{Games: games}, nil
}

// Fetches is the number of Fetch calls so far.
func (s *StubGameDataProvider) Fetches() int {
	return int(s.fetches.Load())
}
