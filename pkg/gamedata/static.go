// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamedata

import (
	"fmt"
	"sync"

	"github.com/mitchellh/copystructure"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
)

// StaticProvider serves game histories kept in memory. Fetch returns deep copies.
type StaticProvider struct {
	mu    sync.RWMutex
	games map[string][]Game
}

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{games: make(map[string][]Game)}
}

// Add appends games to the history of contextKey.
func (p *StaticProvider) Add(contextKey string, games ...Game) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.games[contextKey] = append(p.games[contextKey], games...)
}

func (p *StaticProvider) Fetch(scope *envelope.Scope, contextKey string) (*GameData, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	copied, err := copystructure.Copy(p.games[contextKey])
	if err != nil {
		return nil, fmt.Errorf("copy games of %s: %w", contextKey, err)
	}
	games, _ := copied.([]Game)

	scope.Log.WithField("contextKey", contextKey).Debugf("loaded %d games from memory", len(games))

	return &GameData{Games: games}, nil
}
