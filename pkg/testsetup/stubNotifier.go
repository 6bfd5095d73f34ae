// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package testsetup

import (
	"sync"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
)

// RecordingNotifier keeps every notification it receives.
type RecordingNotifier struct {
	mu      sync.Mutex
	Updates []models.LobbySummary
	Fulls   []models.LobbySummary
	Served  []matchmaker.RankedMatch
}

func (n *RecordingNotifier) LobbyUpdated(_ *envelope.Scope, summary models.LobbySummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Updates = append(n.Updates, summary)
}

func (n *RecordingNotifier) LobbyFull(_ *envelope.Scope, summary models.LobbySummary) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Fulls = append(n.Fulls, summary)
}

func (n *RecordingNotifier) MatchServed(_ *envelope.Scope, _ string, match matchmaker.RankedMatch) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Served = append(n.Served, match)
}

// Counts returns the number of updates, full notifications and served matches.
func (n *RecordingNotifier) Counts() (updates, fulls, served int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Updates), len(n.Fulls), len(n.Served)
}
