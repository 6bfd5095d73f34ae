// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package lobby implements the roster and readiness state of a single matchmaking session.
//
// A Lobby is not safe for concurrent use. The matchmaking engine owns it and serializes access.
package lobby

import (
	"github.com/elliotchance/pie/v2"
	"gopkg.in/typ.v4/slices"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

type Lobby struct {
	id       string
	capacity int

	roster  []playerdata.Player // join order
	ready   map[playerdata.ID]struct{}
	leavers *LeaveHistory

	// readyVersion changes every time the composition of the ready set changes.
	readyVersion uint64
}

// New creates an empty lobby. Capacity is the total number of players of both teams.
func New(id string, capacity int) (*Lobby, error) {
	if capacity <= 0 || capacity%2 != 0 {
		return nil, models.NewUsageError(models.ErrInvalidCapacity, "lobby capacity must be a positive even number, got %d", capacity)
	}

	return &Lobby{
		id:       id,
		capacity: capacity,
		ready:    make(map[playerdata.ID]struct{}, capacity),
		leavers:  NewLeaveHistory(),
	}, nil
}

func (l *Lobby) ID() string {
	return l.id
}

func (l *Lobby) Capacity() int {
	return l.capacity
}

// Add puts player on the roster on behalf of mover.
// A player who left on their own can only be re-added by themselves; doing so clears their leave record.
// Adding a player who is already on the roster only has the leave record effect.
func (l *Lobby) Add(player playerdata.Player, mover playerdata.ID) error {
	self := player.ID == mover
	if !self && l.leavers.Contains(player.ID) {
		return models.NewUsageError(models.ErrRejoinNotPermitted,
			"%s left the lobby and has to join again themselves", displayName(player))
	}

	if l.indexOf(player.ID) < 0 {
		l.roster = append(l.roster, player)
	}
	if self {
		l.leavers.Clear(player.ID)
	}

	return nil
}

// Remove takes player off the roster and the ready set. Removing an absent player is a no-op.
// Only a self-initiated removal is recorded in the leave history.
func (l *Lobby) Remove(player playerdata.ID, mover playerdata.ID) {
	if i := l.indexOf(player); i >= 0 {
		l.roster = append(l.roster[:i], l.roster[i+1:]...)
	}
	if _, ok := l.ready[player]; ok {
		delete(l.ready, player)
		l.readyVersion++
	}
	if player == mover {
		l.leavers.Record(player)
	}
}

// Ready marks player as ready, joining them first if needed.
// It returns true when this call brought the ready set to capacity.
func (l *Lobby) Ready(player playerdata.Player) (becameFull bool, err error) {
	if l.indexOf(player.ID) < 0 {
		if err := l.Add(player, player.ID); err != nil {
			return false, err
		}
	}

	if _, ok := l.ready[player.ID]; ok {
		return false, nil
	}
	if len(l.ready) >= l.capacity {
		return false, models.NewUsageError(models.ErrLobbyFull,
			"the lobby already has %d ready players", l.capacity)
	}

	l.ready[player.ID] = struct{}{}
	l.readyVersion++

	return len(l.ready) == l.capacity, nil
}

// Unready clears the ready flag of player, if set.
func (l *Lobby) Unready(player playerdata.ID) {
	if _, ok := l.ready[player]; ok {
		delete(l.ready, player)
		l.readyVersion++
	}
}

func (l *Lobby) PlayerCount() int {
	return len(l.roster)
}

func (l *Lobby) ReadyCount() int {
	return len(l.ready)
}

func (l *Lobby) IsFull() bool {
	return l.ReadyCount() >= l.capacity
}

func (l *Lobby) IsReady(player playerdata.ID) bool {
	_, ok := l.ready[player]
	return ok
}

func (l *Lobby) HasLeftBefore(player playerdata.ID) bool {
	return l.leavers.Contains(player)
}

func (l *Lobby) Contains(player playerdata.ID) bool {
	return l.indexOf(player) >= 0
}

// ReadyVersion identifies the current composition of the ready set.
func (l *Lobby) ReadyVersion() uint64 {
	return l.readyVersion
}

// Players returns a copy of the roster in join order.
func (l *Lobby) Players() []playerdata.Player {
	return append([]playerdata.Player(nil), l.roster...)
}

// ReadyPlayers returns the ready players in join order.
func (l *Lobby) ReadyPlayers() []playerdata.Player {
	return slices.Filter(l.roster, func(p playerdata.Player) bool {
		return l.IsReady(p.ID)
	})
}

// Alternates returns the joined players who are not ready, in join order.
func (l *Lobby) Alternates() []playerdata.Player {
	return slices.Filter(l.roster, func(p playerdata.Player) bool {
		return !l.IsReady(p.ID)
	})
}

func (l *Lobby) Summary() models.LobbySummary {
	return models.LobbySummary{
		LobbyID:        l.id,
		Capacity:       l.capacity,
		PlayerCount:    l.PlayerCount(),
		ReadyCount:     l.ReadyCount(),
		SpotsRemaining: max(l.capacity-l.ReadyCount(), 0),
		Full:           l.IsFull(),
		Ready:          l.ReadyPlayers(),
		Alternates:     l.Alternates(),
	}
}

func (l *Lobby) indexOf(player playerdata.ID) int {
	return pie.FindFirstUsing(l.roster, func(p playerdata.Player) bool {
		return p.ID == player
	})
}

func displayName(p playerdata.Player) string {
	if p.Name != "" {
		return p.Name
	}
	return string(p.ID)
}
