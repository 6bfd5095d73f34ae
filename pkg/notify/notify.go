// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package notify delivers lobby events to logs, a Redis queue, or several sinks at once.
package notify

import (
	"fmt"
	"regexp"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
)

// Event is the wire form of one notification.
type Event struct {
	ID        string                  `json:"id"`
	Type      string                  `json:"type"`
	LobbyID   string                  `json:"lobbyID"`
	Targets   []string                `json:"targets,omitempty"`
	Title     string                  `json:"title,omitempty"`
	Status    string                  `json:"status,omitempty"`
	Summary   *models.LobbySummary    `json:"summary,omitempty"`
	Match     *matchmaker.RankedMatch `json:"match,omitempty"`
	Timestamp int64                   `json:"timestamp"`
}

var broadcastDirective = regexp.MustCompile(`@broadcast\(#([^)\s]+)\)`)

// BroadcastTargets returns the channel names named by @broadcast(#name) directives in topic,
// in order of appearance and without duplicates.
func BroadcastTargets(topic string) []string {
	targets := make([]string, 0)
	seen := make(map[string]struct{})
	for _, match := range broadcastDirective.FindAllStringSubmatch(topic, -1) {
		name := match[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		targets = append(targets, name)
	}
	return targets
}

// GameStartingTitle is the headline sent when a lobby fills up.
// TODO: confirm the doubled closing parenthesis with the community team before changing it.
func GameStartingTitle(mention string) string {
	return fmt.Sprintf("Game starting in (%s))", mention)
}

// StatusLine describes how far the lobby is from starting.
func StatusLine(summary models.LobbySummary) string {
	switch summary.SpotsRemaining {
	case 0:
		return "Use `?shuffle` or `?ranked` to get a match."
	case 1:
		return "There's one spot remaining!"
	default:
		return fmt.Sprintf("There are %d spots remaining!", summary.SpotsRemaining)
	}
}
