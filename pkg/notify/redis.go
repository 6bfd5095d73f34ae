// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/common"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
)

// Pusher is the part of *redis.Client the notifier needs.
type Pusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
}

// ConnectRedis opens a client and checks the server answers.
func ConnectRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}

	return client, nil
}

/*
RedisNotifier pushes JSON encoded events onto a Redis list, for the chat front end to render.

Full and almost full events carry the broadcast targets parsed from the lobby channel topic.
An almost full event is sent when a lobby drops to one remaining spot from more than one.
Push failures are logged and dropped; a lost notification never fails a lobby transition.
*/
type RedisNotifier struct {
	client  Pusher
	queue   string
	mention string
	targets []string

	mu        sync.Mutex
	lastSpots map[string]int
}

func NewRedisNotifier(client Pusher, queue string, mention string, channelTopic string) *RedisNotifier {
	return &RedisNotifier{
		client:    client,
		queue:     queue,
		mention:   mention,
		targets:   BroadcastTargets(channelTopic),
		lastSpots: make(map[string]int),
	}
}

func (n *RedisNotifier) LobbyUpdated(scope *envelope.Scope, summary models.LobbySummary) {
	n.push(scope, Event{
		Type:    constants.EventLobbyUpdated,
		LobbyID: summary.LobbyID,
		Status:  StatusLine(summary),
		Summary: &summary,
	})

	if n.becameAlmostFull(summary) && len(n.targets) > 0 {
		n.push(scope, Event{
			Type:    constants.EventLobbyAlmostFull,
			LobbyID: summary.LobbyID,
			Targets: n.targets,
			Status:  StatusLine(summary),
			Summary: &summary,
		})
	}
}

func (n *RedisNotifier) LobbyFull(scope *envelope.Scope, summary models.LobbySummary) {
	n.push(scope, Event{
		Type:    constants.EventLobbyFull,
		LobbyID: summary.LobbyID,
		Targets: n.targets,
		Title:   GameStartingTitle(n.mention),
		Summary: &summary,
	})
}

func (n *RedisNotifier) MatchServed(scope *envelope.Scope, lobbyID string, match matchmaker.RankedMatch) {
	n.push(scope, Event{
		Type:    constants.EventMatchServed,
		LobbyID: lobbyID,
		Match:   &match,
	})
}

func (n *RedisNotifier) becameAlmostFull(summary models.LobbySummary) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	previous, seen := n.lastSpots[summary.LobbyID]
	n.lastSpots[summary.LobbyID] = summary.SpotsRemaining

	return summary.SpotsRemaining == 1 && (!seen || previous > 1)
}

func (n *RedisNotifier) push(scope *envelope.Scope, event Event) {
	now := time.Now()
	event.ID = common.NewEventID(now)
	event.Timestamp = now.UnixMilli()

	data, err := json.Marshal(event)
	if err != nil {
		scope.Log.WithField("type", event.Type).Error("unable to marshal lobby event: ", err)
		return
	}

	if err = n.client.RPush(scope.Ctx, n.queue, data).Err(); err != nil {
		scope.Log.WithField("type", event.Type).WithField("queue", n.queue).Warn("unable to push lobby event: ", err)
		return
	}

	scope.Log.WithField("type", event.Type).WithField("eventID", event.ID).Debug("lobby event pushed")
}
