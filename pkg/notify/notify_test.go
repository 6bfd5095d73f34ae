// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/testsetup"
)

type fakePusher struct {
	mu     sync.Mutex
	err    error
	queues map[string][][]byte
}

func (f *fakePusher) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := redis.NewIntCmd(ctx, append([]interface{}{"rpush", key}, values...)...)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	if f.queues == nil {
		f.queues = make(map[string][][]byte)
	}
	for _, v := range values {
		f.queues[key] = append(f.queues[key], v.([]byte))
	}
	cmd.SetVal(int64(len(f.queues[key])))
	return cmd
}

func (f *fakePusher) events(t *testing.T, queue string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	events := make([]Event, 0, len(f.queues[queue]))
	for _, raw := range f.queues[queue] {
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("decode event: %v", err)
		}
		events = append(events, event)
	}
	return events
}

func summary(ready, capacity int) models.LobbySummary {
	return models.LobbySummary{
		LobbyID:        "lobby",
		Capacity:       capacity,
		PlayerCount:    ready,
		ReadyCount:     ready,
		SpotsRemaining: capacity - ready,
		Full:           ready == capacity,
	}
}

func TestBroadcastTargets(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		want  []string
	}{
		{name: "two directives", topic: "@broadcast(#dest1)\n@broadcast(#dest2)", want: []string{"dest1", "dest2"}},
		{name: "surrounding text", topic: "welcome! @broadcast(#general) have fun", want: []string{"general"}},
		{name: "duplicates", topic: "@broadcast(#a) @broadcast(#a)", want: []string{"a"}},
		{name: "malformed", topic: "@broadcast(dest) @broadcast(#)", want: []string{}},
		{name: "empty", topic: "", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BroadcastTargets(tt.topic))
		})
	}
}

func TestGameStartingTitle(t *testing.T) {
	assert.Equal(t, "Game starting in (<#123>))", GameStartingTitle("<#123>"))
}

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "There are 8 spots remaining!", StatusLine(summary(0, 8)))
	assert.Equal(t, "There are 7 spots remaining!", StatusLine(summary(1, 8)))
	assert.Equal(t, "There's one spot remaining!", StatusLine(summary(7, 8)))
	assert.Contains(t, StatusLine(summary(8, 8)), "Use `?shuffle` or `?ranked`")
}

func TestRedisNotifier_PushesEvents(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	pusher := &fakePusher{}
	notifier := NewRedisNotifier(pusher, "lobby_events", "<#lobby>", "@broadcast(#dest1)\n@broadcast(#dest2)")

	match := matchmaker.RankedMatch{Score: 0.5, Position: 1}
	notifier.LobbyUpdated(g.TestScope, summary(3, 8))
	notifier.LobbyFull(g.TestScope, summary(8, 8))
	notifier.MatchServed(g.TestScope, "lobby", match)

	events := pusher.events(t, "lobby_events")
	g.Expect(events).To(HaveLen(3))

	g.Expect(events[0].Type).To(Equal(constants.EventLobbyUpdated))
	g.Expect(events[0].Summary.ReadyCount).To(Equal(3))
	g.Expect(events[0].Status).To(Equal("There are 5 spots remaining!"))
	g.Expect(events[0].Targets).To(BeEmpty())

	g.Expect(events[1].Type).To(Equal(constants.EventLobbyFull))
	g.Expect(events[1].Title).To(Equal("Game starting in (<#lobby>))"))
	g.Expect(events[1].Targets).To(Equal([]string{"dest1", "dest2"}))

	g.Expect(events[2].Type).To(Equal(constants.EventMatchServed))
	g.Expect(events[2].Match.Position).To(Equal(1))

	for _, e := range events {
		g.Expect(e.ID).To(HaveLen(26))
		g.Expect(e.LobbyID).To(Equal("lobby"))
		g.Expect(e.Timestamp).To(BeNumerically(">", 0))
	}
}

func TestRedisNotifier_AlmostFullBroadcastOnce(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	pusher := &fakePusher{}
	notifier := NewRedisNotifier(pusher, "q", "", "@broadcast(#dest1)")

	notifier.LobbyUpdated(g.TestScope, summary(6, 8))
	notifier.LobbyUpdated(g.TestScope, summary(7, 8)) // almost full
	notifier.LobbyUpdated(g.TestScope, summary(8, 8))
	notifier.LobbyUpdated(g.TestScope, summary(7, 8)) // back from full, no repeat
	notifier.LobbyUpdated(g.TestScope, summary(5, 8))
	notifier.LobbyUpdated(g.TestScope, summary(7, 8)) // almost full again

	almostFull := 0
	for _, e := range pusher.events(t, "q") {
		if e.Type == constants.EventLobbyAlmostFull {
			almostFull++
			g.Expect(e.Targets).To(Equal([]string{"dest1"}))
		}
	}
	g.Expect(almostFull).To(Equal(2))
}

func TestRedisNotifier_PushFailureIsLogged(t *testing.T) {
	logger, hook := test.NewNullLogger()
	scope := testsetup.NewTestScopeWithLogger(logger)
	defer scope.Finish()

	notifier := NewRedisNotifier(&fakePusher{err: errors.New("connection reset")}, "q", "", "")
	notifier.MatchServed(scope, "lobby", matchmaker.RankedMatch{})

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "connection reset")
	}
}

func TestMulti_FansOut(t *testing.T) {
	g := testsetup.ParallelWithGomega(t)
	first, second := &testsetup.RecordingNotifier{}, &testsetup.RecordingNotifier{}
	multi := Multi{first, second, LogNotifier{Mention: "<#lobby>"}}

	multi.LobbyUpdated(g.TestScope, summary(1, 8))
	multi.LobbyFull(g.TestScope, summary(8, 8))
	multi.MatchServed(g.TestScope, "lobby", matchmaker.RankedMatch{Position: 1})

	for _, n := range []*testsetup.RecordingNotifier{first, second} {
		updates, fulls, served := n.Counts()
		g.Expect(updates).To(Equal(1))
		g.Expect(fulls).To(Equal(1))
		g.Expect(served).To(Equal(1))
	}
}

func TestLogNotifier_LobbyFull(t *testing.T) {
	logger, hook := test.NewNullLogger()
	scope := testsetup.NewTestScopeWithLogger(logger)
	defer scope.Finish()

	s := summary(8, 8)
	s.Ready = testsetup.Players(8)
	LogNotifier{Mention: "<#lobby>"}.LobbyFull(scope, s)

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, "Game starting in (<#lobby>))", entry.Message)
		assert.Len(t, entry.Data["players"], 8)
	}
}
