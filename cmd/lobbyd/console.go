// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/elliotchance/pie/v2"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/common"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/gamedata"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/matchmaker/skillbalance"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/models"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

const usage = `commands:
  <player> join | leave | ready | unready
  <player> add <other> | kick <other>
  <player> shuffle | ranked
  reset | summary | info | numbers <online> <inVoice>
  record <a,b,...> <score> <c,d,...> <score>`

type gameRecorder interface {
	RecordGame(scope *envelope.Scope, contextKey string, game gamedata.Game) error
}

type staticRecorder struct {
	provider *gamedata.StaticProvider
}

func (r staticRecorder) RecordGame(_ *envelope.Scope, contextKey string, game gamedata.Game) error {
	r.provider.Add(contextKey, game)
	return nil
}

// console maps text commands onto the engine, one command per line.
type console struct {
	engine   *matchmaker.Engine
	shuffle  matchmaker.RankingStrategy
	ranked   matchmaker.RankingStrategy
	recorder gameRecorder
	cache    *skillbalance.ScoreCache
	out      io.Writer
}

func (c *console) run(scope *envelope.Scope, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := scope.Ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := c.handle(scope, line); err != nil {
			fmt.Fprintln(c.out, "error:", err)
		}
	}
	return scanner.Err()
}

func (c *console) handle(rootScope *envelope.Scope, line string) error {
	scope := rootScope.NewChildScope("console.handle")
	defer scope.Finish()

	fields := strings.Fields(line)
	switch fields[0] {
	case "help":
		fmt.Fprintln(c.out, usage)
		return nil
	case "reset":
		c.engine.ResetMatches()
		fmt.Fprintln(c.out, "match generation reset")
		return nil
	case "summary":
		fmt.Fprintln(c.out, common.LogJSONFormatter(c.engine.Summary()))
		return nil
	case "info":
		fmt.Fprintln(c.out, common.LogJSONFormatter(c.engine.SessionInfo()))
		return nil
	case "numbers":
		return c.numbers(fields[1:])
	case "record":
		return c.record(scope, fields[1:])
	}

	if len(fields) < 2 {
		return fmt.Errorf("unknown command %q, try help", line)
	}
	actor := player(fields[0])

	switch verb, args := fields[1], fields[2:]; verb {
	case "join":
		return c.engine.Add(scope, actor, actor.ID)
	case "leave":
		return c.engine.Remove(scope, actor.ID, actor.ID)
	case "ready":
		return c.engine.Ready(scope, actor)
	case "unready":
		return c.engine.Unready(scope, actor.ID)
	case "add", "kick":
		if len(args) != 1 {
			return fmt.Errorf("%s needs exactly one player", verb)
		}
		target := player(args[0])
		if verb == "add" {
			return c.engine.Add(scope, target, actor.ID)
		}
		return c.engine.Remove(scope, target.ID, actor.ID)
	case "shuffle":
		return c.serve(scope, c.shuffle)
	case "ranked":
		err := c.serve(scope, c.ranked)
		if models.IsInsufficientData(err) {
			return fmt.Errorf("%w, use shuffle instead", err)
		}
		return err
	default:
		return fmt.Errorf("unknown command %q, try help", line)
	}
}

func (c *console) serve(scope *envelope.Scope, strategy matchmaker.RankingStrategy) error {
	match, err := c.engine.GetNextMatch(scope, strategy)
	if errors.Is(err, matchmaker.ErrMatchesExhausted) {
		fmt.Fprintln(c.out, "every match has been served, use reset to start over")
		return nil
	}
	if err != nil {
		return err
	}

	names := func(t matchmaker.Team) string {
		return strings.Join(pie.Map(t.Players, func(p playerdata.Player) string { return p.Name }), ", ")
	}
	fmt.Fprintf(c.out, "#%d (%.3f): %s vs %s\n", match.Position, match.Score, names(match.Match.Teams[0]), names(match.Match.Teams[1]))

	return nil
}

func (c *console) numbers(args []string) error {
	if len(args) != 2 {
		return errors.New("numbers needs <online> <inVoice>")
	}
	online, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("online: %w", err)
	}
	inVoice, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("inVoice: %w", err)
	}

	n := c.engine.Numbers(online, inVoice)
	fmt.Fprintf(c.out, "Online %d, In Voice %d, Joined %d, Ready %d\n", n.Online, n.InVoice, n.Joined, n.Ready)

	return nil
}

// record stores a finished game of this lobby and drops the cached skill table.
func (c *console) record(scope *envelope.Scope, args []string) error {
	if len(args) != 4 {
		return errors.New("record needs <team one> <score> <team two> <score>")
	}
	team := func(players string, score string) (gamedata.Team, error) {
		value, err := strconv.Atoi(score)
		if err != nil {
			return gamedata.Team{}, fmt.Errorf("score %q: %w", score, err)
		}
		ids := pie.Map(strings.Split(players, ","), func(s string) playerdata.ID { return playerdata.ID(s) })
		return gamedata.Team{Players: ids, Score: value}, nil
	}

	one, err := team(args[0], args[1])
	if err != nil {
		return err
	}
	two, err := team(args[2], args[3])
	if err != nil {
		return err
	}

	lobbyID := c.engine.LobbyID()
	if err = c.recorder.RecordGame(scope, lobbyID, gamedata.Game{Date: time.Now().UTC(), TeamOne: one, TeamTwo: two}); err != nil {
		return err
	}
	c.cache.Invalidate(lobbyID)
	fmt.Fprintln(c.out, "game recorded")

	return nil
}

func player(name string) playerdata.Player {
	return playerdata.Player{
		ID:      playerdata.ID(name),
		Name:    name,
		Mention: "<@" + name + ">",
		Status:  playerdata.StatusOnline,
	}
}
