// Copyright (c) 2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package gamedata

import (
	"context"
	"fmt"
	"time"

	"github.com/elliotchance/pie/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/envelope"
	"github.com/AccelByte/extend-lobby-matchmaker/pkg/playerdata"
)

// Schema creates the table PostgresStore reads and writes.
const Schema = `
CREATE TABLE IF NOT EXISTS lobby_games (
	id               BIGSERIAL PRIMARY KEY,
	context_key      TEXT        NOT NULL,
	played_at        TIMESTAMPTZ NOT NULL,
	team_one_players TEXT[]      NOT NULL,
	team_one_score   INTEGER     NOT NULL,
	team_two_players TEXT[]      NOT NULL,
	team_two_score   INTEGER     NOT NULL
);
CREATE INDEX IF NOT EXISTS lobby_games_context_played_at ON lobby_games (context_key, played_at);
`

const (
	selectGames = `
		SELECT played_at, team_one_players, team_one_score, team_two_players, team_two_score
		FROM lobby_games
		WHERE context_key = $1
		ORDER BY played_at, id
	`
	insertGame = `
		INSERT INTO lobby_games (context_key, played_at, team_one_players, team_one_score, team_two_players, team_two_score)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore is a Provider backed by the lobby_games table, and records finished games into it.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Connect opens a pool and checks it can reach the database.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// Migrate creates the schema when missing.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("create lobby_games: %w", err)
	}
	return nil
}

type gameRow struct {
	PlayedAt       time.Time `db:"played_at"`
	TeamOnePlayers []string  `db:"team_one_players"`
	TeamOneScore   int       `db:"team_one_score"`
	TeamTwoPlayers []string  `db:"team_two_players"`
	TeamTwoScore   int       `db:"team_two_score"`
}

func (r gameRow) toGame() Game {
	toIDs := func(ids []string) []playerdata.ID {
		return pie.Map(ids, func(id string) playerdata.ID { return playerdata.ID(id) })
	}

	return Game{
		Date:    r.PlayedAt,
		TeamOne: Team{Players: toIDs(r.TeamOnePlayers), Score: r.TeamOneScore},
		TeamTwo: Team{Players: toIDs(r.TeamTwoPlayers), Score: r.TeamTwoScore},
	}
}

func (s *PostgresStore) Fetch(rootScope *envelope.Scope, contextKey string) (*GameData, error) {
	scope := rootScope.NewChildScope("PostgresStore.Fetch")
	defer scope.Finish()
	scope.SetAttributes(envelope.ContextKeyTag, contextKey)

	rows, err := s.db.Query(scope.Ctx, selectGames, contextKey)
	if err != nil {
		return nil, fmt.Errorf("query games of %s: %w", contextKey, err)
	}

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[gameRow])
	if err != nil {
		return nil, fmt.Errorf("scan games of %s: %w", contextKey, err)
	}

	scope.Log.WithField("contextKey", contextKey).Debugf("loaded %d games from postgres", len(records))

	return &GameData{Games: pie.Map(records, gameRow.toGame)}, nil
}

// RecordGame stores a finished game so later fits take it into account.
func (s *PostgresStore) RecordGame(rootScope *envelope.Scope, contextKey string, game Game) error {
	scope := rootScope.NewChildScope("PostgresStore.RecordGame")
	defer scope.Finish()

	toStrings := func(ids []playerdata.ID) []string {
		return pie.Map(ids, playerdata.IDToString)
	}

	_, err := s.db.Exec(scope.Ctx, insertGame,
		contextKey,
		game.Date,
		toStrings(game.TeamOne.Players),
		game.TeamOne.Score,
		toStrings(game.TeamTwo.Players),
		game.TeamTwo.Score,
	)
	if err != nil {
		return fmt.Errorf("insert game of %s: %w", contextKey, err)
	}

	return nil
}
