// Copyright (c) 2025-2026 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"

	"github.com/AccelByte/extend-lobby-matchmaker/pkg/constants"
)

type Config struct {
	LobbyID             string `env:"LOBBY_ID"               envDefault:"default"      envDocs:"identifier of the lobby served by this process"`
	TeamSize            int    `env:"TEAM_SIZE"              envDefault:"4"            envDocs:"players per team, lobby capacity is twice this value"`
	SkillCacheTTLSecond int    `env:"SKILL_CACHE_TTL_SECOND" envDefault:"600"          envDocs:"how long a fitted skill table is reused (0 disables caching)"`
	SkillEstimator      string `env:"SKILL_ESTIMATOR"        envDefault:"regression"   envDocs:"skill estimator used by the ranked strategy: regression or winloss"`
	PostgresURL         string `env:"POSTGRES_URL"           envDefault:""             envDocs:"game history database, empty means no history is available"`
	RedisAddr           string `env:"REDIS_ADDR"             envDefault:""             envDocs:"redis address for lobby events, empty disables publishing"`
	RedisDB             int    `env:"REDIS_DB"               envDefault:"0"            envDocs:"redis database index"`
	NotifyQueueName     string `env:"NOTIFY_QUEUE_NAME"      envDefault:"lobby_events" envDocs:"redis list lobby events are pushed to"`
	ChannelTopic        string `env:"CHANNEL_TOPIC"          envDefault:""             envDocs:"lobby channel metadata, parsed for @broadcast(#name) directives"`
	MetricsAddr         string `env:"METRICS_ADDR"           envDefault:":8080"        envDocs:"listen address of the prometheus endpoint, empty disables it"`
	LogLevel            string `env:"LOG_LEVEL"              envDefault:"info"         envDocs:"logrus level"`
	LogJSON             bool   `env:"LOG_JSON"               envDefault:"false"        envDocs:"log as json instead of text"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.TeamSize < 1 {
		return fmt.Errorf("TEAM_SIZE must be at least 1, got %d", c.TeamSize)
	}
	if c.SkillCacheTTLSecond < 0 {
		return fmt.Errorf("SKILL_CACHE_TTL_SECOND must not be negative, got %d", c.SkillCacheTTLSecond)
	}
	switch c.SkillEstimator {
	case constants.EstimatorRegression, constants.EstimatorWinLoss:
	default:
		return fmt.Errorf("unknown SKILL_ESTIMATOR %q", c.SkillEstimator)
	}

	return nil
}

// Capacity is the number of ready players needed to start a game.
func (c Config) Capacity() int {
	return c.TeamSize * 2
}

func (c Config) SkillCacheTTL() time.Duration {
	return time.Duration(c.SkillCacheTTLSecond) * time.Second
}
