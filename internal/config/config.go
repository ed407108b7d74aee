package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Network  NetworkConfig  `toml:"network"`
	Database DatabaseConfig `toml:"database"`
	Game     GameConfig     `toml:"game"`
	Logging  LoggingConfig  `toml:"logging"`
}

type ServerConfig struct {
	Name            string `toml:"name"`
	RequirePassword bool   `toml:"require_password"` // reject AUTHREQUEST for unknown accounts
	MaxConnections  int    `toml:"max_connections"`
	ScenarioScripts string `toml:"scenario_scripts"` // dir of Lua scenario declarations ("" = none)
	StartTime       int64  // set at boot, not from config
}

type NetworkConfig struct {
	BindAddress  string        `toml:"bind_address"`
	WSBindAddr   string        `toml:"ws_bind_address"` // "" disables the WebSocket listener
	InQueueSize  int           `toml:"in_queue_size"`
	OutQueueSize int           `toml:"out_queue_size"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	PingInterval time.Duration `toml:"ping_interval"`
	PingSlack    time.Duration `toml:"ping_slack"` // expected-ping window for debug-log suppression
}

type DatabaseConfig struct {
	DSN             string        `toml:"dsn"` // "" = in-memory account store
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

type GameConfig struct {
	TurnTimeout     time.Duration `toml:"turn_timeout"`      // force-end-turn timer
	ExpireAfterOver time.Duration `toml:"expire_after_over"` // grace period after GAME_OVER
	ExpireSweep     time.Duration `toml:"expire_sweep"`      // registry sweep interval
	BotPause        time.Duration `toml:"bot_pause"`         // delay between drone bot actions
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.Server.StartTime = time.Now().Unix()
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:            "gosettlers",
			RequirePassword: false,
			MaxConnections:  500,
			ScenarioScripts: "scripts/scenarios",
		},
		Network: NetworkConfig{
			BindAddress:  "0.0.0.0:8880",
			WSBindAddr:   "",
			InQueueSize:  128,
			OutQueueSize: 256,
			WriteTimeout: 10 * time.Second,
			PingInterval: 45 * time.Minute,
			PingSlack:    66 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             "",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Game: GameConfig{
			TurnTimeout:     8 * time.Minute,
			ExpireAfterOver: 15 * time.Minute,
			ExpireSweep:     time.Minute,
			BotPause:        400 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
