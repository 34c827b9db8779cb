package monopoly

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Auction.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
	DB      DBConfig      `toml:"db"`
	Auction AuctionConfig `toml:"auction"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	AddSource bool       `toml:"add_source"`
}

type ServerConfig struct {
	Addr            string `toml:"addr"`
	ShutdownTimeout int    `toml:"shutdown_timeout"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

type AuctionConfig struct {
	// InitialCountdownSec is the auction window at start (T0);
	// BidCountdownSec is the window the clock resets to after every
	// accepted bid (T1).
	InitialCountdownSec int `toml:"initial_countdown_sec"`
	BidCountdownSec     int `toml:"bid_countdown_sec"`

	// OverbidFundFraction is the share of any winning bid above list price
	// that is routed to the community fund.
	OverbidFundFraction float64 `toml:"overbid_fund_fraction"`

	// RecentCacheSize bounds the cache of recently ended auctions kept for
	// lookups after registry eviction.
	RecentCacheSize int `toml:"recent_cache_size"`
}

func (c *AuctionConfig) applyDefaults() {
	if c.InitialCountdownSec <= 0 {
		c.InitialCountdownSec = 30
	}
	if c.BidCountdownSec <= 0 {
		c.BidCountdownSec = 10
	}
	if c.OverbidFundFraction <= 0 {
		c.OverbidFundFraction = 0.10
	}
	if c.RecentCacheSize <= 0 {
		c.RecentCacheSize = 256
	}
}

func (c *AuctionConfig) InitialCountdown() time.Duration {
	return time.Duration(c.InitialCountdownSec) * time.Second
}

func (c *AuctionConfig) BidCountdown() time.Duration {
	return time.Duration(c.BidCountdownSec) * time.Second
}
