package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/logger"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		ChartURL       string        `yaml:"chart_url"`
		SummaryURL     string        `yaml:"summary_url"`
		SearchURL      string        `yaml:"search_url"`
		GoogleNewsURL  string        `yaml:"google_news_url"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerSec float64       `yaml:"requests_per_sec"`
		Burst          int           `yaml:"burst"`
		Benchmark      string        `yaml:"benchmark"`
		Mock           bool          `yaml:"mock"`
	} `yaml:"data_source"`
	Cache struct {
		Backend   string        `yaml:"backend"` // memory | redis
		RedisAddr string        `yaml:"redis_addr"`
		TTL       time.Duration `yaml:"ttl"`
	} `yaml:"cache"`
	Database struct {
		Driver     string `yaml:"driver"` // sqlite | postgres | none
		SQLitePath string `yaml:"sqlite_path"`
		DSN        string `yaml:"dsn"`
	} `yaml:"database"`
	Schedule struct {
		QuantCron  string            `yaml:"quant_cron"`
		RegimeCron string            `yaml:"regime_cron"`
		Tickers    []string          `yaml:"tickers"`
		SectorMap  map[string]string `yaml:"sector_map"`
		Workers    int               `yaml:"workers"`
	} `yaml:"schedule"`
	Sentiment struct {
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
		Model           string `yaml:"model"`
	} `yaml:"sentiment"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log   logger.Config `yaml:"log"`
	Proxy string        `yaml:"proxy"`
}

// Load reads config from a YAML file, then a .env file, then applies
// environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == "" {
			cfg.Cache.Backend = "redis"
		}
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if v := os.Getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.DSN = v
		if cfg.Database.Driver == "" {
			cfg.Database.Driver = "postgres"
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Sentiment.AnthropicAPIKey = v
	}
	if v := os.Getenv("SENTIMENT_MODEL"); v != "" {
		cfg.Sentiment.Model = v
	}
	if v := os.Getenv("CRON_QUANT"); v != "" {
		cfg.Schedule.QuantCron = v
	}
	if v := os.Getenv("CRON_REGIME"); v != "" {
		cfg.Schedule.RegimeCron = v
	}
	if v := os.Getenv("QUANT_TICKERS"); v != "" {
		cfg.Schedule.Tickers = splitList(v)
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_PRETTY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Log.Pretty = b
		}
	}
	if v := os.Getenv("DATA_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DataSource.Mock = b
		}
	}
	if v := os.Getenv("REQUESTS_PER_SEC"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DataSource.RequestsPerSec = f
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.DataSource.ChartURL == "" {
		cfg.DataSource.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if cfg.DataSource.SummaryURL == "" {
		cfg.DataSource.SummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	}
	if cfg.DataSource.SearchURL == "" {
		cfg.DataSource.SearchURL = "https://query2.finance.yahoo.com/v1/finance/search"
	}
	if cfg.DataSource.GoogleNewsURL == "" {
		cfg.DataSource.GoogleNewsURL = "https://news.google.com/rss/search"
	}
	if cfg.DataSource.Timeout == 0 {
		cfg.DataSource.Timeout = 30 * time.Second
	}
	if cfg.DataSource.RequestsPerSec == 0 {
		cfg.DataSource.RequestsPerSec = 4
	}
	if cfg.DataSource.Burst == 0 {
		cfg.DataSource.Burst = 4
	}
	if cfg.DataSource.Benchmark == "" {
		cfg.DataSource.Benchmark = "SPY"
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = time.Hour
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/terminal.db"
	}
	if cfg.Schedule.QuantCron == "" {
		cfg.Schedule.QuantCron = "0 0 22 * * 1-5"
	}
	if cfg.Schedule.RegimeCron == "" {
		cfg.Schedule.RegimeCron = "0 30 21 * * 1-5"
	}
	if len(cfg.Schedule.Tickers) == 0 {
		cfg.Schedule.Tickers = []string{
			"AAPL", "MSFT", "NVDA", "ADBE", "ORCL", "CRM", "AMD",
			"JPM", "BAC", "GS", "XOM", "CVX", "JNJ", "UNH", "AMZN", "TSLA",
		}
	}
	if cfg.Schedule.SectorMap == nil {
		cfg.Schedule.SectorMap = map[string]string{
			"AAPL": "Technology", "MSFT": "Technology", "NVDA": "Technology",
			"ADBE": "Technology", "ORCL": "Technology", "CRM": "Technology", "AMD": "Technology",
			"JPM": "Financial Services", "BAC": "Financial Services", "GS": "Financial Services",
			"XOM": "Energy", "CVX": "Energy",
			"JNJ": "Healthcare", "UNH": "Healthcare",
			"AMZN": "Consumer Cyclical", "TSLA": "Consumer Cyclical",
		}
	}
	if cfg.Schedule.Workers == 0 {
		cfg.Schedule.Workers = 4
	}
	if cfg.Sentiment.Model == "" {
		cfg.Sentiment.Model = "claude-3-5-haiku-latest"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case "memory":
	case "redis":
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be memory or redis, got %q", c.Cache.Backend)
	}
	switch c.Database.Driver {
	case "sqlite", "none":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("database.driver must be sqlite, postgres or none, got %q", c.Database.Driver)
	}
	if c.DataSource.RequestsPerSec <= 0 {
		return fmt.Errorf("data_source.requests_per_sec must be positive")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.Schedule.Workers <= 0 {
		return fmt.Errorf("schedule.workers must be positive")
	}
	return nil
}

// TelegramEnabled reports whether the Telegram digest is configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// SectorFor returns the configured sector for ticker, defaulting to Technology.
func (c *Config) SectorFor(ticker string) string {
	if s, ok := c.Schedule.SectorMap[ticker]; ok {
		return s
	}
	return "Technology"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}
	return out
}
