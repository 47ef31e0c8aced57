package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"StrategySentinel/internal/logger"
	"StrategySentinel/internal/montecarlo"
	"StrategySentinel/internal/strategy"
)

var validate = validator.New()

// Config holds all application configuration.
type Config struct {
	Log      logger.Config `yaml:"log"`
	Telegram struct {
		BotToken string `yaml:"bot_token" validate:"required_with=ChatID"`
		ChatID   string `yaml:"chat_id" validate:"required_with=BotToken"`
	} `yaml:"telegram"`
	DataSource DataSource `yaml:"data_source"`
	Symbols    []string   `yaml:"symbols" default:"[\"BTC\",\"ETH\"]" validate:"min=1,dive,required"`
	Schedule   struct {
		AnalysisCron string `yaml:"analysis_cron" default:"0 0 8 * * *" validate:"required"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" default:"data/strategy_sentinel.db"`
	} `yaml:"database"`
	Metrics struct {
		ListenAddr string `yaml:"listen_addr" default:":9090"`
	} `yaml:"metrics"`
	Simulation Simulation `yaml:"simulation"`
	Proxy      string     `yaml:"proxy"`
}

// DataSource selects and tunes the history provider.
type DataSource struct {
	Provider      string  `yaml:"provider" default:"coindesk" validate:"oneof=coindesk yahoo mock"`
	BaseURL       string  `yaml:"base_url" validate:"omitempty,url"`
	APIKey        string  `yaml:"api_key"`
	Market        string  `yaml:"market" default:"cadli"`
	HistoryDays   int     `yaml:"history_days" default:"365" validate:"gte=30,lte=2000"`
	RatePerSecond float64 `yaml:"rate_per_second" default:"2" validate:"gte=0"`
	MaxRetries    int     `yaml:"max_retries" default:"3" validate:"gte=0,lte=10"`
}

// Simulation carries the default parameters for every simulator.
type Simulation struct {
	DCA        strategy.DcaParams   `yaml:"dca"`
	Dip        strategy.DipParams   `yaml:"dip"`
	Trend      strategy.TrendParams `yaml:"trend"`
	MonteCarlo montecarlo.Config    `yaml:"monte_carlo"`
}

// Load reads config from a YAML file, applies environment variable overrides,
// then fills unset fields from their default tags. A missing file is not an error.
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

	applyEnv(cfg)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	cfg.Simulation.MonteCarlo = montecarlo.BuildConfig(montecarlo.Overrides{
		HorizonMonths: &cfg.Simulation.MonteCarlo.HorizonMonths,
		StepDays:      &cfg.Simulation.MonteCarlo.StepDays,
		Seed:          cfg.Simulation.MonteCarlo.Seed,
	})
	for i, s := range cfg.Symbols {
		cfg.Symbols[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return cfg, nil
}

// Environment variable overrides
func applyEnv(cfg *Config) {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("COINDESK_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("COINDESK_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SENTINEL_SYMBOLS"); v != "" {
		cfg.Symbols = splitList(v)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.ListenAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MC_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Simulation.MonteCarlo.Seed = &seed
		}
	}
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks field constraints declared in the struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
