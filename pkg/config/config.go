package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces the environment variables read by Load.
const EnvPrefix = "LEADSWEEP"

// Config stores all configuration for the application.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Browser   BrowserConfig   `mapstructure:"browser"`
	Search    SearchConfig    `mapstructure:"search"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Card      CardConfig      `mapstructure:"card"`
	Selectors SelectorsConfig `mapstructure:"selectors"`
	Status    StatusConfig    `mapstructure:"status"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // "console" or "json"
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type BrowserConfig struct {
	Engine        string `mapstructure:"engine"` // "chromedp" or "rod"
	Headless      bool   `mapstructure:"headless"`
	DriverPath    string `mapstructure:"driver_path"`
	UserAgent     string `mapstructure:"user_agent"`
	DisableImages bool   `mapstructure:"disable_images"`
	WindowWidth   int    `mapstructure:"window_width"`
	WindowHeight  int    `mapstructure:"window_height"`
}

type SearchConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	FeedTimeout    time.Duration `mapstructure:"feed_timeout"`
	ConsentTimeout time.Duration `mapstructure:"consent_timeout"`
	SettleDelay    time.Duration `mapstructure:"settle_delay"`
}

type FeedConfig struct {
	ScrollPause    time.Duration `mapstructure:"scroll_pause"`
	StallThreshold int           `mapstructure:"stall_threshold"`
	MaxAttempts    int           `mapstructure:"max_attempts"`
	ScrollStrategy string        `mapstructure:"scroll_strategy"` // "script" or "keys"
}

type CardConfig struct {
	OpenAttempts int           `mapstructure:"open_attempts"`
	OpenTimeout  time.Duration `mapstructure:"open_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	ClickGap     time.Duration `mapstructure:"click_gap"`
}

type SelectorsConfig struct {
	File string `mapstructure:"file"`
}

type StatusConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from defaults, an optional file, environment
// variables and finally the explicit overrides (usually CLI flags).
func Load(path string, overrides map[string]any) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("browser.engine", "chromedp")
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.driver_path", "")
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36")
	v.SetDefault("browser.disable_images", true)
	v.SetDefault("browser.window_width", 1366)
	v.SetDefault("browser.window_height", 900)

	v.SetDefault("search.base_url", "https://www.google.com/maps/search/")
	v.SetDefault("search.feed_timeout", 15*time.Second)
	v.SetDefault("search.consent_timeout", 3*time.Second)
	v.SetDefault("search.settle_delay", 2*time.Second)

	v.SetDefault("feed.scroll_pause", 2*time.Second)
	v.SetDefault("feed.stall_threshold", 5)
	v.SetDefault("feed.max_attempts", 100)
	v.SetDefault("feed.scroll_strategy", "script")

	v.SetDefault("card.open_attempts", 3)
	v.SetDefault("card.open_timeout", 750*time.Millisecond)
	v.SetDefault("card.poll_interval", 50*time.Millisecond)
	v.SetDefault("card.click_gap", 100*time.Millisecond)

	v.SetDefault("selectors.file", "")
	v.SetDefault("status.addr", "")
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be 'console' or 'json'")
	}
	switch c.Browser.Engine {
	case "chromedp", "rod":
	default:
		return fmt.Errorf("browser.engine must be 'chromedp' or 'rod'")
	}
	if c.Browser.WindowWidth <= 0 || c.Browser.WindowHeight <= 0 {
		return fmt.Errorf("browser.window_width and browser.window_height must be > 0")
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if c.Search.FeedTimeout <= 0 {
		return fmt.Errorf("search.feed_timeout must be > 0")
	}
	if c.Search.ConsentTimeout < 0 || c.Search.SettleDelay < 0 {
		return fmt.Errorf("search.consent_timeout and search.settle_delay must be >= 0")
	}
	if c.Feed.ScrollPause < 0 {
		return fmt.Errorf("feed.scroll_pause must be >= 0")
	}
	if c.Feed.StallThreshold <= 0 {
		return fmt.Errorf("feed.stall_threshold must be > 0")
	}
	if c.Feed.MaxAttempts <= 0 {
		return fmt.Errorf("feed.max_attempts must be > 0")
	}
	switch c.Feed.ScrollStrategy {
	case "script", "keys":
	default:
		return fmt.Errorf("feed.scroll_strategy must be 'script' or 'keys'")
	}
	if c.Card.OpenAttempts <= 0 {
		return fmt.Errorf("card.open_attempts must be > 0")
	}
	if c.Card.OpenTimeout <= 0 {
		return fmt.Errorf("card.open_timeout must be > 0")
	}
	if c.Card.PollInterval <= 0 {
		return fmt.Errorf("card.poll_interval must be > 0")
	}
	if c.Card.ClickGap < 0 {
		return fmt.Errorf("card.click_gap must be >= 0")
	}
	return nil
}
