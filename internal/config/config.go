package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type RoomConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	MaxMembers    int           `mapstructure:"max_members"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type RateLimitConfig struct {
	MaxRequests     int           `mapstructure:"max_requests"`
	Window          time.Duration `mapstructure:"window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	CloseOnExceed   bool          `mapstructure:"close_on_exceed"`
}

type Config struct {
	Mode           string          `mapstructure:"mode"`
	LogLevel       string          `mapstructure:"log_level"`
	Port           int             `mapstructure:"port"`
	StaticPath     string          `mapstructure:"static_path"`
	ReadLimit      int64           `mapstructure:"read_limit"`
	PingPeriod     time.Duration   `mapstructure:"ping_period"`
	WriteWait      time.Duration   `mapstructure:"write_wait"`
	Secret         string          `mapstructure:"secret"`
	AllowedOrigins []string        `mapstructure:"allowed_origins"`
	Room           RoomConfig      `mapstructure:"room"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
	MaxTextLength  int             `mapstructure:"max_text_length"`
	SlowOperation  time.Duration   `mapstructure:"slow_operation"`
	Backpressure   string          `mapstructure:"backpressure"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 4000)
	v.SetDefault("static_path", "./web")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "10s")
	v.SetDefault("secret", "ephero-dev-secret")
	v.SetDefault("allowed_origins", []string{})
	v.SetDefault("room.ttl", "5m")
	v.SetDefault("room.max_members", 10)
	v.SetDefault("room.sweep_interval", "30s")
	v.SetDefault("rate_limit.max_requests", 100)
	v.SetDefault("rate_limit.window", "1m")
	v.SetDefault("rate_limit.cleanup_interval", "1m")
	v.SetDefault("rate_limit.close_on_exceed", true)
	v.SetDefault("max_text_length", 10000)
	v.SetDefault("slow_operation", "1s")
	v.SetDefault("backpressure", "drop")
}

// Load reads config/config.<CONFIG_ENV>.yaml (CONFIG_ENV defaults to dev).
// A missing file is not an error. Any key can be overridden from the
// environment as EPHERO_<KEY>, e.g. EPHERO_ROOM_TTL=2m; a .env file in the
// working directory is loaded first.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("module", "config").Msg("could not read .env")
	}

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	v.SetEnvPrefix("EPHERO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Dur("room_ttl", cfg.Room.TTL).Msg("config ready")
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	positive := func(name string, ok bool) {
		if !ok {
			errs = append(errs, fmt.Errorf("%s must be positive", name))
		}
	}
	positive("port", c.Port > 0 && c.Port < 65536)
	positive("read_limit", c.ReadLimit > 0)
	positive("ping_period", c.PingPeriod > 0)
	positive("write_wait", c.WriteWait > 0)
	positive("room.ttl", c.Room.TTL > 0)
	positive("room.max_members", c.Room.MaxMembers > 0)
	positive("room.sweep_interval", c.Room.SweepInterval > 0)
	positive("rate_limit.max_requests", c.RateLimit.MaxRequests > 0)
	positive("rate_limit.window", c.RateLimit.Window > 0)
	positive("rate_limit.cleanup_interval", c.RateLimit.CleanupInterval > 0)
	positive("max_text_length", c.MaxTextLength > 0)
	positive("slow_operation", c.SlowOperation > 0)
	switch c.Mode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("mode %q is not one of debug, release, test", c.Mode))
	}
	return errors.Join(errs...)
}
