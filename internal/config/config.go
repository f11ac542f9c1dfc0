package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/EgorLis/bmpresence/internal/log"
)

const (
	DefaultAPIBaseURL   = "https://api.battlemetrics.com/servers"
	DefaultInterval     = 60 * time.Second
	MinInterval         = 15 * time.Second
	DefaultJoiningField = "details.rust_queued_players"

	EnvDiscordToken = "DISCORD_TOKEN"
	EnvServerID     = "BATTLEMETRICS_SERVER_ID"
	EnvInterval     = "UPDATE_INTERVAL_SECONDS"
	EnvJoiningField = "BM_JOINING_FIELD"
	EnvBMToken      = "BATTLEMETRICS_TOKEN"
	EnvMetricsAddr  = "METRICS_ADDR"
	EnvLogLevel     = "LOG_LEVEL"
)

type Config struct {
	DiscordToken string
	ServerID     string
	Interval     time.Duration
	JoiningField string
	APIBaseURL   string

	// необязательные
	BMToken     string
	MetricsAddr string
	LogLevel    slog.Level
}

// Load читает .env (если есть) и окружение, затем валидирует результат.
// Конфиг с ошибкой наружу не отдаётся.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded, using process environment", "err", err)
	}

	cfg := Config{
		DiscordToken: strings.TrimSpace(os.Getenv(EnvDiscordToken)),
		ServerID:     strings.TrimSpace(os.Getenv(EnvServerID)),
		Interval:     readSeconds(EnvInterval, DefaultInterval),
		JoiningField: getEnvWithDefault(EnvJoiningField, DefaultJoiningField),
		APIBaseURL:   DefaultAPIBaseURL,
		BMToken:      strings.TrimSpace(os.Getenv(EnvBMToken)),
		MetricsAddr:  strings.TrimSpace(os.Getenv(EnvMetricsAddr)),
		LogLevel:     readLevel(EnvLogLevel, slog.LevelInfo),
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет инварианты конфига и перечисляет все нарушения разом.
func Validate(cfg Config) error {
	verr := &ValidationError{}
	if cfg.DiscordToken == "" {
		verr.Missing = append(verr.Missing, EnvDiscordToken)
	}
	if cfg.ServerID == "" {
		verr.Missing = append(verr.Missing, EnvServerID)
	}
	if cfg.Interval < MinInterval || cfg.Interval%time.Second != 0 {
		verr.Invalid = append(verr.Invalid,
			fmt.Sprintf("%s (must be a whole number of seconds >= %d)", EnvInterval, int(MinInterval/time.Second)))
	}
	if strings.TrimSpace(cfg.JoiningField) == "" {
		verr.Invalid = append(verr.Invalid, EnvJoiningField+" (must not be empty)")
	}
	if cfg.APIBaseURL == "" {
		verr.Invalid = append(verr.Invalid, "API base URL (must not be empty)")
	}
	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}

// Summary — строка для стартового лога, секреты скрыты.
func (c Config) Summary() string {
	return fmt.Sprintf("server=%s interval=%s joining_field=%s api=%s discord_token=%s bm_token=%s metrics=%q log_level=%s",
		c.ServerID,
		c.Interval,
		c.JoiningField,
		c.APIBaseURL,
		redactString(c.DiscordToken),
		redactString(c.BMToken),
		c.MetricsAddr,
		c.LogLevel,
	)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// readSeconds возвращает 0 для мусора и неположительных значений, Validate это отловит.
func readSeconds(name string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}

func readLevel(name string, def slog.Level) slog.Level {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return def
	}
	l, err := log.ParseLevel(raw)
	if err != nil {
		return def
	}
	return l
}

func redactString(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return "***REDACTED*** (len=" + strconv.Itoa(len(value)) + ")"
}
