package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"intervalTimerService/internal/clock"
)

// NotificationStyle selects how interval notifications are delivered
type NotificationStyle string

const (
	NotificationSimple NotificationStyle = "simple"
	NotificationSystem NotificationStyle = "system"
)

// Config is the full service configuration
type Config struct {
	WebPort      string
	RedisAddr    string
	DSN          string
	JWTSecret    string
	SettingsPath string
	Timer        TimerConfig

	// AllowAdminRegistration exposes the unauthenticated admin sign-up route
	AllowAdminRegistration bool
}

// TimerConfig is the YAML timer settings file
type TimerConfig struct {
	FocusIntervalDuration int               `yaml:"focus_interval_duration"`
	ShortBreakDuration    int               `yaml:"short_break_duration"`
	LongBreakDuration     int               `yaml:"long_break_duration"`
	LongBreakAfter        int               `yaml:"long_break_after"`
	ResetTime             string            `yaml:"reset_time"`
	NotificationStyle     NotificationStyle `yaml:"notification_style"`
	AutoReset             bool              `yaml:"auto_reset"`
}

// DefaultTimerConfig returns the classic 25/5/15 cycle
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		FocusIntervalDuration: 25,
		ShortBreakDuration:    5,
		LongBreakDuration:     15,
		LongBreakAfter:        4,
		ResetTime:             "00:00",
		NotificationStyle:     NotificationSimple,
		AutoReset:             true,
	}
}

// Load reads the environment and, when TIMER_SETTINGS is set, the YAML settings file
func Load() (*Config, error) {
	cfg := &Config{
		WebPort:      getEnv("WEB_PORT", "8080"),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		DSN:          os.Getenv("DSN"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SettingsPath: os.Getenv("TIMER_SETTINGS"),
		Timer:        DefaultTimerConfig(),
	}

	allowAdmin, err := strconv.ParseBool(getEnv("ALLOW_ADMIN_REGISTRATION", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid ALLOW_ADMIN_REGISTRATION: %w", err)
	}
	cfg.AllowAdminRegistration = allowAdmin

	if cfg.SettingsPath != "" {
		timer, err := LoadTimerConfig(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
		cfg.Timer = *timer
	}

	if _, err := cfg.Timer.Settings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadTimerConfig reads a settings file. Omitted keys keep their defaults;
// a missing file yields the defaults.
func LoadTimerConfig(path string) (*TimerConfig, error) {
	timer := DefaultTimerConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ Timer settings %s not found, using defaults", path)
		return &timer, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read timer settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &timer); err != nil {
		return nil, fmt.Errorf("failed to parse timer settings: %w", err)
	}
	return &timer, nil
}

// Save writes the settings as YAML
func (t TimerConfig) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Settings converts the file representation into validated clock settings
func (t TimerConfig) Settings() (clock.Settings, error) {
	resetTime, err := clock.ParseTimeOfDay(t.ResetTime)
	if err != nil {
		return clock.Settings{}, fmt.Errorf("invalid reset_time: %w", err)
	}

	switch t.NotificationStyle {
	case NotificationSimple, NotificationSystem:
	default:
		return clock.Settings{}, fmt.Errorf("invalid notification_style %q", t.NotificationStyle)
	}

	settings := clock.Settings{
		FocusIntervalDuration: clock.Minutes(t.FocusIntervalDuration),
		ShortBreakDuration:    clock.Minutes(t.ShortBreakDuration),
		LongBreakDuration:     clock.Minutes(t.LongBreakDuration),
		LongBreakAfter:        t.LongBreakAfter,
		ResetTime:             resetTime,
	}
	if err := settings.Validate(); err != nil {
		return clock.Settings{}, err
	}
	return settings, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
