package internal

import (
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config represents the application configuration. The keys are a superset
// of the legacy config.json (api_url, api_key), which loads unchanged.
type Config struct {
	APIURL        string        `yaml:"api_url"`
	APIKey        string        `yaml:"api_key"`
	Locale        string        `yaml:"locale"`
	Tags          []string      `yaml:"tags"`
	Timeout       time.Duration `yaml:"timeout"`
	LogLevel      slog.Level    `yaml:"log_level"`
	BackupDir     string        `yaml:"backup_dir"`
	JournalPath   string        `yaml:"journal_path"`
	WatchDebounce time.Duration `yaml:"watch_debounce"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.APIURL, validation.Required, is.URL),
		validation.Field(&c.APIKey, validation.Required),
		validation.Field(&c.Locale, validation.Required),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.BackupDir, validation.Required),
		validation.Field(&c.WatchDebounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		Locale:        "fr",
		Tags:          []string{"infra"},
		Timeout:       30 * time.Second,
		LogLevel:      slog.LevelWarn,
		BackupDir:     ".backup",
		JournalPath:   ".backup/journal.db",
		WatchDebounce: 500 * time.Millisecond,
	}
}
