package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ramanasai/quotes/internal/collection"
)

type LogConfig struct {
	Level string `mapstructure:"level"` // debug|info|warn|error
}

type StoreConfig struct {
	Backend    string `mapstructure:"backend"`    // sqlite|diskv
	Dir        string `mapstructure:"dir"`        // default ~/.local/share/quotes
	Passphrase string `mapstructure:"passphrase"` // non-empty seals values at rest
}

type SessionConfig struct {
	ID  string `mapstructure:"id"`  // default: parent process id
	Dir string `mapstructure:"dir"` // default: $TMPDIR/quotes-sessions
}

type RemoteConfig struct {
	URL             string        `mapstructure:"url"` // empty disables sync and posting
	Timeout         time.Duration `mapstructure:"timeout"`
	TextField       string        `mapstructure:"text_field"`
	CategoryField   string        `mapstructure:"category_field"`
	DefaultCategory string        `mapstructure:"default_category"`
}

type SyncConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Policy   string        `mapstructure:"policy"` // additive|authoritative
	OnStart  bool          `mapstructure:"on_start"`
}

type SelectionConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type NotifyConfig struct {
	Desktop  bool          `mapstructure:"desktop"`
	Duration time.Duration `mapstructure:"duration"`
}

type Config struct {
	Theme     string          `mapstructure:"theme"`
	Log       LogConfig       `mapstructure:"log"`
	Store     StoreConfig     `mapstructure:"store"`
	Session   SessionConfig   `mapstructure:"session"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Sync      SyncConfig      `mapstructure:"sync"`
	Selection SelectionConfig `mapstructure:"selection"`
	Notify    NotifyConfig    `mapstructure:"notify"`
}

const (
	BackendSQLite = "sqlite"
	BackendDiskv  = "diskv"
)

func Default() Config {
	return Config{
		Theme:   "default",
		Log:     LogConfig{Level: "info"},
		Store:   StoreConfig{Backend: BackendSQLite},
		Session: SessionConfig{},
		Remote: RemoteConfig{
			Timeout:       10 * time.Second,
			TextField:     "text",
			CategoryField: "category",
		},
		Sync: SyncConfig{
			Interval: 30 * time.Second,
			Policy:   string(collection.Additive),
			OnStart:  true,
		},
		Selection: SelectionConfig{MaxAttempts: 10},
		Notify:    NotifyConfig{Desktop: false, Duration: 3 * time.Second},
	}
}

// DefaultPath is $HOME/.config/quotes/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "quotes", "config.yaml"), nil
}

// Load reads the YAML file at path (DefaultPath when empty) over the
// defaults. A missing file is fine. QUOTES_* environment variables override
// file values, e.g. QUOTES_SYNC_POLICY.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	v.SetEnvPrefix("quotes")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// defaults
	v.SetDefault("theme", cfg.Theme)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.dir", cfg.Store.Dir)
	v.SetDefault("store.passphrase", cfg.Store.Passphrase)
	v.SetDefault("session.id", cfg.Session.ID)
	v.SetDefault("session.dir", cfg.Session.Dir)
	v.SetDefault("remote.url", cfg.Remote.URL)
	v.SetDefault("remote.timeout", cfg.Remote.Timeout)
	v.SetDefault("remote.text_field", cfg.Remote.TextField)
	v.SetDefault("remote.category_field", cfg.Remote.CategoryField)
	v.SetDefault("remote.default_category", cfg.Remote.DefaultCategory)
	v.SetDefault("sync.interval", cfg.Sync.Interval)
	v.SetDefault("sync.policy", cfg.Sync.Policy)
	v.SetDefault("sync.on_start", cfg.Sync.OnStart)
	v.SetDefault("selection.max_attempts", cfg.Selection.MaxAttempts)
	v.SetDefault("notify.desktop", cfg.Notify.Desktop)
	v.SetDefault("notify.duration", cfg.Notify.Duration)

	if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config unmarshal: %w", err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Sync.Policy = strings.ToLower(strings.TrimSpace(cfg.Sync.Policy))
	return cfg, cfg.Validate()
}

func isNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, os.ErrNotExist)
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Backend {
	case BackendSQLite, BackendDiskv:
	default:
		errs = append(errs, fmt.Errorf("store.backend: unknown backend %q", c.Store.Backend))
	}
	if _, err := collection.ParsePolicy(c.Sync.Policy); err != nil {
		errs = append(errs, fmt.Errorf("sync.policy: %w", err))
	}
	if c.Sync.Interval <= 0 {
		errs = append(errs, fmt.Errorf("sync.interval: must be positive, got %s", c.Sync.Interval))
	}
	if c.Selection.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("selection.max_attempts: must be at least 1, got %d", c.Selection.MaxAttempts))
	}
	return errors.Join(errs...)
}

// Policy returns the configured merge policy. Call after Validate.
func (c Config) Policy() collection.Policy {
	return collection.Policy(c.Sync.Policy)
}

// RemoteEnabled reports whether a remote source is configured.
func (c Config) RemoteEnabled() bool {
	return strings.TrimSpace(c.Remote.URL) != ""
}
