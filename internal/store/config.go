package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DRAGLIST"

// Config is the merged configuration: defaults, then config.json, then
// DRAGLIST_* environment variables. CLI flags are applied by the caller.
type Config struct {
	List    ListConfig    `mapstructure:"list" json:"list"`
	Drag    DragConfig    `mapstructure:"drag" json:"drag"`
	TUI     TUIConfig     `mapstructure:"tui" json:"tui"`
	Journal JournalConfig `mapstructure:"journal" json:"journal"`
	Log     LogConfig     `mapstructure:"log" json:"log"`
	Serve   ServeConfig   `mapstructure:"serve" json:"serve"`
}

type ListConfig struct {
	// Count is the number of seeded items.
	Count int `mapstructure:"count" json:"count"`
	// ItemHeight and Gap are in terminal lines.
	ItemHeight int `mapstructure:"item_height" json:"item_height"`
	Gap        int `mapstructure:"gap" json:"gap"`
}

type DragConfig struct {
	Throttle   time.Duration `mapstructure:"throttle" json:"throttle"`
	Transition time.Duration `mapstructure:"transition" json:"transition"`
}

type TUIConfig struct {
	// Glyphs selects the glyph set ("unicode", "ascii").
	Glyphs string `mapstructure:"glyphs" json:"glyphs"`
	// Theme is "auto", "light" or "dark".
	Theme string `mapstructure:"theme" json:"theme"`
}

type JournalConfig struct {
	// Path is the sqlite file for the reorder journal. Empty disables it.
	Path string `mapstructure:"path" json:"path"`
}

type LogConfig struct {
	File  string `mapstructure:"file" json:"file"`
	Level string `mapstructure:"level" json:"level"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr" json:"addr"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("list.count", 100)
	v.SetDefault("list.item_height", 1)
	v.SetDefault("list.gap", 1)
	v.SetDefault("drag.throttle", "16ms")
	v.SetDefault("drag.transition", "150ms")
	v.SetDefault("tui.glyphs", "unicode")
	v.SetDefault("tui.theme", "auto")
	v.SetDefault("journal.path", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("serve.addr", "127.0.0.1:3334")
}

// DefaultConfig returns the built-in defaults with no file or env applied.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)
	return c
}

// ConfigDir returns the directory holding config.json. DRAGLIST_CONFIG_DIR
// overrides ~/.draglist (keeps unit tests from touching the home directory).
func ConfigDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("DRAGLIST_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".draglist"), nil
}

// ConfigPath returns config.json under dir, or under ConfigDir when dir is empty.
func ConfigPath(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		d, err := ConfigDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads config.json from dir (ConfigDir when empty). A missing
// file is not an error.
func LoadConfig(dir string) (Config, error) {
	path, err := ConfigPath(dir)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate rejects values the list view cannot work with.
func (c Config) Validate() error {
	switch {
	case c.List.Count < 0:
		return fmt.Errorf("list.count must be >= 0, got %d", c.List.Count)
	case c.List.ItemHeight < 1:
		return fmt.Errorf("list.item_height must be >= 1, got %d", c.List.ItemHeight)
	case c.List.Gap < 0:
		return fmt.Errorf("list.gap must be >= 0, got %d", c.List.Gap)
	case c.Drag.Throttle < 0:
		return fmt.Errorf("drag.throttle must be >= 0, got %s", c.Drag.Throttle)
	case c.Drag.Transition < 0:
		return fmt.Errorf("drag.transition must be >= 0, got %s", c.Drag.Transition)
	}
	switch strings.ToLower(c.TUI.Glyphs) {
	case "", "unicode", "utf8", "ascii":
	default:
		return fmt.Errorf("tui.glyphs: unknown glyph set %q", c.TUI.Glyphs)
	}
	switch strings.ToLower(c.TUI.Theme) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("tui.theme: unknown theme %q", c.TUI.Theme)
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLogLevel maps debug|info|warn|error to a slog level. Empty is info.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}

// Settings is the on-disk shape of c. Durations are written as strings so
// the file stays hand-editable.
func (c Config) Settings() map[string]any {
	v := viper.New()
	v.Set("list.count", c.List.Count)
	v.Set("list.item_height", c.List.ItemHeight)
	v.Set("list.gap", c.List.Gap)
	v.Set("drag.throttle", c.Drag.Throttle.String())
	v.Set("drag.transition", c.Drag.Transition.String())
	v.Set("tui.glyphs", c.TUI.Glyphs)
	v.Set("tui.theme", c.TUI.Theme)
	v.Set("journal.path", c.Journal.Path)
	v.Set("log.file", c.Log.File)
	v.Set("log.level", c.Log.Level)
	v.Set("serve.addr", c.Serve.Addr)
	return v.AllSettings()
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

// SaveConfig writes cfg to dir (ConfigDir when empty). The previous file, if
// any, is kept as config.json.bak.
func SaveConfig(dir string, cfg Config) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	path, err := ConfigPath(dir)
	if err != nil {
		return "", err
	}
	dir = filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := json.MarshalIndent(cfg.Settings(), "", "  ")
	if err != nil {
		return "", err
	}
	b = append(b, '\n')

	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	if err := atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
