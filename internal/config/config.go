package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"

	"github.com/justyntemme/quiver/internal/debug"
	"github.com/justyntemme/quiver/internal/xdg"
)

// Config holds all user-configurable settings loaded from the config file
type Config struct {
	Width     float32         `json:"width" mapstructure:"width"`
	Height    float32         `json:"height" mapstructure:"height"`
	Term      string          `json:"term" mapstructure:"term"` // Terminal command line, e.g. "alacritty -e"
	FontSize  float32         `json:"font_size" mapstructure:"font_size"`
	BgColor   string          `json:"bg_color" mapstructure:"bg_color"`
	FontColor string          `json:"font_color" mapstructure:"font_color"`
	Icon      IconConfig      `json:"icon" mapstructure:"icon"`
	InputText InputTextConfig `json:"input_text" mapstructure:"input_text"`
	ListItems ListItemsConfig `json:"list_items" mapstructure:"list_items"`
	Search    SearchConfig    `json:"search" mapstructure:"search"`
	Hotkeys   HotkeysConfig   `json:"hotkeys" mapstructure:"hotkeys"`
}

// IconConfig holds icon lookup settings
type IconConfig struct {
	Enabled          bool   `json:"enabled" mapstructure:"enabled"`
	Size             int    `json:"size" mapstructure:"size"`
	Theme            string `json:"theme" mapstructure:"theme"`
	FallbackIconPath string `json:"fallback_icon_path" mapstructure:"fallback_icon_path"`
}

// MarginConfig is a box of paddings in dp
type MarginConfig struct {
	Top    float32 `json:"top" mapstructure:"top"`
	Right  float32 `json:"right" mapstructure:"right"`
	Bottom float32 `json:"bottom" mapstructure:"bottom"`
	Left   float32 `json:"left" mapstructure:"left"`
}

// InputTextConfig holds the input box settings. Zero font size and empty
// colors inherit the top-level values.
type InputTextConfig struct {
	FontSize  float32      `json:"font_size" mapstructure:"font_size"`
	BgColor   string       `json:"bg_color" mapstructure:"bg_color"`
	FontColor string       `json:"font_color" mapstructure:"font_color"`
	Margin    MarginConfig `json:"margin" mapstructure:"margin"`
	Padding   MarginConfig `json:"padding" mapstructure:"padding"`
}

// ListItemsConfig holds the list view settings
type ListItemsConfig struct {
	FontSize          float32      `json:"font_size" mapstructure:"font_size"`
	FontColor         string       `json:"font_color" mapstructure:"font_color"`
	SelectedFontColor string       `json:"selected_font_color" mapstructure:"selected_font_color"`
	MatchColor        string       `json:"match_color" mapstructure:"match_color"`
	Margin            MarginConfig `json:"margin" mapstructure:"margin"`
	ItemSpacing       float32      `json:"item_spacing" mapstructure:"item_spacing"`
	IconSpacing       float32      `json:"icon_spacing" mapstructure:"icon_spacing"`
	HideActions       bool         `json:"hide_actions" mapstructure:"hide_actions"`
	ActionLeftMargin  float32      `json:"action_left_margin" mapstructure:"action_left_margin"`
	ShrinkToFit       bool         `json:"shrink_to_fit" mapstructure:"shrink_to_fit"`
}

// SearchConfig holds matching settings
type SearchConfig struct {
	Algorithm string `json:"algorithm" mapstructure:"algorithm"` // "fzf" | "simple"
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu        sync.RWMutex
	config    *Config
	path      string
	overrides map[string]any
	parseErr  error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager for path. An empty path
// selects ConfigPath().
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config:    DefaultConfig(),
		path:      path,
		overrides: make(map[string]any),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Width:     400,
		Height:    512,
		FontSize:  24,
		BgColor:   "#272822ee",
		FontColor: "#f8f8f2ff",
		Icon: IconConfig{
			Enabled: true,
			Size:    16,
			Theme:   "hicolor",
		},
		InputText: InputTextConfig{
			BgColor: "#75715ec0",
			Margin:  MarginConfig{Top: 5, Right: 5, Bottom: 5, Left: 5},
			Padding: MarginConfig{Top: 2, Right: 8, Bottom: 2, Left: 8},
		},
		ListItems: ListItemsConfig{
			SelectedFontColor: "#a6e22eff",
			MatchColor:        "#f92672ff",
			Margin:            MarginConfig{Top: 5, Right: 0, Bottom: 0, Left: 10},
			ItemSpacing:       2,
			IconSpacing:       5,
			ActionLeftMargin:  60,
		},
		Search: SearchConfig{
			Algorithm: "fzf",
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// ConfigPath returns the config file path: $XDG_CONFIG_HOME/quiver/config.json
func ConfigPath() string {
	return xdg.New().ConfigFile()
}

// Path returns the file this manager reads.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Set overrides key (dotted viper key, e.g. "list_items.font_size") on every
// subsequent Load. Command-line flags use it.
func (m *Manager) Set(key string, value any) {
	m.mu.Lock()
	m.overrides[key] = value
	m.mu.Unlock()
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	// Ensure config directory exists
	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		log.Printf("Config: failed to create directory %s: %v", configDir, err)
		return err
	}

	_, err := os.Stat(m.path)
	switch {
	case os.IsNotExist(err):
		log.Printf("Config: creating default config at %s", m.path)
		if saveErr := writeConfig(m.path, DefaultConfig()); saveErr != nil {
			log.Printf("Config: failed to save default config: %v", saveErr)
			return saveErr
		}
	case err != nil:
		log.Printf("Config: failed to stat %s: %v", m.path, err)
		return err
	}

	cfg, err := m.read()
	if err != nil {
		// Store error for UI display, use defaults
		log.Printf("Config: parse error: %v", err)
		m.parseErr = err
		m.config = m.applyOverrides(DefaultConfig())
		return nil
	}

	log.Printf("Config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

// read layers the file and QUIVER_* environment variables over the defaults.
func (m *Manager) read() (*Config, error) {
	v := m.newViper()

	defaults, err := json.Marshal(DefaultConfig())
	if err != nil {
		return nil, err
	}
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, err
	}

	v.SetConfigFile(m.path)
	v.SetConfigType(configType(m.path))
	if err := v.MergeInConfig(); err != nil {
		return nil, err
	}
	for k, val := range m.overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	debug.Log(debug.APP, "Config: keys=%d", len(v.AllKeys()))
	return &cfg, nil
}

func (m *Manager) newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("QUIVER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// applyOverrides layers QUIVER_* variables and the overrides over cfg, so
// they still apply when the file is broken.
func (m *Manager) applyOverrides(cfg *Config) *Config {
	data, err := json.Marshal(cfg)
	if err != nil {
		return cfg
	}
	v := m.newViper()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return cfg
	}
	for k, val := range m.overrides {
		v.Set(k, val)
	}
	var out Config
	if err := v.Unmarshal(&out); err != nil {
		log.Printf("Config: bad override: %v", err)
		return cfg
	}
	return &out
}

// configType maps the file extension to a viper config type; files
// without one are read as JSON.
func configType(path string) string {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "json"
	}
	return strings.ToLower(ext)
}

// Validate checks the values viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := c.Palette(); err != nil {
		return err
	}
	if c.Icon.Size < 0 {
		return fmt.Errorf("icon.size must not be negative, got %d", c.Icon.Size)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font_size must be positive, got %v", c.FontSize)
	}
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	return writeConfig(m.path, m.config)
}

// writeConfig encodes cfg in the format named by the extension of path.
func writeConfig(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	typ := configType(path)
	if typ == "json" {
		return os.WriteFile(path, data, 0o644)
	}

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
		return err
	}
	v.SetConfigType(typ)
	return v.WriteConfigAs(path)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// GenerateConfig backs up the existing config at path and writes a fresh default config
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig(path string) (backupPath string, err error) {
	if path == "" {
		path = ConfigPath()
	}

	if _, err := os.Stat(path); err == nil {
		// Create backup with timestamp
		timestamp := time.Now().Format("20060102-150405")
		ext := filepath.Ext(path)
		backupPath = strings.TrimSuffix(path, ext) + ".backup." + timestamp + ext

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := writeConfig(path, DefaultConfig()); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}

	return backupPath, nil
}
