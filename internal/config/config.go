// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Config represents the application configuration
type Config struct {
	DefaultServer    string            `toml:"default_server"`
	Servers          []Server          `toml:"servers"`
	PageSize         int               `toml:"page_size"`
	PageSizes        []int             `toml:"page_sizes"`
	RequestTimeoutMs int               `toml:"request_timeout_ms"`
	Relay            RelayConfig       `toml:"relay"`
	Theme            Theme             `toml:"theme_colors"`
	Keys             KeyMap            `toml:"keys"`
	CellClasses      map[string]string `toml:"cell_classes"` // class name -> color or text attribute

	path string
}

// RelayConfig tunes event stream liveness
type RelayConfig struct {
	CheckIntervalMs int `toml:"check_interval_ms"`
	StaleAfterMs    int `toml:"stale_after_ms"`
}

func (r RelayConfig) CheckInterval() time.Duration {
	return time.Duration(r.CheckIntervalMs) * time.Millisecond
}

func (r RelayConfig) StaleAfter() time.Duration {
	return time.Duration(r.StaleAfterMs) * time.Millisecond
}

// Theme defines the color palette
type Theme struct {
	TextPrimary   string `toml:"text_primary"`
	TextSecondary string `toml:"text_secondary"`
	TextFaint     string `toml:"text_faint"`
	Accent        string `toml:"accent"`
	Success       string `toml:"success"`
	Error         string `toml:"error"`
	Highlight     string `toml:"highlight"`
	Warning       string `toml:"warning"`
	Link          string `toml:"link"`
	BgSecondary   string `toml:"bg_secondary"`
}

// KeyMap defines key bindings
type KeyMap struct {
	Exit        []string `toml:"exit"`
	Focus       []string `toml:"focus"`
	Select      []string `toml:"select"`
	NextPage    []string `toml:"next_page"`
	PrevPage    []string `toml:"prev_page"`
	ScrollLeft  []string `toml:"scroll_left"`
	ScrollRight []string `toml:"scroll_right"`
	Sort        []string `toml:"sort"`
	MultiSort   []string `toml:"multi_sort"`
	MoveLeft    []string `toml:"move_left"`
	MoveRight   []string `toml:"move_right"`
	Wider       []string `toml:"wider"`
	Narrower    []string `toml:"narrower"`
	PageSize    []string `toml:"page_size"`
	Refresh     []string `toml:"refresh"`
	CopyCell    []string `toml:"copy_cell"`
	CopyLink    []string `toml:"copy_link"`
	NewTab      []string `toml:"new_tab"`
	CloseTab    []string `toml:"close_tab"`
	NextTab     []string `toml:"next_tab"`
	PrevTab     []string `toml:"prev_tab"`
	History     []string `toml:"history"`
	Help        []string `toml:"help"`
}

// Server is a frogtable server the client can connect to
type Server struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// DefaultConfig returns a config with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultServer:    "local",
		Servers:          []Server{{Name: "local", URL: "http://localhost:3000"}},
		PageSize:         100,
		PageSizes:        []int{25, 50, 100, 250, 500},
		RequestTimeoutMs: 30000,
		Relay: RelayConfig{
			CheckIntervalMs: 5000,
			StaleAfterMs:    10000,
		},
		Theme: Theme{
			// Nord Theme Defaults
			TextPrimary:   "#D8DEE9",
			TextSecondary: "#81A1C1",
			TextFaint:     "#4C566A",
			Accent:        "#88C0D0",
			Success:       "#A3BE8C",
			Error:         "#BF616A",
			Highlight:     "#8FBCBB",
			Warning:       "#D08770",
			Link:          "#5E81AC",
			BgSecondary:   "#3B4252",
		},
		Keys: KeyMap{
			Exit:        []string{"ctrl+c", "q"},
			Focus:       []string{"tab"},
			Select:      []string{"enter"},
			NextPage:    []string{"n", "pgdown"},
			PrevPage:    []string{"b", "pgup"},
			ScrollLeft:  []string{"h", "left"},
			ScrollRight: []string{"l", "right"},
			Sort:        []string{"s"},
			MultiSort:   []string{"S"},
			MoveLeft:    []string{"<"},
			MoveRight:   []string{">"},
			Wider:       []string{"+", "="},
			Narrower:    []string{"-"},
			PageSize:    []string{"z"},
			Refresh:     []string{"r", "ctrl+r"},
			CopyCell:    []string{"y"},
			CopyLink:    []string{"Y"},
			NewTab:      []string{"t"},
			CloseTab:    []string{"x"},
			NextTab:     []string{"]"},
			PrevTab:     []string{"["},
			History:     []string{"H"},
			Help:        []string{"?"},
		},
		CellClasses: map[string]string{
			"error":   "#BF616A",
			"warn":    "#EBCB8B",
			"ok":      "#A3BE8C",
			"muted":   "faint",
			"strong":  "bold",
			"em":      "italic",
			"link":    "underline",
			"info":    "#88C0D0",
			"accent":  "#B48EAD",
			"success": "#A3BE8C",
		},
	}
}

// ConfigPath returns the XDG-compliant config file path
func ConfigPath() (string, error) {
	return xdg.ConfigFile("frogtable/config.toml")
}

// DataPath returns the path of the local state database
func DataPath() (string, error) {
	return xdg.DataFile("frogtable/state.db")
}

// Load loads the config from the default location, creating it on first run
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the config at path, creating it with defaults if missing
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		// First run: create default
		cfg := DefaultConfig()
		cfg.path = path
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	cfg.path = path

	// Populate defaults for missing fields (migration)
	if cfg.migrate(DefaultConfig()) {
		// keep in-memory defaults when the file is read-only
		_ = cfg.Save()
	}

	return &cfg, nil
}

func (c *Config) migrate(defaults *Config) (updated bool) {
	if c.Theme.TextPrimary == "" {
		c.Theme = defaults.Theme
		updated = true
	}
	if len(c.Keys.Exit) == 0 {
		c.Keys = defaults.Keys
		updated = true
	}
	if c.PageSize <= 0 {
		c.PageSize = defaults.PageSize
		updated = true
	}
	if len(c.PageSizes) == 0 {
		c.PageSizes = defaults.PageSizes
		updated = true
	}
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = defaults.RequestTimeoutMs
		updated = true
	}
	if c.Relay.CheckIntervalMs <= 0 {
		c.Relay.CheckIntervalMs = defaults.Relay.CheckIntervalMs
		updated = true
	}
	if c.Relay.StaleAfterMs <= 0 {
		c.Relay.StaleAfterMs = defaults.Relay.StaleAfterMs
		updated = true
	}
	if c.CellClasses == nil {
		c.CellClasses = defaults.CellClasses
		updated = true
	}
	return updated
}

// RequestTimeout is the limit for a single rpc call
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Save writes the config to the file it was loaded from
func (c *Config) Save() error {
	path := c.path
	if path == "" {
		var err error
		if path, err = ConfigPath(); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
