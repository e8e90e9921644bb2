package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lanyardlab/badgeforge/pkg/fonts"
)

// ===== Config =====

// Config holds CLI defaults loaded from a TOML file. All fields are
// optional; a missing config file yields the zero Config.
//
// Example:
//
//	cache_dir = "/var/cache/badgeforge"
//
//	[server]
//	addr = ":8080"
//	store = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "badgeforge"
//	cache = "redis"
//	redis_addr = "localhost:6379"
//
//	[[fonts]]
//	family = "Inter"
//	weight = "bold"
//	path = "/usr/share/fonts/inter/Inter-Bold.ttf"
type Config struct {
	CacheDir string       `toml:"cache_dir"`
	Fonts    []FontConfig `toml:"fonts"`
	Server   ServerConfig `toml:"server"`
}

// FontConfig registers one TTF file under a family and weight.
type FontConfig struct {
	Family string `toml:"family"`
	Weight string `toml:"weight"`
	Path   string `toml:"path"`
}

// ServerConfig holds defaults for the serve command.
type ServerConfig struct {
	Addr          string `toml:"addr"`
	Store         string `toml:"store"`
	DataDir       string `toml:"data_dir"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Cache         string `toml:"cache"`
	RedisAddr     string `toml:"redis_addr"`
}

// LoadConfig reads the TOML config at path. An empty path falls back to
// ~/.config/badgeforge/config.toml; if no file exists there the zero Config
// is returned rather than an error.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		def, err := defaultConfigPath()
		if err != nil {
			return &Config{}, nil
		}
		path = def
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// defaultConfigPath returns the config location using XDG standard
// (~/.config/badgeforge/config.toml).
func defaultConfigPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// registerFonts loads each configured TTF into the registry.
func (c *Config) registerFonts(reg *fonts.Registry) error {
	for _, f := range c.Fonts {
		w, err := parseWeight(f.Weight)
		if err != nil {
			return err
		}
		if err := reg.RegisterTTF(f.Family, w, f.Path); err != nil {
			return err
		}
	}
	return nil
}

// parseWeight maps a config weight string onto a registry weight.
func parseWeight(s string) (fonts.Weight, error) {
	switch s {
	case "", "regular":
		return fonts.Regular, nil
	case "medium":
		return fonts.Medium, nil
	case "bold":
		return fonts.Bold, nil
	default:
		return "", fmt.Errorf("unknown font weight %q (must be 'regular', 'medium', or 'bold')", s)
	}
}
