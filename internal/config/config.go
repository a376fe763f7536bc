// Package config loads ottomeasure settings from TOML, a .env file and
// OTTOMEASURE_* environment variables, in that order of increasing
// precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

//go:embed sample_config.toml
var sampleConfig string

// Display controls how quantities are shown.
type Display struct {
	System    string `toml:"system"`
	Precision int    `toml:"precision"`
}

// Logging controls log output.
type Logging struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Density selects where ingredient densities come from.
type Density struct {
	Source       string `toml:"source"` // builtin, file or database
	CatalogFile  string `toml:"catalog_file"`
	DatabasePath string `toml:"database_path"`
}

// Recipes points at a directory of YAML recipes. Empty means the built-in
// recipes.
type Recipes struct {
	Directory string `toml:"directory"`
}

// Server configures the HTTP API.
type Server struct {
	Bind string `toml:"bind"`
}

// Config encapsulates all configuration values for ottomeasure.
type Config struct {
	Display Display `toml:"display"`
	Logging Logging `toml:"logging"`
	Density Density `toml:"density"`
	Recipes Recipes `toml:"recipes"`
	Server  Server  `toml:"server"`
}

// Density sources.
const (
	DensityBuiltin  = "builtin"
	DensityFile     = "file"
	DensityDatabase = "database"
)

const (
	defaultConfigPath   = "~/.config/ottomeasure/config.toml"
	projectConfigName   = "ottomeasure.toml"
	defaultDatabasePath = "~/.local/share/ottomeasure/densities.db"
	defaultBind         = "127.0.0.1:7480"
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Display: Display{System: domain.TargetOriginal.String(), Precision: 2},
		Logging: Logging{Level: "normal"},
		Density: Density{Source: DensityBuiltin, DatabasePath: defaultDatabasePath},
		Server:  Server{Bind: defaultBind},
	}
}

// DefaultConfigPath returns the absolute path of the user config file.
func DefaultConfigPath() (string, error) {
	return ExpandPath(defaultConfigPath)
}

// LoadEnvFile reads KEY=value pairs from a .env file into the process
// environment without overriding variables already set. A missing file
// is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// Load locates, parses, and validates a configuration file. It returns the
// path that was used and whether the file existed. Environment overrides
// are applied after the file.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

// Target returns the configured display system.
func (c *Config) Target() domain.Target {
	t, err := domain.ParseTarget(c.Display.System)
	if err != nil {
		return domain.TargetOriginal
	}
	return t
}

// Sample returns the annotated sample configuration.
func Sample() string {
	return sampleConfig
}

// CreateSample writes the sample configuration to path. An existing file
// is left alone unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s: %w", path, domain.ErrAlreadyExists)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

var envOverrides = []struct {
	name  string
	apply func(c *Config, v string)
}{
	{"OTTOMEASURE_SYSTEM", func(c *Config, v string) { c.Display.System = v }},
	{"OTTOMEASURE_LOG_LEVEL", func(c *Config, v string) { c.Logging.Level = v }},
	{"OTTOMEASURE_LOG_FILE", func(c *Config, v string) { c.Logging.File = v }},
	{"OTTOMEASURE_DENSITY_SOURCE", func(c *Config, v string) { c.Density.Source = v }},
	{"OTTOMEASURE_DENSITY_CATALOG", func(c *Config, v string) { c.Density.CatalogFile = v }},
	{"OTTOMEASURE_DENSITY_DB", func(c *Config, v string) { c.Density.DatabasePath = v }},
	{"OTTOMEASURE_RECIPES_DIR", func(c *Config, v string) { c.Recipes.Directory = v }},
	{"OTTOMEASURE_BIND", func(c *Config, v string) { c.Server.Bind = v }},
}

func (c *Config) applyEnv() {
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.name); ok && strings.TrimSpace(v) != "" {
			o.apply(c, strings.TrimSpace(v))
		}
	}
}

func (c *Config) normalize() error {
	c.Display.System = strings.ToLower(strings.TrimSpace(c.Display.System))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	c.Density.Source = strings.ToLower(strings.TrimSpace(c.Density.Source))
	if c.Density.Source == "" {
		c.Density.Source = DensityBuiltin
	}
	c.Server.Bind = strings.TrimSpace(c.Server.Bind)
	if c.Server.Bind == "" {
		c.Server.Bind = defaultBind
	}

	var err error
	if c.Logging.File, err = ExpandPath(c.Logging.File); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Density.CatalogFile, err = ExpandPath(c.Density.CatalogFile); err != nil {
		return fmt.Errorf("density.catalog_file: %w", err)
	}
	if strings.TrimSpace(c.Density.DatabasePath) == "" {
		c.Density.DatabasePath = defaultDatabasePath
	}
	if c.Density.DatabasePath, err = ExpandPath(c.Density.DatabasePath); err != nil {
		return fmt.Errorf("density.database_path: %w", err)
	}
	if c.Recipes.Directory, err = ExpandPath(c.Recipes.Directory); err != nil {
		return fmt.Errorf("recipes.directory: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := ExpandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// ExpandPath resolves "~" and makes pathValue absolute. Empty stays empty.
func ExpandPath(pathValue string) (string, error) {
	if strings.TrimSpace(pathValue) == "" {
		return "", nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
