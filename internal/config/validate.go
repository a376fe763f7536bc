package config

import (
	"errors"
	"fmt"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/logger"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if _, err := domain.ParseTarget(c.Display.System); err != nil {
		return fmt.Errorf("display.system: %w", err)
	}
	if c.Display.Precision < 0 || c.Display.Precision > 6 {
		return errors.New("display.precision must be between 0 and 6")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return c.validateDensity()
}

func (c *Config) validateDensity() error {
	switch c.Density.Source {
	case DensityBuiltin:
		return nil
	case DensityFile:
		if c.Density.CatalogFile == "" {
			return errors.New("density.catalog_file is required when density.source is \"file\"")
		}
		return nil
	case DensityDatabase:
		if c.Density.DatabasePath == "" {
			return errors.New("density.database_path is required when density.source is \"database\"")
		}
		return nil
	default:
		return fmt.Errorf("density.source must be builtin, file or database, got %q", c.Density.Source)
	}
}
