// Package config loads simulation tuning from a YAML file, falling back
// to defaults for anything unset.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable simulation parameters.
type Config struct {
	Seed            int64   `yaml:"seed"`             // 0 = random
	Sites           int     `yaml:"sites"`
	Rows            int     `yaml:"rows"`
	Cols            int     `yaml:"cols"`
	EmployeesMin    int     `yaml:"employees_min"`
	EmployeesMax    int     `yaml:"employees_max"`
	ResourceDensity float64 `yaml:"resource_density"`

	ReallocateEvery uint64 `yaml:"reallocate_every"` // Quarters between labor passes
	TickMillis      int    `yaml:"tick_millis"`      // Real milliseconds per quarter

	AICount     int   `yaml:"ai_count"`
	AIFunds     int64 `yaml:"ai_funds"`
	PlayerFunds int64 `yaml:"player_funds"`

	DBPath  string `yaml:"db_path"`
	APIPort int    `yaml:"api_port"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Seed:            0,
		Sites:           5,
		Rows:            4,
		Cols:            5,
		EmployeesMin:    40,
		EmployeesMax:    120,
		ResourceDensity: 0.45,
		ReallocateEvery: 1,
		TickMillis:      1000,
		AICount:         3,
		AIFunds:         8000,
		PlayerFunds:     10000,
		DBPath:          "data/burgage.db",
		APIPort:         8080,
	}
}

// Load reads a config file over the defaults. A missing file is not an
// error — the defaults stand.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Sites < 1 {
		return fmt.Errorf("config: sites must be >= 1, got %d", c.Sites)
	}
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("config: lot grid %dx%d invalid", c.Rows, c.Cols)
	}
	if c.EmployeesMin < 0 || c.EmployeesMax < c.EmployeesMin {
		return fmt.Errorf("config: employee range [%d, %d] invalid", c.EmployeesMin, c.EmployeesMax)
	}
	if c.ResourceDensity < 0 || c.ResourceDensity > 1 {
		return fmt.Errorf("config: resource_density %v outside [0, 1]", c.ResourceDensity)
	}
	return nil
}
