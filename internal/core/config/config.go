package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/neilberkman/espressolog/internal/core/models"
)

type Config struct {
	LogPath        string             // CSV brew log
	ReportTemplate string             // mustache template for suggestion reports (optional)
	Defaults       models.BrewSession // starting values for a new brew
}

type tomlConfig struct {
	LogPath  string       `toml:"log_path"`
	Defaults tomlDefaults `toml:"defaults"`
}

type tomlDefaults struct {
	BeanName        *string  `toml:"bean_name"`
	Grinder         *string  `toml:"grinder"`
	Dose            *float64 `toml:"dose"`
	GrindSize       *float64 `toml:"grind_size"`
	PreInfusionTime *float64 `toml:"pre_infusion_time"`
	Yield           *float64 `toml:"yield"`
	ShotTime        *float64 `toml:"shot_time"`
}

// Dir returns ~/.config/espressolog, or "" when the home directory is unknown
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "espressolog")
}

// Load reads config from ~/.config/espressolog/
func Load() (*Config, error) {
	return LoadFrom(Dir())
}

// LoadFrom reads config.toml and report_template.mustache from dir. Missing
// files, or an empty dir, leave the defaults in place.
func LoadFrom(configDir string) (*Config, error) {
	cfg := &Config{
		Defaults: models.DefaultSession(),
	}
	if configDir == "" {
		cfg.LogPath = "brew_log.csv"
		return cfg, nil // Use defaults
	}
	cfg.LogPath = filepath.Join(configDir, "brew_log.csv")

	tomlPath := filepath.Join(configDir, "config.toml")
	templatePath := filepath.Join(configDir, "report_template.mustache")

	// Load TOML config if it exists
	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err != nil {
			return cfg, err
		}
		if tc.LogPath != "" {
			cfg.LogPath = expandHome(tc.LogPath)
		}
		tc.Defaults.apply(&cfg.Defaults)
	}

	// If custom template exists, use it
	if data, err := os.ReadFile(templatePath); err == nil {
		cfg.ReportTemplate = string(data)
	}

	return cfg, nil
}

func (d tomlDefaults) apply(s *models.BrewSession) {
	if d.BeanName != nil {
		s.BeanName = *d.BeanName
	}
	if d.Grinder != nil {
		s.Grinder = *d.Grinder
	}
	if d.Dose != nil {
		s.Dose = *d.Dose
	}
	if d.GrindSize != nil {
		s.GrindSize = *d.GrindSize
	}
	if d.PreInfusionTime != nil {
		s.PreInfusionTime = *d.PreInfusionTime
	}
	if d.Yield != nil {
		s.Yield = *d.Yield
	}
	if d.ShotTime != nil {
		s.ShotTime = *d.ShotTime
	}
}

func expandHome(p string) string {
	if len(p) < 2 || p[:2] != "~/" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[2:])
}
