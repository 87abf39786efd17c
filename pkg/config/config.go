// Package config loads scan profiles (YAML) and API credentials (.env).
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"marketscan/pkg/scan"
)

// Profile is one scanner run configuration. The scan block starts from the
// binary's preset defaults; the YAML only has to name the thresholds it
// changes.
type Profile struct {
	Provider string         `yaml:"provider"` // polygon | alpaca
	CacheDir string         `yaml:"cache_dir"`
	Universe UniverseConfig `yaml:"universe"`
	Scan     scan.Params    `yaml:"scan"`
	Risk     RiskConfig     `yaml:"risk"`
	Output   OutputConfig   `yaml:"output"`
}

// UniverseConfig selects where the symbol list comes from.
type UniverseConfig struct {
	Source      string `yaml:"source"` // csv | polygon | screener
	File        string `yaml:"file"`
	ScreenerURL string `yaml:"screener_url"`
}

// RiskConfig enables signal sizing when AccountSize is set.
type RiskConfig struct {
	AccountSize float64 `yaml:"account_size"`
	RiskPercent float64 `yaml:"risk_percent"`
	StopATRs    float64 `yaml:"stop_atrs"`
}

// OutputConfig names where results land.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// Load reads a profile from path, layered over defaults. An empty path
// returns the defaults unchanged.
func Load(path string, defaults scan.Params) (*Profile, error) {
	profile := &Profile{
		Provider: "polygon",
		CacheDir: "data/barcache",
		Universe: UniverseConfig{Source: "csv", File: "data/symbols.csv"},
		Scan:     defaults,
		Risk:     RiskConfig{RiskPercent: 1.0, StopATRs: 2.0},
		Output:   OutputConfig{Dir: "data/scans"},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, profile); err != nil {
			return nil, fmt.Errorf("parse profile %s: %w", path, err)
		}
	}

	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

// Validate checks the cross-field constraints a YAML schema cannot.
func (p *Profile) Validate() error {
	switch p.Provider {
	case "polygon", "alpaca":
	default:
		return fmt.Errorf("provider must be polygon or alpaca, got %q", p.Provider)
	}

	switch p.Universe.Source {
	case "csv":
		if p.Universe.File == "" {
			return fmt.Errorf("universe.file is required for csv source")
		}
	case "polygon":
	case "screener":
		if p.Universe.ScreenerURL == "" {
			return fmt.Errorf("universe.screener_url is required for screener source")
		}
	default:
		return fmt.Errorf("universe.source must be csv, polygon or screener, got %q", p.Universe.Source)
	}

	if p.Risk.AccountSize < 0 {
		return fmt.Errorf("risk.account_size must not be negative")
	}

	return p.Scan.Validate()
}

// Credentials holds the API keys the providers need.
type Credentials struct {
	PolygonKey   string
	AlpacaKey    string
	AlpacaSecret string
}

// LoadCredentials reads .env (if present) and the environment. Which keys are
// required depends on the chosen provider, so nothing is mandatory here.
func LoadCredentials() Credentials {
	_ = godotenv.Load()

	return Credentials{
		PolygonKey:   os.Getenv("POLYGON_API_KEY"),
		AlpacaKey:    os.Getenv("APCA_API_KEY_ID"),
		AlpacaSecret: os.Getenv("APCA_API_SECRET_KEY"),
	}
}
