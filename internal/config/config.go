package config

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "configs/config.yml"
	DefaultEnvFile    = ".env"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		Type string `yaml:"type"` // "postgres" or "sqlite"
		URL  string `yaml:"url"`  // PostgreSQL DSN or SQLite path
	} `yaml:"database"`
	ModelService ModelServiceConfig `yaml:"model_service"`
	IncidentAPI  struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"incident_api"`
	Logging LoggingConfig `yaml:"logging"`
	Server  struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// ModelServiceConfig lists every prediction service endpoint explicitly.
// Empty sibling endpoints are derived from PredictURL, see ResolveEndpoints.
type ModelServiceConfig struct {
	PredictURL       string        `yaml:"predict_url"`
	DomainPredictURL string        `yaml:"domain_predict_url"`
	ModelsURL        string        `yaml:"models_url"`
	CompareURL       string        `yaml:"compare_url"`
	Timeout          time.Duration `yaml:"timeout"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// LoadEnv loads variables from an optional .env file into the process
// environment. A missing file is not an error.
func LoadEnv(envFile string) error {
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}
	if err := gotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

// LoadConfig reads configuration from the specified YAML file.
func LoadConfig(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	config := &Config{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	config.expandEnv()
	config.setDefaults()

	if err := config.ModelService.ResolveEndpoints(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) expandEnv() {
	c.Database.URL = os.ExpandEnv(c.Database.URL)
	c.ModelService.PredictURL = os.ExpandEnv(c.ModelService.PredictURL)
	c.ModelService.DomainPredictURL = os.ExpandEnv(c.ModelService.DomainPredictURL)
	c.ModelService.ModelsURL = os.ExpandEnv(c.ModelService.ModelsURL)
	c.ModelService.CompareURL = os.ExpandEnv(c.ModelService.CompareURL)
	c.IncidentAPI.URL = os.ExpandEnv(c.IncidentAPI.URL)
}

func (c *Config) setDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}

	if c.Database.Type == "" {
		c.Database.Type = "postgres"
	}

	if c.Database.Type == "sqlite" && c.Database.URL == "" {
		c.Database.URL = "./data/incidents.db"
	}

	if c.ModelService.PredictURL == "" {
		c.ModelService.PredictURL = "http://localhost:8000/predict"
	}

	if c.ModelService.Timeout == 0 {
		c.ModelService.Timeout = 30 * time.Second
	}

	if c.IncidentAPI.URL == "" {
		c.IncidentAPI.URL = "http://localhost:8001/incidents"
	}

	if c.IncidentAPI.Timeout == 0 {
		c.IncidentAPI.Timeout = 10 * time.Second
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// ResolveEndpoints fills empty sibling endpoints from PredictURL by replacing
// the last path segment of the URL, e.g. http://host/api/predict gives
// http://host/api/models.
func (m *ModelServiceConfig) ResolveEndpoints() error {
	var err error
	if m.DomainPredictURL == "" {
		if m.DomainPredictURL, err = SiblingEndpoint(m.PredictURL, "domain_predict"); err != nil {
			return err
		}
	}
	if m.ModelsURL == "" {
		if m.ModelsURL, err = SiblingEndpoint(m.PredictURL, "models"); err != nil {
			return err
		}
	}
	if m.CompareURL == "" {
		if m.CompareURL, err = SiblingEndpoint(m.PredictURL, "compare"); err != nil {
			return err
		}
	}
	return nil
}

// SiblingEndpoint returns base with its last path segment replaced by segment.
// Query string and fragment are dropped.
func SiblingEndpoint(base, segment string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid model service url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid model service url %q: scheme and host are required", base)
	}

	dir := path.Dir(strings.TrimSuffix(u.Path, "/"))
	if dir == "." {
		dir = "/"
	}

	u.Path = path.Join(dir, segment)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
