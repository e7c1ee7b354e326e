package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pelletier/go-toml/v2"
)

// FileName is the form configuration file looked up in the working directory
const FileName = ".autocomplete.toml"

// Config represents the form configuration
type Config struct {
	Version    int        `toml:"version"`
	BaseURL    string     `toml:"base_url"`
	UISettings UISettings `toml:"ui"`
	Fields     []Field    `toml:"fields"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	Title    string `toml:"title"`
	Width    int    `toml:"width"`
	LogFile  string `toml:"log_file"`
	DebugLog bool   `toml:"debug_log"`
}

// Field describes one autocomplete input of the form
type Field struct {
	Name            string `toml:"name"`
	Label           string `toml:"label,omitempty"`
	Endpoint        string `toml:"endpoint"`
	ValueField      string `toml:"value_field,omitempty"`
	LabelField      string `toml:"label_field,omitempty"`
	Value           string `toml:"value,omitempty"`
	DisplayValue    string `toml:"display_value,omitempty"`
	AriaLabel       string `toml:"aria_label,omitempty"`
	AriaLabelledBy  string `toml:"aria_labelledby,omitempty"`
	AriaDescribedBy string `toml:"aria_describedby,omitempty"`
	Placeholder     string `toml:"placeholder,omitempty"`
}

// Attributes returns the field as host attributes of a widget
func (f Field) Attributes() map[string]string {
	attrs := map[string]string{
		"name":     f.Name,
		"endpoint": f.Endpoint,
	}
	set := func(key, value string) {
		if value != "" {
			attrs[key] = value
		}
	}
	set("data-value-field", f.ValueField)
	set("data-label-field", f.LabelField)
	set("value", f.Value)
	set("data-display-value", f.DisplayValue)
	set("aria-label", f.AriaLabel)
	set("aria-labelledby", f.AriaLabelledBy)
	set("aria-describedby", f.AriaDescribedBy)
	set("placeholder", f.Placeholder)
	return attrs
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	filePath string
}

// NewConfigService creates a config service for the file in dir
func NewConfigService(dir string) ConfigService {
	return &configService{filePath: filepath.Join(dir, FileName)}
}

// Load loads the configuration, falling back to defaults when the file is absent
func (cs *configService) Load() (*Config, error) {
	if _, err := os.Stat(cs.filePath); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cs.LoadFromPath(cs.filePath)
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	return cs.SaveToPath(config, cs.filePath)
}

// LoadFromPath loads and validates configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	cfg.Fields = nil
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate reports every problem of cfg at once
func Validate(cfg *Config) error {
	var result *multierror.Error

	if cfg.Version != 1 {
		result = multierror.Append(result, fmt.Errorf("unsupported version %d", cfg.Version))
	}
	if cfg.BaseURL != "" {
		if u, err := url.Parse(cfg.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("base_url %q is not an absolute URL", cfg.BaseURL))
		}
	}
	if len(cfg.Fields) == 0 {
		result = multierror.Append(result, errors.New("no fields configured"))
	}

	seen := make(map[string]bool)
	for i, f := range cfg.Fields {
		if f.Name == "" {
			result = multierror.Append(result, fmt.Errorf("field %d: missing name", i))
		} else if seen[f.Name] {
			result = multierror.Append(result, fmt.Errorf("field %d: duplicate name %q", i, f.Name))
		}
		seen[f.Name] = true
		if f.Endpoint == "" {
			result = multierror.Append(result, fmt.Errorf("field %d (%s): missing endpoint", i, f.Name))
		}
	}

	return result.ErrorOrNil()
}

// DefaultConfig returns the default configuration, matching the bundled fixtures
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		BaseURL: "http://127.0.0.1:8080",
		UISettings: UISettings{
			Title:   "autocomplete",
			Width:   40,
			LogFile: "autocomplete.log",
		},
		Fields: []Field{
			{
				Name:        "fruit",
				Label:       "Fruit",
				Endpoint:    "/autocomplete/fruits/",
				AriaLabel:   "Fruit",
				Placeholder: "Type a fruit",
			},
			{
				Name:        "country",
				Label:       "Country",
				Endpoint:    "/autocomplete/countries/",
				ValueField:  "code",
				LabelField:  "name",
				AriaLabel:   "Country",
				Placeholder: "Type a country",
			},
		},
	}
}
