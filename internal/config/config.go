package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// DefaultConfigPath is read when --config is not given. A missing file means defaults.
const DefaultConfigPath = "codecompass.yml"

// Config is the YAML configuration of the codecompass CLI.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	Synthesis Synthesis `yaml:"synthesis"`
	Batch     Batch     `yaml:"batch"`
}

// Logger holds log output settings.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// Synthesis overrides the tool driver written into synthesized reports.
type Synthesis struct {
	ToolName        string `yaml:"tool_name"`
	SemanticVersion string `yaml:"semantic_version"`
	InformationURI  string `yaml:"information_uri"`
}

// Batch controls multi-report enrichment.
type Batch struct {
	// Concurrency is the number of reports enriched at once; 0 means the number of CPUs.
	Concurrency int `yaml:"concurrency"`
	// OutputSuffix is inserted before the extension of files written to --output-dir.
	OutputSuffix string `yaml:"output_suffix"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Logger: Logger{Level: "INFO"},
		Batch:  Batch{OutputSuffix: ".enriched"},
	}
}

// ValidateConfigPath checks that path exists and is not a directory.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	d.SetStrict(true)
	if err := d.Decode(data); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return nil
}

// LoadConfig loads the configuration at path on top of DefaultConfig.
// When path is the default path and the file does not exist, defaults are returned.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && path == DefaultConfigPath {
		return cfg, nil
	}

	if err := LoadYAML(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config %q: %w", path, err)
	}
	return cfg, nil
}
