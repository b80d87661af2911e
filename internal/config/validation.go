package config

import (
	"fmt"
	"net/url"
	"strings"
)

const maxBatchConcurrency = 64

var knownLogLevels = map[string]bool{
	"TRACE": true,
	"DEBUG": true,
	"INFO":  true,
	"WARN":  true,
	"ERROR": true,
}

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateLoggerConfig(&cfg.Logger); err != nil {
		return fmt.Errorf("YAML global config: logger directive is invalid: %w", err)
	}
	if err := ValidateSynthesisConfig(&cfg.Synthesis); err != nil {
		return fmt.Errorf("YAML global config: synthesis directive is invalid: %w", err)
	}
	if err := ValidateBatchConfig(&cfg.Batch); err != nil {
		return fmt.Errorf("YAML global config: batch directive is invalid: %w", err)
	}
	return nil
}

// ValidateLoggerConfig checks the log level name.
func ValidateLoggerConfig(loggerConfig *Logger) error {
	if loggerConfig.Level == "" {
		return nil
	}
	if !knownLogLevels[strings.ToUpper(loggerConfig.Level)] {
		return fmt.Errorf("unknown level %q", loggerConfig.Level)
	}
	return nil
}

// ValidateSynthesisConfig checks the tool driver overrides.
func ValidateSynthesisConfig(synthesisConfig *Synthesis) error {
	if synthesisConfig.InformationURI == "" {
		return nil
	}
	u, err := url.Parse(synthesisConfig.InformationURI)
	if err != nil {
		return fmt.Errorf("information_uri is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("information_uri must use http or https: %q", synthesisConfig.InformationURI)
	}
	return nil
}

// ValidateBatchConfig checks the batch concurrency bounds.
func ValidateBatchConfig(batchConfig *Batch) error {
	if batchConfig.Concurrency < 0 || batchConfig.Concurrency > maxBatchConcurrency {
		return fmt.Errorf("concurrency must be between 0 and %d: %d", maxBatchConcurrency, batchConfig.Concurrency)
	}
	if strings.ContainsAny(batchConfig.OutputSuffix, `/\`) {
		return fmt.Errorf("output_suffix must not contain path separators: %q", batchConfig.OutputSuffix)
	}
	return nil
}
