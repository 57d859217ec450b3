package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and will be replaced by defaults in main.
// Durations are plain milliseconds so every supported format carries them.
type Config struct {
	Addr         string `json:"addr" yaml:"addr" toml:"addr"`
	ModelDir     string `json:"model_dir" yaml:"model_dir" toml:"model_dir"`
	ReferenceWav string `json:"reference_wav" yaml:"reference_wav" toml:"reference_wav"`
	Language     string `json:"language" yaml:"language" toml:"language"`

	// Sidecar: URL connects to a running server, Bin spawns one.
	XTTSURL       string   `json:"xtts_url" yaml:"xtts_url" toml:"xtts_url"`
	XTTSBin       string   `json:"xtts_bin" yaml:"xtts_bin" toml:"xtts_bin"`
	XTTSHost      string   `json:"xtts_host" yaml:"xtts_host" toml:"xtts_host"`
	XTTSPortStart int      `json:"xtts_port_start" yaml:"xtts_port_start" toml:"xtts_port_start"`
	XTTSPortEnd   int      `json:"xtts_port_end" yaml:"xtts_port_end" toml:"xtts_port_end"`
	XTTSArgs      []string `json:"xtts_args" yaml:"xtts_args" toml:"xtts_args"`
	StartupMS     int      `json:"startup_timeout_ms" yaml:"startup_timeout_ms" toml:"startup_timeout_ms"`

	// Invocation guard.
	MaxQueueDepth    int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxWaitMS        int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	MaxAttempts      int `json:"max_attempts" yaml:"max_attempts" toml:"max_attempts"`
	RetryDelayMS     int `json:"retry_delay_ms" yaml:"retry_delay_ms" toml:"retry_delay_ms"`
	AttemptTimeoutMS int `json:"attempt_timeout_ms" yaml:"attempt_timeout_ms" toml:"attempt_timeout_ms"`

	// Failure handling.
	DisableFallback    bool `json:"disable_fallback" yaml:"disable_fallback" toml:"disable_fallback"`
	FallbackDurationMS int  `json:"fallback_duration_ms" yaml:"fallback_duration_ms" toml:"fallback_duration_ms"`

	// Audio post-processing.
	KeepSilenceMS int `json:"keep_silence_ms" yaml:"keep_silence_ms" toml:"keep_silence_ms"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
