// Package renameconfig loads renamectl's ambient configuration (cache
// TTLs, undo capacity, validation overrides, execution/backup settings,
// companion pattern overrides) the way the teacher loads its own:
// viper over a YAML file, defaults-first, environment overrides layered
// on top, mapstructure tags driving the unmarshal.
package renameconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is renamectl's complete configuration.
type Config struct {
	Engine     EngineConfig     `mapstructure:"engine" yaml:"engine"`
	Validation ValidationConfig `mapstructure:"validation" yaml:"validation"`
	Execution  ExecutionConfig  `mapstructure:"execution" yaml:"execution"`
	Companions CompanionsConfig `mapstructure:"companions" yaml:"companions"`
}

// EngineConfig holds the Preview/Validation Manager's cache tuning.
type EngineConfig struct {
	PreviewCacheTTLMillis    int `mapstructure:"preview_cache_ttl_ms" yaml:"preview_cache_ttl_ms"`
	ValidationCacheTTLMillis int `mapstructure:"validation_cache_ttl_ms" yaml:"validation_cache_ttl_ms"`
	UndoCapacity             int `mapstructure:"undo_capacity" yaml:"undo_capacity"`
}

// PreviewCacheTTL converts the configured millisecond value to a duration.
func (e EngineConfig) PreviewCacheTTL() time.Duration {
	return time.Duration(e.PreviewCacheTTLMillis) * time.Millisecond
}

// ValidationCacheTTL converts the configured millisecond value to a duration.
func (e EngineConfig) ValidationCacheTTL() time.Duration {
	return time.Duration(e.ValidationCacheTTLMillis) * time.Millisecond
}

// ValidationConfig holds overrides to the Filename Validation rules.
type ValidationConfig struct {
	ExtraReservedNames []string `mapstructure:"extra_reserved_names" yaml:"extra_reserved_names"`
	ExtraInvalidChars  string   `mapstructure:"extra_invalid_chars" yaml:"extra_invalid_chars"`
}

// ExecutionConfig holds the Execution Manager's filesystem-facing settings.
type ExecutionConfig struct {
	BackupDir             string `mapstructure:"backup_dir" yaml:"backup_dir"`
	CaseRenameMaxAttempts int    `mapstructure:"case_rename_max_attempts" yaml:"case_rename_max_attempts"`
	IncludeCompanions     bool   `mapstructure:"include_companions" yaml:"include_companions"`
	HashDriftCheck        bool   `mapstructure:"hash_drift_check" yaml:"hash_drift_check"`
	MaxParallelism        int    `mapstructure:"max_parallelism" yaml:"max_parallelism"`
}

// CompanionsConfig holds per-extension pattern overrides layered on top
// of the built-in companion pattern table.
type CompanionsConfig struct {
	Enabled       bool                `mapstructure:"enabled" yaml:"enabled"`
	ExtraPatterns map[string][]string `mapstructure:"extra_patterns" yaml:"extra_patterns"`
}

// Default returns a Config with renamectl's built-in defaults, matching
// the spec's literal constants (§3, §4.5, §4.7, §9's undo capacity note).
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			PreviewCacheTTLMillis:    100,
			ValidationCacheTTLMillis: 50,
			UndoCapacity:             100,
		},
		Validation: ValidationConfig{},
		Execution: ExecutionConfig{
			BackupDir:             filepath.Join("~", ".renamectl", "backups"),
			CaseRenameMaxAttempts: 100,
			IncludeCompanions:     true,
			HashDriftCheck:        false,
			MaxParallelism:        8,
		},
		Companions: CompanionsConfig{
			Enabled: true,
		},
	}
}

// Loader loads configuration from built-in defaults, a YAML file, and
// environment variables, in that order of increasing precedence.
type Loader struct {
	searchPaths []string
}

// NewLoader builds a Loader searching the current directory, the user's
// home directory and /etc/renamectl for `renamectl.yaml`.
func NewLoader() *Loader {
	return &Loader{searchPaths: []string{".", "~", "/etc/renamectl"}}
}

// Load reads configuration, falling back to Default() when no config
// file is found; a malformed file or an unmarshal failure is an error.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	config := Default()

	v.SetConfigName("renamectl")
	v.SetConfigType("yaml")
	for _, path := range l.searchPaths {
		v.AddConfigPath(l.expandPath(path))
	}

	v.SetEnvPrefix("RENAMECTL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("renameconfig: reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("renameconfig: unmarshaling config: %w", err)
	}

	if err := l.Validate(config); err != nil {
		return nil, fmt.Errorf("renameconfig: invalid configuration: %w", err)
	}

	config.Execution.BackupDir = l.expandPath(config.Execution.BackupDir)
	return config, nil
}

// expandPath expands a leading ~ to the user's home directory and
// resolves the result to an absolute path.
func (l *Loader) expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// YAML marshals the resolved Config back to YAML, so a caller can show
// exactly what the loader resolved without re-deriving it from defaults,
// file and environment separately.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("renameconfig: marshaling config: %w", err)
	}
	return data, nil
}

// Save marshals the resolved Config back to YAML and writes it to path,
// so a caller can inspect or check in exactly what the loader resolved
// (defaults plus file plus environment overrides) rather than guessing
// at it from three separate sources.
func Save(config *Config, path string) error {
	data, err := config.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("renameconfig: writing config file: %w", err)
	}
	return nil
}

// Validate performs basic sanity checks on a loaded Config.
func (l *Loader) Validate(config *Config) error {
	if config.Engine.UndoCapacity < 0 {
		return fmt.Errorf("engine.undo_capacity cannot be negative")
	}
	if config.Execution.CaseRenameMaxAttempts <= 0 {
		return fmt.Errorf("execution.case_rename_max_attempts must be positive")
	}
	if config.Execution.MaxParallelism < 0 {
		return fmt.Errorf("execution.max_parallelism cannot be negative")
	}
	return nil
}
