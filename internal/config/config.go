// Package config provides a viper-backed Config/LoadConfig pattern,
// trimmed to divet's own recognized options.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	toml "github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// ConfigPathEnvVar overrides the default <projectRoot>/.divet/config.json
// location.
const ConfigPathEnvVar = "DIVET_CONFIG_PATH"

// OverrideFileName is the optional project-root TOML override file,
// intended for the handful of fields a user commits to source control
// outside the gitignored .divet/ directory.
const OverrideFileName = "divet.toml"

// LoggingConfig configures internal/logging.
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level" toml:"level"`
	Format string `json:"format" mapstructure:"format" toml:"format"`
}

// Config is the analyzer's full set of recognized options.
type Config struct {
	ProjectRoot  string `json:"projectRoot" mapstructure:"projectRoot" toml:"project_root"`
	ModulesDir   string `json:"modulesDir" mapstructure:"modulesDir" toml:"modules_dir"`
	AppSourceDir string `json:"appSourceDir" mapstructure:"appSourceDir" toml:"app_source_dir"`
	Mode         string `json:"mode" mapstructure:"mode" toml:"mode"`             // distributed | monorepo
	CacheMode    string `json:"cacheMode" mapstructure:"cacheMode" toml:"cache_mode"` // normal | cache_only | no_cache

	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// DefaultConfig returns the configuration used when neither a JSON config
// file nor a divet.toml override is present.
func DefaultConfig() *Config {
	return &Config{
		ProjectRoot:  ".",
		ModulesDir:   "Modules",
		AppSourceDir: "",
		Mode:         "distributed",
		CacheMode:    "normal",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "human",
		},
	}
}

// LoadResult carries the loaded config plus where it came from.
type LoadResult struct {
	Config         *Config
	ConfigPath     string // JSON config file used, empty if defaults
	OverridePath   string // divet.toml override file used, if any
	UsedDefaults   bool
}

// Load resolves configuration in the order DefaultConfig() < divet.toml <
// <projectRoot>/.divet/config.json (or DIVET_CONFIG_PATH); CLI flags are
// applied by the caller afterward since they must win over all three.
func Load(projectRoot string) (*LoadResult, error) {
	result := &LoadResult{Config: DefaultConfig()}
	result.Config.ProjectRoot = projectRoot

	overridePath := filepath.Join(projectRoot, OverrideFileName)
	if _, err := os.Stat(overridePath); err == nil {
		if _, err := toml.DecodeFile(overridePath, result.Config); err != nil {
			return nil, err
		}
		result.OverridePath = overridePath
	}

	if explicit := os.Getenv(ConfigPathEnvVar); explicit != "" {
		if err := loadJSONInto(explicit, result.Config); err != nil {
			return nil, err
		}
		result.ConfigPath = explicit
		return result, nil
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".divet"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			result.UsedDefaults = result.OverridePath == ""
			return result, nil
		}
		return nil, err
	}

	if err := v.Unmarshal(result.Config); err != nil {
		return nil, err
	}
	result.ConfigPath = v.ConfigFileUsed()
	return result, nil
}

func loadJSONInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, cfg)
}

// Save writes cfg as the project's <projectRoot>/.divet/config.json.
func (c *Config) Save(projectRoot string) error {
	dir := filepath.Join(projectRoot, ".divet")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}
