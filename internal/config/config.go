package config

import "github.com/spf13/viper"

// ServeConfig holds configuration for the MCP server.
type ServeConfig struct {
	Port int `mapstructure:"port"`
}

// Config holds all runtime configuration for a supernova invocation.
// Values are populated from .supernova.yaml, SUPERNOVA_* env vars, and CLI flags.
type Config struct {
	Strategy      string      `mapstructure:"strategy"`
	TargetPRCount int         `mapstructure:"target_pr_count"`
	BranchPrefix  string      `mapstructure:"branch_prefix"`
	TitlePrefix   string      `mapstructure:"title_prefix"`
	BaseBranch    string      `mapstructure:"base_branch"`
	HistoryDB     string      `mapstructure:"history_db"`
	TelemetryPath string      `mapstructure:"telemetry_path"`
	NoColor       bool        `mapstructure:"no_color"`
	Verbose       bool        `mapstructure:"verbose"`
	Serve         ServeConfig `mapstructure:"serve"`
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags.
func Load() Config {
	viper.SetDefault("strategy", "by_module")
	viper.SetDefault("target_pr_count", 8)
	viper.SetDefault("branch_prefix", "user/feature")
	viper.SetDefault("title_prefix", "Split PR")
	viper.SetDefault("base_branch", "main")
	viper.SetDefault("history_db", ".supernova.db")
	viper.SetDefault("telemetry_path", "")
	viper.SetDefault("no_color", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("serve.port", 8298)

	var cfg Config
	_ = viper.Unmarshal(&cfg)
	return cfg
}
