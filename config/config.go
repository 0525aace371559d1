// Package config loads the evoting node's configuration from flags,
// environment variables, and defaults, following the same
// pflag+viper layering the rest of the ecosystem uses.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultAPIHost      = "0.0.0.0"
	defaultAPIPort      = 8080
	defaultLogLevel     = "info"
	defaultLogOutput    = "stdout"
	defaultCandidates   = 4
	defaultMaxVoters    = 10000
	defaultRSABits      = 1024
	defaultOpenVoteAuto = false
	envPrefix           = "EVOTING"
)

// Config holds the full application configuration.
type Config struct {
	API      APIConfig
	Log      LogConfig
	Election ElectionConfig
}

// APIConfig holds the HTTP server configuration.
type APIConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Output string `mapstructure:"output"`
}

// ElectionConfig holds the election parameters the server is set up with.
type ElectionConfig struct {
	Candidates   int           `mapstructure:"candidates"`
	MaxVoters    uint64        `mapstructure:"maxVoters"`
	RSABits      int           `mapstructure:"rsaBits"`
	OpenVoteAuto bool          `mapstructure:"openVoteAuto"`
	AutoOpenWait time.Duration `mapstructure:"autoOpenWait"`
}

// Load parses flags, environment variables (prefixed EVOTING_), and
// defaults into a Config.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("api.host", defaultAPIHost)
	v.SetDefault("api.port", defaultAPIPort)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.output", defaultLogOutput)
	v.SetDefault("election.candidates", defaultCandidates)
	v.SetDefault("election.maxVoters", uint64(defaultMaxVoters))
	v.SetDefault("election.rsaBits", defaultRSABits)
	v.SetDefault("election.openVoteAuto", defaultOpenVoteAuto)
	v.SetDefault("election.autoOpenWait", 0*time.Second)

	flag.StringP("api.host", "h", defaultAPIHost, "API host")
	flag.IntP("api.port", "p", defaultAPIPort, "API port")
	flag.StringP("log.level", "l", defaultLogLevel, "log level (debug, info, warn, error)")
	flag.StringP("log.output", "o", defaultLogOutput, "log output (stdout, stderr or filepath)")
	flag.IntP("election.candidates", "c", defaultCandidates, "number of candidates")
	flag.Uint64("election.maxVoters", uint64(defaultMaxVoters), "maximum number of voters the candidate encoding supports")
	flag.Int("election.rsaBits", defaultRSABits, "RSA prime bit length for the reference key oracle")
	flag.Bool("election.openVoteAuto", defaultOpenVoteAuto, "automatically open the vote after autoOpenWait elapses")
	flag.Duration("election.autoOpenWait", 0*time.Second, "wait duration before auto-opening the vote, if enabled")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "evoting-server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: evoting-server [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment variables are also available with the same name as flags,\n")
		fmt.Fprintf(os.Stderr, "  except for dots (.) which are replaced by underscores (_),\n")
		fmt.Fprintf(os.Stderr, "  prefixed with %s_. For example, %s_API_HOST.\n", envPrefix, envPrefix)
	}

	flag.CommandLine.SortFlags = false
	if !flag.Parsed() {
		flag.Parse()
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flag.CommandLine); err != nil {
		return nil, fmt.Errorf("config: error binding flags: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: error unmarshaling config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the core cannot
// operate with.
func Validate(cfg *Config) error {
	if cfg.Election.Candidates <= 0 {
		return fmt.Errorf("config: election.candidates must be positive, got %d", cfg.Election.Candidates)
	}
	if cfg.Election.MaxVoters == 0 {
		return fmt.Errorf("config: election.maxVoters must be positive")
	}
	if cfg.Election.RSABits < 16 {
		return fmt.Errorf("config: election.rsaBits must be at least 16, got %d", cfg.Election.RSABits)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: invalid log.level %q", cfg.Log.Level)
	}
	return nil
}
