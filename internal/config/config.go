// Package config loads run configuration and platform credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/spf13/viper"
)

// Config holds the per-run options.
type Config struct {
	// Throttle caps successful publishes per run; 0 means unlimited.
	Throttle int `mapstructure:"throttle"`
	// WaitTime is the pause, in seconds, after each publish.
	WaitTime int `mapstructure:"wait_time"`
	// ShuffleFeeds randomizes the feed order each run.
	ShuffleFeeds bool `mapstructure:"shuffle_feeds"`
	// Blacklist is a list of regexes; matching URLs are marked posted
	// without being published.
	Blacklist []string `mapstructure:"blacklist"`
	// TagJournals prepends the journal's handle to posted URLs when the
	// publisher is recognized.
	TagJournals bool `mapstructure:"tag_journals"`
}

// Load reads the configuration file at path, falling back to ./config.yml
// when path is empty. A missing file yields the defaults; environment
// variables prefixed PAPERSBOT_ override file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("throttle", 0)
	v.SetDefault("wait_time", 5)
	v.SetDefault("shuffle_feeds", false)
	v.SetDefault("tag_journals", false)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("PAPERSBOT")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// CompileBlacklist compiles the blacklist patterns. A malformed pattern is
// a fatal configuration error.
func (c Config) CompileBlacklist() ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(c.Blacklist))
	for _, pattern := range c.Blacklist {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad blacklist pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}
