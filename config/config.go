// Package config loads runtime settings from defaults and WORDLER_-prefixed
// environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigWordFile        = "word-file"
	ConfigWordLength      = "word-length"
	ConfigMaxLetterRepeat = "max-letter-repeat"
	ConfigThreads         = "threads"
	ConfigDebug           = "debug"
	ConfigReportDir       = "report-dir"
)

type Config struct {
	v *viper.Viper
}

// New creates a config with defaults applied and env binding active.
// Threads 0 means one worker per CPU.
func New() *Config {
	v := viper.New()
	v.SetDefault(ConfigWordFile, "./data/words5.txt")
	v.SetDefault(ConfigWordLength, 5)
	v.SetDefault(ConfigMaxLetterRepeat, 4)
	v.SetDefault(ConfigThreads, 0)
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigReportDir, "./web")
	v.SetEnvPrefix("wordler")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &Config{v: v}
}

// Set overrides a key, e.g. from a parsed flag.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

func (c *Config) WordFile() string { return c.v.GetString(ConfigWordFile) }
func (c *Config) WordLength() int { return c.v.GetInt(ConfigWordLength) }
func (c *Config) MaxLetterRepeat() int { return c.v.GetInt(ConfigMaxLetterRepeat) }
func (c *Config) Threads() int { return c.v.GetInt(ConfigThreads) }
func (c *Config) Debug() bool { return c.v.GetBool(ConfigDebug) }
func (c *Config) ReportDir() string { return c.v.GetString(ConfigReportDir) }
