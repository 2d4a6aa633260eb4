// Copyright 2022 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pushdown

import (
	"io/ioutil"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"
)

const (
	envDebug           = "PUSHDOWN_DEBUG"
	envTrackOperations = "PUSHDOWN_TRACK_OPERATIONS"
	envLogLevel        = "PUSHDOWN_LOG_LEVEL"
)

var (
	// ErrInvalidConfig is returned when a configuration file cannot be parsed.
	ErrInvalidConfig = errors.NewKind("invalid configuration in %s")
	// ErrInvalidEnvVar is returned when an environment override has the wrong type.
	ErrInvalidEnvVar = errors.NewKind("cannot parse env var %s=%s")
)

// Config for the Engine.
type Config struct {
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// AnalyzerConfig configures the dereference pushdown analyzer.
type AnalyzerConfig struct {
	// Debug logs every decision of the analyzer.
	Debug bool `yaml:"debug"`
	// Verbose logs the plan after every rule that changes it.
	Verbose bool `yaml:"verbose"`
	// DedupeOverlap drops a dereference when one of its prefixes is pushed
	// down too.
	DedupeOverlap bool `yaml:"dedupe_overlap"`
}

// StorageConfig configures how tables are read.
type StorageConfig struct {
	// TrackOperations records and logs every read.
	TrackOperations bool `yaml:"track_operations"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		Analyzer: AnalyzerConfig{DedupeOverlap: true},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig reads the YAML configuration at path on top of the default
// configuration and applies the environment overrides.
func LoadConfig(path string) (Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(path, data)
}

// ParseConfig parses a YAML configuration on top of the default
// configuration and applies the environment overrides. source is only used
// in error messages.
func ParseConfig(source string, data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, ErrInvalidConfig.Wrap(err, source)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigFromEnv returns the default configuration with the environment
// overrides applied.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if e := os.Getenv(envDebug); e != "" {
		v, err := cast.ToBoolE(e)
		if err != nil {
			return ErrInvalidEnvVar.Wrap(err, envDebug, e)
		}
		c.Analyzer.Debug = v
	}

	if e := os.Getenv(envTrackOperations); e != "" {
		v, err := cast.ToBoolE(e)
		if err != nil {
			return ErrInvalidEnvVar.Wrap(err, envTrackOperations, e)
		}
		c.Storage.TrackOperations = v
	}

	if e := os.Getenv(envLogLevel); e != "" {
		c.Log.Level = e
	}

	return nil
}
