// Package config loads the settings shared by every recovery command.
//
// Values are layered, lowest precedence first: built-in defaults, an
// optional YAML file, ECRECOVER_* environment variables and command-line
// flags.
package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

// PrivateKeyEnvVar names the environment variable holding a hex private key,
// so that keys need not be passed on the command line.
const PrivateKeyEnvVar = "ECRECOVER_PRIVATE_KEY"

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Config is the resolved configuration.
type Config struct {
	// PointFormat selects the encoding of recovered and derived public keys.
	PointFormat ecdsarecover.PointFormat `mapstructure:"point_format" validate:"pointformat"`

	// Nonce names the nonce strategy used for signing: deterministic (alias
	// rfc6979) or randomized (alias random).
	Nonce string `mapstructure:"nonce" validate:"noncestrategy"`

	// Output selects how command results are rendered.
	Output string `mapstructure:"output" validate:"oneof=text json yaml"`

	Batch BatchConfig `mapstructure:"batch"`
	Log   LogConfig   `mapstructure:"log"`
}

// BatchConfig controls batch verification and recovery.
type BatchConfig struct {
	// Workers is the size of the worker pool; 0 means one per CPU.
	Workers int `mapstructure:"workers" validate:"gte=0,lte=256"`
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=trace debug info warn error disabled"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		PointFormat: ecdsarecover.PointCompressed,
		Nonce:       "deterministic",
		Output:      OutputText,
		Batch:       BatchConfig{Workers: 0},
		Log:         LogConfig{Level: zerolog.LevelInfoValue},
	}
}

// NonceStrategy returns the configured nonce strategy.
func (c *Config) NonceStrategy() (ecdsarecover.NonceStrategy, error) {
	return ecdsarecover.NonceStrategyByName(c.Nonce)
}

// NewClient builds a library client from the configuration.
func (c *Config) NewClient(logger zerolog.Logger) (*ecdsarecover.Client, error) {
	strategy, err := c.NonceStrategy()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return ecdsarecover.NewClient().
		WithPointFormat(c.PointFormat).
		WithNonceStrategy(strategy).
		WithWorkers(c.Batch.Workers).
		WithLogger(logger), nil
}
