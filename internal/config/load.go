package config

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mahdiidarabi/secp256k1-recover/pkg/ecdsarecover"
)

// EnvPrefix is the prefix of environment variable overrides. Nested keys
// use underscores: ECRECOVER_BATCH_WORKERS sets batch.workers.
const EnvPrefix = "ECRECOVER"

var (
	// ErrInvalidConfig is returned when a loaded value fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigNil is returned when validating a nil configuration.
	ErrConfigNil = errors.New("configuration is nil")
)

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"format":    "point_format",
	"nonce":     "nonce",
	"output":    "output",
	"workers":   "batch.workers",
	"log-level": "log.level",
}

// Options tells Load where to look besides defaults and the environment.
type Options struct {
	// ConfigFile is an optional YAML file. A missing file is an error.
	ConfigFile string

	// Flags holds flags registered with AddFlags. Only flags that were set
	// explicitly override other sources.
	Flags *pflag.FlagSet
}

// AddFlags registers the configuration flags on fs.
func AddFlags(fs *pflag.FlagSet) {
	defaults := DefaultConfig()
	fs.String("format", defaults.PointFormat.String(), "public key format: compressed, uncompressed or raw")
	fs.String("nonce", defaults.Nonce, "nonce strategy: deterministic or randomized")
	fs.StringP("output", "o", defaults.Output, "output format: text, json or yaml")
	fs.Int("workers", defaults.Batch.Workers, "batch worker count (0 = one per CPU)")
	fs.String("log-level", defaults.Log.Level, "log level: trace, debug, info, warn, error or disabled")
}

// newViperInstance creates a Viper instance with defaults and environment
// overrides wired in.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("point_format", defaults.PointFormat.String())
	v.SetDefault("nonce", defaults.Nonce)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("batch.workers", defaults.Batch.Workers)
	v.SetDefault("log.level", defaults.Log.Level)
}

// Load resolves the configuration from all sources and validates it.
func Load(ctx context.Context, opts Options) (*Config, error) {
	v := newViperInstance()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if opts.Flags != nil {
		if err := bindFlags(v, opts.Flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %w", ErrInvalidConfig, err)
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("config_file", v.ConfigFileUsed()).
		Stringer("point_format", cfg.PointFormat).
		Str("nonce", cfg.Nonce).
		Int("batch.workers", cfg.Batch.Workers).
		Msg("configuration loaded")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := fs.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(pointFormatHookFunc())
}

// pointFormatHookFunc decodes format names such as "uncompressed" into
// ecdsarecover.PointFormat.
func pointFormatHookFunc() mapstructure.DecodeHookFuncType {
	target := reflect.TypeOf(ecdsarecover.PointFormat(0))
	return func(from, to reflect.Type, data any) (any, error) {
		if to != target || from.Kind() != reflect.String {
			return data, nil
		}
		return ecdsarecover.ParsePointFormat(data.(string))
	}
}
