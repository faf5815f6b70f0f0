package fcgiclient

import (
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

// Config controls the resource limits and timeouts of a Client. The zero
// value is not ready to use; construct one with NewConfig or DefaultConfig.
type Config struct {
	// MaxWriteSize bounds how much of a logical stream (PARAMS block or
	// STDIN body) is packed into a single record before the chunker
	// starts a new one. It must not exceed the protocol's 65535-byte
	// content length field.
	MaxWriteSize int `default:"65535" validate:"gt=0,lte=65535"`

	// ConnectTimeout is only consulted by the package-level Dial helpers;
	// Client itself never dials, so this is inert unless you use Dial.
	ConnectTimeout time.Duration `default:"5s" validate:"gt=0"`

	// RequestTimeout, when nonzero, is applied by the Dial helpers as a
	// context.WithTimeout wrapped around one Execute call. The engine
	// itself has no built-in timeout (spec: callers wrap Execute in an
	// external timeout); zero means "no default timeout".
	RequestTimeout time.Duration `default:"30s" validate:"gte=0"`
}

var validate = validator.New()

// DefaultConfig returns a Config populated entirely from its struct-tag
// defaults.
func DefaultConfig() Config {
	cfg := Config{}
	_ = defaults.Set(&cfg)
	return cfg
}

// ConfigOption mutates a Config built from its defaults.
type ConfigOption func(*Config)

// WithMaxWriteSize overrides MaxWriteSize.
func WithMaxWriteSize(n int) ConfigOption { return func(c *Config) { c.MaxWriteSize = n } }

// WithConnectTimeout overrides ConnectTimeout.
func WithConnectTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.ConnectTimeout = d }
}

// WithRequestTimeout overrides RequestTimeout.
func WithRequestTimeout(d time.Duration) ConfigOption {
	return func(c *Config) { c.RequestTimeout = d }
}

// NewConfig applies defaults, then opts, then validates the result.
func NewConfig(opts ...ConfigOption) (Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, wrapErr(ErrInvalidConfig, err, "invalid config")
	}
	return cfg, nil
}
