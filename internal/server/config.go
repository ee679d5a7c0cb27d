package server

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/wealth-math/internal/logging"
	"github.com/iwvelando/wealth-math/internal/tracing"
	"github.com/iwvelando/wealth-math/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the settings of the projection API server, read from
// server-config.yaml and then overridden from the environment.
//
// Address is the listen address. MaxUploadSize caps the size of household
// configurations posted to the projection endpoints and accepts unit
// suffixes such as "512K" or "1.5M". Logging and Tracing configure the zap
// logger and the OTLP span exporter.
type Config struct {
	Address       string         `yaml:"address"`
	MaxUploadSize string         `yaml:"maxUploadSize"`
	Logging       logging.Config `yaml:"logging"`
	Tracing       tracing.Config `yaml:"tracing"`

	uploadLimit int64
}

// Environment variables that override the file configuration.
const (
	EnvAddress       = "WEALTH_MATH_ADDRESS"
	EnvMaxUploadSize = "WEALTH_MATH_MAX_UPLOAD_SIZE"
	EnvLogLevel      = "WEALTH_MATH_LOG_LEVEL"
	EnvOtelEndpoint  = "OTEL_ENDPOINT"
)

var sizeUnits = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1 << 10,
	"KB": 1 << 10,
	"M":  1 << 20,
	"MB": 1 << 20,
	"G":  1 << 30,
	"GB": 1 << 30,
}

func defaultConfig() *Config {
	return &Config{
		Address:       constants.DefaultServerAddress,
		MaxUploadSize: strconv.FormatInt(constants.DefaultMaxUploadSizeBytes, 10),
		uploadLimit:   constants.DefaultMaxUploadSizeBytes,
	}
}

// LoadConfig reads the server settings at path. An empty path or a missing
// file leaves every setting at its default, so the server runs without a
// config file.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read server config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config %s: %w", path, err)
	}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides the configuration with any of the Env* variables that are
// set. Call it after loading a .env file.
func (c *Config) ApplyEnv() error {
	overrides := []struct {
		name   string
		target *string
	}{
		{EnvAddress, &c.Address},
		{EnvMaxUploadSize, &c.MaxUploadSize},
		{EnvLogLevel, &c.Logging.Level},
		{EnvOtelEndpoint, &c.Tracing.Endpoint},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.name)); v != "" {
			*o.target = v
		}
	}
	return c.resolve()
}

// UploadSizeBytes is the largest household configuration, in bytes, that the
// projection endpoints accept.
func (c *Config) UploadSizeBytes() int64 {
	return c.uploadLimit
}

// SetUploadSizeBytes replaces the upload limit. Non-positive sizes are ignored.
func (c *Config) SetUploadSizeBytes(size int64) {
	if size <= 0 {
		return
	}
	c.uploadLimit = size
	c.MaxUploadSize = strconv.FormatInt(size, 10)
}

// resolve fills in a blank listen address and turns MaxUploadSize into the
// byte limit handed to the HTTP handler.
func (c *Config) resolve() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}

	limit, err := ParseSize(c.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("invalid maxUploadSize: %w", err)
	}
	if limit <= 0 {
		limit = constants.DefaultMaxUploadSizeBytes
	}
	c.uploadLimit = limit
	c.MaxUploadSize = strconv.FormatInt(limit, 10)
	return nil
}

// ParseSize reads an upload limit such as "4096", "256K", "1.5M" or "2GB".
// Units are binary multiples and case-insensitive. A blank value yields the
// default limit.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	if s == "" {
		return constants.DefaultMaxUploadSizeBytes, nil
	}

	unit := strings.TrimLeft(s, "0123456789. ")
	number := strings.TrimSpace(strings.TrimSuffix(s, unit))
	if number == "" {
		return 0, fmt.Errorf("invalid size %q", value)
	}
	multiplier, ok := sizeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("unsupported size unit %q in %q", unit, value)
	}

	n, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", value, err)
	}
	size := n * float64(multiplier)
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", value)
	}
	return int64(size), nil
}
