package config

import (
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/vango-dev/vbind/internal/errors"
)

const (
	// ConfigName is the base name searched for in the working directory.
	ConfigName = "vbind"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "VBIND"

	// DefaultAddr is the default live server address.
	DefaultAddr = "localhost:3000"

	// DefaultEl is the default mount selector.
	DefaultEl = "#app"
)

// Config is the complete vbind configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Source  SourceConfig  `mapstructure:"source"`

	// configPath is the file the config was read from, if any.
	configPath string
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig controls mounting and HTML output.
type RenderConfig struct {
	El              string `mapstructure:"el"`
	Pretty          bool   `mapstructure:"pretty"`
	Indent          string `mapstructure:"indent"`
	StripDirectives bool   `mapstructure:"strip_directives"`
}

// MetricsConfig controls Prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Path      string `mapstructure:"path"`
}

// TracingConfig controls OpenTelemetry spans.
type TracingConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Tracer  string `mapstructure:"tracer"`
}

// ServeConfig configures the live server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// SourceConfig configures remote template sources.
type SourceConfig struct {
	S3Region    string `mapstructure:"s3_region"`
	S3Endpoint  string `mapstructure:"s3_endpoint"`
	S3PathStyle bool   `mapstructure:"s3_path_style"`
}

// New returns a Config holding the defaults.
func New() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	// Defaults always decode.
	_ = v.Unmarshal(cfg)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("render.el", DefaultEl)
	v.SetDefault("render.pretty", false)
	v.SetDefault("render.indent", "  ")
	v.SetDefault("render.strip_directives", true)
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", "vbind")
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.tracer", "vbind")
	v.SetDefault("serve.addr", DefaultAddr)
	v.SetDefault("source.s3_region", "us-east-1")
	v.SetDefault("source.s3_endpoint", "")
	v.SetDefault("source.s3_path_style", false)
}

// Load reads configuration. If path is empty, VBIND_CONFIG is consulted and
// then vbind.{json,yaml,toml} in the working directory; a missing file is
// not an error in that case. An explicit path that cannot be read is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !stderrors.As(err, &notFound) {
			return nil, errors.New("E021").
				WithLocation(path, "").
				WithSuggestion("Check that the file exists and is valid JSON, YAML or TOML").
				Wrap(err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.New("E020").Wrap(err)
	}
	cfg.configPath = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.configPath
}

// Validate checks field values.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("E020").
			WithDetail(err.Error()).
			WithSuggestion("Use one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("E020").
			WithDetail(fmt.Sprintf("log.format %q is not supported", c.Log.Format)).
			WithSuggestion("Use text or json")
	}
	if strings.TrimSpace(c.Render.El) == "" {
		return errors.New("E020").WithDetail("render.el must not be empty")
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("E020").
			WithDetail(fmt.Sprintf("metrics.path %q must start with /", c.Metrics.Path))
	}
	if c.Serve.Addr == "" {
		return errors.New("E020").WithDetail("serve.addr must not be empty")
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log.level %q is not a level", s)
	}
	return level, nil
}

// NewLogger builds a logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, errors.New("E020").WithDetail(err.Error())
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
