package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	derrors "github.com/matzehuels/dendro/pkg/errors"
	"github.com/matzehuels/dendro/pkg/layout"
	"github.com/matzehuels/dendro/pkg/pipeline"
)

// Cache backends accepted by the cache setting.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Config holds the settings read from the TOML config file. Command line
// flags take precedence over every value.
type Config struct {
	Mode         string  `toml:"mode"`
	RowsPerTip   int     `toml:"rows_per_tip"`
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	LabelReserve int     `toml:"label_reserve"`
	Margin       float64 `toml:"margin"`
	LabelPadding float64 `toml:"label_padding"`
	Precision    int     `toml:"precision"`

	Cache         string `toml:"cache"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`

	Addr string `toml:"addr"`

	OTLPEndpoint string `toml:"otlp_endpoint"`
	OTLPInsecure bool   `toml:"otlp_insecure"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() Config {
	return Config{
		Mode:         pipeline.DefaultMode,
		RowsPerTip:   layout.DefaultRowsPerTip,
		Width:        layout.DefaultWidth,
		Height:       layout.DefaultHeight,
		LabelReserve: layout.DefaultLabelReserve,
		Margin:       10,
		LabelPadding: 10,
		Precision:    pipeline.DefaultPrecision,
		Cache:        cacheFile,
		RedisAddr:    "localhost:6379",
		RedisPrefix:  appName + ":",
		Addr:         ":8080",
	}
}

// LoadConfig reads the config file at path on top of the defaults. A
// missing file is only an error when required is set, which is the case
// for a path given with --config.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return DefaultConfig(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, derrors.Wrap(derrors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return cfg, derrors.Wrap(derrors.ErrCodeInvalidInput, err, "config file %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if err := pipeline.ValidateMode(c.Mode); err != nil {
		return err
	}
	switch c.Cache {
	case cacheFile, cacheRedis, cacheNone:
		return nil
	default:
		return derrors.New(derrors.ErrCodeInvalidInput, "invalid cache backend: %q (must be one of: file, redis, none)", c.Cache)
	}
}

// configPath returns the default config file, $XDG_CONFIG_HOME/dendro/config.toml.
func configPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName, "config.toml")
}

// applyConfig copies config values into opts for every layout and render
// flag the user did not set explicitly.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *pipeline.Options) {
	flags := cmd.Flags()
	unset := func(name string) bool {
		f := flags.Lookup(name)
		return f == nil || !f.Changed
	}
	cfg := c.Config
	if unset("mode") {
		opts.Mode = cfg.Mode
	}
	if unset("rows-per-tip") {
		opts.RowsPerTip = cfg.RowsPerTip
	}
	if unset("width") {
		opts.Width = cfg.Width
	}
	if unset("height") {
		opts.Height = cfg.Height
	}
	if unset("label-reserve") {
		opts.LabelReserve = cfg.LabelReserve
	}
	if unset("precision") {
		p := cfg.Precision
		opts.Precision = &p
	}
	opts.Margin = cfg.Margin
	opts.LabelPadding = cfg.LabelPadding
}
