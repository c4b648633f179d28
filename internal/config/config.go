package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rebeccajae/plistconv/internal/convert"
	"github.com/rebeccajae/plistconv/internal/logging"
)

const (
	EnvLogLevel     = "PLISTCONV_LOG_LEVEL"
	EnvInputFormat  = "PLISTCONV_IFORMAT"
	EnvOutputFormat = "PLISTCONV_OFORMAT"
	EnvMaxDepth     = "PLISTCONV_MAX_DEPTH"
)

// Config holds the settings of one conversion run. An empty Input reads
// standard input and an empty Output writes standard output.
type Config struct {
	Input        string `toml:"input"`
	Output       string `toml:"output"`
	InputFormat  string `toml:"iformat"`
	OutputFormat string `toml:"oformat"`
	LogLevel     string `toml:"loglevel"`
	Indent       int    `toml:"indent"`
	MaxDepth     int    `toml:"max_depth"`
	Append       bool   `toml:"append"`
}

func Default() Config {
	return Config{
		InputFormat:  "xml",
		OutputFormat: "json",
		LogLevel:     "info",
		Indent:       len(convert.DefaultIndent),
		MaxDepth:     convert.DefaultMaxDepth,
	}
}

// Load returns the defaults overlaid with the TOML file at path, when path
// is set, and then with environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func loadToml(path string, out *Config) error {
	md, err := toml.DecodeFile(path, out)
	if err != nil {
		return errors.Wrapf(err, "config load failed (%s)", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvInputFormat)); v != "" {
		cfg.InputFormat = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutputFormat)); v != "" {
		cfg.OutputFormat = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvMaxDepth))); err == nil {
		cfg.MaxDepth = v
	}
}

// Validate checks formats, log level and numeric limits.
func Validate(cfg Config) error {
	var problems []string
	if _, err := convert.ParseFormat(cfg.InputFormat); err != nil {
		problems = append(problems, "iformat: "+err.Error())
	}
	if _, err := convert.ParseFormat(cfg.OutputFormat); err != nil {
		problems = append(problems, "oformat: "+err.Error())
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		problems = append(problems, "loglevel: "+err.Error())
	}
	if cfg.Indent < 0 {
		problems = append(problems, "indent must not be negative")
	}
	if cfg.MaxDepth < 0 {
		problems = append(problems, "max_depth must not be negative")
	}
	if cfg.Append && cfg.Output == "" {
		problems = append(problems, "append requires an output file")
	}
	if len(problems) > 0 {
		return errors.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ConverterOptions translates cfg into pipeline options.
func (c Config) ConverterOptions() convert.Options {
	opts := convert.DefaultOptions()
	opts.Indent = strings.Repeat(" ", c.Indent)
	opts.MaxDepth = c.MaxDepth
	return opts
}
