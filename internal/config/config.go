// Package config assembles the settings of a run from defaults, an optional
// YAML or TOML file and the command line, in that order of precedence.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"texnumber/internal/renumber"
	"texnumber/internal/textenc"
)

var (
	ErrMissingPattern = errors.New("both pattern and replacement are required")
	ErrSameFile       = errors.New("Cannot use the same output as the input!")
)

// Config holds every setting a run needs.
type Config struct {
	Pattern     string   `yaml:"pattern" toml:"pattern"`
	Replacement string   `yaml:"replacement" toml:"replacement"`
	Keywords    []string `yaml:"keywords" toml:"keywords"`

	// IgnoreComments is a pointer so a file can switch it off explicitly.
	IgnoreComments *bool `yaml:"ignore_comments" toml:"ignore_comments"`

	Encoding string `yaml:"encoding" toml:"encoding"`
	Log      string `yaml:"log" toml:"log"`
	Input    string `yaml:"input" toml:"input"`
	Output   string `yaml:"output" toml:"output"`
	Addr     string `yaml:"addr" toml:"addr"`
	LogLevel string `yaml:"log_level" toml:"log_level"`
}

// Defaults returns the settings used when nothing else is given.
func Defaults() Config {
	ignore := true
	return Config{
		Keywords:       append([]string(nil), renumber.DefaultKeywords...),
		IgnoreComments: &ignore,
		Encoding:       textenc.UTF8,
		Addr:           "localhost:8080",
		LogLevel:       "warn",
	}
}

// Load reads a config file. The format follows the extension:
// .yaml/.yml or .toml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	default:
		return cfg, errors.Errorf("unsupported config format %q (use .yaml, .yml or .toml)", filepath.Ext(path))
	}
	return cfg, nil
}

// Merge overlays over on base. Empty strings, empty lists and nil pointers
// do not override.
func Merge(base, over Config) Config {
	out := base
	if over.Pattern != "" {
		out.Pattern = over.Pattern
	}
	if over.Replacement != "" {
		out.Replacement = over.Replacement
	}
	if len(over.Keywords) > 0 {
		out.Keywords = lo.Uniq(over.Keywords)
	}
	if over.IgnoreComments != nil {
		v := *over.IgnoreComments
		out.IgnoreComments = &v
	}
	if strings.TrimSpace(over.Encoding) != "" {
		out.Encoding = strings.TrimSpace(over.Encoding)
	}
	if over.Log != "" {
		out.Log = over.Log
	}
	if over.Input != "" {
		out.Input = over.Input
	}
	if over.Output != "" {
		out.Output = over.Output
	}
	if over.Addr != "" {
		out.Addr = over.Addr
	}
	if strings.TrimSpace(over.LogLevel) != "" {
		out.LogLevel = strings.TrimSpace(over.LogLevel)
	}
	return out
}

// AddKeywords extends the keyword set with extra, skipping keywords already present.
func (c *Config) AddKeywords(extra ...string) {
	all := make([]string, 0, len(c.Keywords)+len(extra))
	all = append(all, c.Keywords...)
	c.Keywords = lo.Uniq(append(all, extra...))
}

// Comments reports whether comment exclusion is on (the default).
func (c Config) Comments() bool {
	return c.IgnoreComments == nil || *c.IgnoreComments
}

// Validate checks the settings a document run needs.
func (c Config) Validate() error {
	if c.Pattern == "" || c.Replacement == "" {
		return ErrMissingPattern
	}
	for _, kw := range c.Keywords {
		if kw == "" || strings.ContainsAny(kw, "\\{} \t") {
			return errors.Errorf("invalid keyword %q", kw)
		}
	}
	if _, err := textenc.Lookup(c.Encoding); err != nil {
		return err
	}
	if c.Input != "" && c.Output != "" && samePath(c.Input, c.Output) {
		return ErrSameFile
	}
	return nil
}

// Options converts the config into engine options.
func (c Config) Options() (renumber.Options, error) {
	enc, err := textenc.Lookup(c.Encoding)
	if err != nil {
		return renumber.Options{}, err
	}
	return renumber.Options{
		Pattern:        c.Pattern,
		Replacement:    c.Replacement,
		Keywords:       c.Keywords,
		IgnoreComments: c.Comments(),
		Encoding:       enc,
		InputName:      c.Input,
		OutputName:     c.Output,
	}, nil
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	ia, errA := os.Stat(a)
	ib, errB := os.Stat(b)
	if errA == nil && errB == nil {
		return os.SameFile(ia, ib)
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
