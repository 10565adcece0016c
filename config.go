// Package luadoc holds the configuration shared by the luadoc commands.
package luadoc

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/upsun/luadoc/pkg/annotation"
	"github.com/upsun/luadoc/pkg/collect"
	"github.com/upsun/luadoc/pkg/site"
)

// ConfigFileName is the configuration file looked up in the working directory.
const ConfigFileName = "luadoc.toml"

//go:embed defaults.toml
var defaultConfig []byte

// Config is the luadoc.toml configuration.
type Config struct {
	Title  string `toml:"title"`
	Footer string `toml:"footer"`

	Extensions       []string `toml:"extensions"`
	Ignore           []string `toml:"ignore"`
	DisableGitIgnore bool     `toml:"disable_gitignore"`

	Strict          bool   `toml:"strict"`
	Lookahead       int    `toml:"lookahead"`
	DefaultCategory string `toml:"default_category"`

	Output               string `toml:"output"`
	DocsFile             string `toml:"docs_file"`
	MarkdownDescriptions bool   `toml:"markdown_descriptions"`
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() (*Config, error) {
	var c Config
	if err := decode(defaultConfig, &c); err != nil {
		return nil, fmt.Errorf("invalid default configuration: %w", err)
	}
	return &c, nil
}

// LoadConfigFile reads a configuration file over the defaults.
func LoadConfigFile(path string) (*Config, error) {
	c, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := decode(data, c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return c, nil
}

// LoadConfig loads the configuration from path, or from ConfigFileName in the
// working directory if path is empty. The defaults apply if neither exists.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return LoadConfigFile(path)
	}
	if _, err := os.Stat(ConfigFileName); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig()
		}
		return nil, err
	}
	return LoadConfigFile(ConfigFileName)
}

func decode(data []byte, c *Config) error {
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(c)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks values that the scanner or site cannot work with.
func (c *Config) Validate() error {
	if c.Lookahead < 1 {
		return fmt.Errorf("lookahead must be at least 1, got %d", c.Lookahead)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if c.DefaultCategory == "" {
		return errors.New("default_category cannot be empty")
	}
	return nil
}

func (c *Config) ScannerOptions() annotation.Options {
	return annotation.Options{
		Strict:          c.Strict,
		Lookahead:       c.Lookahead,
		DefaultCategory: c.DefaultCategory,
	}
}

// CollectorConfig returns the collector settings. The notify function is optional.
func (c *Config) CollectorConfig(notify func(format string, args ...any)) *collect.Config {
	return &collect.Config{
		Extensions:       c.Extensions,
		IgnoreDirs:       c.Ignore,
		DisableGitIgnore: c.DisableGitIgnore,
		Scanner:          c.ScannerOptions(),
		Notify:           notify,
	}
}

func (c *Config) SiteOptions(notify func(format string, args ...any)) site.Options {
	return site.Options{
		Title:                c.Title,
		Footer:               c.Footer,
		MarkdownDescriptions: c.MarkdownDescriptions,
		Notify:               notify,
	}
}
