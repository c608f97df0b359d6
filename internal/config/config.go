package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/tliron/commonlog"
	"gopkg.in/yaml.v3"
)

// FileName is the per-workspace configuration file.
const FileName = ".phpscope.yaml"

type Config struct {
	WorkspaceRoot string   `yaml:"-"`
	Include       []string `yaml:"include"`
	Exclude       []string `yaml:"exclude"`
	CacheSize     int      `yaml:"cache_size"`
	LogVerbosity  int      `yaml:"log_verbosity"`
}

func NewConfig() *Config {
	return &Config{
		WorkspaceRoot: ".",
		Include:       []string{"**/*.php"},
		Exclude:       []string{"vendor/**", "node_modules/**"},
		CacheSize:     1000,
		LogVerbosity:  1,
	}
}

// Load reads a YAML configuration file over the current values. Keys missing
// from the file keep their value.
func (c *Config) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	next := *c
	if err := yaml.Unmarshal(data, &next); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := next.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	*c = next
	return nil
}

// LoadWorkspace loads FileName from root if present and records root as
// the workspace root.
func (c *Config) LoadWorkspace(root string) {
	logger := commonlog.GetLoggerf("phpscope.config")
	if root != "" {
		c.WorkspaceRoot = root
	}

	path := filepath.Join(c.WorkspaceRoot, FileName)
	if err := c.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Debugf("no %s in %s", FileName, c.WorkspaceRoot)
			return
		}
		logger.Warningf("could not load config: %v", err)
		return
	}
	logger.Infof("loaded %s: %d include, %d exclude patterns", path, len(c.Include), len(c.Exclude))
}

// Validate checks the glob patterns and numeric limits.
func (c *Config) Validate() error {
	for _, list := range [][]string{c.Include, c.Exclude} {
		for _, pattern := range list {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid glob pattern %q", pattern)
			}
		}
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// ApplyInitializationOptions overrides values with the LSP client's
// initializationOptions. Unknown keys and values of the wrong type are ignored.
func (c *Config) ApplyInitializationOptions(options any) {
	m, ok := options.(map[string]any)
	if !ok {
		return
	}
	if v, ok := m["include"]; ok {
		if patterns := stringList(v); len(patterns) > 0 {
			c.Include = patterns
		}
	}
	if v, ok := m["exclude"]; ok {
		if arr, ok := v.([]any); ok {
			c.Exclude = stringList(arr)
		}
	}
	if v, ok := m["cache_size"]; ok {
		// JSON numbers decode as float64.
		if n, ok := v.(float64); ok && n >= 0 {
			c.CacheSize = int(n)
		}
	}
	if v, ok := m["log_verbosity"]; ok {
		if n, ok := v.(float64); ok {
			c.LogVerbosity = int(n)
		}
	}
}

func stringList(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := []string{}
	for _, item := range arr {
		if str, ok := item.(string); ok && str != "" && doublestar.ValidatePattern(str) {
			out = append(out, str)
		}
	}
	return out
}

// Matches reports whether the workspace-relative path is included and not
// excluded.
func (c *Config) Matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	included := false
	for _, pattern := range c.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range c.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}

// SkipDir reports whether a workspace-relative directory is excluded as a
// whole, so a walk need not descend into it.
func (c *Config) SkipDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range c.Exclude {
		if !strings.HasSuffix(pattern, "/**") {
			continue
		}
		if ok, _ := doublestar.Match(pattern, rel+"/x"); ok {
			return true
		}
	}
	return false
}
