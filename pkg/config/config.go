// Package config loads the pipeline configuration: where the data
// tree lives, how tenant domains are aliased, and how raw report files
// are discovered by filename. Everything has a working default so a
// bare checkout runs without a config file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cybertimeline/cybertimeline/pkg/entity"
)

// Discovery holds the filename keyword sets used to find each raw
// report inside a month's raw directory. Each entry is a list of
// alternatives tried in order; an alternative matches a file when the
// lowercased filename contains every keyword in it.
type Discovery struct {
	UserList  [][]string `yaml:"user_list"`
	AssetList [][]string `yaml:"asset_list"`
	EDR       [][]string `yaml:"edr"`
	Backup    [][]string `yaml:"backup"`
	Phishing  [][]string `yaml:"phishing"`
	DarkWeb   [][]string `yaml:"dark_web"`
}

// Config is the full pipeline configuration.
type Config struct {
	// DataDir is the root of the data tree: raw/<month>/ inputs and
	// the normalized/, enriched/, diffs/ and insights/ outputs.
	DataDir string `yaml:"data_dir"`

	// DomainAliases maps old email domains to their canonical form,
	// keeping user identity stable across tenant domain migrations.
	DomainAliases map[string]string `yaml:"domain_aliases"`

	Discovery Discovery `yaml:"discovery"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		DataDir: "data",
		Discovery: Discovery{
			UserList:  [][]string{{"user", "list"}, {"user"}},
			AssetList: [][]string{{"asset", "list"}, {"asset"}},
			EDR:       [][]string{{"edr"}, {"rocket", "cyber"}},
			Backup:    [][]string{{"backup"}, {"files", "folders"}, {"file", "folder"}},
			Phishing:  [][]string{{"phishing"}},
			DarkWeb:   [][]string{{"dark", "web"}, {"darkweb"}},
		},
	}
}

// Load reads the config file at path over the defaults. A missing file
// is not an error; a malformed or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.canonicalizeAliases()
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir", ErrMissingRequired)
	}
	for from, to := range c.DomainAliases {
		if from == "" || to == "" {
			return fmt.Errorf("%w: domain alias %q -> %q", ErrInvalidConfig, from, to)
		}
	}
	return nil
}

// canonicalizeAliases lowercases alias keys and values so lookups
// against normalized emails always hit.
func (c *Config) canonicalizeAliases() {
	if len(c.DomainAliases) == 0 {
		return
	}
	out := make(map[string]string, len(c.DomainAliases))
	for from, to := range c.DomainAliases {
		out[strings.ToLower(strings.TrimSpace(from))] = strings.ToLower(strings.TrimSpace(to))
	}
	c.DomainAliases = out
}

// RawDir is where a month's raw report exports live.
func (c *Config) RawDir(month entity.Month) string {
	return filepath.Join(c.DataDir, "raw", string(month))
}

// NormalizedDir holds the canonical monthly snapshots.
func (c *Config) NormalizedDir() string {
	return filepath.Join(c.DataDir, "normalized")
}

// EnrichedDir holds snapshots after report enrichment.
func (c *Config) EnrichedDir() string {
	return filepath.Join(c.DataDir, "enriched")
}

// DiffDir holds month-over-month diff artifacts.
func (c *Config) DiffDir() string {
	return filepath.Join(c.DataDir, "diffs")
}

// InsightDir holds derived insight bundles.
func (c *Config) InsightDir() string {
	return filepath.Join(c.DataDir, "insights")
}

// FindReport locates the first file in dir whose lowercased name
// contains every keyword of one of the alternative sets. It returns
// the empty string when nothing matches; callers decide whether the
// report is required.
func FindReport(dir string, alternatives [][]string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, alt := range alternatives {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := strings.ToLower(e.Name())
			if containsAll(name, alt) {
				return filepath.Join(dir, e.Name()), nil
			}
		}
	}
	return "", nil
}

func containsAll(name string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(name, strings.ToLower(kw)) {
			return false
		}
	}
	return true
}
