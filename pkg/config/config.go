// Package config loads stackbom.toml.
//
// Every key is optional; [Default] supplies the values a missing key takes.
// Unknown keys are rejected so typos surface as INVALID_CONFIG instead of
// silently falling back to defaults.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gobwas/glob"

	"github.com/matzehuels/stackbom/pkg/errors"
	"github.com/matzehuels/stackbom/pkg/maven"
)

// FileName is the configuration file looked up in a scanned directory.
const FileName = "stackbom.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the decoded configuration.
type Config struct {
	Workers          int      `toml:"workers"`
	StrictParentPath bool     `toml:"strict_parent_path"`
	SkipScopes       []string `toml:"skip_scopes"`

	Discover Discover `toml:"discover"`
	Cache    Cache    `toml:"cache"`
	Remote   Remote   `toml:"remote"`
}

// Discover controls which descriptors a scan picks up.
type Discover struct {
	ExcludeDirs  []string `toml:"exclude_dirs"`
	ExcludeFiles []string `toml:"exclude_files"`
}

// Cache selects the parse cache backend.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	RedisURL string        `toml:"redis_url"`
	TTL      time.Duration `toml:"ttl"`
}

// Remote controls fetching of parents that are not part of the scan.
type Remote struct {
	Enabled       bool   `toml:"enabled"`
	RepositoryURL string `toml:"repository_url"`
	MaxDepth      int    `toml:"max_depth"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Workers: runtime.NumCPU(),
		Discover: Discover{
			ExcludeDirs: []string{".git", "target", "node_modules"},
		},
		Cache: Cache{
			Backend: BackendFile,
			TTL:     24 * time.Hour,
		},
		Remote: Remote{
			RepositoryURL: "https://repo1.maven.org/maven2",
			MaxDepth:      8,
		},
	}
}

// Load decodes path over [Default] and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Find loads explicit when set, otherwise dir/stackbom.toml when it exists,
// otherwise returns [Default]. The second result is the file that was loaded,
// or "" when none was.
func Find(dir, explicit string) (Config, string, error) {
	path := explicit
	if path == "" {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err != nil {
			return Default(), "", nil
		}
		path = candidate
	}
	cfg, err := Load(path)
	if err != nil {
		return Config{}, "", err
	}
	return cfg, path, nil
}

// Validate checks value ranges and patterns.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be at least 1, got %d", c.Workers)
	}
	for _, s := range c.SkipScopes {
		if maven.ParseScope(s) == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "skip_scopes: unknown scope %q (want import, test or provided)", s)
		}
	}
	for _, p := range append(append([]string{}, c.Discover.ExcludeDirs...), c.Discover.ExcludeFiles...) {
		if _, err := glob.Compile(p, '/'); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "discover: bad pattern %q", p)
		}
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_url is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	if c.Remote.Enabled {
		if err := errors.ValidateURL(c.Remote.RepositoryURL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "remote.repository_url")
		}
	}
	if c.Remote.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "remote.max_depth cannot be negative")
	}
	return nil
}

// SkippedScopes returns the parsed skip_scopes set.
func (c Config) SkippedScopes() map[maven.Scope]bool {
	if len(c.SkipScopes) == 0 {
		return nil
	}
	out := make(map[maven.Scope]bool, len(c.SkipScopes))
	for _, s := range c.SkipScopes {
		if scope := maven.ParseScope(s); scope != "" {
			out[scope] = true
		}
	}
	return out
}
