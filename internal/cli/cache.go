package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackbom/pkg/cache"
	"github.com/matzehuels/stackbom/pkg/config"
	"github.com/matzehuels/stackbom/pkg/httputil"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the parse and HTTP caches",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached parse results and fetched descriptors",
		Long: `Clear cached parse results and fetched descriptors.

When the configuration selects the redis backend, keys under the stackbom
prefix are deleted from Redis as well.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			cfg, _, err := config.Find(".", cfgPath)
			if err != nil {
				return err
			}

			parse, err := clearParseCache(cmd, cfg.Cache, dir)
			if err != nil {
				return err
			}
			http, err := clearHTTPCache(filepath.Join(dir, httpCacheDir))
			if err != nil {
				return err
			}

			if parse+http == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", parse+http)
			printDetail("Parse: %d, HTTP: %d", parse, http)
			printDetail("Directory: %s", dir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default: ./stackbom.toml)")
	return cmd
}

func clearParseCache(cmd *cobra.Command, cfg config.Cache, dir string) (int, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return 0, nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(cmd.Context(), cfg.RedisURL)
		if err != nil {
			return 0, err
		}
		defer rc.Close()
		return rc.Clear(cmd.Context(), redisPrefix)
	}
	if cfg.Dir != "" {
		dir = cfg.Dir
	} else {
		dir = filepath.Join(dir, parseCacheDir)
	}
	return countAndClear(dir)
}

// countAndClear removes a file cache directory and reports how many entries
// it held.
func countAndClear(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	count := 0
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			count++
		}
		return nil
	})
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return 0, err
	}
	if err := fc.Clear(); err != nil {
		return 0, err
	}
	return count, nil
}

func clearHTTPCache(dir string) (int, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return 0, nil
	}
	hc, err := httputil.NewCache(dir, 0)
	if err != nil {
		return 0, err
	}
	return hc.Clear()
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
