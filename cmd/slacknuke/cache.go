package main

import (
	"fmt"
	"os"

	"github.com/aatumaykin/slacknuke/internal/cache"
	"github.com/aatumaykin/slacknuke/internal/config"
	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/spf13/cobra"
)

var cacheConfigPath string

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the completion cache",
	Long: `Show or clear the completion cache: the set of conversations a previous
run found fully clean. Clearing it makes the next run re-scan everything.`,
}

// cacheStore loads config and opens the cache store used by the subcommands.
func cacheStore() (*cache.Store, error) {
	configPath := cacheConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(logger.Config{
		Level:  "error",
		Format: "text",
		Output: "stderr",
	})
	if err != nil {
		return nil, err
	}

	return cache.NewStore(cfg.CacheFile, log), nil
}

// cacheShowCmd represents the cache show command
var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List cached conversation IDs",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := cacheStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		set, err := store.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to load cache: %v\n", err)
			os.Exit(1)
		}

		for _, id := range set.IDs() {
			fmt.Println(id)
		}
		fmt.Printf("%d conversations marked clean (%s)\n", len(set), store.Path())
	},
}

// cacheClearCmd represents the cache clear command
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the completion cache file",
	Run: func(cmd *cobra.Command, args []string) {
		store, err := cacheStore()
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(1)
		}

		if err := store.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to clear cache: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cache cleared (%s)\n", store.Path())
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVarP(&cacheConfigPath, "config", "c", "", "Path to configuration file (default: ./config.json)")
	cacheCmd.AddCommand(cacheShowCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
