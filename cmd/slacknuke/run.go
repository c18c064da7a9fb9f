package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aatumaykin/slacknuke/internal/app"
	"github.com/aatumaykin/slacknuke/internal/backoff"
	"github.com/aatumaykin/slacknuke/internal/cache"
	"github.com/aatumaykin/slacknuke/internal/config"
	"github.com/aatumaykin/slacknuke/internal/logger"
	"github.com/aatumaykin/slacknuke/internal/slack"
	"github.com/spf13/cobra"
)

var (
	runConfigPath string
	runDebug      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Delete your messages across the workspace",
	Long: `Resolve your identity, enumerate every conversation you belong to and
delete your own messages in each one. Conversations already found clean
in previous runs are skipped via the local completion cache.`,
	Run: runHandler,
}

func runHandler(cmd *cobra.Command, args []string) {
	// Determine config path
	configPath := runConfigPath
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		if hint := configLoadHint(err); hint != "" {
			fmt.Println(hint)
		}
		os.Exit(1)
	}

	// Validate configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Printf("❌ Configuration validation failed:\n")
		for _, e := range errs {
			fmt.Printf("  - %v\n", e)
		}
		os.Exit(1)
	}

	// Enable debug mode if flag is set
	if runDebug {
		cfg.Logging.Level = "debug"
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🚀 Starting slacknuke",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "cache_file", Value: cfg.CacheFile},
		logger.Field{Key: "token", Value: config.MaskToken(cfg.SlackToken)},
	)

	// Create context cancelled on shutdown signal
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info("⏳ Received shutdown signal, finishing current call",
			logger.Field{Key: "signal", Value: sig.String()})
		cancel()
	}()

	// Wire components
	bo := backoff.New(backoff.Config{
		Initial: time.Duration(cfg.InitialRetryDelaySeconds) * time.Second,
		Max:     time.Duration(cfg.MaxRetryDelaySeconds) * time.Second,
	})
	client := slack.NewClient(slack.Config{
		Token:               cfg.SlackToken,
		BaseURL:             cfg.APIBaseURL,
		PageSize:            cfg.PageSize,
		MaxRateLimitRetries: cfg.MaxRateLimitRetries,
	}, bo, log)
	store := cache.NewStore(cfg.CacheFile, log)

	application := app.New(client, store, log, os.Stdout)
	if err := application.Run(ctx); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// configLoadHint suggests bootstrapping a config only when the file itself is
// missing. A file that exists but fails to parse gets no copy-the-example
// advice: that would steer the user toward overwriting their own config.
func configLoadHint(err error) string {
	if errors.Is(err, os.ErrNotExist) {
		return "Create it with: cp config.example.json config.json\nThen add your Slack token to the file."
	}
	return ""
}

func init() {
	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "Path to configuration file (default: ./config.json)")
	runCmd.Flags().BoolVarP(&runDebug, "debug", "d", false, "Enable debug logging")
}
