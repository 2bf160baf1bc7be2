package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/mtg-events/internal/config"
	"github.com/pfrederiksen/mtg-events/internal/logger"
	"github.com/pfrederiksen/mtg-events/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// app holds the state shared by all subcommands of one invocation
type app struct {
	configFlag string
	formatFlag string
	logLevel   string
	logFormat  string

	runID  string
	cfg    *config.Config
	format OutputFormat
	now    func() time.Time
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	cmd := &cobra.Command{
		Use:   "mtg-events",
		Short: "Maintain the MTG event listing document",
		Long: `Extract MTG events from a listing into a JSON document, research missing
venue details, and geocode venue addresses.

Every command can be re-run safely: extraction merges into the stored document
without losing records, and enrichment values are never overwritten once set.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&a.configFlag, "config", "c", "", "Configuration file path")
	cmd.PersistentFlags().StringVar(&a.formatFlag, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")
	cmd.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: json or console (overrides config)")

	cmd.AddCommand(newExtractCmd(a))
	cmd.AddCommand(newPrepareCmd(a))
	cmd.AddCommand(newApplyCmd(a))
	cmd.AddCommand(newGeocodeCmd(a))
	cmd.AddCommand(newStatusCmd(a))
	cmd.AddCommand(newICSCmd(a))
	cmd.AddCommand(newConfigCmd(a))

	return cmd
}

// setup loads the configuration and installs the logger for this run
func (a *app) setup(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(a.formatFlag)))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", a.formatFlag)
	}
	a.format = format
	a.runID = uuid.NewString()

	logging := config.Default().Logging
	if !skipConfig(cmd) {
		cfg, path, exists, err := config.Load(strings.TrimSpace(a.configFlag))
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		a.cfg = cfg
		logging = cfg.Logging
		defer func() {
			logger.Debug("Configuration loaded", logger.Fields{"path": path, "exists": exists})
		}()
	}
	if a.logLevel != "" {
		logging.Level = a.logLevel
	}
	if a.logFormat != "" {
		logging.Format = a.logFormat
	}

	level, err := logger.ParseLevel(logging.Level)
	if err != nil {
		return err
	}
	logFormat, err := logger.ParseFormat(logging.Format)
	if err != nil {
		return err
	}
	logger.SetDefault(logger.NewWithFormat(level, logFormat, cmd.ErrOrStderr()).With(logger.Fields{
		"run_id":  a.runID,
		"command": cmd.Name(),
	}))
	return nil
}

// skipConfig reports whether cmd or a parent opted out of config loading
func skipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// storage opens the configured document, cache and progress files
func (a *app) storage() (*storage.Storage, error) {
	st, err := storage.New(storage.Paths{
		Document: a.cfg.Paths.DocumentFile,
		Cache:    a.cfg.Paths.CacheFile,
		Progress: a.cfg.Paths.ProgressFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	return st, nil
}

// saveSideFiles writes the cache and progress files. Both only save work, so
// a failure is logged and not returned.
func saveSideFiles(st *storage.Storage, cache *storage.Cache, progress *storage.Progress) {
	if err := st.SaveCache(cache); err != nil {
		logger.Warn("Saving cache failed", logger.Fields{"error": err.Error()})
	}
	if err := st.SaveProgress(progress); err != nil {
		logger.Warn("Saving progress failed", logger.Fields{"error": err.Error()})
	}
}

// withLock runs fn while holding the writer lock on the document
func (a *app) withLock(st *storage.Storage, fn func() error) error {
	lock, err := st.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("Releasing lock failed", logger.Fields{"path": st.LockPath(), "error": err.Error()})
		}
	}()
	return fn()
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the running command, which
// stops at the next safe point.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	cancel()
	logger.Default().Sync()

	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(ExitError)
	}
}
