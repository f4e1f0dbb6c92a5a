package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/leetreview/internal/config"
	"github.com/abhisek/leetreview/internal/logutils"
	"github.com/abhisek/leetreview/internal/store"
	"github.com/abhisek/leetreview/internal/tracker"
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var (
	cfg         *config.Config
	closeLogger = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "leetreview",
	Short:         "Spaced-repetition tracker for coding problems",
	Long:          "leetreview schedules reviews of solved coding problems on a fixed interval ladder and tracks every attempt.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reviewCmd.RunE(cmd, args)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogger()
	},
}

// Execute runs the root command and prints any error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides LEETREVIEW_DB env var)")
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/leetreview/config.yaml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.Bool("json", false, "Print machine-readable JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(attemptCmd)
	rootCmd.AddCommand(postponeCmd)
	rootCmd.AddCommand(todayCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and installs the
// global logger.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}

	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.Database.Path = p
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		c.Log.Level = lvl
	}

	logger, closer, err := logutils.New(c.Log.Level, c.Log.File)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log.Logger = logger
	zerolog.DefaultContextLogger = &log.Logger
	closeLogger = closer
	cfg = c
	return nil
}

// openTracker opens the configured store and builds the tracker service.
// The returned func closes the store.
func openTracker() (*tracker.Service, func(), error) {
	dbPath, err := cfg.DBPath()
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, fmt.Errorf("load timezone: %w", err)
	}

	st, err := store.OpenWithOptions(dbPath, cfg.StoreOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug().Str("db", dbPath).Msg("store opened")

	svc := tracker.New(st,
		tracker.WithLocation(loc),
		tracker.WithNewLimit(cfg.Review.NewLimit),
		tracker.WithLogger(logutils.Component(log.Logger, "tracker")),
	)
	return svc, func() { _ = st.Close() }, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
