// Package cmd implements the lostfound command line client.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/config"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

var (
	cfgFile     string
	baseURL     string
	sessionPath string
	jsonOut     bool
	debug       bool

	cfg    *config.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "lostfound",
	Short: "Lost & Found client",
	Long: `lostfound is a command line client for the Lost & Found service.

Report lost or found items, browse and search reports, and leave comments.

Examples:
  lostfound register --name Ann --email ann@example.com
  lostfound login --email ann@example.com
  lostfound reports list
  lostfound reports search umbrella
  lostfound comments add 12 "I think this is mine"`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.lostfound/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL")
	rootCmd.PersistentFlags().StringVar(&sessionPath, "session", "", "session file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// Execute runs the root command and prints any error the controllers have
// not already shown to the user.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !reported(err) {
		printError(err)
	}
	return err
}

// reported reports whether err was already shown as a toast.
func reported(err error) bool {
	var screenErr *screen.Error
	return errors.As(err, &screenErr)
}

func setup(cmd *cobra.Command, args []string) error {
	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("base-url") {
		overrides["api.base_url"] = baseURL
	}
	if cmd.Flags().Changed("session") {
		overrides["session.path"] = sessionPath
	}
	if debug || os.Getenv(config.EnvPrefix+"_DEBUG") == "true" {
		overrides["log.level"] = "debug"
	}

	var err error
	cfg, err = config.Load(cfgFile, overrides)
	if err != nil {
		return err
	}

	logger = newLogger(cfg.Log)
	slog.SetDefault(logger)
	return nil
}

func newLogger(c config.LogConfig) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// getStore opens the session file named by the configuration.
func getStore() (*session.FileStore, error) {
	store, err := session.NewFileStore(cfg.Session.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return store, nil
}

// getDeps wires a controller's collaborators for one command invocation.
func getDeps(cmd *cobra.Command) (screen.Deps, error) {
	store, err := getStore()
	if err != nil {
		return screen.Deps{}, err
	}

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
		api.WithTokenSource(session.Tokens(store)),
		api.WithLogger(logger),
	)

	return screen.Deps{
		API:     client,
		Session: store,
		Sink:    newSink(os.Stderr),
		Logger:  logger,
		Context: cmd.Context(),
	}, nil
}
