package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"taskflow/internal/config"
	"taskflow/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	version string

	// loadConfig is replaced in tests
	loadConfig func(overrides *config.ConfigOverrides, logger *slog.Logger) (*config.Config, error)
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(version string) *RootCommand {
	root := &RootCommand{
		version:    version,
		loadConfig: loadConfig,
	}

	root.cmd = &cobra.Command{
		Use:   "taskflow",
		Short: "A personal task tracking API server",
		Long: `taskflow serves a REST API for personal task lists. Every account sees
and changes only its own tasks.

EXAMPLES:
  taskflow serve                           # Serve on :5000 under /api
  taskflow serve --addr :8080 --env production
  taskflow config                          # Print the effective configuration

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

  TASKFLOW_CONFIG                          YAML config file
  TASKFLOW_ENV                             development, testing or production
  TASKFLOW_ADDR / PORT                     Listen address (default: :5000)
  TASKFLOW_BASE_PATH                       Route prefix (default: /api)
  TASKFLOW_DB_DIR, TASKFLOW_DB_FILENAME    Production database location
  TASKFLOW_JWT_SECRET                      Token signing secret (required in production)
  TASKFLOW_TOKEN_TTL                       Session lifetime (default: 720h)
  TASKFLOW_REDIS_ADDR                      Share logouts through redis
  TASKFLOW_CONCEAL_FOREIGN_TASKS           Report other users' tasks as missing
  TASKFLOW_LOG_FORMAT                      text or json
  TASKFLOW_DEBUG                           Force debug logging`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.cmd.Execute()
}

// SetArgs sets the arguments, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// SetOutput redirects command output, mainly for tests
func (r *RootCommand) SetOutput(w io.Writer) {
	r.cmd.SetOut(w)
	r.cmd.SetErr(w)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("config", "", "YAML config file (overrides TASKFLOW_CONFIG)")

	// Server configuration
	flags.String("addr", "", "Listen address (overrides TASKFLOW_ADDR)")
	flags.String("base-path", "", "Route prefix (overrides TASKFLOW_BASE_PATH)")

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TASKFLOW_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TASKFLOW_DB_FILENAME)")

	// Auth configuration
	flags.Bool("conceal-foreign-tasks", false, "Report other users' tasks as not found (overrides TASKFLOW_CONCEAL_FOREIGN_TASKS)")
	flags.String("redis-addr", "", "Redis address for token revocations (overrides TASKFLOW_REDIS_ADDR)")

	// Application configuration
	flags.String("env", "", "development, testing or production (overrides TASKFLOW_ENV)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides TASKFLOW_VERBOSE)")
	flags.String("log-format", "", "text or json (overrides TASKFLOW_LOG_FORMAT)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		newServeCommand(r),
		newConfigCommand(r),
		newVersionCommand(r),
	)
}

// getConfigFromFlags collects the flags the user actually set
func (r *RootCommand) getConfigFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}
	boolFlag := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetBool(name)
		return &value
	}

	overrides.ConfigFile = stringFlag("config")
	overrides.Addr = stringFlag("addr")
	overrides.BasePath = stringFlag("base-path")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFilename = stringFlag("db-filename")
	overrides.ConcealForeignTasks = boolFlag("conceal-foreign-tasks")
	overrides.RedisAddr = stringFlag("redis-addr")
	overrides.Environment = stringFlag("env")
	overrides.Verbose = boolFlag("verbose")
	overrides.LogFormat = stringFlag("log-format")

	return overrides
}

// setup loads the configuration and builds the logger it describes
func (r *RootCommand) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	overrides := r.getConfigFromFlags(cmd)

	// Until the configuration is known, log at the level the flags ask for
	verbose := overrides.Verbose != nil && *overrides.Verbose
	bootLogger := logging.NewWithWriter(cmd.ErrOrStderr(), verbose, "text")

	cfg, err := r.loadConfig(overrides, bootLogger)
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Application.Verbose, cfg.Application.LogFormat)
	return cfg, logger, nil
}

func loadConfig(overrides *config.ConfigOverrides, logger *slog.Logger) (*config.Config, error) {
	return config.NewLoader().WithLogger(logger).LoadWithOverrides(overrides)
}

// Main runs the CLI and returns the process exit code
func Main(version string) int {
	root := NewRootCommand(version)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", NewErrorHandler().HandleSimple(err))
		return 1
	}
	return 0
}
