package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"gradeassist/internal/config"
)

// Indirection for tests.
var (
	fnServe       = runServe
	fnMigrate     = runMigrate
	fnMigrateInfo = runMigrateInfo
)

type rootOptions struct {
	configPath  string
	envFile     string
	addr        string
	logLevel    string
	logFormat   string
	corsOrigins string
}

func newRootCmd() *cobra.Command { return buildRootCmdWith(&rootOptions{}) }

func buildRootCmdWith(o *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "gradeassist",
		Short:         "Exam grading services",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", o.configPath, "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&o.envFile, "env-file", ".env", "Dotenv file loaded before the config; missing is fine")
	pf.StringVar(&o.addr, "addr", o.addr, "HTTP listen address (defaults GRADEASSIST_ADDR or the service default)")
	pf.StringVar(&o.logLevel, "log-level", o.logLevel, "Log level: debug|info|warn|error")
	pf.StringVar(&o.logFormat, "log-format", o.logFormat, "Log format: json|console")
	pf.StringVar(&o.corsOrigins, "cors-origins", o.corsOrigins, "Comma-separated CORS origins; enables CORS")

	serveCmd := &cobra.Command{
		Use:   "serve <service>",
		Short: "Run one service",
		Long:  "Run one service: " + strings.Join(config.Services, "|"),
		Example: "  gradeassist serve deberta --addr :8000\n" +
			"  gradeassist serve grader --config config.yaml",
		ValidArgs: config.Services,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("serve requires a service: %s", strings.Join(config.Services, "|"))
		},
	}
	for _, svc := range config.Services {
		serveCmd.AddCommand(&cobra.Command{
			Use:   svc,
			Short: "Run the " + svc + " service",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(o)
				if err != nil {
					return err
				}
				log := newLogger(cfg, os.Stderr)
				if err := fnServe(cmd.Context(), svc, cfg, log); err != nil {
					log.Fatal().Err(err).Str("service", svc).Msg("service stopped")
				}
				return nil
			},
		})
	}
	root.AddCommand(serveCmd)

	var toVersion int32
	migrateCmd := &cobra.Command{
		Use:     "migrate",
		Short:   "Apply database migrations",
		Example: "  gradeassist migrate\n  gradeassist migrate --to 1\n  gradeassist migrate info",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			to := -1
			if cmd.Flags().Changed("to") {
				to = int(toVersion)
			}
			return fnMigrate(cmd.Context(), cfg, to, cmd.OutOrStdout())
		},
	}
	migrateCmd.Flags().Int32Var(&toVersion, "to", 0, "Target schema version (0 undoes every migration)")
	migrateCmd.AddCommand(&cobra.Command{
		Use:   "info",
		Short: "Show the schema version and available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			return fnMigrateInfo(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	})
	root.AddCommand(migrateCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	root.AddCommand(completionCmd)

	return root
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(o *rootOptions) (config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		return config.Config{}, err
	}
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
	}
	config.ApplyEnv(&cfg, os.Getenv)
	if o.addr != "" {
		cfg.Addr = o.addr
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if origins := splitCSV(o.corsOrigins); len(origins) > 0 {
		cfg.CORS.Enabled = true
		cfg.CORS.Origins = origins
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

