package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/scene-graph-mcp/internal/config"
	"github.com/ironsheep/scene-graph-mcp/internal/logging"
	"github.com/ironsheep/scene-graph-mcp/internal/server"
)

// logLevelEnv overrides the configured log level when set.
const logLevelEnv = "SCENE_MCP_LOG_LEVEL"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "scene-mcp",
		Short: "Scene graph construction and comparison",
		Long: `scene-mcp turns object detections into spatial scene graphs and reports
what changed between two scenes.

Without a subcommand it runs the MCP server on stdin/stdout. Configure it
in your MCP client (e.g., Claude Desktop) as a stdio server.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	pflags := rootCmd.PersistentFlags()
	pflags.StringVar(&flags.configPath, "config", "", "path to a YAML config file")
	pflags.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides "+logLevelEnv+")")

	rootCmd.AddCommand(
		newServeCmd(flags),
		newBuildCmd(flags),
		newCompareCmd(flags),
		newVersionCmd(),
	)
	return rootCmd
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *globalFlags) error {
	cfg, logger, err := setup(flags)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	logger.Debug("starting scene-mcp",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit))

	srv := server.New(cfg, logger).WithVersion(Version)
	if err := srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// setup loads the config and builds the logger. The log level comes from
// --log-level, then SCENE_MCP_LOG_LEVEL, then the config file.
func setup(flags *globalFlags) (*config.Config, *zap.Logger, error) {
	cfg := config.Default()
	if flags.configPath != "" {
		loaded, err := config.Load(flags.configPath)
		if err != nil {
			return nil, nil, err
		}
		cfg = loaded
	}

	level := cfg.Log.Level
	if env := os.Getenv(logLevelEnv); env != "" {
		level = env
	}
	if flags.logLevel != "" {
		level = flags.logLevel
	}

	logger, err := logging.New(level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scene-mcp %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	}
}

// readInput returns the contents of path. A path of "-" reads from stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}

func marshalIndent(v interface{}) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
