// Command tiletreasure runs the Tile Treasure board game engine.
//
// It supports several subcommands:
//  1. "mcp" – serves the game as MCP tools over stdio for AI agents
//  2. "simulate" – plays many all-computer games and reports statistics
//  3. "configs" – lists the available rule sets
//  4. "validate" – checks every rule-set file in the config directory
//  5. "analyze" – prints heuristics about each rule set
//
// Flags control the config directory and logging. Environment variables
// (optionally from a .env file) provide the same settings, and an OTLP
// endpoint in OTEL_EXPORTER_OTLP_ENDPOINT turns on tracing.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/tiletreasure/game/config"
	"github.com/wricardo/tiletreasure/game/service"
	"github.com/wricardo/tiletreasure/game/session"
	"github.com/wricardo/tiletreasure/internal/telemetry"
	"github.com/wricardo/tiletreasure/transport/mcp"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Tile Treasure"
)

// main loads the environment, builds the command tree and runs it
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("Error loading .env file: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the root command
func newApp() *cli.Command {
	var shutdownTelemetry func(context.Context) error

	return &cli.Command{
		Name:    "tiletreasure",
		Usage:   "A four-player tile collecting board game",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "directory containing rule-set files (.json, .yaml)",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "text",
				Usage:   "log format (text or json)",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := setupLogging(cmd.String("log-level"), cmd.String("log-format"), cmd.Bool("debug")); err != nil {
				return ctx, err
			}

			if telemetry.Enabled() {
				shutdown, err := telemetry.Setup(ctx)
				if err != nil {
					log.WithError(err).Warn("telemetry setup failed, continuing without tracing")
				} else {
					shutdownTelemetry = shutdown
				}
			}
			return ctx, nil
		},
		After: func(ctx context.Context, cmd *cli.Command) error {
			if shutdownTelemetry == nil {
				return nil
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				log.WithError(err).Warn("telemetry shutdown failed")
			}
			return nil
		},
		Commands: []*cli.Command{
			mcpCommand(),
			simulateCommand(),
			configsCommand(),
			validateCommand(),
			analyzeCommand(),
		},
	}
}

// setupLogging configures the global logger. Logs always go to stderr since
// stdout carries the MCP protocol and command output.
func setupLogging(level, format string, debug bool) error {
	log.SetOutput(os.Stderr)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if debug {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", format)
	}
	return nil
}

// newConfigManager opens the config directory. A missing default directory
// falls back to the built-in rule set; a missing explicit one is an error.
func newConfigManager(cmd *cli.Command) (*config.Manager, error) {
	dir := cmd.String("config-dir")
	if _, err := os.Stat(dir); os.IsNotExist(err) && !cmd.IsSet("config-dir") {
		log.WithField("dir", dir).Warn("config directory not found, using built-in classic rule set")
		dir = ""
	}
	return config.NewManager(dir)
}

// initializeServices wires the session and config managers into a game service
func initializeServices(cmd *cli.Command) (service.GameService, *session.Manager, error) {
	configs, err := newConfigManager(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	if name := cmd.String("default-config"); name != "" {
		if err := configs.SetDefault(name); err != nil {
			return nil, nil, fmt.Errorf("failed to set default config %s: %w", name, err)
		}
	}

	sessions := session.NewManager()
	return service.NewGameService(sessions, configs), sessions, nil
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "serve the game as MCP tools over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "default-config",
				Usage: "rule set used when create_session names none",
			},
			&cli.DurationFlag{
				Name:  "session-ttl",
				Value: 30 * time.Minute,
				Usage: "remove sessions idle for longer than this (0 keeps them forever)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, sessions, err := initializeServices(cmd)
			if err != nil {
				return err
			}

			if ttl := cmd.Duration("session-ttl"); ttl > 0 {
				janitorCtx, cancel := context.WithCancel(ctx)
				defer cancel()
				go sessions.RunJanitor(janitorCtx, ttl/4, ttl)
			}

			log.WithField("version", Version).Infof("%s MCP server on stdio", AppName)
			return mcp.NewServer(svc, Version).ServeStdio()
		},
	}
}

func configsCommand() *cli.Command {
	return &cli.Command{
		Name:  "configs",
		Usage: "list the available rule sets",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configs, err := newConfigManager(cmd)
			if err != nil {
				return err
			}

			list, err := configs.ListConfigs()
			if err != nil {
				return err
			}

			w := cmd.Root().Writer
			for _, info := range list {
				fmt.Fprintf(w, "%-12s %-20s %2dx%-2d capacity %-4d players %d\n",
					info.ConfigID, info.Name, info.BoardSize, info.BoardSize, info.MaxCapacity, info.Players)
			}
			return nil
		},
	}
}
