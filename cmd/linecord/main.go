package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
	"unicode/utf8"

	"linecord/internal/bridge"
	"linecord/internal/config"
	"linecord/internal/discord"
	"linecord/internal/line"
	"linecord/internal/server"

	"github.com/spf13/cobra"
)

var (
	version    = "1.0.0"
	logger     *slog.Logger
	configPath string // overridable via --config flag
)

func main() {
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	root := &cobra.Command{
		Use:     "linecord",
		Short:   "linecord: LINE group to Discord webhook forwarding bridge",
		Long:    "linecord relays messages from a LINE group chat, and direct messages from its members, to Discord channels via incoming webhooks.",
		Version: version,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.yaml (default: ~/.linecord/config.yaml)")

	root.AddCommand(initCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(checkCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from --config flag or default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			if err := config.Save(cfgPath, config.Template()); err != nil {
				return err
			}
			logger.Info("initialized", "config", cfgPath)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the forwarding bridge",
		Long:  "Starts the webhook endpoint and forwards incoming LINE events to Discord. Press Ctrl+C to stop.",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return err
	}
	logger = buildLogger(cfg.General)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.General.HTTPTimeoutSeconds) * time.Second

	lineClient := line.NewClient(line.ClientConfig{
		ChannelToken: cfg.Line.ChannelToken,
		APIBase:      cfg.Line.APIBase,
		DataAPIBase:  cfg.Line.DataAPIBase,
		Timeout:      timeout,
		Logger:       logger,
	})

	sender := discord.NewSender(discord.SenderConfig{
		Timeout: timeout,
		Logger:  logger,
	})

	br := bridge.New(bridge.Config{
		GroupIDs:            cfg.Line.GroupIDs,
		RepeatWebhookURL:    cfg.Discord.RepeatWebhookURL,
		BroadcastWebhookURL: cfg.Discord.BroadcastWebhookURL,
		UsernameFiller:      fillerRune(cfg.Discord.UsernameFiller),
		Logger:              logger,
	}, lineClient, sender)

	srv := server.New(server.Config{
		Host:   cfg.Server.Host,
		Port:   cfg.Server.Port,
		Path:   cfg.Server.Path,
		Secret: cfg.Line.ChannelSecret,
		Logger: logger,
	}, br)

	logger.Info("bridge starting", "version", version, "groups", len(cfg.Line.GroupIDs))
	return srv.Start(ctx)
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate config and probe the LINE API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := resolveConfigPath()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Info("config", "path", cfgPath, "valid", true, "groups", len(cfg.Line.GroupIDs))

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			lineClient := line.NewClient(line.ClientConfig{
				ChannelToken: cfg.Line.ChannelToken,
				APIBase:      cfg.Line.APIBase,
				DataAPIBase:  cfg.Line.DataAPIBase,
				Logger:       logger,
			})
			info, err := lineClient.GetBotInfo(ctx)
			if err != nil {
				logger.Error("line api", "reachable", false, "err", err)
				return err
			}
			logger.Info("line api", "reachable", true, "bot", info.DisplayName, "basic_id", info.BasicID)
			return nil
		},
	}
}

// fillerRune extracts the padding rune from config; empty falls back to the
// built-in default.
func fillerRune(s string) rune {
	if s == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func buildLogger(cfg config.GeneralConfig) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	out := io.Writer(os.Stderr)
	if cfg.LogFile != "" {
		if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			logger.Warn("cannot open log file, logging to stderr only", "path", cfg.LogFile, "err", err)
		}
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level}))
}
