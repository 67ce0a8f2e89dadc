// ABOUTME: Entry point for the nova-telegram bridge
// ABOUTME: Connects Telegram chats to the Nova inference gateway

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/inferenco/nova-bridge/internal/bridge"
	"github.com/inferenco/nova-bridge/internal/config"
	"github.com/inferenco/nova-bridge/internal/nova"
	"github.com/inferenco/nova-bridge/internal/session"
)

const banner = `
    ╭─────────────────────────────────╮
    │                                 │
    │   ┏┓╻┏━┓╻ ╻┏━┓   ┏┓ ┏━┓╻╺┳┓     │
    │   ┃┗┫┃ ┃┃┏┛┣━┫   ┣┻┓┣┳┛┃ ┃┃     │
    │   ╹ ╹┗━┛┗┛ ╹ ╹   ┗━┛╹┗╸╹╺┻┛     │
    │                                 │
    │       nova-telegram bridge      │
    │                                 │
    ╰─────────────────────────────────╯
`

// getConfigPath returns the path to the bridge config file.
// Priority: NOVA_BRIDGE_CONFIG env var > XDG_CONFIG_HOME/nova/bridge.yaml > ~/.config/nova/bridge.yaml
func getConfigPath() string {
	if envPath := os.Getenv("NOVA_BRIDGE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "bridge.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "nova", "bridge.yaml")
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Print banner
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	// Load .env if present so ${VAR} references in the config resolve
	_ = godotenv.Load()

	configPath := getConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	logger := setupLogger(cfg.Logging.Level, cfg.Logging.Format)

	bot, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		return fmt.Errorf("creating telegram bot: %w", err)
	}

	// Print startup info
	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:  %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Bot:     @%s\n", bot.Self.UserName)
	green.Print("    ▶ ")
	fmt.Printf("Gateway: %s\n", cfg.Nova.BaseURL)
	green.Print("    ▶ ")
	fmt.Printf("Model:   %s\n", cfg.Nova.Model)
	if cfg.Nova.Reasoning.Enabled {
		green.Print("    ▶ ")
		fmt.Println("Reasoning: enabled")
	}
	fmt.Println()

	if err := registerCommands(bot); err != nil {
		return fmt.Errorf("registering bot commands: %w", err)
	}

	client := nova.NewClient(cfg.Nova.APIKey, cfg.Nova.BaseURL, cfg.Nova.Timeout)
	store := session.NewStore()
	messenger := &telegramMessenger{bot: bot}
	settings := bridge.Settings{
		Model:     cfg.Nova.Model,
		Verbosity: cfg.Nova.Verbosity,
		MaxTokens: cfg.Nova.MaxTokens,
		Reasoning: nova.ReasoningSettings{
			Enabled: cfg.Nova.Reasoning.Enabled,
			Effort:  cfg.Nova.Reasoning.Effort,
		},
	}
	core := bridge.New(store, client, messenger, settings, logger)

	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	dispatcher := NewDispatcher(bot, core, logger)

	logger.Info("starting bridge", "bot", bot.Self.UserName, "gateway", cfg.Nova.BaseURL)
	return dispatcher.Run(ctx)
}

// registerCommands publishes the command menu to Telegram.
func registerCommands(bot *tgbotapi.BotAPI) error {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "help", Description: "Show help information"},
		tgbotapi.BotCommand{Command: "reset", Description: "Reset the current conversation context"},
		tgbotapi.BotCommand{Command: "chat", Description: "Chat with Nova Gateway"},
	)
	_, err := bot.Request(commands)
	return err
}

func setupLogger(level, format string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
