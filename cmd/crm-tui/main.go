package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/elishevaschwarz-hash/CRM2/internal/api"
	"github.com/elishevaschwarz-hash/CRM2/internal/config"
	"github.com/elishevaschwarz-hash/CRM2/internal/logging"
)

// parseFlags layers command-line flags over the environment-driven config.
// A flag that was explicitly set wins over its CRM_* variable.
func parseFlags(cfg *config.Config) {
	baseURL := flag.String("api", cfg.APIBaseURL, "CRM backend base URL")
	token := flag.String("chat-token", cfg.ChatToken, "bearer token for the assistant endpoint")
	timeout := flag.Duration("timeout", cfg.HTTPTimeout, "HTTP request timeout")
	logFile := flag.String("log", cfg.LogFile, "log file path")
	debug := flag.Bool("debug", cfg.Debug, "enable debug logging")
	flag.Parse()

	cfg.APIBaseURL = *baseURL
	cfg.ChatToken = *token
	cfg.HTTPTimeout = *timeout
	cfg.LogFile = *logFile
	cfg.Debug = *debug
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "crm-tui:", err)
		os.Exit(1)
	}
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "crm-tui:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, "crm-tui: open log:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting crm-tui",
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Bool("chat_token_set", cfg.ChatToken != ""),
	)

	client := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	program := tea.NewProgram(
		newModel(cfg, logger, client),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := program.Run(); err != nil {
		logger.Error("program exited with error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "crm-tui:", err)
		os.Exit(1)
	}
	logger.Info("crm-tui exited")
}
