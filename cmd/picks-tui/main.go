package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"safepicks/internal/config"
	"safepicks/internal/tui"
	"safepicks/internal/util"
	"safepicks/pkg/picks"
)

func main() {
	cfg, err := config.LoadOrDefault(os.Getenv("SAFEPICKS_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The screen owns stdout, so log to a file.
	logPath := cfg.Logging.File
	if logPath == "" {
		logPath = fmt.Sprintf("/tmp/picks-tui-%s.log", time.Now().Format(util.DateLayout))
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := util.NewLogger(cfg.Logging.Level, "text", logFile)
	util.SetDefault(logger)

	cal, err := util.LoadGameCalendar(cfg.Display.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	client := picks.NewClient(cfg.API.BaseURL,
		picks.WithTimeout(cfg.API.Timeout()),
		picks.WithLogger(logger),
	)
	logger.Info("picks viewer starting", "api", client.BaseURL(), "timezone", cfg.Display.Timezone)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := tui.New(ctx, client, tui.Options{
		Calendar: cal,
		Logger:   logger,
		Source:   client.BaseURL(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
