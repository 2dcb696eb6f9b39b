/*
Package main is the entry point for the group chat terminal client.

It is responsible for loading configuration, initializing the global logging
system, wiring the token store, request gateway, session manager, and feed
synchronizer together, and running the terminal UI program. Session and feed
state changes are forwarded into the program as messages.
*/
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"gchat/internal/app/api"
	"gchat/internal/app/feed"
	"gchat/internal/app/session"
	"gchat/internal/app/token"
	"gchat/internal/configs"
	"gchat/internal/pkg/logx"
	"gchat/internal/ui"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger. The TUI owns the terminal, so logs go to a
	// file; a broken sink degrades to discarded output rather than aborting.
	closeLog, logErr := logx.InitGlobalLogger(cfg.LogFile, cfg.Environment == "development")
	defer closeLog()
	if logErr != nil {
		fmt.Fprintf(os.Stderr, "WARNING: log file unavailable, continuing without logs: %v\n", logErr)
	}

	logx.Info("Configuration loaded successfully",
		"environment", cfg.Environment,
		"server_url", cfg.ServerURL,
		"poll_interval", cfg.PollInterval.String(),
	)

	// Wire the core: token store -> gateway -> session manager -> synchronizer.
	tokens := token.NewStore(cfg.TokenFile)
	client := api.NewClient(cfg.ServerURL, cfg.RequestTimeout, tokens)
	manager := session.NewManager(client, tokens)
	synchronizer := feed.NewSynchronizer(client, cfg.PollInterval)

	program := tea.NewProgram(
		ui.New(manager, synchronizer, cfg.RequestTimeout),
		tea.WithAltScreen(),
	)

	// Core state changes enter the UI as messages.
	unsubscribeSession := manager.Subscribe(func(s session.Session) {
		program.Send(ui.SessionMsg{Session: s})
	})
	defer unsubscribeSession()

	unsubscribeFeed := synchronizer.Subscribe(func(s feed.Snapshot) {
		program.Send(ui.FeedMsg{Snapshot: s})
	})
	defer unsubscribeFeed()

	// Resolve the stored session in the background; the UI shows the neutral
	// loading state until this finishes.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		manager.Resolve(ctx)
	}()

	if _, err := program.Run(); err != nil {
		synchronizer.Stop()
		logx.Fatal(err, "Client terminated with an error")
	}

	synchronizer.Stop()
	logx.Info("Client exited.")
}
