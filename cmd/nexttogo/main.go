package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/bcdxn/nexttogo/internal/config"
	"github.com/bcdxn/nexttogo/internal/i18n"
	"github.com/bcdxn/nexttogo/internal/logger"
	"github.com/bcdxn/nexttogo/internal/racing"
	"github.com/bcdxn/nexttogo/internal/tui"
)

func main() {
	configPath := flag.String("config", "nexttogo.yaml", "path to the YAML config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if err := run(*configPath, *debug); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l, f, err := logger.New(cfg.LogFile, level)
	if err != nil {
		return err
	}
	defer f.Close()

	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		return err
	}
	localizer := bundle.Localizer(cfg.Locale)
	i18n.SetDefault(localizer)
	l.Debug("resolved locale", "requested", cfg.Locale, "resolved", localizer.Locale())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// create client responsible for fetching races from the racing API
	client := racing.New(
		racing.WithHTTPBaseURL(cfg.APIBaseURL),
		racing.WithCount(cfg.RaceCount),
		racing.WithLogger(l),
	)
	// create TUI
	raceList := tui.NewRaceList(
		client,
		tui.WithContext(ctx),
		tui.WithLogger(l),
		tui.WithLocalizer(localizer),
		tui.WithFilter(cfg.Filter()),
		tui.WithVisibleRows(cfg.VisibleRows),
		tui.WithRefreshInterval(cfg.RefreshInterval),
	)
	if _, err := raceList.Run(); err != nil && ctx.Err() == nil {
		l.Error("tui exited with error", "err", err)
		return fmt.Errorf("race list: %w", err)
	}
	l.Debug("tui exited")
	return nil
}
