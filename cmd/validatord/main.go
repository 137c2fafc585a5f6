// Package main provides the entry point for the validator store daemon.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wager-validator-store/internal/config"
	"wager-validator-store/internal/logger"
	"wager-validator-store/internal/retention"
	"wager-validator-store/internal/store"
	"wager-validator-store/internal/tui"

	dbpkg "wager-validator-store/internal/db"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	tuiChannelBufferSize = 16
	tuiCloseDelay        = 200 * time.Millisecond
	tuiPollInterval      = 2 * time.Second
)

func main() {
	// Try to load .env from CWD if present; otherwise use environment as-is
	if _, statErr := os.Stat(".env"); statErr == nil {
		_ = godotenv.Load(".env")
	}

	cfg := config.Load()

	// When the TUI is active, write logs to a file to avoid interfering with it
	var logWriter io.Writer = os.Stderr
	if !cfg.Debug {
		logFile, err := os.OpenFile("validatord.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			logWriter = logFile
		} else {
			fmt.Fprintf(os.Stderr, "Warning: failed to open log file, logs will go to stderr (may interfere with TUI): %v\n", err)
		}
	}

	log := logger.New(cfg.LogLevel, logWriter)

	fmt.Printf("Validator store starting...\n")
	fmt.Printf("Config loaded: %s\n", cfg.DebugString())

	gormDB, err := dbpkg.Open(cfg)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	log.Info("database opened")

	if err := dbpkg.AutoMigrate(gormDB); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}
	log.Info("migrations applied")

	st := store.New(gormDB, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sweeper := retention.New(st, cfg.RetentionDays, cfg.RetentionCron, log)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start retention sweeper: %v", err)
	}

	// Create channel for TUI updates; in debug mode skip the TUI and just log
	tuiUpdateCh := make(chan interface{}, tuiChannelBufferSize)
	if !cfg.Debug {
		go func() {
			if err := tui.Run(tuiUpdateCh); err != nil {
				log.Errorf("TUI error: %v", err)
			}
			// TUI exited, trigger shutdown
			cancel()
		}()
	}

	go pollStore(ctx, st, cfg.RetentionDays, tuiUpdateCh, log)

	<-ctx.Done()
	log.Info("shutting down...")

	sweeper.Stop()

	// The poller closes the update channel on exit, which quits the TUI;
	// give it a moment to process the close
	time.Sleep(tuiCloseDelay)

	_ = os.Stderr.Sync()
	_ = os.Stdout.Sync()
}

// pollStore periodically reads store state and feeds the console.
func pollStore(ctx context.Context, st *store.Store, retentionDays int, updateCh chan<- interface{}, log *logrus.Logger) {
	defer close(updateCh)

	ticker := time.NewTicker(tuiPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		stats, err := collectStats(ctx, st, retentionDays)
		if err != nil {
			log.Errorf("store poll failed: %v", err)
			continue
		}

		miners, err := st.AllMinerStates(ctx)
		if err != nil {
			log.Errorf("miner poll failed: %v", err)
			continue
		}

		rows := make([]tui.MinerRow, 0, len(miners))
		for _, m := range miners {
			wallet := ""
			if m.EVMAddress != nil {
				wallet = *m.EVMAddress
			}
			rows = append(rows, tui.MinerRow{
				UID:            m.UID,
				Hotkey:         m.Hotkey,
				Score:          m.Score,
				WeightedVolume: m.WeightedVolume,
				EVMAddress:     wallet,
			})
		}

		select {
		case updateCh <- stats:
		default:
		}
		select {
		case updateCh <- rows:
		default:
		}
	}
}

func collectStats(ctx context.Context, st *store.Store, retentionDays int) (tui.StoreStats, error) {
	counts, err := st.Counts(ctx)
	if err != nil {
		return tui.StoreStats{}, err
	}

	stats := tui.StoreStats{
		Snapshots:      counts.Snapshots,
		Miners:         counts.Miners,
		Events:         counts.Events,
		WalletMappings: counts.WalletMappings,
		RetentionDays:  retentionDays,
	}

	latest, err := st.ListSnapshots(ctx, 1)
	if err != nil {
		return tui.StoreStats{}, err
	}
	if len(latest) > 0 {
		stats.LatestBlock = latest[0].BlockNumber
		stats.LatestTime = latest[0].Timestamp
		stats.LatestMiners = latest[0].TotalMiners
		stats.LatestVolume = latest[0].TotalVolume
	}

	return stats, nil
}
