// Command server runs the StreamLine chat server: it wires the user
// directory, room registry, persistence store, and dispatcher together,
// then serves connections until interrupted. Shaped like
// bureau-foundation-bureau's cmd/bureau-launcher/main.go (flag parse,
// construct dependencies, log, block on a shutdown signal, tear down)
// adapted from bureau's unix-socket daemon to a plain TCP listener, and
// using pflag in place of stdlib flag per the rest of the pack's CLI
// convention.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"streamline/internal/config"
	"streamline/internal/directory"
	"streamline/internal/dispatcher"
	"streamline/internal/housekeeper"
	"streamline/internal/persistence"
	"streamline/internal/rooms"
	"streamline/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath string
		listenAddr string
		logJSON    bool
		showHelp   bool
	)
	pflag.StringVar(&configPath, "config", "", "path to a YAML config file (overrides STREAMLINE_CONFIG)")
	pflag.StringVar(&listenAddr, "listen", "", "override the configured listen address")
	pflag.BoolVar(&logJSON, "log-json", false, "emit structured logs as JSON instead of text")
	pflag.BoolVarP(&showHelp, "help", "h", false, "print usage and exit")
	pflag.Parse()

	if showHelp {
		pflag.Usage()
		return nil
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listenAddr != "" {
		cfg.Listen = listenAddr
	}

	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if logJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	log := slog.New(handler)

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir %s: %w", cfg.DataDir, err)
	}

	store := persistence.Open(cfg.DataDir, log)
	defer store.Close()

	dir := directory.New()
	if users, err := store.LoadUsers(); err != nil {
		return fmt.Errorf("loading users: %w", err)
	} else {
		dir.Restore(users)
		log.Info("directory loaded", "accounts", len(users))
	}

	roomReg := rooms.New()
	if roomsLoaded, err := store.LoadRooms(); err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	} else {
		roomReg.Restore(roomsLoaded)
		log.Info("rooms loaded", "rooms", len(roomsLoaded))
	}

	disp := dispatcher.New(dir, roomReg, store, cfg, log)

	srv, err := server.Listen(cfg.Listen, disp, log)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
	}
	log.Info("server listening", "addr", cfg.Listen, "data_dir", cfg.DataDir)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hk := housekeeper.New(disp, cfg.HousekeeperInterval, log)
	go hk.Run(ctx)

	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx) }()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			log.Error("server stopped", "error", err)
		}
	}

	srv.Close()
	disp.Snapshot()
	return nil
}
