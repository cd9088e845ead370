package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1broseidon/deskshell/internal/catalog"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/runtimepath"
	"github.com/1broseidon/deskshell/internal/shell"
	"github.com/1broseidon/deskshell/internal/store"
	"github.com/1broseidon/deskshell/internal/tui"
)

// catalogTimeout bounds how long startup waits for the icon catalog.
const catalogTimeout = 10 * time.Second

// desktop is a running session with its IPC server and snapshot store.
type desktop struct {
	session   *shell.Session
	snapshots *store.Store
	server    *ipc.Server
	logger    *slog.Logger
}

// startDesktop loads the catalog, builds the session, opens the snapshot
// store and starts the IPC server. A store that cannot be opened only
// disables snapshots.
func startDesktop(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*desktop, error) {
	catalogPath, err := cfg.CatalogPath()
	if err != nil {
		return nil, err
	}
	loadCtx, cancel := context.WithTimeout(ctx, catalogTimeout)
	defer cancel()
	loader := catalog.Start(loadCtx, catalogPath)
	cat, err := loader.Wait(loadCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("catalog loaded", "path", catalogPath, "icons", len(cat.Entries))

	d := &desktop{
		session: shell.New(cfg, cat.Defs(), cat.Providers(), logger),
		logger:  logger,
	}

	storePath, err := cfg.StorePath()
	if err == nil {
		d.snapshots, err = store.Open(storePath)
	}
	if err != nil {
		logger.Warn("snapshots disabled", "error", err)
		d.snapshots = nil
	}

	srv, err := ipc.NewServer(d.session, d.snapshots, logger)
	if err != nil {
		d.close()
		return nil, err
	}
	if err := srv.Start(); err != nil {
		d.close()
		return nil, err
	}
	d.server = srv
	return d, nil
}

func (d *desktop) close() {
	if d.server != nil {
		d.server.Stop()
	}
	if d.snapshots != nil {
		if err := d.snapshots.Close(); err != nil {
			d.logger.Warn("failed to close snapshot store", "error", err)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runDaemon(args []string) int {
	fs := flagSet("daemon", "Usage: deskshell daemon [--config PATH]",
		"Run a headless desktop session. Drive it with the other commands or 'deskshell mcp serve'.")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger := newLogger(os.Stderr, cfg)

	ctx, stop := signalContext()
	defer stop()

	d, err := startDesktop(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return 1
	}
	defer d.close()

	pidPath, err := runtimepath.WritePID()
	if err != nil {
		logger.Warn("failed to write pid file", "error", err)
	} else {
		defer os.Remove(pidPath)
	}

	logger.Info("deskshell daemon started", "session", d.session.ID(), "socket", d.server.SocketPath())
	<-ctx.Done()
	logger.Info("shutting down")
	return 0
}

func runTUI(args []string) int {
	fs := flagSet("tui", "Usage: deskshell tui [--config PATH] [--log PATH]",
		"Run the desktop in this terminal. The IPC socket stays available to other commands.")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
	logPath := fs.String("log", "", "Write logs to this file (default: discard)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "tui takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg)

	ctx, stop := signalContext()
	defer stop()

	d, err := startDesktop(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer d.close()

	if err := tui.Run(ctx, d.session, cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
