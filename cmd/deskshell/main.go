package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/deskshell/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "open", "close", "minimize", "maximize", "focus", "taskbar":
		os.Exit(runWindowCommand(os.Args[1], os.Args[2:]))
	case "sort":
		os.Exit(runSort(os.Args[2:]))
	case "move-icon":
		os.Exit(runMoveIcon(os.Args[2:]))
	case "menu":
		os.Exit(runMenu(os.Args[2:]))
	case "lock":
		os.Exit(runLock(os.Args[2:]))
	case "unlock":
		os.Exit(runUnlock(os.Args[2:]))
	case "relayout":
		os.Exit(runRelayout(os.Args[2:]))
	case "icons":
		os.Exit(runIcons(os.Args[2:]))
	case "snapshot":
		os.Exit(runSnapshot(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskshell <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run a headless desktop session (foreground)")
	fmt.Fprintln(w, "  tui                 Run the desktop in this terminal")
	fmt.Fprintln(w, "  status              Show session status")
	fmt.Fprintln(w, "  state               Show windows, icons and menus")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <id>           Activate an icon (open or focus its window)")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  minimize <id>       Minimize a window")
	fmt.Fprintln(w, "  maximize <id>       Toggle maximize")
	fmt.Fprintln(w, "  focus <id>          Bring a window to the front")
	fmt.Fprintln(w, "  taskbar <id>        Click a window's taskbar button")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  icons               List catalog icons")
	fmt.Fprintln(w, "  sort <key>          Sort icons by name, type or dateModified")
	fmt.Fprintln(w, "  move-icon <id> X Y  Drop an icon at a pointer position")
	fmt.Fprintln(w, "  relayout            Lay icons out again from the sorted order")
	fmt.Fprintln(w, "  menu <name> [X Y]   Toggle start|calendar, open context at X Y, or close")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  lock                Lock the session")
	fmt.Fprintln(w, "  unlock              Unlock the session (prompts for the passphrase)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  snapshot save       Save windows and sort order")
	fmt.Fprintln(w, "  snapshot load       Restore a saved snapshot")
	fmt.Fprintln(w, "  snapshot list       List saved snapshots")
	fmt.Fprintln(w, "  snapshot delete     Delete a snapshot")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskshell <command> --help' for command-specific options.")
}

// parseFlags parses args into fs. It returns the exit code to use when
// parsing should stop the command.
func parseFlags(fs *flag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

// loadConfig loads path, or the default config file when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
}

// flagSet builds a ContinueOnError flag set whose usage prints usage, a
// description and any flags.
func flagSet(name, usage, description string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, description)
		hasFlags := false
		fs.VisitAll(func(*flag.Flag) { hasFlags = true })
		if hasFlags {
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
	}
	return fs
}
