package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/1broseidon/deskshell/internal/ipc"
	"github.com/1broseidon/deskshell/internal/shell"
)

func runStatus(args []string) int {
	fs := flagSet("status", "Usage: deskshell status", "Show session status via IPC.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	status, err := ipc.NewClient().GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("session:        %s\n", status.SessionID)
	fmt.Printf("locked:         %v\n", status.Locked)
	fmt.Printf("window_count:   %d\n", status.WindowCount)
	fmt.Printf("snapshots:      %v\n", status.Snapshots)
	fmt.Printf("uptime:         %s\n", time.Duration(status.UptimeSeconds)*time.Second)
	return 0
}

func runState(args []string) int {
	fs := flagSet("state", "Usage: deskshell state [--json]", "Show open windows, icon placement and menus.")
	jsonOut := fs.Bool("json", false, "Output the full state as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "state takes no arguments")
		fs.Usage()
		return 2
	}

	st, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	printState(os.Stdout, st)
	return 0
}

func printState(w io.Writer, st *shell.State) {
	fmt.Fprintf(w, "session:  %s\n", st.SessionID)
	fmt.Fprintf(w, "locked:   %v\n", st.Locked)
	fmt.Fprintf(w, "viewport: %dx%d\n", st.Viewport.Width, st.Viewport.Height)
	if st.SortKey != "" {
		fmt.Fprintf(w, "sort:     %s %s\n", st.SortKey, st.Direction)
	}
	var open []string
	if st.Menus.StartMenu {
		open = append(open, "start")
	}
	if st.Menus.Calendar {
		open = append(open, "calendar "+st.Month.Format("2006-01"))
	}
	if st.Menus.ContextMenu.Open {
		p := st.Menus.ContextMenu.Position
		open = append(open, fmt.Sprintf("context@%d,%d", p.X, p.Y))
	}
	if len(open) > 0 {
		fmt.Fprintf(w, "menus:    %s\n", strings.Join(open, ", "))
	}
	if st.Overlay != "" {
		fmt.Fprintf(w, "overlay:  %s\n", st.Overlay)
	}

	fmt.Fprintln(w, "")
	if len(st.Windows) == 0 {
		fmt.Fprintln(w, "no open windows")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tID\tTITLE\tFRAME\tFLAGS")
	for i := len(st.Windows) - 1; i >= 0; i-- {
		win := st.Windows[i]
		var flags []string
		if win.Focused {
			flags = append(flags, "focused")
		}
		if win.Minimized {
			flags = append(flags, "minimized")
		}
		if win.Maximized {
			flags = append(flags, "maximized")
		}
		if !win.Resizable {
			flags = append(flags, "fixed")
		}
		f := win.Frame
		fmt.Fprintf(tw, "%d\t%s\t%s\t%dx%d+%d+%d\t%s\n",
			win.ZIndex, win.ID, win.Title, f.Width, f.Height, f.X, f.Y, strings.Join(flags, ","))
	}
	tw.Flush()
}

// runWindowCommand handles the single-id window commands.
func runWindowCommand(name string, args []string) int {
	fs := flagSet(name, fmt.Sprintf("Usage: deskshell %s <id>", name), windowCommandHelp[name])
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "%s requires exactly one <id>\n", name)
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	ops := map[string]func(string) error{
		"open":     client.Open,
		"close":    client.Close,
		"minimize": client.Minimize,
		"maximize": client.ToggleMaximize,
		"focus":    client.Focus,
		"taskbar":  client.TaskbarClick,
	}
	if err := ops[name](fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

var windowCommandHelp = map[string]string{
	"open":     "Activate a catalog icon: open its window, focus it if already open, or run its effect.",
	"close":    "Close a window permanently.",
	"minimize": "Minimize a window; its stacking order is kept.",
	"maximize": "Toggle a window between maximized and its stored geometry.",
	"focus":    "Bring a window to the front, restoring it if minimized.",
	"taskbar":  "Click a window's taskbar button: restore, minimize or focus it.",
}

func runSort(args []string) int {
	fs := flagSet("sort", "Usage: deskshell sort <name|type|dateModified>",
		"Sort desktop icons and lay them out again. Repeating the active key reverses the order.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "sort requires <key>")
		fs.Usage()
		return 2
	}
	if err := ipc.NewClient().SortIcons(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMoveIcon(args []string) int {
	fs := flagSet("move-icon", "Usage: deskshell move-icon <id> <x> <y>",
		"Drop an icon at a pointer position; it snaps to the nearest grid cell.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "move-icon requires <id> <x> <y>")
		fs.Usage()
		return 2
	}
	x, y, err := parsePoint(fs.Arg(1), fs.Arg(2))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if err := ipc.NewClient().MoveIcon(fs.Arg(0), x, y); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runMenu(args []string) int {
	fs := flagSet("menu", "Usage: deskshell menu <start|calendar|close|context X Y>",
		"Toggle the start menu or calendar, open the desktop context menu at X Y, or close every menu.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "menu requires <name>")
		fs.Usage()
		return 2
	}

	name := fs.Arg(0)
	var x, y int
	switch name {
	case ipc.MenuContext:
		if fs.NArg() != 3 {
			fmt.Fprintln(os.Stderr, "menu context requires <x> <y>")
			return 2
		}
		var err error
		if x, y, err = parsePoint(fs.Arg(1), fs.Arg(2)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
	case ipc.MenuStart, ipc.MenuCalendar, ipc.MenuClose:
		if fs.NArg() != 1 {
			fmt.Fprintf(os.Stderr, "menu %s takes no position\n", name)
			return 2
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown menu: %s\n\n", name)
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().ToggleMenu(name, x, y); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runLock(args []string) int {
	fs := flagSet("lock", "Usage: deskshell lock", "Lock the session: every window is minimized and every menu closed.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Lock(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runUnlock(args []string) int {
	fs := flagSet("unlock", "Usage: deskshell unlock",
		"Unlock the session. Prompts for the passphrase on a terminal, otherwise reads one line from stdin.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	credential, err := readCredential(os.Stdin)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := ipc.NewClient().Unlock(credential); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func readCredential(in *os.File) (string, error) {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Passphrase: ")
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read passphrase: %w", err)
		}
		return string(data), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runRelayout(args []string) int {
	fs := flagSet("relayout", "Usage: deskshell relayout", "Recompute the icon grid, discarding manual placements.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if err := ipc.NewClient().Relayout(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runIcons(args []string) int {
	fs := flagSet("icons", "Usage: deskshell icons", "List catalog icons in their current order.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	st, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printIcons(os.Stdout, st, time.Now())
	return 0
}

func printIcons(w io.Writer, st *shell.State, now time.Time) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tTYPE\tCELL\tMODIFIED")
	for _, ic := range st.Icons {
		cell := "-"
		if ic.Placed {
			cell = fmt.Sprintf("%d,%d", ic.Cell.Col, ic.Cell.Row)
		}
		modified := "-"
		if ms := ic.Modified(); ms > 0 {
			modified = humanize.RelTime(time.UnixMilli(ms), now, "ago", "from now")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ic.ID, ic.Title, ic.Type, cell, modified)
	}
	tw.Flush()
}

func parsePoint(xs, ys string) (int, int, error) {
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid x %q: %w", xs, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid y %q: %w", ys, err)
	}
	return x, y, nil
}
