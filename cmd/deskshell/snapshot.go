package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/1broseidon/deskshell/internal/ipc"
)

func printSnapshotUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskshell snapshot <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  save <name>      Save open windows and the icon sort order")
	fmt.Fprintln(w, "  load <name>      Restore a saved snapshot")
	fmt.Fprintln(w, "  list             List saved snapshots")
	fmt.Fprintln(w, "  delete <name>    Delete a snapshot")
}

func runSnapshot(args []string) int {
	if len(args) == 0 {
		printSnapshotUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "save", "load", "delete":
		return runSnapshotNamed(args[0], args[1:])
	case "list":
		return runSnapshotList(args[1:])
	case "help", "-h", "--help":
		printSnapshotUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown snapshot command: %s\n\n", args[0])
		printSnapshotUsage(os.Stderr)
		return 2
	}
}

func runSnapshotNamed(cmd string, args []string) int {
	fs := flagSet("snapshot "+cmd, fmt.Sprintf("Usage: deskshell snapshot %s <name>", cmd), snapshotHelp[cmd])
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		fmt.Fprintf(os.Stderr, "snapshot %s requires <name>\n", cmd)
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)

	client := ipc.NewClient()
	var err error
	switch cmd {
	case "save":
		err = client.SaveSnapshot(name)
	case "load":
		err = client.LoadSnapshot(name)
	case "delete":
		err = client.DeleteSnapshot(name)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("snapshot %s: %s\n", pastTense[cmd], name)
	return 0
}

var snapshotHelp = map[string]string{
	"save":   "Save the open windows and icon sort order under name, replacing any existing snapshot.",
	"load":   "Replace the open windows and sort order with a saved snapshot.",
	"delete": "Delete a saved snapshot.",
}

var pastTense = map[string]string{
	"save":   "saved",
	"load":   "loaded",
	"delete": "deleted",
}

func runSnapshotList(args []string) int {
	fs := flagSet("snapshot list", "Usage: deskshell snapshot list", "List saved snapshots, newest first.")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	infos, err := ipc.NewClient().ListSnapshots()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	printSnapshots(os.Stdout, infos, time.Now())
	return 0
}

func printSnapshots(w io.Writer, infos []ipc.SnapshotInfo, now time.Time) {
	if len(infos) == 0 {
		fmt.Fprintln(w, "no snapshots")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tWINDOWS\tSAVED")
	for _, info := range infos {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", info.Name, info.Windows, humanize.RelTime(info.SavedAt, now, "ago", "from now"))
	}
	tw.Flush()
}
