package main

import (
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/deskshell/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  deskshell config validate [--path PATH]")
	fmt.Fprintln(w, "  deskshell config print [--path PATH] [--defaults]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flagSet("config validate", "Usage: deskshell config validate [--path PATH]",
			"Load the config file and report the first invalid field.")
		path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}
		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flagSet("config print", "Usage: deskshell config print [--path PATH] [--defaults]",
			"Print the effective configuration as YAML.")
		path := fs.String("path", "", "Config file path (default: ~/.config/deskshell/config.yaml)")
		defaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if code, ok := parseFlags(fs, args[1:]); !ok {
			return code
		}

		cfg := config.DefaultConfig()
		if !*defaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "help", "-h", "--help":
		printConfigUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}
}
