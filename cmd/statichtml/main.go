package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/livefir/statichtml/cmd/statichtml/commands"
)

// Version information (can be overridden at build time with -ldflags)
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error

	switch command {
	case "render":
		err = commands.Render(args)
	case "escape":
		err = commands.Escape(args)
	case "sources":
		err = commands.Sources(args)
	case "serve":
		err = commands.Serve(args)
	case "version", "--version", "-v":
		printVersion()
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("statichtml version %s\n", version)

	if info, ok := debug.ReadBuildInfo(); ok {
		revision := commit
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && revision == "unknown" {
				revision = setting.Value
			}
		}
		if len(revision) > 12 {
			revision = revision[:12]
		}
		fmt.Printf("commit: %s\n", revision)
		fmt.Printf("go: %s\n", info.GoVersion)
	}
}

func printUsage() {
	fmt.Println(`statichtml - compile element documents into static HTML artifacts

Usage:
  statichtml render <document.yaml> [--config file] [--format source|text|chunks] [--out file]
  statichtml escape [--attr] <text>...
  statichtml sources add <id> <file> [--store dsn]
  statichtml sources list [--store dsn]
  statichtml sources show <id> [--store dsn]
  statichtml sources delete <id> [--store dsn]
  statichtml serve <document.yaml> [--config file] [--addr :8080]
  statichtml version
  statichtml help

The config file defaults to ./statichtml.yaml.`)
}
