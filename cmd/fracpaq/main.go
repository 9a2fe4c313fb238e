package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/ironsheep/fracpaq-go/internal/cli"
	"github.com/ironsheep/fracpaq-go/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cli.Version = Version
	server.Version = Version

	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			printVersion()
			return 0
		case "serve":
			return serve()
		}
	}

	configureLogging()

	fs := cli.NewFlagSet("fracpaq")
	opt, err := cli.ParseArgs(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "fracpaq: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'fracpaq -h' for usage.")
		return 2
	}
	if opt.Version {
		printVersion()
		return 0
	}
	opt.Debug = debugEnabled()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.Run(ctx, opt, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "fracpaq: %v\n", err)
		return 1
	}
	return 0
}

// serve runs the MCP tool server on stdin/stdout.
func serve() int {
	configureLogging()
	if debugEnabled() {
		log.Printf("fracpaq MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Printf("Server error: %v", err)
		return 1
	}
	return 0
}

func printVersion() {
	fmt.Printf("fracpaq %s\n", Version)
	fmt.Printf("  Build time: %s\n", BuildTime)
	fmt.Printf("  Git commit: %s\n", GitCommit)
}

// configureLogging sends logs to stderr; stdout carries reports and the
// MCP protocol.
func configureLogging() {
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
}

func debugEnabled() bool {
	return os.Getenv("FRACPAQ_LOG_LEVEL") == "debug"
}
