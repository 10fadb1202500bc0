package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/repolens/repolens/internal/bootstrap"
	"github.com/repolens/repolens/internal/config"
	"github.com/repolens/repolens/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	cfg := config.Load()

	if err := bootstrap.Run(cfg); err != nil {
		log.Fatalf("Failed to start %s: %v", version.App, err)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "%s is the backend for the RepoLens code analysis platform:\n", version.App)
	fmt.Fprintf(os.Stderr, "GitHub OAuth login, webhook intake, and the project/analysis API.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nConfiguration is read from the environment (optionally via .env).\n")
}
