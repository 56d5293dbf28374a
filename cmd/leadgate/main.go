// Package main is the entry point for the leadgate server: the form
// submission and spec-access backend behind the MARVILON marketing site.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/marvilon/leadgate/bootstrap"
	"github.com/marvilon/leadgate/config"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "leadgate.yaml", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	validate := flag.Bool("validate", false, "Validate configuration and exit")
	hotReload := flag.Bool("hot-reload", true, "Enable hot reload of configuration")
	flag.Parse()

	if *showVersion {
		fmt.Printf("leadgate %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// .env is a development convenience; absence is not an error.
	if err := godotenv.Load(); err == nil {
		fmt.Fprintln(os.Stderr, "loaded environment from .env")
	}

	if *validate {
		if _, err := config.LoadWithFallback(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "configuration invalid: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("configuration valid")
		os.Exit(0)
	}

	holder, err := newHolder(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	app, err := bootstrap.New(holder)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if *hotReload {
		if err := holder.WatchFile(); err != nil {
			app.Logger.Warn().Err(err).Msg("config file watching unavailable")
		}
		holder.WatchSignals()
	}

	if err := app.Run(); err != nil {
		app.Logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

// newHolder builds the config holder, synthesizing an env-only config file
// path when no file exists on disk.
func newHolder(path string) (*config.Holder, error) {
	if _, err := os.Stat(path); err == nil {
		return config.NewHolder(path, zerolog.Nop())
	}

	// No file: run from environment alone, without hot reload.
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	return config.NewStaticHolder(cfg), nil
}
