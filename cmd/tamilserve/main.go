// Copyright 2025 The tamilserve Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the tamilserve transliteration server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

tamilserve turns words typed phonetically in Latin letters into ranked Tamil
script suggestions. It can operate as a MessagePack IPC server for editors, as
a one-shot CLI for inspecting rankings, or as an interactive session demo that
shows debounce, selection and acceptance the way an editor would see them.

# Usage

Start the server with default settings:

	tamilserve

Enable debug logs (written to stderr):

	tamilserve -d

Inspect rankings for single words:

	tamilserve -c -limit 10

Drive an editing session from the terminal:

	tamilserve -s

# Configuration

Runtime configuration lives in tamilserve.toml under the user config dir and
is created with defaults if missing:

	[engine]
	max_suggestions = 6
	candidate_ceiling = 10
	branch_options = 2
	variant_expansion = true
	cache_capacity = 512

	[session]
	min_token = 2
	max_token = 60
	debounce_ms = 180

	[remote]
	enabled = false
	timeout_ms = 2000

A malformed file is salvaged section by section; anything unreadable keeps
its default.

# Overrides

Exact word overrides are read from every .toml, .txt/.tsv and .msgpack file
in the overrides directory (-overrides, [engine] overrides_dir, or
<config dir>/overrides). They take precedence over the built-in common words.

# IPC Protocol

See package server for the message shapes. The smallest request is

	{"id": "req1", "p": "vanakkam"}

# Command Line Flags

	-d  Enable debug mode with detailed logging
	-c  Run the one-shot CLI instead of the server
	-s  Run the interactive session demo instead of the server
	-limit int
	    Number of suggestions to return (default from config)
	-config string
	    Path to a tamilserve.toml
	-overrides string
	    Directory with override dictionaries
	-version
	    Show current version
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/tamilserve/internal/cli"
	"github.com/bastiangx/tamilserve/internal/observe"
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/bastiangx/tamilserve/pkg/config"
	"github.com/bastiangx/tamilserve/pkg/dictionary"
	"github.com/bastiangx/tamilserve/pkg/remote"
	"github.com/bastiangx/tamilserve/pkg/script"
	"github.com/bastiangx/tamilserve/pkg/server"
	"github.com/bastiangx/tamilserve/pkg/session"
	"github.com/bastiangx/tamilserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "tamilserve"
	gh      = "https://github.com/bastiangx/tamilserve"
)

// remoteTransport is the hosted lookup client. Builds that ship one assign
// it in an init function; the stock binary has none.
var remoteTransport remote.Lookup

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires config, engine and sessions and hands over to the selected mode.
func main() {
	sigHandler()
	log.SetOutput(os.Stderr)

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	sessionMode := flag.Bool("s", false, "Run the interactive session demo")
	limit := flag.Int("limit", 0, "Number of suggestions to return (0 uses the config)")
	configPath := flag.String("config", "", "Path to a tamilserve.toml")
	overridesDir := flag.String("overrides", "", "Directory containing override dictionaries")
	resetConfig := flag.Bool("reset-config", false, "Rewrite tamilserve.toml with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintln(os.Stderr, "config rebuilt with defaults")
		os.Exit(0)
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(usedPath))

	if *limit > 0 {
		cfg.Engine.MaxSuggestions = *limit
		cfg.CLI.DefaultLimit = *limit
	}

	overrides := loadOverrides(*overridesDir, cfg.Engine.OverridesDir, usedPath)
	metrics := observe.Default()
	engine := suggest.NewTransliterator(engineOptions(cfg, overrides, metrics))

	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minLen", cfg.Session.MinToken,
			"maxLen", cfg.Session.MaxToken,
			"limit", cfg.CLI.DefaultLimit)

		inputHandler := cli.NewInputHandler(engine, cfg.Session.MinToken, cfg.Session.MaxToken,
			cfg.CLI.DefaultLimit, cfg.CLI.ShowScores, cfg.CLI.ShowBaseline)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	sessions := session.NewManager(engine, session.Options{
		Debounce:      cfg.Session.Debounce(),
		MinToken:      cfg.Session.MinToken,
		MaxToken:      cfg.Session.MaxToken,
		LookupTimeout: cfg.Session.LookupTimeout(),
		Metrics:       metrics,
	})
	defer sessions.Close()

	if *sessionMode {
		log.SetReportTimestamp(false)
		demo := cli.NewSessionDemo(sessions, 2*cfg.Session.LookupTimeout())
		if err := demo.Start(os.Stdin); err != nil {
			log.Fatalf("Session demo error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, sessions, server.Options{
		DefaultLimit: cfg.Engine.MaxSuggestions,
		MaxToken:     cfg.Session.MaxToken,
	})

	showStartupInfo(engine)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// engineOptions maps config onto the transliterator.
func engineOptions(cfg *config.Config, overrides map[string]string, metrics *observe.Metrics) suggest.Options {
	opts := suggest.Options{
		Table: script.Tamil(),
		Generator: suggest.GeneratorOptions{
			Ceiling:       cfg.Engine.CandidateCeiling,
			BranchOptions: cfg.Engine.BranchOptions,
			DepthSlack:    cfg.Engine.DepthSlack,
			NoVariants:    !cfg.Engine.VariantExpansion,
		},
		MaxSuggestions: cfg.Engine.MaxSuggestions,
		CacheCapacity:  cfg.Engine.CacheCapacity,
		Overrides:      overrides,
		Metrics:        metrics,
	}
	if cfg.Remote.Enabled {
		if remoteTransport == nil {
			log.Warn("Remote lookup is enabled but this build has no transport, using local generation only")
			return opts
		}
		opts.Remote = remote.NewGuarded(remoteTransport, remote.Options{
			Name:        "remote",
			Timeout:     cfg.Remote.Timeout(),
			Rate:        cfg.Remote.Rate,
			Burst:       cfg.Remote.Burst,
			MaxFailures: cfg.Remote.MaxFailures,
			Cooldown:    cfg.Remote.Cooldown(),
		})
		opts.PreferRemote = cfg.Remote.Prefer
	}
	return opts
}

// loadOverrides reads user dictionaries. Failures only cost the overrides.
func loadOverrides(flagDir, configuredDir, configFile string) map[string]string {
	userDir := flagDir
	if userDir == "" {
		userDir = configuredDir
	}
	configDir := ""
	if configFile != "" {
		configDir = filepath.Dir(configFile)
	}

	dir, ok := utils.ResolveOverridesDir(userDir, configDir, dictionary.SupportedExtensions()...)
	if !ok {
		if userDir != "" {
			log.Warnf("No override dictionaries found for '%s'", userDir)
		}
		return nil
	}
	words, err := dictionary.LoadDir(dir)
	if err != nil {
		log.Warnf("Failed to load overrides from %s: %v", dir, err)
		return nil
	}
	log.Debugf("Loaded %d override words from %s", len(words), dir)
	return words
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ " + AppName + " ] Latin to Tamil phonetic suggestions")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(engine *suggest.Transliterator) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	stats := engine.Stats()
	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, " tamilserve ")
	fmt.Fprintln(os.Stderr, "============")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("override words: %d", stats["overrideWords"])
	log.Infof("remote lookup: %v", stats["remote"] == 1)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "============")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
