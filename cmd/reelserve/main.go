// Copyright 2025 The ReelServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the film location suggestion server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

ReelServe answers type-ahead queries over a dataset of San Francisco filming
locations. Every prefix is matched against film titles and against location
names, and the two result lists are merged into one sorted list where each
entry says where it matched. Leading articles are optional, so "rock" finds
"The Rock".

# Usage

Start the server with default settings:

	reelserve

Use a custom dataset and enable debug mode:

	reelserve -data /path/to/films.json -d

Run in CLI mode for interactive testing:

	reelserve -c -prmin 2

Convert a dataset to MessagePack:

	reelserve -data films.json -export films.msgpack

The dataset is a JSON or MessagePack array of {"title", "locations"} records,
the shape of the public film locations export.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	encoding = "msgpack"
	min_prefix = 1
	max_prefix = 60
	response_cache_size = 100

	[index]
	data_file = "data/films.json"
	refresh_interval_seconds = 0

	[cache]
	feed_ttl_seconds = 864000
	clean_interval_seconds = 3600

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server reads requests from stdin and writes responses to stdout, as
MessagePack maps or as JSON lines:

	{"id": "req1", "q": "vert"}
	{"id": "req1", "query": "vert", "suggestions": [{"value": "Vertigo", "data": "ts"}], "c": 1, "t": 41}

See package server for the other actions.

# Command Line Flags

	-config string
	    Path to a config file (default [UserConfigDir]/reelserve/config.toml)
	-data string
	    Dataset file, overrides index.data_file
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-prmin int
	    Minimum prefix length for suggestions
	-prmax int
	    Maximum prefix length for suggestions
	-no-filter
	    Disable input filtering for debugging
	-export string
	    Write the loaded dataset to this file and exit
	-formats
	    List supported dataset formats and exit
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/bastiangx/reelserve/internal/cli"
	"github.com/bastiangx/reelserve/internal/logger"
	"github.com/bastiangx/reelserve/internal/utils"
	"github.com/bastiangx/reelserve/pkg/cache"
	"github.com/bastiangx/reelserve/pkg/config"
	"github.com/bastiangx/reelserve/pkg/feed"
	"github.com/bastiangx/reelserve/pkg/server"
	"github.com/bastiangx/reelserve/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.3.0-beta"
	AppName = "reelserve"
	gh      = "https://github.com/bastiangx/reelserve"
)

// main wires the packages together and only manages the flow.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to config file")
	dataFile := flag.String("data", "", "Dataset file (.json, .msgpack) -- overrides index.data_file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	minPrefix := flag.Int("prmin", defaultConfig.CLI.DefaultMinLen, "Minimum prefix length for suggestions (0 <= n <= prmax)")
	maxPrefix := flag.Int("prmax", defaultConfig.CLI.DefaultMaxLen, "Maximum prefix length for suggestions")
	noFilter := flag.Bool("no-filter", false, "Disable input filtering (DBG only)")
	exportPath := flag.String("export", "", "Write the loaded dataset to this file (.json, .msgpack) and exit")
	listFormats := flag.Bool("formats", false, "List supported dataset formats")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}
	if *listFormats {
		for _, f := range feed.ListSupportedFormats() {
			fmt.Fprintf(os.Stderr, "%-20s %v\n", f.Description, f.Extensions)
		}
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	appConfig, usedConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config: %s", config.GetActiveConfigPath(usedConfig))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		logRuntimeInfo(pathResolver)
	}

	requested := appConfig.Index.DataFile
	if *dataFile != "" {
		requested = *dataFile
	}
	resolvedData := pathResolver.GetDataFile(requested)
	log.Debugf("Using dataset at: %s", resolvedData)

	feedTTL := appConfig.Cache.FeedTTL()
	store := cache.NewExpiring[string, []suggest.Record](feedTTL)
	source := feed.NewCached(feed.NewFileSource(resolvedData), store, feedTTL)

	if *exportPath != "" {
		if err := export(ctx, source, *exportPath); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		return
	}

	index := suggest.NewIndex()
	if err := index.RebuildFrom(ctx, source); err != nil {
		log.Errorf("Initial build failed, starting with an empty index: %v", err)
	} else {
		stats := index.Stats()
		log.Debug("Index ready", "records", stats["records"], "titles", stats["titleKeys"], "locations", stats["locationKeys"])
	}

	// CLI would be mainly used for testing and dbg purposes.
	if *cliMode {
		log.Debug("Input info:",
			"minPrefix", *minPrefix,
			"maxPrefix", *maxPrefix,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(index, source, *minPrefix, *maxPrefix, *noFilter)
		if err := inputHandler.Start(ctx); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(index, source, appConfig, server.WithCleaners(store))

	showStartupInfo(resolvedData, appConfig)

	if err := srv.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// logRuntimeInfo dumps the resolved paths and environment at debug level.
func logRuntimeInfo(pr *utils.PathResolver) {
	info := pr.GetRuntimeInfo()
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	keyvals := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		keyvals = append(keyvals, k, info[k])
	}
	log.Debug("Runtime info", keyvals...)
}

// export writes the records behind source to path.
func export(ctx context.Context, source suggest.Source, path string) error {
	records, err := source.Fetch(ctx)
	if err != nil {
		return err
	}
	if err := feed.WriteFile(path, records); err != nil {
		return err
	}
	log.Infof("Wrote %s records to %s", utils.FormatWithCommas(len(records)), path)
	return nil
}

func printVersion() {
	l := log.NewWithOptions(os.Stderr, log.Options{
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
	l.SetStyles(styles)

	l.Print("")
	l.Print("[ ReelServe ] Type-ahead for film titles and filming locations")
	l.Print("", "version", Version)
	l.Print("")
	l.Print("use -h or --help to see available options")
	l.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process on stderr.
func showStartupInfo(dataFile string, cfg *config.Config) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	println("===========")
	println(" ReelServe ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("dataset: ( %s )", dataFile)
	log.Infof("encoding: %s", cfg.Server.Encoding)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
