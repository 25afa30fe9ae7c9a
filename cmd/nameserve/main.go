/*
Package main implements the name analytics server and CLI [DBG] application.

Nameserve loads a gender-partitioned first-name birth statistics dataset and
serves ranked search results and family-aware name recommendations. It can
operate as a MessagePack IPC server for integration with a web presentation
layer, or as a CLI application for testing and debugging.

# Usage

Start the server with default settings:

	nameserve

Use a custom data directory and enable debug mode:

	nameserve -data /path/to/dataset -d

Run in CLI mode for interactive testing:

	nameserve -c -limit 20 -sort rarity

The data directory should contain the ingestion output: manifest.json,
index.json, and partition files named names_f_0001.json, names_m_0001.json,
and so on. Partitions are loaded lazily and cached for the process lifetime.

# Configuration

Runtime configuration is managed through a TOML file:

	[server]
	max_limit = 64
	max_query_len = 60

	[data]
	dir = "data/"

	[recommend]
	provider_timeout_ms = 8000

The config file is automatically created with defaults if it doesn't exist.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bertonantho/Names-sub000/internal/cli"
	"github.com/bertonantho/Names-sub000/pkg/config"
	"github.com/bertonantho/Names-sub000/pkg/corpus"
	"github.com/bertonantho/Names-sub000/pkg/recommend"
	"github.com/bertonantho/Names-sub000/pkg/search"
	"github.com/bertonantho/Names-sub000/pkg/server"
)

const (
	Version = "0.4.0-beta"
	AppName = "nameserve"
)

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

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dataDir := flag.String("data", defaultConfig.Data.Dir, "Directory containing the dataset files")
	configPath := flag.String("config", "nameserve.toml", "Path to the TOML config file")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of results to return in CLI mode")
	sortBy := flag.String("sort", defaultConfig.CLI.DefaultSort, "Sort order: popularity, alphabetical, rarity, trending")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ Nameserve ] Name statistics search and recommendations")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	appConfig, err := config.InitConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dataDir != "" {
		appConfig.Data.Dir = *dataDir
	}
	log.Debugf("Using data dir at: %s", appConfig.Data.Dir)

	store := corpus.NewStore(appConfig.Data.Dir)
	store.LoadIndex()
	engine := search.NewEngine(store)

	sortKey, err := search.ParseSortKey(*sortBy)
	if err != nil {
		log.Fatalf("Invalid sort order: %v", err)
	}

	// CLI would be mainly used for testing and dbg purposes.
	// Any new features or changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:", "limit", *limit, "sort", sortKey)

		inputHandler := cli.NewInputHandler(engine, sortKey, *limit, appConfig.Server.MaxQueryLen)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	// No suggestion provider is wired here: the host process owns prompt
	// construction and transport, per the recommend.Provider contract.
	recommender := recommend.NewRecommender(store, nil)
	srv := server.NewServer(engine, recommender, appConfig)

	showStartupInfo(appConfig.Data.Dir)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dataDir string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("===========")
	println(" Nameserve ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("data dir: ( %s )", dataDir)
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
