package main

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"garmin-dashboard/internal/analysis"
	"garmin-dashboard/internal/api"
	"garmin-dashboard/internal/config"
	"garmin-dashboard/internal/logging"
	"garmin-dashboard/internal/service"
	"garmin-dashboard/internal/store"
	"garmin-dashboard/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.StringP("config", "c", "", "path to the config file (default ~/.garmin-dashboard/config.json)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(*configPath); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		fmt.Printf("\nPlease check the config file at:\n  %s\n\n", displayPath(*configPath))
		fmt.Println("Set api.base_url to the address of your activity backend, then run again.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s\n", displayPath(*configPath))
		return nil
	}

	closer, err := logging.Setup(logging.Params{
		File:  cfg.Log.File,
		Level: cfg.Log.Level,
		JSON:  cfg.Log.JSON,
	})
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer closer.Close()

	// Open database
	db, err := store.Open(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	client := api.NewClient(api.Options{
		BaseURL:     cfg.API.BaseURL,
		Timeout:     cfg.API.Timeout(),
		GPSCacheMB:  cfg.API.GPSCacheMB,
		GPSCacheTTL: cfg.API.GPSCacheTTL(),
		RateLimit:   cfg.API.RateLimit,
		MinInterval: cfg.API.MinInterval(),
	})

	// Create services
	bests := service.NewBestsCache(db)
	querySvc := service.NewQueryService(db, client, bests, cfg.Display.ActivitiesPerPage)
	syncSvc := service.NewSyncService(client, db, bests)

	// Validate already vetted both
	period, _ := analysis.ParsePeriod(cfg.Display.DefaultPeriod)
	sort, _ := analysis.ParseSortOption(cfg.Display.DefaultSort)

	log.WithField("backend", client.BaseURL()).Info("dashboard starting")

	// Launch TUI
	app := tui.NewApp(querySvc, syncSvc, tui.Options{
		Period:  period,
		Sort:    sort,
		BaseURL: client.BaseURL(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

// displayPath names the config file the user should look at
func displayPath(path string) string {
	if path != "" {
		return path
	}
	dir, err := config.GetConfigDir()
	if err != nil {
		return "~/.garmin-dashboard/config.json"
	}
	return dir + "/config.json"
}
