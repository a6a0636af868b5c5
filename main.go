package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"trialsearch/internal/config"
	"trialsearch/internal/eventbus"
	"trialsearch/internal/search"
	"trialsearch/internal/ui"
	"trialsearch/internal/ui/handlers"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd runs the interactive search UI
var rootCmd = &cobra.Command{
	Use:   "trialsearch",
	Short: "Search clinical trials from the terminal",
	Long: `trialsearch queries a clinical-trials search service as you type.

Queries are sent once typing pauses, and only when they are at least two
characters long. Up to ten matching trials are shown with their NCT ID and
overall status. Press enter on a result to read the full record.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         runTUI,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringP("endpoint", "e", "", "base URL of the search service")
	rootCmd.PersistentFlags().Int("debounce-ms", config.DefaultConfig().DebounceMS, "quiet period in milliseconds before a query is sent")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every subcommand needs
type app struct {
	cfg    *config.Config
	bus    eventbus.EventBus
	client *search.Client
	events *handlers.EventLogger
	close  func()
}

func setup(cmd *cobra.Command) (*app, error) {
	// Log to a file so output does not corrupt the TUI
	closeLog := setupLogging(config.DefaultConfig().LogFile)

	bus := eventbus.New()
	events := handlers.NewEventLogger(bus, nil)

	configSvc := config.NewConfigServiceWithBus(bus)
	if err := configSvc.BindFlags(cmd.Flags()); err != nil {
		bus.Close()
		events.Close()
		closeLog()
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cfg, err := loadOrCreateConfig(configSvc, configPath)
	if err != nil {
		bus.Close()
		events.Close()
		closeLog()
		return nil, err
	}

	if cfg.LogFile != config.DefaultConfig().LogFile {
		closeLog()
		closeLog = setupLogging(cfg.LogFile)
	}

	client := search.NewClient(search.Options{
		Endpoint:  cfg.Endpoint,
		Fields:    cfg.Fields,
		Page:      cfg.Page,
		PageSize:  cfg.PageSize,
		Timeout:   cfg.RequestTimeout(),
		UserAgent: "trialsearch/" + version,
	})

	return &app{
		cfg:    cfg,
		bus:    bus,
		client: client,
		events: events,
		close: func() {
			bus.Close()
			events.Close()
			closeLog()
		},
	}, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Printf("Starting UI against %s", a.cfg.Endpoint)
	uiModel := ui.NewModel(ctx, a.cfg, a.client, a.bus)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)

	if os.Getenv("TRIALSEARCH_E2E_TEST") != "" {
		fmt.Println("__READY__")
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Printf("Error running program: %v", err)
		return fmt.Errorf("running program: %w", err)
	}
	log.Printf("UI exited normally")
	return nil
}

// loadOrCreateConfig loads the config file, writing defaults first if it does not exist
func loadOrCreateConfig(configSvc config.ConfigService, path string) (*config.Config, error) {
	if _, err := os.Stat(path); err == nil {
		cfg, err := configSvc.LoadFromPath(path)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded config from %s", path)
		return cfg, nil
	}

	log.Printf("Creating new config at %s", path)
	if err := configSvc.SaveToPath(config.DefaultConfig(), path); err != nil {
		// Defaults still apply, nothing is persisted
		log.Printf("Failed to save config: %v", err)
		return configSvc.Resolve()
	}
	return configSvc.LoadFromPath(path)
}

func setupLogging(path string) func() {
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() {
		log.SetOutput(os.Stderr)
		_ = logFile.Close()
	}
}
