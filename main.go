package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"autocomplete/internal/config"
	"autocomplete/internal/eventbus"
	"autocomplete/internal/logging"
	"autocomplete/internal/ui"
)

func main() {
	// Parse command line arguments
	var (
		targetDir  string
		configPath string
		debug      bool
	)
	flag.StringVar(&targetDir, "dir", "", "Directory holding "+config.FileName)
	flag.StringVar(&targetDir, "d", "", "Directory holding "+config.FileName+" (shorthand)")
	flag.StringVar(&configPath, "config", "", "Explicit config file path")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	// If no directory specified, check for remaining args
	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}

	// If still no directory, use current directory
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}

	configSvc := config.NewConfigService(absDir)
	cfg, err := loadOrCreateConfig(configSvc, absDir, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI, so logs go to a file
	logPath := cfg.UISettings.LogFile
	if logPath != "" && !filepath.IsAbs(logPath) {
		logPath = filepath.Join(absDir, logPath)
	}
	logger := logging.NewOrNop(debug || cfg.UISettings.DebugLog, logPath)
	defer func() { _ = logger.Sync() }()

	bus := eventbus.NewWithLogger(logger)

	logger.Info("Creating form", zap.Int("fields", len(cfg.Fields)), zap.String("base_url", cfg.BaseURL))
	model, err := ui.NewModel(bus, cfg, logger)
	if err != nil {
		fmt.Printf("Error creating form: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	model.SetProgram(p)

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		logger.Error("Error running program", zap.Error(err))
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	if values := model.Submitted(); values != nil {
		fmt.Println(values.Encode())
	}
	logger.Info("UI exited normally")
}

// loadOrCreateConfig loads the config from path, or from the directory,
// writing the defaults there on first run
func loadOrCreateConfig(configSvc config.ConfigService, dir, path string) (*config.Config, error) {
	if path != "" {
		return configSvc.LoadFromPath(path)
	}

	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return configSvc.Load()
	}

	cfg := config.DefaultConfig()
	if err := configSvc.Save(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save default config: %v\n", err)
	}
	return cfg, nil
}
