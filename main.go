package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"runlab/internal/config"
	"runlab/internal/service"
	"runlab/internal/store"
	"runlab/internal/tui"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nAn example config was written to:\n  %s/config.json\n\n", configDir)
		fmt.Println("Edit it with your max HR, known VDOT, or reference paces,")
		fmt.Println("then run runlab again. The defaults work without edits.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	svc := service.NewReportService(db, cfg)

	// Subcommand: runlab import <file.json>
	if len(os.Args) > 1 {
		return runCommand(svc, os.Args[1], os.Args[2:])
	}

	// Launch TUI
	app := tui.NewApp(svc)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runCommand(svc *service.ReportService, cmd string, args []string) error {
	switch cmd {
	case "import":
		if len(args) == 0 {
			return errors.New("usage: runlab import <file.json> [<file.json> ...]")
		}
		for _, path := range args {
			id, err := svc.ImportFile(path)
			if err != nil {
				return fmt.Errorf("importing %s: %w", path, err)
			}
			fmt.Printf("Imported %s as workout %d\n", path, id)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (try: runlab import <file.json>)", cmd)
	}
}
