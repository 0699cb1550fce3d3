package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"mylibrary/internal/adapters/barcode"
	"mylibrary/internal/adapters/browser"
	"mylibrary/internal/adapters/editor"
	"mylibrary/internal/adapters/tui"
	"mylibrary/internal/adapters/tui/views"
	"mylibrary/internal/bootstrap"
	"mylibrary/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	apiFlag := flag.String("api", cfg.APIURL, "base URL of the library API")
	flag.Parse()
	if err := cfg.SetAPIURL(*apiFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Initialize adapters
	toasts := views.NewToasts(cfg.ToastTTL)
	rt, err := bootstrap.Open(cfg, toasts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer rt.Close()

	// Create and run TUI app
	app := tui.NewApp(views.Env{
		State:          rt.State,
		Toasts:         toasts,
		Browser:        browser.NewOpener(),
		Editor:         editor.NewOpener(),
		Scanner:        barcode.NewZbar(cfg.Scanner),
		ExportDir:      cfg.ExportDir,
		RequestTimeout: cfg.HTTPTimeout,
	})

	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		rt.Logger.Error("tui exited", zap.Error(err))
		rt.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
