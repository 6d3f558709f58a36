// cmd/frogtable/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/nhath/frogtable/internal/config"
	"github.com/nhath/frogtable/internal/events"
	"github.com/nhath/frogtable/internal/grid"
	"github.com/nhath/frogtable/internal/history"
	"github.com/nhath/frogtable/internal/kv"
	"github.com/nhath/frogtable/internal/relay"
	"github.com/nhath/frogtable/internal/rpc"
	"github.com/nhath/frogtable/internal/ui"
)

func main() {
	debug := flag.Bool("debug", false, "Enable debug logging to debug.log")
	rawURL := flag.String("url", "", "Server base URL, overrides -server")
	serverName := flag.String("server", "", "Configured server name")
	configPath := flag.String("config", "", "Config file (default: XDG config dir)")
	flag.Parse()

	if err := run(*debug, *rawURL, *serverName, *configPath); err != nil {
		fmt.Fprintf(os.Stderr, "frogtable: %v\n", err)
		os.Exit(1)
	}
}

func run(debug bool, rawURL, serverName, configPath string) error {
	logger := slog.New(slog.DiscardHandler)
	if debug {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			return fmt.Errorf("could not open debug log: %w", err)
		}
		defer f.Close()
		logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	server, err := cfg.Resolve(rawURL, serverName)
	if err != nil {
		return err
	}
	logger = logger.With("server", server.Name)

	dataPath, err := config.DataPath()
	if err != nil {
		return fmt.Errorf("locating data file: %w", err)
	}
	store, err := kv.OpenSQLite(dataPath, server.Origin())
	if err != nil {
		return fmt.Errorf("opening layout store: %w", err)
	}
	defer store.Close()

	historyStore, err := history.Open(dataPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer historyStore.Close()

	// the event stream stays open, so only request calls get a total timeout
	transport := rpc.NewClient(server.URL, &http.Client{Timeout: cfg.RequestTimeout()})
	sseTransport := http.DefaultTransport.(*http.Transport).Clone()
	sseTransport.ResponseHeaderTimeout = cfg.Relay.StaleAfter()
	source := &events.HTTPSource{URL: server.URL + "/sse", Client: &http.Client{Transport: sseTransport}}
	r := relay.New(source, logger.With("component", "relay"), &relay.Settings{
		CheckInterval: cfg.Relay.CheckInterval(),
		StaleAfter:    cfg.Relay.StaleAfter(),
	})

	model := ui.NewModel(ui.Deps{
		Config:    cfg,
		Server:    server,
		Transport: transport,
		Events:    r,
		Layout:    grid.NewLayoutStore(store, logger.With("component", "layout")),
		History:   historyStore,
		Logger:    logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return r.Run(ctx)
	})
	g.Go(func() error {
		// the relay stops with the program
		defer cancel()
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		final, err := p.Run()
		if m, ok := final.(ui.Model); ok {
			m.Close()
		}
		if err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	})
	return g.Wait()
}
