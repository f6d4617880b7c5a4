package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/config"
	"github.com/kalambet/whatnow/internal/favorites"
	"github.com/kalambet/whatnow/internal/picker"
	"github.com/kalambet/whatnow/internal/session"
	"github.com/kalambet/whatnow/internal/storage"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "whatnow",
	Short:         "Suggest a random activity for your mood and the time you have",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(spinCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(favCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dataCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// setupLogging installs the default slog logger on w at the configured level.
func setupLogging(cfg config.Config, w io.Writer) {
	logLevel := slog.LevelInfo
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn", "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

// app bundles the state every command works against.
type app struct {
	cfg       config.Config
	store     *storage.Store
	favorites *favorites.Manager
	session   *session.Session
}

// openApp loads config, opens storage and restores favorites.
var openApp = func() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg, os.Stderr)

	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return newApp(cfg, store)
}

func newApp(cfg config.Config, store *storage.Store) (*app, error) {
	cat := catalog.Default()
	if err := catalog.Validate(cat); err != nil {
		store.Close()
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	idx := catalog.Index(cat)

	favs := favorites.NewManager(store, favorites.WithKnownIDs(func(id int) bool {
		_, ok := idx[id]
		return ok
	}))
	favs.Initialize()

	p := picker.New()
	if cfg.Picker.Seed != 0 {
		p = picker.NewSeeded(uint64(cfg.Picker.Seed))
	}

	return &app{
		cfg:       cfg,
		store:     store,
		favorites: favs,
		session:   session.New(cat, p, favs),
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		printWarning("closing storage: %v", err)
	}
}
