package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/whatnow/internal/api"
	"github.com/kalambet/whatnow/internal/catalog"
	"github.com/kalambet/whatnow/internal/config"
	"github.com/kalambet/whatnow/internal/session"
)

// --- spin ---

var spinCmd = &cobra.Command{
	Use:   "spin",
	Short: "Pick a random activity",
	Long: `Pick a random activity matching the given filters.

Examples:
  whatnow spin
  whatnow spin --mood stressed --time 30
  whatnow spin --category creative --no-delay`,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		noDelay, _ := cmd.Flags().GetBool("no-delay")

		var pick session.Pick
		delay := time.Second
		if c := runningServer(); c != nil {
			// The server owns the current pick; ask it to spin.
			if pick, err = c.setFilter(cmd.Context(), spec); err != nil {
				return err
			}
			if cfg, err := config.Load(); err == nil {
				delay = spinDelay(cfg)
			}
		} else {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			// The pick is made before the cue; the delay only affects display.
			pick = a.session.SetFilter(spec)
			delay = spinDelay(a.cfg)
		}

		if !noDelay && delay > 0 {
			printStep("Spinning...")
			select {
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			case <-time.After(delay):
			}
		}

		renderPick(cmd.OutOrStdout(), pick)
		return nil
	},
}

func init() {
	addFilterFlags(spinCmd)
	spinCmd.Flags().Bool("no-delay", false, "skip the spinning cue")
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List activities matching the given filters",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}

		views, err := listActivities(cmd, spec)
		if err != nil {
			return err
		}
		if len(views) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching activity.")
			return nil
		}
		for _, v := range views {
			renderLine(cmd.OutOrStdout(), v.Activity, v.Favorite)
		}
		return nil
	},
}

func listActivities(cmd *cobra.Command, spec catalog.FilterSpec) ([]api.ActivityView, error) {
	if c := runningServer(); c != nil {
		return c.activities(cmd.Context(), spec)
	}

	a, err := openApp()
	if err != nil {
		return nil, err
	}
	defer a.Close()

	acts := catalog.Filter(a.session.Catalog(), spec)
	views := make([]api.ActivityView, len(acts))
	for i, act := range acts {
		views[i] = api.ActivityView{Activity: act, Favorite: a.session.IsFavorite(act.ID)}
	}
	return views, nil
}

func init() {
	addFilterFlags(listCmd)
}

// --- fav ---

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Manage favorite activities",
}

var favToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Add an activity to favorites, or remove it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("activity id must be an integer, got %q", args[0])
		}

		act, ok := catalog.Lookup(catalog.Default(), id)
		if !ok {
			return fmt.Errorf("activity %d not found", id)
		}

		favorite, err := toggleFavorite(cmd, id)
		if err != nil {
			return err
		}
		if favorite {
			printSuccess("Added %q to favorites", act.Name)
		} else {
			printSuccess("Removed %q from favorites", act.Name)
		}
		return nil
	},
}

// toggleFavorite flips id through the running server, or through the local
// store when no server is up, and reports whether id is now a favorite.
func toggleFavorite(cmd *cobra.Command, id int) (bool, error) {
	if c := runningServer(); c != nil {
		res, err := c.toggleFavorite(cmd.Context(), id)
		return res.Favorite, err
	}

	a, err := openApp()
	if err != nil {
		return false, err
	}
	defer a.Close()

	a.session.ToggleFavorite(id)
	return a.session.IsFavorite(id), nil
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorite activities",
	RunE: func(cmd *cobra.Command, args []string) error {
		favs, err := listFavorites(cmd)
		if err != nil {
			return err
		}
		if len(favs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet.")
			return nil
		}
		for _, act := range favs {
			renderLine(cmd.OutOrStdout(), act, true)
		}
		return nil
	},
}

func listFavorites(cmd *cobra.Command) ([]catalog.Activity, error) {
	if c := runningServer(); c != nil {
		views, err := c.favorites(cmd.Context())
		if err != nil {
			return nil, err
		}
		acts := make([]catalog.Activity, len(views))
		for i, v := range views {
			acts[i] = v.Activity
		}
		return acts, nil
	}

	a, err := openApp()
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return a.session.Favorites(), nil
}

var favClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all favorites",
	RunE: func(cmd *cobra.Command, args []string) error {
		confirm, _ := cmd.Flags().GetBool("confirm")
		if !confirm {
			printWarning("This will remove ALL favorites. Use --confirm to proceed.")
			return nil
		}

		if c := runningServer(); c != nil {
			if err := c.clearFavorites(cmd.Context()); err != nil {
				return err
			}
		} else {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			a.session.ClearFavorites()
		}
		printSuccess("Favorites cleared")
		return nil
	},
}

func init() {
	favClearCmd.Flags().Bool("confirm", false, "confirm removal")
	favCmd.AddCommand(favToggleCmd)
	favCmd.AddCommand(favListCmd)
	favCmd.AddCommand(favClearCmd)
}

// --- data ---

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Export stored data",
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored data as JSONL",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		items, err := a.store.Items()
		if err != nil {
			return fmt.Errorf("reading stored data: %w", err)
		}

		writer := cmd.OutOrStdout()
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			writer = f
		}

		enc := json.NewEncoder(writer)
		for _, it := range items {
			if err := enc.Encode(it); err != nil {
				return fmt.Errorf("writing %s: %w", it.Key, err)
			}
		}

		if output != "" {
			printSuccess("Data exported to %s", output)
		}
		return nil
	},
}

func init() {
	dataExportCmd.Flags().String("output", "", "output file path (default: stdout)")
	dataCmd.AddCommand(dataExportCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}

// --- helpers ---

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("category", "", "Indoor, Creative, Social or Physical (default: all)")
	cmd.Flags().String("mood", "", "Bored, Energetic or Stressed (default: any)")
	cmd.Flags().Int("time", 0, "minutes available, e.g. 15, 30, 60, 120 (default: no limit)")
}

func filterFromFlags(cmd *cobra.Command) (catalog.FilterSpec, error) {
	category, _ := cmd.Flags().GetString("category")
	mood, _ := cmd.Flags().GetString("mood")
	minutes, _ := cmd.Flags().GetInt("time")

	maxDuration := ""
	if cmd.Flags().Changed("time") {
		maxDuration = strconv.Itoa(minutes)
	}
	return catalog.ParseFilter(category, mood, maxDuration)
}

func spinDelay(cfg config.Config) time.Duration {
	d, err := time.ParseDuration(cfg.Spin.Delay)
	if err != nil {
		slog.Warn("invalid spin delay, using default 1s", "value", cfg.Spin.Delay, "error", err)
		return time.Second
	}
	return d
}

func renderPick(w io.Writer, p session.Pick) {
	if p.None() {
		fmt.Fprintln(w, "No matching activity. Try a different filter.")
		return
	}
	act := *p.Activity
	fmt.Fprintf(w, "%s %s\n", act.Emoji, colorize(colorBold, act.Name))
	fmt.Fprintf(w, "  %s\n", describe(act))
	if p.Favorite {
		fmt.Fprintf(w, "  %s\n", colorize(colorYellow, "★ favorite"))
	}
	fmt.Fprintf(w, "  #%d, one of %d matching\n", act.ID, p.Candidates)
}

func renderLine(w io.Writer, act catalog.Activity, favorite bool) {
	star := " "
	if favorite {
		star = colorize(colorYellow, "★")
	}
	fmt.Fprintf(w, "%s %s %s %s  %s\n",
		colorize(colorCyan, fmt.Sprintf("%3d", act.ID)),
		star,
		act.Emoji,
		act.Name,
		describe(act),
	)
}

func describe(act catalog.Activity) string {
	moods := make([]string, len(act.Moods))
	for i, m := range act.Moods {
		moods[i] = string(m)
	}
	return fmt.Sprintf("%s · %s intensity · %d min · %s",
		act.Category, act.Intensity, act.Duration, strings.Join(moods, ", "))
}
