package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"lineclamp/internal/config"
	"lineclamp/pkg/resource"
	"lineclamp/pkg/text"
)

var rootCmd = &cobra.Command{
	Use:   "clampit",
	Short: "clampit truncates HTML text to a number of lines",
	Long: `clampit lays out an HTML page, finds elements by CSS selector and shortens
their text until it fits a line count or height, appending an ellipsis.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML profile with viewport, fonts and clamp defaults")
	rootCmd.PersistentFlags().String("log-level", "", "debug, info, warn or error (overrides the profile)")
	rootCmd.PersistentFlags().Float64("width", 0, "viewport width in CSS pixels (overrides the profile)")
	rootCmd.PersistentFlags().Float64("height", 0, "viewport height in CSS pixels (overrides the profile)")
	rootCmd.PersistentFlags().Bool("native-line-clamp", true, "let the layout engine honour -webkit-line-clamp")
	rootCmd.SilenceErrors = true
}

// profile loads the --config profile and applies the persistent flag
// overrides.
func profile(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("width") {
		cfg.Viewport.Width, _ = flags.GetFloat64("width")
	}
	if flags.Changed("height") {
		cfg.Viewport.Height, _ = flags.GetFloat64("height")
	}
	if flags.Changed("native-line-clamp") {
		native, _ := flags.GetBool("native-line-clamp")
		cfg.NativeLineClamp = &native
	}
	if cfg.Viewport.Width <= 0 || cfg.Viewport.Height <= 0 {
		return nil, nil, fmt.Errorf("viewport must be positive, got %gx%g", cfg.Viewport.Width, cfg.Viewport.Height)
	}
	log, err := cfg.Logger()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func pageOptions(cfg *config.Config, log *slog.Logger) resource.PageOptions {
	return resource.PageOptions{
		Width:           cfg.Viewport.Width,
		Height:          cfg.Viewport.Height,
		Metrics:         text.NewFontMetrics(cfg.Fonts),
		NativeLineClamp: cfg.NativeClamp(),
		Log:             log,
	}
}

// writeOutputs writes the document HTML to path (stdout for "" or "-") and
// a PNG rendering when pngPath is set.
func writeOutputs(cmd *cobra.Command, page *resource.Page, path, pngPath string) error {
	out := page.Serialize()
	if path == "" || path == "-" {
		fmt.Fprintln(cmd.OutOrStdout(), out)
	} else if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if pngPath == "" {
		return nil
	}
	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", pngPath, err)
	}
	defer f.Close()
	if err := page.WritePNG(f); err != nil {
		return fmt.Errorf("encoding %s: %w", pngPath, err)
	}
	return f.Close()
}
