package main

import (
	"fmt"
	"image"

	"github.com/spf13/cobra"

	"lineclamp/pkg/clamp"
	"lineclamp/pkg/render"
	"lineclamp/pkg/resource"
)

// repaintTolerance ignores anti-aliasing noise when reporting how much of
// the rendering a clamp changed.
const repaintTolerance = 8

var clampCmd = &cobra.Command{
	Use:   "clamp <file|url>",
	Short: "Clamp the text of selected elements and print the resulting HTML",
	Long: `Loads an HTML page from a file or http(s) URL, clamps every element the
selector matches and writes the modified document. Linked stylesheets are
fetched relative to the page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := profile(cmd)
		if err != nil {
			return err
		}
		flags := cmd.Flags()

		override := clamp.Config{}
		if flags.Changed("clamp") {
			override.Clamp, _ = flags.GetString("clamp")
		}
		if flags.Changed("native") {
			native, _ := flags.GetBool("native")
			override.UseNativeClamp = &native
		}
		if flags.Changed("split") {
			override.SplitOnChars, _ = flags.GetStringSlice("split")
		}
		if flags.Changed("marker") {
			marker, _ := flags.GetString("marker")
			override.TruncationChar = &marker
		}
		override.TruncationHTML, _ = flags.GetString("markup")
		override.Animate, _ = flags.GetString("animate")

		opts, err := cfg.Clamp.Merge(override).Options()
		if err != nil {
			return err
		}

		src := args[0]
		ctx := cmd.Context()
		page, err := resource.Load(ctx, resource.NewFetcher(src), src, pageOptions(cfg, log))
		if err != nil {
			return err
		}
		selector, _ := flags.GetString("select")
		targets := page.QueryAll(selector)
		if len(targets) == 0 {
			return fmt.Errorf("no element matches %q", selector)
		}

		output, _ := flags.GetString("output")
		pngPath, _ := flags.GetString("png")
		var before image.Image
		if pngPath != "" {
			before = page.Render().Image()
		}

		clamper := page.Clamper()
		for i, el := range targets {
			run, err := clamper.Start(ctx, el, opts)
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			res, err := run.Wait()
			if err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
			log.Info("clamped", "element", i, "lines", res.Lines, "height", res.Height,
				"truncated", res.Truncated, "native", res.Native, "steps", res.Steps)
		}

		if before != nil {
			d, err := render.Compare(before, page.Render().Image(), repaintTolerance)
			if err != nil {
				return err
			}
			log.Info("repainted", "pixels", d.Changed, "percent", d.Percent(), "region", d.Region.String())
		}
		return writeOutputs(cmd, page, output, pngPath)
	},
}

func init() {
	rootCmd.AddCommand(clampCmd)

	clampCmd.Flags().StringP("select", "s", "p", "CSS selector of the elements to clamp")
	clampCmd.Flags().StringP("clamp", "n", "", `line count, "auto", or a height such as 40px or 3em`)
	clampCmd.Flags().Bool("native", true, "use -webkit-line-clamp when no markup is configured")
	clampCmd.Flags().StringSlice("split", nil, "split boundaries, coarsest first")
	clampCmd.Flags().String("marker", clamp.DefaultMarker, "text appended to truncated content")
	clampCmd.Flags().String("markup", "", "HTML inserted after the truncated text")
	clampCmd.Flags().String("animate", "", `step pacing: "frame", milliseconds, or a duration`)
	clampCmd.Flags().StringP("output", "o", "", "write the HTML here instead of stdout")
	clampCmd.Flags().String("png", "", "also render the page to this PNG file")
}
