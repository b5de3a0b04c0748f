package main

import (
	"github.com/spf13/cobra"

	"lineclamp/pkg/resource"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file|url>",
	Short: "Run a page's scripts, including their clamp() calls",
	Long: `Loads an HTML page and executes its <script> elements with document,
console, timers and the clamp(element, options) function available. Timers
and animation frames run on a virtual clock until no work is left.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := profile(cmd)
		if err != nil {
			return err
		}
		src := args[0]
		page, err := resource.Load(cmd.Context(), resource.NewFetcher(src), src, pageOptions(cfg, log))
		if err != nil {
			return err
		}
		engine, err := page.RunScripts(cmd.Context(), nil)
		if err != nil {
			return err
		}
		for i, run := range engine.Runs() {
			select {
			case <-run.Done():
				res, _ := run.Wait()
				log.Info("clamped", "call", i, "lines", res.Lines, "truncated", res.Truncated, "steps", res.Steps)
			default:
				log.Warn("clamp run did not finish", "call", i)
			}
		}

		output, _ := cmd.Flags().GetString("output")
		pngPath, _ := cmd.Flags().GetString("png")
		return writeOutputs(cmd, page, output, pngPath)
	},
}

func init() {
	rootCmd.AddCommand(scriptCmd)

	scriptCmd.Flags().StringP("output", "o", "", "write the HTML here instead of stdout")
	scriptCmd.Flags().String("png", "", "also render the page to this PNG file")
}
