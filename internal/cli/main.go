package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/forPelevin/gamerec/internal/ports"
	"github.com/spf13/cobra"
)

// ExitCancelled is returned when the user aborts the interactive selection
// or interrupts the process.
const ExitCancelled = 130

func Main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "gamerec [clip-name]",
		Short: "Rebuild a Steam game recording clip into a playable MP4",
		Long: "Finds the Steam game recording root, lists the saved clips newest first\n" +
			"and stitches the selected clip's segments into <clip>/output.mp4.\n" +
			"Without a clip name an interactive picker is shown.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return run(cmd, name)
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SilenceErrors = true

	pf := root.PersistentFlags()
	pf.String("steam-dir", "", "Steam installation directory (default: platform location)")
	pf.String("profile", "", "Steam profile id under userdata/")
	pf.String("root", "", "Recording root; skips profile discovery")
	pf.String("ffmpeg", "ffmpeg", "Path to the ffmpeg binary")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console or json")
	pf.String("config", "", "Config file (default: gamerec.yaml if present)")

	list := &cobra.Command{
		Use:          "list",
		Short:        "List saved clips newest first",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
	list.Flags().Bool("json", false, "Print the catalog as JSON")
	root.AddCommand(list)

	return root
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ports.ErrSelectionCancelled), errors.Is(err, context.Canceled):
		return ExitCancelled
	default:
		return 1
	}
}
