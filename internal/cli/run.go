package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/forPelevin/gamerec/internal/catalog"
	"github.com/forPelevin/gamerec/internal/config"
	"github.com/forPelevin/gamerec/internal/domain/clipmeta"
	"github.com/forPelevin/gamerec/internal/logging"
	"github.com/forPelevin/gamerec/internal/pipeline"
	"github.com/forPelevin/gamerec/internal/steam"
	"github.com/forPelevin/gamerec/internal/types"
	"github.com/spf13/cobra"
)

func run(cmd *cobra.Command, clipName string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	cfg.ClipName = clipName

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	if _, err := pipeline.Run(ctx, cfg); err != nil {
		return err
	}
	logger.Debugf("done in %s", time.Since(start).Round(time.Millisecond))
	return nil
}

type listEntry struct {
	Index       int       `json:"index"`
	Stem        string    `json:"stem"`
	Label       string    `json:"label"`
	Dir         string    `json:"dir"`
	RecordingID string    `json:"recording_id,omitempty"`
	ModTime     time.Time `json:"mod_time"`
}

func runList(cmd *cobra.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	clips, err := pipeline.List(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	entries := make([]listEntry, len(clips))
	for i, c := range clips {
		e, err := newListEntry(i, c)
		if err != nil {
			logger.WithField("clip", e.Stem).Warnf("cannot be reconstructed: %v", err)
		}
		entries[i] = e
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tCLIP\tTITLE\tMODIFIED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Index, e.Stem, e.Label, e.ModTime.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// newListEntry also reports a clip whose metadata names no recording.
func newListEntry(i int, c types.Clip) (listEntry, error) {
	id, err := clipmeta.RecordingID(c.Descriptor)
	return listEntry{
		Index:       i,
		Stem:        c.Stem(),
		Label:       catalog.Label(c),
		Dir:         c.Dir,
		RecordingID: id,
		ModTime:     c.ModTime,
	}, err
}

// setup loads settings and builds the logger and pipeline config shared by
// every command.
func setup(cmd *cobra.Command) (pipeline.Config, *logging.Logger, error) {
	configFile, _ := cmd.Flags().GetString("config")
	s, err := config.Load(cmd.Flags(), configFile)
	if err != nil {
		return pipeline.Config{}, nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: s.LogLevel, Format: s.LogFormat, Output: s.LogOutput})
	if err != nil {
		return pipeline.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	logger = logger.WithField("cmd", cmd.Name())

	steamDir := s.SteamDir
	if steamDir == "" && s.Root == "" {
		steamDir, err = steam.DefaultInstallDir()
		if err != nil {
			return pipeline.Config{}, nil, fmt.Errorf("config: steam dir: %w", err)
		}
		logger.Debugf("steam dir: %s (default)", steamDir)
	}

	cfg := pipeline.Config{
		SteamDir:      steamDir,
		Profile:       s.Profile,
		RecordingRoot: s.Root,
		FFmpegPath:    s.FFmpeg,
		Logf:          logger.Logf(),
		Stdout:        cmd.OutOrStdout(),
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Config{}, nil, fmt.Errorf("config: %w", err)
	}
	return cfg, logger, nil
}
