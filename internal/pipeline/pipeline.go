package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/forPelevin/gamerec/internal/catalog"
	"github.com/forPelevin/gamerec/internal/ports"
	"github.com/forPelevin/gamerec/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/gamerec/internal/ports/adapters/fuzzyfinder"
	"github.com/forPelevin/gamerec/internal/steam"
	"github.com/forPelevin/gamerec/internal/types"
	"github.com/forPelevin/gamerec/internal/usecase"
)

type Config struct {
	// SteamDir is the Steam installation; its userdata/ holds the profiles.
	SteamDir string
	// Profile selects a profile id explicitly. Empty requires exactly one.
	Profile string
	// RecordingRoot skips profile and localconfig discovery when set.
	RecordingRoot string

	// ClipName is an exact clip directory stem. Empty asks the Selector.
	ClipName string

	FFmpegPath string

	Logf   func(format string, args ...any)
	Stdout io.Writer

	// Muxer and Selector default to the ffmpeg and fuzzy finder adapters.
	Muxer    ports.Muxer
	Selector ports.Selector
}

func (c Config) Validate() error {
	if c.SteamDir == "" && c.RecordingRoot == "" {
		return errors.New("steam dir is empty and no recording root override is set")
	}
	if c.Muxer == nil && c.FFmpegPath == "" {
		return errors.New("ffmpeg path is empty")
	}
	return nil
}

// Run reconstructs one clip and returns the path of the produced file.
// stdout receives the profile path, the recording root and the output path.
func Run(ctx context.Context, cfg Config) (string, error) {
	cfg = withDefaults(cfg)

	root, err := discoverRoot(cfg)
	if err != nil {
		return "", err
	}

	clips, err := catalog.List(root)
	if err != nil {
		return "", err
	}
	cfg.Logf("catalog: %d clips", len(clips))

	idx, err := catalog.Resolve(ctx, clips, cfg.ClipName, cfg.Selector)
	if err != nil {
		return "", err
	}
	clip := clips[idx]
	cfg.Logf("selected: %s (%s)", catalog.Label(clip), clip.Stem())

	uc := usecase.New(usecase.Deps{Muxer: cfg.Muxer})
	res, err := uc.Reconstruct(ctx, usecase.Input{Clip: clip, Logf: cfg.Logf})
	if err != nil {
		return "", fmt.Errorf("reconstruct %s: %w", clip.Stem(), err)
	}
	fmt.Fprintln(cfg.Stdout, res.OutputPath)
	return res.OutputPath, nil
}

// List returns the catalog, newest first, without touching any clip.
// Discovered paths go to Logf rather than stdout.
func List(ctx context.Context, cfg Config) ([]types.Clip, error) {
	cfg = withDefaults(cfg)
	cfg.Stdout = io.Discard
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := discoverRoot(cfg)
	if err != nil {
		return nil, err
	}
	cfg.Logf("recording root: %s", root)
	return catalog.List(root)
}

func withDefaults(cfg Config) Config {
	if cfg.Logf == nil {
		cfg.Logf = func(string, ...any) {}
	}
	if cfg.Stdout == nil {
		cfg.Stdout = io.Discard
	}
	if cfg.Muxer == nil {
		cfg.Muxer = ffmpeg.New(cfg.FFmpegPath)
	}
	if cfg.Selector == nil {
		cfg.Selector = fuzzyfinder.New("")
	}
	return cfg
}

func discoverRoot(cfg Config) (string, error) {
	if cfg.RecordingRoot != "" {
		root, err := filepath.Abs(cfg.RecordingRoot)
		if err != nil {
			return "", err
		}
		fmt.Fprintln(cfg.Stdout, root)
		return root, nil
	}

	profile, err := steam.NewResolver(cfg.Profile).Resolve(steam.UserDataDir(cfg.SteamDir))
	if err != nil {
		return "", err
	}
	fmt.Fprintln(cfg.Stdout, profile)

	root, err := steam.RecordingRoot(profile)
	if err != nil {
		return "", err
	}
	fmt.Fprintln(cfg.Stdout, root)
	return root, nil
}

// ensure adapters implement ports
var _ ports.Muxer = (*ffmpeg.Adapter)(nil)
var _ ports.Selector = (*fuzzyfinder.Adapter)(nil)
