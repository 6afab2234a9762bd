package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/forPelevin/gamerec/internal/domain/clipmeta"
	"github.com/forPelevin/gamerec/internal/domain/segments"
	"github.com/forPelevin/gamerec/internal/ports"
	"github.com/forPelevin/gamerec/internal/types"
)

var (
	ErrMissingRecordingID = errors.New("clip has no recording id")
	ErrMissingSegmentDir  = errors.New("segment directory missing")
)

// OutputName is the reconstructed file written at the clip root.
const OutputName = "output.mp4"

type Deps struct {
	Muxer ports.Muxer
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Clip types.Clip
	Logf func(format string, args ...any)
}

type Result struct {
	OutputPath    string
	VideoDir      string
	Intermediates []string
}

// Reconstruct rebuilds one clip: locate its segment directory, concatenate
// the video and audio fragments, then stream-copy both into output.mp4 at
// the clip root. Nothing is retried.
func (u Usecase) Reconstruct(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	// locate
	videoDir, err := locate(in.Clip)
	if err != nil {
		return Result{}, err
	}
	logf("segments: %s", videoDir)

	// concatenate
	res := Result{VideoDir: videoDir}
	for _, stream := range []int{types.StreamVideo, types.StreamAudio} {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		set, err := segments.Collect(videoDir, stream)
		if err != nil {
			return Result{}, fmt.Errorf("stream %d: %w", stream, err)
		}
		dst := filepath.Join(videoDir, segments.IntermediateName(stream))
		n, err := set.WriteFile(dst)
		if err != nil {
			return Result{}, fmt.Errorf("stream %d: %w", stream, err)
		}
		logf("stream %d: %d chunks, %d bytes -> %s", stream, len(set.Chunks), n, filepath.Base(dst))
		res.Intermediates = append(res.Intermediates, dst)
	}

	// mux
	outPath := filepath.Join(in.Clip.Dir, OutputName)
	outRel, err := filepath.Rel(videoDir, outPath)
	if err != nil {
		return Result{}, err
	}
	inputs := make([]string, 0, len(res.Intermediates))
	for _, p := range res.Intermediates {
		inputs = append(inputs, filepath.Base(p))
	}
	if err := u.d.Muxer.Mux(ctx, ports.MuxRequest{Dir: videoDir, Inputs: inputs, Output: outRel}); err != nil {
		return Result{}, err
	}

	// report
	out, err := filepath.Abs(outPath)
	if err != nil {
		return Result{}, err
	}
	res.OutputPath = out
	logf("output: %s", out)
	return res, nil
}

func locate(c types.Clip) (string, error) {
	id, err := clipmeta.RecordingID(c.Descriptor)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingRecordingID, c.Dir, err)
	}
	if !isPathComponent(id) {
		return "", fmt.Errorf("%w: %s: %q is not a directory name", ErrMissingRecordingID, c.Dir, id)
	}
	dir := filepath.Join(c.Dir, "video", id)
	fi, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrMissingSegmentDir, dir)
		}
		return "", err
	}
	if !fi.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrMissingSegmentDir, dir)
	}
	return dir, nil
}

// isPathComponent reports whether id names exactly one entry inside its
// parent directory.
func isPathComponent(id string) bool {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return false
	}
	return filepath.IsLocal(id) && filepath.Base(id) == id
}
