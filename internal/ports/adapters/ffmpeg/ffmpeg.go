package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/forPelevin/gamerec/internal/ports"
)

// waitDelay bounds how long a cancelled run waits for ffmpeg's children to
// release the output pipe.
const waitDelay = 500 * time.Millisecond

type Adapter struct {
	ffmpeg string
}

func New(ffmpegPath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{ffmpeg: ffmpegPath}
}

// MuxError carries the exit status and output of a failed ffmpeg run.
type MuxError struct {
	ExitCode int
	Output   string
	Err      error
}

func (e *MuxError) Error() string {
	msg := fmt.Sprintf("ffmpeg mux: exit status %d", e.ExitCode)
	if e.ExitCode < 0 {
		msg = fmt.Sprintf("ffmpeg mux: %v", e.Err)
	}
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *MuxError) Unwrap() []error { return []error{ports.ErrMux, e.Err} }

// Mux stream-copies every input into req.Output without re-encoding,
// overwriting an existing output.
func (a *Adapter) Mux(ctx context.Context, req ports.MuxRequest) error {
	if len(req.Inputs) == 0 {
		return fmt.Errorf("%w: no inputs", ports.ErrMux)
	}
	args := []string{"-hide_banner", "-y"}
	for _, in := range req.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args, "-c", "copy", req.Output)

	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	cmd.Dir = req.Dir
	cmd.WaitDelay = waitDelay
	b, err := cmd.CombinedOutput()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		muxErr := &MuxError{ExitCode: code, Output: string(b), Err: err}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ctxErr, muxErr)
		}
		return muxErr
	}
	return nil
}
