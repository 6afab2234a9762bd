package ports

import (
	"context"
	"errors"
)

var (
	ErrMux                = errors.New("mux failed")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// MuxRequest describes one stream-copy mux. Inputs and Output are relative
// to Dir, the working directory of the muxer process.
type MuxRequest struct {
	Dir    string
	Inputs []string
	Output string
}

type Muxer interface {
	Mux(ctx context.Context, req MuxRequest) error
}

type Selector interface {
	// Select returns the index of the chosen label. A cancelled prompt
	// returns ErrSelectionCancelled.
	Select(ctx context.Context, labels []string, def int) (int, error)
}
