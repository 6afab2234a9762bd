package fuzzyfinder

import (
	"context"
	"errors"
	"fmt"

	ff "github.com/ktr0731/go-fuzzyfinder"

	"github.com/forPelevin/gamerec/internal/ports"
)

// find is swapped in tests; the real finder needs a terminal.
var find = func(ctx context.Context, labels []string, prompt string) (int, error) {
	return ff.Find(labels, func(i int) string { return labels[i] },
		ff.WithContext(ctx),
		ff.WithPromptString(prompt),
	)
}

type Adapter struct {
	prompt string
}

func New(prompt string) *Adapter {
	if prompt == "" {
		prompt = "clip> "
	}
	return &Adapter{prompt: prompt}
}

// Select shows labels in a fuzzy finder. The finder always starts on the
// first entry, so def only has to be a valid index.
func (a *Adapter) Select(ctx context.Context, labels []string, def int) (int, error) {
	if len(labels) == 0 {
		return 0, errors.New("nothing to select")
	}
	if def < 0 || def >= len(labels) {
		return 0, fmt.Errorf("default index %d out of range [0,%d)", def, len(labels))
	}
	idx, err := find(ctx, labels, a.prompt)
	if err != nil {
		if errors.Is(err, ff.ErrAbort) || errors.Is(err, context.Canceled) {
			return 0, ports.ErrSelectionCancelled
		}
		return 0, fmt.Errorf("fuzzy finder: %w", err)
	}
	return idx, nil
}
