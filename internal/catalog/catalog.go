package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/forPelevin/gamerec/internal/domain/clipmeta"
	"github.com/forPelevin/gamerec/internal/ports"
	"github.com/forPelevin/gamerec/internal/types"
)

var (
	ErrCatalogLoad  = errors.New("clip catalog load failed")
	ErrClipNotFound = errors.New("clip not found")
	ErrEmptyCatalog = errors.New("no clips recorded")
)

// ClipNotFoundError reports a clip name that matched no directory stem.
type ClipNotFoundError struct {
	Name string
}

func (e *ClipNotFoundError) Error() string {
	return fmt.Sprintf("clip %q not found", e.Name)
}

func (e *ClipNotFoundError) Is(target error) bool { return target == ErrClipNotFound }

const unnamedLabel = "???"

// ClipsDir is the directory holding one subdirectory per clip.
func ClipsDir(root string) string { return filepath.Join(root, "clips") }

// List loads every clip under root, newest first. Any unreadable entry
// fails the whole listing.
func List(root string) ([]types.Clip, error) {
	dir := ClipsDir(root)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogLoad, err)
	}

	clips := make([]types.Clip, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		clipDir := filepath.Join(dir, e.Name())
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrCatalogLoad, clipDir, err)
		}
		desc, err := clipmeta.ReadFile(filepath.Join(clipDir, clipmeta.FileName))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCatalogLoad, clipDir, err)
		}
		clips = append(clips, types.Clip{
			Dir:        clipDir,
			ModTime:    info.ModTime(),
			Descriptor: desc,
		})
	}

	slices.SortStableFunc(clips, func(a, b types.Clip) int { return a.ModTime.Compare(b.ModTime) })
	slices.Reverse(clips)
	return clips, nil
}

// Label is the clip's title, falling back to its directory stem.
func Label(c types.Clip) string {
	if c.Descriptor.Name != "" {
		return c.Descriptor.Name
	}
	if s := c.Stem(); s != "" {
		return s
	}
	return unnamedLabel
}

func Labels(clips []types.Clip) []string {
	out := make([]string, len(clips))
	for i, c := range clips {
		out[i] = Label(c)
	}
	return out
}

// Resolve picks a clip by exact directory stem, or asks sel when name is
// empty.
func Resolve(ctx context.Context, clips []types.Clip, name string, sel ports.Selector) (int, error) {
	if name != "" {
		for i, c := range clips {
			if c.Stem() == name {
				return i, nil
			}
		}
		return 0, &ClipNotFoundError{Name: name}
	}

	if len(clips) == 0 {
		return 0, ErrEmptyCatalog
	}
	if sel == nil {
		return 0, errors.New("no clip name given and no interactive selector available")
	}
	idx, err := sel.Select(ctx, Labels(clips), 0)
	if err != nil {
		return 0, err
	}
	if idx < 0 || idx >= len(clips) {
		return 0, fmt.Errorf("selector returned index %d for %d clips", idx, len(clips))
	}
	return idx, nil
}
