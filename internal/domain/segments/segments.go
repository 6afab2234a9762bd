package segments

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrFragmentMissing = errors.New("init fragment missing")
	ErrFragmentName    = errors.New("unrecognised fragment name")
	ErrConcatenationIO = errors.New("stream concatenation failed")
)

func InitName(stream int) string { return fmt.Sprintf("init-stream%d.m4s", stream) }

func chunkPrefix(stream int) string { return fmt.Sprintf("chunk-stream%d-", stream) }

// IntermediateName is the concatenated output for one stream.
func IntermediateName(stream int) string { return fmt.Sprintf("stream%d.mp4", stream) }

// Set is the init segment plus ordered media chunks of one elementary stream.
type Set struct {
	Stream int
	Init   string
	Chunks []string
}

type chunk struct {
	path string
	name string
	seq  uint64
}

// Collect gathers the fragments of stream inside dir. Chunks are ordered by
// the number that follows "chunk-streamN-", never by directory order.
func Collect(dir string, stream int) (Set, error) {
	set := Set{Stream: stream, Init: filepath.Join(dir, InitName(stream))}
	fi, err := os.Stat(set.Init)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Set{}, fmt.Errorf("%w: %s", ErrFragmentMissing, set.Init)
		}
		return Set{}, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}
	if fi.IsDir() {
		return Set{}, fmt.Errorf("%w: %s is a directory", ErrFragmentMissing, set.Init)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return Set{}, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}

	prefix := chunkPrefix(stream)
	var chunks []chunk
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		seq, err := ParseSequence(strings.TrimPrefix(name, prefix))
		if err != nil {
			return Set{}, fmt.Errorf("%w: %s: %v", ErrFragmentName, name, err)
		}
		chunks = append(chunks, chunk{path: filepath.Join(dir, name), name: name, seq: seq})
	}

	slices.SortFunc(chunks, func(a, b chunk) int {
		if c := cmp.Compare(a.seq, b.seq); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	for _, c := range chunks {
		set.Chunks = append(set.Chunks, c.path)
	}
	return set, nil
}

// ParseSequence reads the numeric part of a chunk suffix such as "00012.m4s"
// or "12".
func ParseSequence(suffix string) (uint64, error) {
	digits, _, _ := strings.Cut(suffix, ".")
	if digits == "" {
		return 0, errors.New("empty sequence number")
	}
	return strconv.ParseUint(digits, 10, 64)
}

// Copy writes the init segment followed by every chunk to w.
func (s Set) Copy(w io.Writer) (int64, error) {
	var total int64
	for _, p := range append([]string{s.Init}, s.Chunks...) {
		n, err := copyFile(w, p)
		total += n
		if err != nil {
			return total, fmt.Errorf("%w: %s: %v", ErrConcatenationIO, filepath.Base(p), err)
		}
	}
	return total, nil
}

// WriteFile concatenates the set into dst, replacing any previous file.
func (s Set) WriteFile(dst string) (int64, error) {
	dir, name := filepath.Split(dst)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	n, err := s.Copy(tmp)
	if err != nil {
		return n, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return n, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}
	if err := tmp.Close(); err != nil {
		return n, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		return n, fmt.Errorf("%w: %v", ErrConcatenationIO, err)
	}
	return n, nil
}

func copyFile(w io.Writer, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return io.Copy(w, f)
}
