//go:build integration

package itest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestE2E_RealFFmpeg(t *testing.T) {
	requireTools(t, "ffmpeg", "ffprobe")
	repoRoot := mustRepoRoot(t)

	tree := newSteamTree(t)
	videoDir := tree.addClip(t, "clip_730_20240501_101500", "bg_730_20240501_101500")
	writeDashSegments(t, videoDir, "4")

	res := runCLI(t, repoRoot, []string{"clip_730_20240501_101500", "--steam-dir", tree.steamDir}, nil)
	if res.exitCode != 0 {
		t.Fatalf("exit code %d\noutput:\n%s", res.exitCode, res.output)
	}

	out := filepath.Join(clipsDir(tree.root), "clip_730_20240501_101500", "output.mp4")
	if !strings.Contains(res.output, out) {
		t.Fatalf("expected output path %s in output:\n%s", out, res.output)
	}

	sec, err := probeDurationSeconds(out)
	if err != nil {
		t.Fatalf("probe duration: %v", err)
	}
	if sec < 3.5 || sec > 4.5 {
		t.Fatalf("unexpected duration %.2fs", sec)
	}
	types, err := probeStreamTypes(out)
	if err != nil {
		t.Fatalf("probe streams: %v", err)
	}
	if strings.Join(types, ",") != "video,audio" {
		t.Fatalf("unexpected streams %v", types)
	}

	for _, n := range []string{"stream0.mp4", "stream1.mp4"} {
		if _, err := os.Stat(filepath.Join(videoDir, n)); err != nil {
			t.Fatalf("missing intermediate %s: %v", n, err)
		}
	}
}

func TestE2E_FakeFFmpeg(t *testing.T) {
	repoRoot := mustRepoRoot(t)
	fake := writeFakeFFmpeg(t)

	tree := newSteamTree(t)
	videoDir := tree.addClip(t, "clip_1", "bg_1")
	files := map[string]string{
		"init-stream0.m4s":        "V0",
		"chunk-stream0-2.m4s":     "v2",
		"chunk-stream0-10.m4s":    "v10",
		"chunk-stream0-1.m4s":     "v1",
		"init-stream1.m4s":        "A0",
		"chunk-stream1-00001.m4s": "a1",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(videoDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	res := runCLI(t, repoRoot, []string{"clip_1", "--steam-dir", tree.steamDir}, map[string]string{
		"GAMEREC_FFMPEG": fake,
	})
	if res.exitCode != 0 {
		t.Fatalf("exit code %d\noutput:\n%s", res.exitCode, res.output)
	}

	b, err := os.ReadFile(filepath.Join(clipsDir(tree.root), "clip_1", "output.mp4"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if got, want := string(b), "V0v1v2v10A0a1"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func clipsDir(root string) string { return filepath.Join(root, "clips") }
