//go:build integration

package itest

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/forPelevin/gamerec/internal/catalog"
	"github.com/forPelevin/gamerec/internal/domain/clipmeta"
	"github.com/forPelevin/gamerec/internal/steam"
	"github.com/forPelevin/gamerec/internal/types"
)

type steamTree struct {
	steamDir string
	root     string
}

// newSteamTree lays out <steam>/userdata/4242 with a localconfig.vdf that
// points at an empty recording root.
func newSteamTree(t *testing.T) steamTree {
	t.Helper()
	base := t.TempDir()
	tree := steamTree{
		steamDir: filepath.Join(base, "Steam"),
		root:     filepath.Join(base, "Game Recordings"),
	}
	profile := filepath.Join(steam.UserDataDir(tree.steamDir), "4242")
	if err := os.MkdirAll(filepath.Join(profile, "config"), 0o755); err != nil {
		t.Fatalf("mkdir profile: %v", err)
	}
	if err := os.MkdirAll(catalog.ClipsDir(tree.root), 0o755); err != nil {
		t.Fatalf("mkdir clips: %v", err)
	}
	doc := "\"UserLocalConfigStore\"\n{\n\t\"GameRecording\"\n\t{\n\t\t\"BackgroundRecordPath\"\t\t\"" +
		filepath.ToSlash(tree.root) + "\"\n\t}\n}\n"
	if err := os.WriteFile(steam.LocalConfigPath(profile), []byte(doc), 0o644); err != nil {
		t.Fatalf("write localconfig: %v", err)
	}
	return tree
}

// addClip writes clip.pb and returns the (still empty) segment directory.
func (s steamTree) addClip(t *testing.T, stem, recordingID string) string {
	t.Helper()
	clipDir := filepath.Join(catalog.ClipsDir(s.root), stem)
	videoDir := filepath.Join(clipDir, "video", recordingID)
	if err := os.MkdirAll(videoDir, 0o755); err != nil {
		t.Fatalf("mkdir video dir: %v", err)
	}
	d := types.ClipDescriptor{
		Name:      "itest " + stem,
		Timelines: []types.Timeline{{Recordings: []types.Recording{{RecordingID: recordingID}}}},
	}
	if err := os.WriteFile(filepath.Join(clipDir, clipmeta.FileName), clipmeta.Encode(d), 0o644); err != nil {
		t.Fatalf("write clip.pb: %v", err)
	}
	return videoDir
}

// writeDashSegments renders a short test pattern with ffmpeg's DASH muxer,
// which names its fragments the same way the recorder does.
func writeDashSegments(t *testing.T, videoDir string, seconds string) {
	t.Helper()
	cmd := exec.Command("ffmpeg",
		"-hide_banner", "-y",
		"-f", "lavfi", "-i", "testsrc=size=320x240:rate=30:duration="+seconds,
		"-f", "lavfi", "-i", "sine=frequency=440:duration="+seconds,
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-g", "30",
		"-c:a", "aac",
		"-f", "dash",
		"-seg_duration", "1",
		"-init_seg_name", "init-stream$RepresentationID$.m4s",
		"-media_seg_name", "chunk-stream$RepresentationID$-$Number%05d$.m4s",
		filepath.Join(videoDir, "session.mpd"),
	)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("ffmpeg dash fixture failed: %v\n%s", err, string(b))
	}
}

// writeFakeFFmpeg installs a shell script that concatenates its inputs into
// the last argument, so CLI tests run without a real ffmpeg.
func writeFakeFFmpeg(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := `#!/bin/sh
out=""
ins=""
while [ $# -gt 0 ]; do
  case "$1" in
    -i) ins="$ins $2"; shift 2 ;;
    -hide_banner|-y) shift ;;
    -c) shift 2 ;;
    *) out="$1"; shift ;;
  esac
done
cat $ins > "$out"
`
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffmpeg: %v", err)
	}
	return path
}

func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, n := range names {
		if _, err := exec.LookPath(n); err != nil {
			t.Skipf("%s not on PATH", n)
		}
	}
}
