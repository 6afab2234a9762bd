package types

import (
	"path/filepath"
	"strings"
	"time"
)

// Elementary stream indices inside a recording's segment directory.
const (
	StreamVideo = 0
	StreamAudio = 1
)

// ClipDescriptor is the decoded content of a clip's clip.pb.
type ClipDescriptor struct {
	// Name is the user-facing title. Empty for auto-named clips.
	Name      string
	Timelines []Timeline
}

type Timeline struct {
	Recordings []Recording
}

type Recording struct {
	// RecordingID names the segment directory under <clip>/video/. Empty when absent.
	RecordingID string
}

// Clip is one catalog entry.
type Clip struct {
	Dir        string
	ModTime    time.Time
	Descriptor ClipDescriptor
}

// Stem is the clip directory's base name without extension. A name that is
// all extension (".hidden") is its own stem.
func (c Clip) Stem() string {
	if c.Dir == "" {
		return ""
	}
	base := filepath.Base(c.Dir)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); stem != "" {
		return stem
	}
	return base
}
