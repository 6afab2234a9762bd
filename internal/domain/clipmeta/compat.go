package clipmeta

import (
	"fmt"

	"github.com/forPelevin/gamerec/internal/types"
)

// RecordingID returns the segment directory name of the clip's first
// recording.
//
// Older recorders wrote a single data.video.video_dir message instead of
// repeated timelines/recordings. Both layouts share field numbers, so the
// legacy value decodes as timelines[0].recordings[0].recording_id and is
// resolved here as well.
func RecordingID(d types.ClipDescriptor) (string, error) {
	if len(d.Timelines) == 0 {
		return "", fmt.Errorf("%w: no timelines", ErrNoRecordingID)
	}
	tl := d.Timelines[0]
	if len(tl.Recordings) == 0 {
		return "", fmt.Errorf("%w: timeline 0 has no recordings", ErrNoRecordingID)
	}
	id := tl.Recordings[0].RecordingID
	if id == "" {
		return "", fmt.Errorf("%w: recording 0 has an empty id", ErrNoRecordingID)
	}
	return id, nil
}
