package clipmeta

import (
	"errors"
	"fmt"
	"os"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/forPelevin/gamerec/internal/types"
)

// FileName is the metadata file stored in every clip directory.
const FileName = "clip.pb"

var (
	ErrMetadataDecode = errors.New("clip metadata decode failed")
	ErrNoRecordingID  = errors.New("clip has no recording id")
)

// Field numbers of the superset schema. The legacy layout
// (data.video.video_dir) uses the same numbers as
// timelines[].recordings[].recording_id.
const (
	fieldClipTimelines   protowire.Number = 1
	fieldClipName        protowire.Number = 7
	fieldTimelineRecords protowire.Number = 5
	fieldRecordingID     protowire.Number = 1
)

func ReadFile(path string) (types.ClipDescriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.ClipDescriptor{}, err
	}
	d, err := Decode(b)
	if err != nil {
		return types.ClipDescriptor{}, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Decode parses clip.pb bytes. Unknown fields are skipped; a missing
// timelines field yields a descriptor with no timelines.
func Decode(b []byte) (types.ClipDescriptor, error) {
	var d types.ClipDescriptor
	err := walk(b, "clip", func(num protowire.Number, typ protowire.Type, v []byte, path string) error {
		switch num {
		case fieldClipName:
			if typ != protowire.BytesType {
				return wireTypeErr(path, "name", typ)
			}
			d.Name = string(v)
		case fieldClipTimelines:
			if typ != protowire.BytesType {
				return wireTypeErr(path, "timelines", typ)
			}
			tl, err := decodeTimeline(v, fmt.Sprintf("timelines[%d]", len(d.Timelines)))
			if err != nil {
				return err
			}
			d.Timelines = append(d.Timelines, tl)
		}
		return nil
	})
	if err != nil {
		return types.ClipDescriptor{}, err
	}
	return d, nil
}

func decodeTimeline(b []byte, path string) (types.Timeline, error) {
	var tl types.Timeline
	err := walk(b, path, func(num protowire.Number, typ protowire.Type, v []byte, path string) error {
		if num != fieldTimelineRecords {
			return nil
		}
		if typ != protowire.BytesType {
			return wireTypeErr(path, "recordings", typ)
		}
		rec, err := decodeRecording(v, fmt.Sprintf("%s.recordings[%d]", path, len(tl.Recordings)))
		if err != nil {
			return err
		}
		tl.Recordings = append(tl.Recordings, rec)
		return nil
	})
	return tl, err
}

func decodeRecording(b []byte, path string) (types.Recording, error) {
	var rec types.Recording
	err := walk(b, path, func(num protowire.Number, typ protowire.Type, v []byte, path string) error {
		if num != fieldRecordingID {
			return nil
		}
		if typ != protowire.BytesType {
			return wireTypeErr(path, "recording_id", typ)
		}
		rec.RecordingID = string(v)
		return nil
	})
	return rec, err
}

// walk calls fn for every field of one message. v holds the payload of
// length-delimited fields and is nil for every other wire type.
func walk(b []byte, path string, fn func(num protowire.Number, typ protowire.Type, v []byte, path string) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %s: %v", ErrMetadataDecode, path, protowire.ParseError(n))
		}
		b = b[n:]

		var v []byte
		if typ == protowire.BytesType {
			v, n = protowire.ConsumeBytes(b)
		} else {
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: %s: field %d: %v", ErrMetadataDecode, path, num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(num, typ, v, path); err != nil {
			return err
		}
	}
	return nil
}

func wireTypeErr(path, field string, typ protowire.Type) error {
	return fmt.Errorf("%w: %s.%s: unexpected wire type %d", ErrMetadataDecode, path, field, typ)
}

// Encode serializes d with the current schema.
func Encode(d types.ClipDescriptor) []byte {
	var b []byte
	for _, tl := range d.Timelines {
		var tb []byte
		for _, rec := range tl.Recordings {
			var rb []byte
			if rec.RecordingID != "" {
				rb = protowire.AppendTag(rb, fieldRecordingID, protowire.BytesType)
				rb = protowire.AppendString(rb, rec.RecordingID)
			}
			tb = protowire.AppendTag(tb, fieldTimelineRecords, protowire.BytesType)
			tb = protowire.AppendBytes(tb, rb)
		}
		b = protowire.AppendTag(b, fieldClipTimelines, protowire.BytesType)
		b = protowire.AppendBytes(b, tb)
	}
	if d.Name != "" {
		b = protowire.AppendTag(b, fieldClipName, protowire.BytesType)
		b = protowire.AppendString(b, d.Name)
	}
	return b
}
