package localconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andygrunwald/vdf"
	"github.com/mitchellh/mapstructure"
)

var ErrConfigParse = errors.New("localconfig parse failed")

// LocalConfig is the subset of a profile's localconfig.vdf this tool reads.
// Keys are matched case-insensitively; the vendor's capitalised form is
// used in the tags.
type LocalConfig struct {
	GameRecording GameRecording `mapstructure:"GameRecording"`
}

type GameRecording struct {
	BackgroundRecordPath string `mapstructure:"BackgroundRecordPath"`
}

type document struct {
	Store         LocalConfig   `mapstructure:"UserLocalConfigStore"`
	GameRecording GameRecording `mapstructure:"GameRecording"`
}

// Decode parses KeyValues text and requires
// GameRecording.BackgroundRecordPath, either under the UserLocalConfigStore
// root block or at the top level.
func Decode(r io.Reader) (LocalConfig, error) {
	text, err := io.ReadAll(r)
	if err != nil {
		return LocalConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := checkStructure(text); err != nil {
		return LocalConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	raw, err := vdf.NewParser(bytes.NewReader(text)).Parse()
	if err != nil {
		return LocalConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	var doc document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &doc})
	if err != nil {
		return LocalConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := dec.Decode(raw); err != nil {
		return LocalConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	cfg := doc.Store
	if strings.TrimSpace(cfg.GameRecording.BackgroundRecordPath) == "" {
		cfg.GameRecording = doc.GameRecording
	}
	cfg.GameRecording.BackgroundRecordPath = unescape(strings.TrimSpace(cfg.GameRecording.BackgroundRecordPath))
	if cfg.GameRecording.BackgroundRecordPath == "" {
		return LocalConfig{}, fmt.Errorf("%w: GameRecording.BackgroundRecordPath is missing", ErrConfigParse)
	}
	return cfg, nil
}

// DecodeString is Decode over an in-memory document.
func DecodeString(s string) (LocalConfig, error) {
	return Decode(strings.NewReader(s))
}

// checkStructure rejects text the parser would otherwise accept partially:
// an unterminated quoted string or unbalanced braces. Braces inside quotes
// and after a // comment marker do not count.
func checkStructure(text []byte) error {
	depth, line := 0, 1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			line++
		case '"':
			start := line
			for i++; i < len(text) && text[i] != '"'; i++ {
				switch text[i] {
				case '\\':
					i++
				case '\n':
					line++
				}
			}
			if i >= len(text) {
				return fmt.Errorf("line %d: unterminated string", start)
			}
		case '/':
			if i+1 < len(text) && text[i+1] == '/' {
				for i < len(text) && text[i] != '\n' {
					i++
				}
				i--
			}
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("line %d: unexpected '}'", line)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%d unterminated block(s)", depth)
	}
	return nil
}

// unescape resolves the \\ and \" escapes Steam writes into string values.
// Any other backslash is kept as is (C:\new stays C:\new).
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
