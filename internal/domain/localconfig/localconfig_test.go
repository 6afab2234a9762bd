package localconfig

import (
	"errors"
	"testing"
)

const fullDoc = `"UserLocalConfigStore"
{
	"Software"
	{
		"Valve"
		{
			"Steam"
			{
				"SmallMode"		"0"
			}
		}
	}
	"friends"
	{
		"PersonaName"		"someone"
	}
	"GameRecording"
	{
		"BackgroundRecordPath"		"/home/someone/.local/share/Steam/userdata/1234/gamerecordings"
		"BackgroundRecordMode"		"1"
	}
	"streaming_v2"
	{
		"EnableStreaming"		"1"
	}
}
`

func TestDecode_BackgroundRecordPath(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "full document",
			doc:  fullDoc,
			want: "/home/someone/.local/share/Steam/userdata/1234/gamerecordings",
		},
		{
			name: "lowercase keys",
			doc: `"userlocalconfigstore"
{
	"gamerecording"
	{
		"backgroundrecordpath"		"/data/rec"
	}
}`,
			want: "/data/rec",
		},
		{
			name: "top level block",
			doc: `"GameRecording"
{
	"BackgroundRecordPath"		"/data/top"
}`,
			want: "/data/top",
		},
		{
			name: "path with spaces",
			doc: `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		"/mnt/Game Clips/steam"
	}
}`,
			want: "/mnt/Game Clips/steam",
		},
		{
			name: "escaped windows path",
			doc: `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		"D:\\Steam Clips\\rec"
	}
}`,
			want: `D:\Steam Clips\rec`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := DecodeString(tt.doc)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got := cfg.GameRecording.BackgroundRecordPath; got != tt.want {
				t.Fatalf("BackgroundRecordPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no game recording block", `"UserLocalConfigStore"
{
	"friends"
	{
		"PersonaName"		"someone"
	}
}`},
		{"empty path", `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		""
	}
}`},
		{"path is a block", `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"
		{
			"x"		"y"
		}
	}
}`},
		{"game recording is a value", `"UserLocalConfigStore"
{
	"GameRecording"		"/data/rec"
}`},
		{"unterminated block", `"UserLocalConfigStore" { "GameRecording" { "BackgroundRecordPath" "/x"`},
		{"unterminated string", `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		"/x
	}
}`},
		{"stray closing brace", `"UserLocalConfigStore"
{
	"GameRecording"
	{
		"BackgroundRecordPath"		"/x"
	}
}
}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeString(tt.doc)
			if !errors.Is(err, ErrConfigParse) {
				t.Fatalf("expected ErrConfigParse, got %v", err)
			}
		})
	}
}

func TestCheckStructure(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"balanced", `"a" { "b" "c" }`, false},
		{"brace inside quotes", `"a" { "b" "{x}}" }`, false},
		{"escaped quote", `"a" { "b" "say \"hi\"" }`, false},
		{"brace in comment", "\"a\"\n{\n// }}\n\"b\" \"c\"\n}\n", false},
		{"missing close", `"a" { "b" { "c" "d" }`, true},
		{"extra close", `"a" { } }`, true},
		{"open quote", `"a" { "b" "c }`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkStructure([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkStructure() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	tests := map[string]string{
		`/plain/path`:       `/plain/path`,
		`D:\\Clips\\rec`:    `D:\Clips\rec`,
		`C:\new`:            `C:\new`,
		`say \"hi\"`:        `say "hi"`,
		`trailing\`:         `trailing\`,
		`\\\\server\\share`: `\\server\share`,
	}
	for in, want := range tests {
		if got := unescape(in); got != want {
			t.Fatalf("unescape(%q) = %q, want %q", in, got, want)
		}
	}
}
