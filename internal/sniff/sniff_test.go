package sniff

import (
	"testing"

	"github.com/aircart/api/internal/wave"
)

func waveBytes(audioFormat uint16) []byte {
	c := wave.NewContainer()
	f := &wave.Format{
		AudioFormat:   audioFormat,
		Channels:      2,
		SampleRate:    44100,
		ByteRate:      176400,
		BlockAlign:    4,
		BitsPerSample: 16,
	}
	c.SetChunk(wave.TagFormat, f.Encode())
	c.SetChunk(wave.TagData, make([]byte, 64))
	return c.Serialize()
}

func TestClassifyWave(t *testing.T) {
	res := Classify(waveBytes(wave.FormatPCM))
	if res.Class != WaveUncompressed {
		t.Errorf("PCM wave: got %v", res.Class)
	}
	if res.Kind != KindPCM {
		t.Errorf("PCM wave kind: got %q", res.Kind)
	}
	if res.Format == nil || res.Format.SampleRate != 44100 {
		t.Errorf("format chunk not surfaced: %+v", res.Format)
	}

	if res := Classify(waveBytes(85)); res.Class != WaveCompressed {
		t.Errorf("MP3-in-WAVE: got %v", res.Class)
	}

	noFormat := wave.NewContainer()
	noFormat.SetChunk(wave.TagData, make([]byte, 16))
	if res := Classify(noFormat.Serialize()); res.Class != WaveInvalid {
		t.Errorf("wave without format chunk: got %v", res.Class)
	}
}

func TestClassifySignatures(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		kind Kind
	}{
		{"id3 tagged mp3", []byte("ID3\x04\x00\x00\x00\x00\x00\x00"), KindMP3},
		{"raw mpeg frame", []byte{0xFF, 0xFB, 0x90, 0x00}, KindMP3},
		{"ogg page", []byte("OggS\x00\x02\x00\x00"), KindOgg},
		{"flac marker", []byte("fLaC\x00\x00\x00\x22"), KindFLAC},
		{"iso media", []byte("\x00\x00\x00\x20ftypM4A \x00\x00\x00\x00"), KindAAC},
		{"adts aac", []byte{0xFF, 0xF1, 0x50, 0x80}, KindAAC},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Classify(tc.data)
			if res.Class != OtherKnown {
				t.Fatalf("class: got %v want OtherKnown", res.Class)
			}
			if res.Kind != tc.kind {
				t.Errorf("kind: got %q want %q", res.Kind, tc.kind)
			}
		})
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	cases := [][]byte{
		[]byte("this is plain text, not audio"),
		{},
		{0x00, 0x01, 0x02, 0x03},
	}
	for _, data := range cases {
		if res := Classify(data); res.Class != Unrecognized {
			t.Errorf("Classify(% X): got %v want Unrecognized", data, res.Class)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, s := range []string{"pcm", "mp3", "ogg", "flac", "aac"} {
		kind, err := ParseKind(s)
		if err != nil || string(kind) != s {
			t.Errorf("ParseKind(%q): %v, %v", s, kind, err)
		}
	}
	if _, err := ParseKind("wma"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestDescribe(t *testing.T) {
	if got := Describe(nil); got != "empty file" {
		t.Errorf("Describe(nil) = %q", got)
	}
	if got := Describe([]byte{0xDE, 0xAD}); got == "" {
		t.Error("Describe should name the leading bytes")
	}
}
