package codec

import (
	"strings"
	"testing"

	"github.com/aircart/api/internal/sniff"
)

func TestDecodeArgsPerKind(t *testing.T) {
	cases := []struct {
		kind    sniff.Kind
		demuxer string
	}{
		{sniff.KindMP3, "mp3"},
		{sniff.KindOgg, "ogg"},
		{sniff.KindFLAC, "flac"},
		{sniff.KindAAC, "aac"},
	}

	for _, tc := range cases {
		args, ok := DecodeArgs(tc.kind)
		if !ok {
			t.Fatalf("no decoder for %q", tc.kind)
		}
		joined := strings.Join(args, " ")
		if !strings.Contains(joined, "-f "+tc.demuxer+" -i pipe:0") {
			t.Errorf("%q: input format missing in %q", tc.kind, joined)
		}
		if !strings.Contains(joined, "pcm_s16le") {
			t.Errorf("%q: canonical output must be 16-bit PCM, got %q", tc.kind, joined)
		}
		if !strings.HasSuffix(joined, "-f wav pipe:1") {
			t.Errorf("%q: output must be WAVE on stdout, got %q", tc.kind, joined)
		}
	}
}

func TestDecodeArgsUnknownKind(t *testing.T) {
	if _, ok := DecodeArgs(sniff.KindPCM); ok {
		t.Error("pcm needs no decoder and must not have one")
	}
	if _, ok := DecodeArgs(sniff.Kind("wma")); ok {
		t.Error("unknown kind must not have a decoder")
	}
}

func TestEncodeArgs(t *testing.T) {
	args := EncodeArgs(4)
	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "libmp3lame") {
		t.Errorf("distribution codec missing: %q", joined)
	}
	if !strings.Contains(joined, "-q:a 4") {
		t.Errorf("quality not applied: %q", joined)
	}

	// out-of-range quality falls back to the default
	if joined := strings.Join(EncodeArgs(42), " "); !strings.Contains(joined, "-q:a 2") {
		t.Errorf("bad quality not clamped: %q", joined)
	}
}
