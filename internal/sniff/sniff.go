// Package sniff classifies uploaded byte streams by content, never by file
// extension or caller-supplied content type.
package sniff

import (
	"bytes"
	"fmt"

	"github.com/aircart/api/internal/wave"
)

// Kind names a recognized compressed bitstream format.
type Kind string

const (
	KindPCM  Kind = "pcm"
	KindMP3  Kind = "mp3"
	KindOgg  Kind = "ogg"
	KindFLAC Kind = "flac"
	KindAAC  Kind = "aac"
)

// ParseKind maps a wire string back to a Kind, for task payloads that carry
// the classification across a dispatch boundary.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPCM, KindMP3, KindOgg, KindFLAC, KindAAC:
		return Kind(s), nil
	}
	return "", fmt.Errorf("sniff: unknown kind %q", s)
}

// Class is the top-level classification of a stream.
type Class int

const (
	// WaveUncompressed is a RIFF/WAVE container with a PCM format chunk.
	WaveUncompressed Class = iota
	// WaveCompressed is a RIFF/WAVE container whose format chunk declares a
	// non-PCM compression code.
	WaveCompressed
	// WaveInvalid is a well-formed RIFF/WAVE container with no format chunk.
	WaveInvalid
	// OtherKnown is a non-WAVE stream matching a known codec signature.
	OtherKnown
	// Unrecognized matched nothing on the allow-list.
	Unrecognized
)

func (c Class) String() string {
	switch c {
	case WaveUncompressed:
		return "wave-uncompressed"
	case WaveCompressed:
		return "wave-compressed"
	case WaveInvalid:
		return "wave-invalid"
	case OtherKnown:
		return "other-known"
	default:
		return "unrecognized"
	}
}

// Result is the outcome of classifying one stream. Kind is set for OtherKnown
// (and is KindPCM for WaveUncompressed); Format is set whenever a format
// chunk was decoded.
type Result struct {
	Class  Class
	Kind   Kind
	Format *wave.Format
}

// Classify sniffs a byte stream. A stream that parses as RIFF/WAVE is judged
// by its format chunk; anything else is matched against a fixed allow-list of
// codec signatures.
func Classify(data []byte) Result {
	if c, err := wave.Parse(data); err == nil {
		// a missing or undecodable format chunk both leave the payload
		// layout unknown
		f, err := c.Format()
		if err != nil {
			return Result{Class: WaveInvalid}
		}
		if f.IsPCM() {
			return Result{Class: WaveUncompressed, Kind: KindPCM, Format: f}
		}
		return Result{Class: WaveCompressed, Format: f}
	}

	if kind, ok := sniffSignature(data); ok {
		return Result{Class: OtherKnown, Kind: kind}
	}
	return Result{Class: Unrecognized}
}

func sniffSignature(data []byte) (Kind, bool) {
	switch {
	case bytes.HasPrefix(data, []byte("ID3")):
		return KindMP3, true
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0 && data[1]&0xF6 != 0xF0:
		// MPEG audio frame sync, excluding the ADTS layer bits
		return KindMP3, true
	case bytes.HasPrefix(data, []byte("OggS")):
		return KindOgg, true
	case bytes.HasPrefix(data, []byte("fLaC")):
		return KindFLAC, true
	case len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")):
		// ISO base media (M4A/MP4 audio)
		return KindAAC, true
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xF6 == 0xF0:
		// ADTS AAC frame sync
		return KindAAC, true
	}
	return "", false
}

// Describe names the leading signature of a stream for error messages, e.g.
// when an upload is rejected as unrecognized.
func Describe(data []byte) string {
	if len(data) == 0 {
		return "empty file"
	}
	n := 4
	if len(data) < n {
		n = len(data)
	}
	return fmt.Sprintf("signature % X", data[:n])
}
