package wave

import (
	"encoding/binary"
	"errors"
)

// FormatPCM is the compression code for uncompressed linear PCM. Any other
// code marks the audio payload as compressed even though the wrapper is WAVE.
const FormatPCM uint16 = 1

// ErrNoFormatChunk is returned when a container carries no "fmt " chunk.
var ErrNoFormatChunk = errors.New("wave: no format chunk found")

// Format is the decoded "fmt " chunk.
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// IsPCM reports whether the audio payload is uncompressed linear PCM.
func (f *Format) IsPCM() bool {
	return f.AudioFormat == FormatPCM
}

// DecodeFormat decodes a "fmt " chunk payload. Extension bytes beyond the
// 16-byte common fields are ignored.
func DecodeFormat(payload []byte) (*Format, error) {
	if len(payload) < 16 {
		return nil, parseErrorf("format chunk too short (%d bytes)", len(payload))
	}
	return &Format{
		AudioFormat:   binary.LittleEndian.Uint16(payload[0:2]),
		Channels:      binary.LittleEndian.Uint16(payload[2:4]),
		SampleRate:    binary.LittleEndian.Uint32(payload[4:8]),
		ByteRate:      binary.LittleEndian.Uint32(payload[8:12]),
		BlockAlign:    binary.LittleEndian.Uint16(payload[12:14]),
		BitsPerSample: binary.LittleEndian.Uint16(payload[14:16]),
	}, nil
}

// Encode serializes the format chunk payload.
func (f *Format) Encode() []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint16(out[0:2], f.AudioFormat)
	binary.LittleEndian.PutUint16(out[2:4], f.Channels)
	binary.LittleEndian.PutUint32(out[4:8], f.SampleRate)
	binary.LittleEndian.PutUint32(out[8:12], f.ByteRate)
	binary.LittleEndian.PutUint16(out[12:14], f.BlockAlign)
	binary.LittleEndian.PutUint16(out[14:16], f.BitsPerSample)
	return out
}
