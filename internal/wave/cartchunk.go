package wave

import (
	"encoding/binary"
	"errors"
	"strings"
)

// ErrNoCartChunk is returned when a container carries no "cart" chunk.
var ErrNoCartChunk = errors.New("wave: no cart chunk found")

// Field widths of the fixed cart chunk header (AES46-2002 layout).
const (
	cartVersionLen = 4
	cartTextLen    = 64
	cartDateLen    = 10
	cartTimeLen    = 8
	cartHeaderLen  = cartVersionLen + 7*cartTextLen + 2*cartDateLen + 2*cartTimeLen + 3*cartTextLen + 4
	cartTimerSlots = 8
	cartTimerLen   = 8 // 4-char usage + uint32 sample offset
	timerNameLen   = 4
)

// Timer is a named, sample-accurate cue marker inside a cart chunk. Names are
// exactly four characters and may include trailing spaces ("INT ", "SEG ").
type Timer struct {
	Name   string
	Offset uint32 // position in samples
}

// CartChunk is the decoded broadcast metadata block. Text fields are
// interpreted for display; everything past the timer table is carried
// opaquely in Tail so re-encoding does not lose vendor data.
type CartChunk struct {
	Version            string
	Title              string
	Artist             string
	CutID              string
	ClientID           string
	Category           string
	Classification     string
	OutCue             string
	StartDate          string
	StartTime          string
	EndDate            string
	EndTime            string
	ProducerAppID      string
	ProducerAppVersion string
	UserDef            string
	LevelReference     int32
	Timers             []Timer
	Tail               []byte
}

// DecodeCart decodes a "cart" chunk payload. Duplicate or unknown timer names
// are retained as-is; interpreting them is the caller's concern.
func DecodeCart(payload []byte) (*CartChunk, error) {
	if len(payload) < cartHeaderLen {
		return nil, parseErrorf("cart chunk too short (%d bytes, need %d)", len(payload), cartHeaderLen)
	}

	c := &CartChunk{}
	off := 0
	next := func(n int) []byte {
		field := payload[off : off+n]
		off += n
		return field
	}

	c.Version = cartString(next(cartVersionLen))
	c.Title = cartString(next(cartTextLen))
	c.Artist = cartString(next(cartTextLen))
	c.CutID = cartString(next(cartTextLen))
	c.ClientID = cartString(next(cartTextLen))
	c.Category = cartString(next(cartTextLen))
	c.Classification = cartString(next(cartTextLen))
	c.OutCue = cartString(next(cartTextLen))
	c.StartDate = cartString(next(cartDateLen))
	c.StartTime = cartString(next(cartTimeLen))
	c.EndDate = cartString(next(cartDateLen))
	c.EndTime = cartString(next(cartTimeLen))
	c.ProducerAppID = cartString(next(cartTextLen))
	c.ProducerAppVersion = cartString(next(cartTextLen))
	c.UserDef = cartString(next(cartTextLen))
	c.LevelReference = int32(binary.LittleEndian.Uint32(next(4)))

	for i := 0; i < cartTimerSlots && off+cartTimerLen <= len(payload); i++ {
		name := timerName(payload[off : off+timerNameLen])
		offset := binary.LittleEndian.Uint32(payload[off+timerNameLen : off+cartTimerLen])
		off += cartTimerLen
		if name == "" {
			continue // unused slot
		}
		c.Timers = append(c.Timers, Timer{Name: name, Offset: offset})
	}

	if off < len(payload) {
		c.Tail = make([]byte, len(payload)-off)
		copy(c.Tail, payload[off:])
	}
	return c, nil
}

// Encode serializes the cart chunk payload. Text fields are NUL-padded to
// their fixed widths; timers fill the fixed slot table in order.
func (c *CartChunk) Encode() []byte {
	out := make([]byte, 0, cartHeaderLen+cartTimerSlots*cartTimerLen+len(c.Tail))
	out = appendPadded(out, c.Version, cartVersionLen)
	out = appendPadded(out, c.Title, cartTextLen)
	out = appendPadded(out, c.Artist, cartTextLen)
	out = appendPadded(out, c.CutID, cartTextLen)
	out = appendPadded(out, c.ClientID, cartTextLen)
	out = appendPadded(out, c.Category, cartTextLen)
	out = appendPadded(out, c.Classification, cartTextLen)
	out = appendPadded(out, c.OutCue, cartTextLen)
	out = appendPadded(out, c.StartDate, cartDateLen)
	out = appendPadded(out, c.StartTime, cartTimeLen)
	out = appendPadded(out, c.EndDate, cartDateLen)
	out = appendPadded(out, c.EndTime, cartTimeLen)
	out = appendPadded(out, c.ProducerAppID, cartTextLen)
	out = appendPadded(out, c.ProducerAppVersion, cartTextLen)
	out = appendPadded(out, c.UserDef, cartTextLen)
	out = binary.LittleEndian.AppendUint32(out, uint32(c.LevelReference))

	for i := 0; i < cartTimerSlots; i++ {
		if i < len(c.Timers) {
			out = appendPadded(out, c.Timers[i].Name, timerNameLen)
			out = binary.LittleEndian.AppendUint32(out, c.Timers[i].Offset)
		} else {
			out = append(out, make([]byte, cartTimerLen)...)
		}
	}

	out = append(out, c.Tail...)
	return out
}

// Timer returns the first timer matching name, in decode order.
func (c *CartChunk) Timer(name string) (Timer, bool) {
	for _, t := range c.Timers {
		if t.Name == name {
			return t, true
		}
	}
	return Timer{}, false
}

func cartString(field []byte) string {
	return strings.TrimRight(string(field), "\x00 ")
}

// timerName keeps trailing spaces (they are significant, e.g. "INT ") but
// treats NUL padding and all-NUL slots as absent.
func timerName(field []byte) string {
	name := strings.TrimRight(string(field), "\x00")
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return name
}

func appendPadded(out []byte, s string, width int) []byte {
	if len(s) > width {
		s = s[:width]
	}
	out = append(out, s...)
	for i := len(s); i < width; i++ {
		out = append(out, 0)
	}
	return out
}
