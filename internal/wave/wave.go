// Package wave parses and serializes RIFF/WAVE containers, including the
// broadcast cart chunk used by radio automation systems.
package wave

import (
	"encoding/binary"
	"fmt"
)

// Well-known chunk tags.
const (
	TagFormat = "fmt "
	TagData   = "data"
	TagCart   = "cart"
)

// ParseError reports a structural problem in a RIFF/WAVE byte stream.
// It is always recoverable; the parser never partially succeeds.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "wave: " + e.Reason
}

func parseErrorf(format string, args ...interface{}) error {
	return &ParseError{Reason: fmt.Sprintf(format, args...)}
}

// Container is an in-memory RIFF form of type WAVE. Sub-chunks are keyed by
// their 4-byte ASCII tag; tags not interpreted by this package are preserved
// opaquely so a parse/serialize round trip keeps them intact.
type Container struct {
	order  []string
	chunks map[string][]byte
}

// NewContainer returns an empty WAVE container.
func NewContainer() *Container {
	return &Container{chunks: make(map[string][]byte)}
}

// Parse reads a complete RIFF/WAVE container from data. Any structural
// violation (wrong form tag, truncated chunk table, size mismatch) yields a
// *ParseError rather than a partial container.
func Parse(data []byte) (*Container, error) {
	if len(data) < 12 {
		return nil, parseErrorf("stream too short for a RIFF header (%d bytes)", len(data))
	}
	if string(data[0:4]) != "RIFF" {
		return nil, parseErrorf("not a RIFF form (tag %q)", string(data[0:4]))
	}
	formSize := binary.LittleEndian.Uint32(data[4:8])
	if string(data[8:12]) != "WAVE" {
		return nil, parseErrorf("unknown form type %q", string(data[8:12]))
	}
	if int(formSize) < 4 || 8+int(formSize) > len(data) {
		return nil, parseErrorf("declared form size %d exceeds stream length %d", formSize, len(data))
	}

	c := NewContainer()
	body := data[12 : 8+int(formSize)]
	for len(body) > 0 {
		if len(body) < 8 {
			return nil, parseErrorf("truncated chunk header (%d trailing bytes)", len(body))
		}
		tag := string(body[0:4])
		size := binary.LittleEndian.Uint32(body[4:8])
		body = body[8:]
		if int(size) > len(body) {
			return nil, parseErrorf("chunk %q declares %d bytes, only %d remain", tag, size, len(body))
		}
		payload := make([]byte, size)
		copy(payload, body[:size])
		c.SetChunk(tag, payload)
		body = body[size:]
		// chunks are word-aligned; an odd payload is followed by a pad byte
		if size%2 == 1 {
			if len(body) > 0 {
				body = body[1:]
			}
		}
	}
	return c, nil
}

// Serialize writes the container back to wire form. Chunks are emitted in the
// order they were first seen, with pad bytes restored for odd payloads.
func (c *Container) Serialize() []byte {
	bodyLen := 0
	for _, tag := range c.order {
		n := len(c.chunks[tag])
		bodyLen += 8 + n + n%2
	}

	out := make([]byte, 0, 12+bodyLen)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(4+bodyLen))
	out = append(out, "WAVE"...)
	for _, tag := range c.order {
		payload := c.chunks[tag]
		out = append(out, tag...)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
		out = append(out, payload...)
		if len(payload)%2 == 1 {
			out = append(out, 0)
		}
	}
	return out
}

// Chunk returns the payload of the chunk with the given tag.
func (c *Container) Chunk(tag string) ([]byte, bool) {
	payload, ok := c.chunks[tag]
	return payload, ok
}

// SetChunk stores a chunk payload, replacing any existing chunk with the same
// tag. Tags are unique within a container.
func (c *Container) SetChunk(tag string, payload []byte) {
	if _, exists := c.chunks[tag]; !exists {
		c.order = append(c.order, tag)
	}
	c.chunks[tag] = payload
}

// Tags lists the chunk tags in serialization order.
func (c *Container) Tags() []string {
	tags := make([]string, len(c.order))
	copy(tags, c.order)
	return tags
}

// Format decodes the format chunk, if present.
func (c *Container) Format() (*Format, error) {
	payload, ok := c.Chunk(TagFormat)
	if !ok {
		return nil, ErrNoFormatChunk
	}
	return DecodeFormat(payload)
}

// Cart decodes the broadcast cart chunk, if present.
func (c *Container) Cart() (*CartChunk, error) {
	payload, ok := c.Chunk(TagCart)
	if !ok {
		return nil, ErrNoCartChunk
	}
	return DecodeCart(payload)
}
