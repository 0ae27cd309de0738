// Package codec bridges the pipeline to the external transcoding engine
// (ffmpeg). The engine is a process boundary: this package marshals bytes in,
// validates bytes out, and surfaces engine diagnostics as typed errors.
package codec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/aircart/api/internal/sniff"
)

// EngineError wraps an external engine failure with its last diagnostic line.
type EngineError struct {
	Op     string // "decode" or "encode"
	Detail string // last stderr line, if any
	Err    error
}

func (e *EngineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("codec: %s failed: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("codec: %s failed: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error { return e.Err }

// Transcoder converts between recognized compressed formats and canonical
// 16-bit PCM WAVE.
type Transcoder interface {
	Decode(ctx context.Context, kind sniff.Kind, input []byte) ([]byte, error)
	Encode(ctx context.Context, wav []byte, quality int) ([]byte, error)
}

// demuxers is the capability table mapping a sniffed kind to the engine input
// format. A kind missing here cannot be decoded.
var demuxers = map[sniff.Kind]string{
	sniff.KindMP3:  "mp3",
	sniff.KindOgg:  "ogg",
	sniff.KindFLAC: "flac",
	sniff.KindAAC:  "aac",
}

// FFmpeg runs the ffmpeg binary over pipes.
type FFmpeg struct {
	path    string
	timeout time.Duration
}

// NewFFmpeg returns a Transcoder invoking the binary at path. A zero timeout
// disables the per-invocation deadline.
func NewFFmpeg(path string, timeout time.Duration) *FFmpeg {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpeg{path: path, timeout: timeout}
}

// DecodeArgs returns the engine arguments for decoding kind to canonical
// WAVE, or false if the kind has no registered demuxer.
func DecodeArgs(kind sniff.Kind) ([]string, bool) {
	demuxer, ok := demuxers[kind]
	if !ok {
		return nil, false
	}
	return []string{
		"-hide_banner",
		"-f", demuxer,
		"-i", "pipe:0",
		"-vn",
		"-codec:a", "pcm_s16le",
		"-f", "wav",
		"pipe:1",
	}, true
}

// EncodeArgs returns the engine arguments for encoding canonical WAVE to the
// MP3 distribution copy at the given VBR quality (0 best .. 9 worst).
func EncodeArgs(quality int) []string {
	if quality < 0 || quality > 9 {
		quality = 2
	}
	return []string{
		"-hide_banner",
		"-f", "wav",
		"-i", "pipe:0",
		"-vn",
		"-codec:a", "libmp3lame",
		"-q:a", fmt.Sprintf("%d", quality),
		"-f", "mp3",
		"pipe:1",
	}
}

// Decode converts a recognized compressed stream to canonical 16-bit PCM
// WAVE.
func (f *FFmpeg) Decode(ctx context.Context, kind sniff.Kind, input []byte) ([]byte, error) {
	args, ok := DecodeArgs(kind)
	if !ok {
		return nil, &EngineError{Op: "decode", Detail: fmt.Sprintf("no decoder for kind %q", kind)}
	}
	out, err := f.run(ctx, "decode", args, input)
	if err != nil {
		return nil, err
	}
	// ffmpeg writing to a pipe cannot backfill the RIFF size, but the magic
	// must still be present for the output to be a WAVE stream at all
	if !bytes.HasPrefix(out, []byte("RIFF")) {
		return nil, &EngineError{Op: "decode", Detail: "engine produced non-WAVE output"}
	}
	return out, nil
}

// Encode converts canonical WAVE to the compressed distribution format.
func (f *FFmpeg) Encode(ctx context.Context, wav []byte, quality int) ([]byte, error) {
	return f.run(ctx, "encode", EncodeArgs(quality), wav)
}

func (f *FFmpeg) run(ctx context.Context, op string, args []string, input []byte) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.path, args...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, &EngineError{Op: op, Err: err}
	}

	if err := cmd.Start(); err != nil {
		return nil, &EngineError{Op: op, Err: err}
	}

	var lastErrLine string
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lastErrLine = line
		}
	}

	if err := cmd.Wait(); err != nil {
		return nil, &EngineError{Op: op, Detail: lastErrLine, Err: err}
	}
	if stdout.Len() == 0 {
		return nil, &EngineError{Op: op, Detail: "engine produced no output"}
	}
	return stdout.Bytes(), nil
}
