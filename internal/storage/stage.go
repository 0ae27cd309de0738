// Package storage manages the three-stage blob lifecycle of an upload:
// queued (raw upload) → audio (canonical WAVE) → compressed (distribution
// copy). Paths are a pure function of the owning identifiers.
package storage

import "fmt"

// Stage identifies one of the three storage locations of an upload.
type Stage int

const (
	StageQueued Stage = iota
	StageAudio
	StageCompressed
)

func (s Stage) String() string {
	switch s {
	case StageQueued:
		return "queued"
	case StageAudio:
		return "audio"
	case StageCompressed:
		return "compressed"
	default:
		return "unknown"
	}
}

// QueuedPath is the key of the raw uploaded file. It carries both ids so
// concurrent jobs for the same cart cannot clobber each other's upload.
func QueuedPath(jobID, cartID string) string {
	return fmt.Sprintf("queued/%s_%s", jobID, cartID)
}

// AudioPath is the key of the canonical uncompressed audio. One per cart,
// overwritten on re-upload.
func AudioPath(cartID string) string {
	return fmt.Sprintf("audio/%s", cartID)
}

// CompressedPath is the key of the distribution copy. One per cart,
// overwritten on re-upload.
func CompressedPath(cartID string) string {
	return fmt.Sprintf("compressed/%s", cartID)
}
