package model

import "time"

// Cart is a single playable audio item and its broadcast metadata. The
// pipeline fills the storage locators, fingerprints and cue points; the rest
// is plain record data owned by the CRUD surface.
//
// Cue points are milliseconds from the start of the audio and never negative.
// When no cart chunk is found in an upload they keep their previous value.
type Cart struct {
	ID     string `gorm:"primaryKey" json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	CutID  string `json:"cutId"`

	// Storage locators, null until the pipeline completes the stage.
	AudioRef      *string `json:"audioRef"`
	CompressedRef *string `json:"compressedRef"`

	// Content fingerprints for client cache invalidation.
	HashAudio      *string `json:"hashAudio"`
	HashCompressed *string `json:"hashCompressed"`

	CueAudioStart int64 `json:"cueAudioStart"`
	CueAudioEnd   int64 `json:"cueAudioEnd"`
	CueIntroStart int64 `json:"cueIntroStart"`
	CueIntroEnd   int64 `json:"cueIntroEnd"`
	CueSegue      int64 `json:"cueSegue"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateCartRequest creates an empty cart record to upload audio against.
type CreateCartRequest struct {
	Title  string `json:"title" validate:"required,max=255"`
	Artist string `json:"artist" validate:"max=255"`
	CutID  string `json:"cutId" validate:"max=64"`
}
