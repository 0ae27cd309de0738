package model

import "time"

// JobStatus tracks an upload through the ingestion pipeline. Statuses name
// the stage currently executing; Done and Error are terminal.
type JobStatus string

const (
	JobStatusQueued        JobStatus = "queued"
	JobStatusValidating    JobStatus = "validating"
	JobStatusDecompressing JobStatus = "decompressing"
	JobStatusMetadata      JobStatus = "metadata"
	JobStatusCompressing   JobStatus = "compressing"
	JobStatusHashing       JobStatus = "hashing"
	JobStatusDone          JobStatus = "done"
	JobStatusError         JobStatus = "error"
)

// Terminal reports whether the job can transition no further.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDone || s == JobStatusError
}

// UploadJob is one execution attempt of the ingestion pipeline for one
// uploaded file. Jobs are never deleted automatically; a failed job is a
// permanent audit record and a retry means a fresh upload with a fresh job.
type UploadJob struct {
	ID          string     `json:"id"`
	CartID      string     `json:"cartId"`
	Status      JobStatus  `json:"status"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Task types, one per pipeline stage. Each stage is dispatched as its own
// unit of work so a crash between stages leaves the job resumable by
// inspection rather than silently lost.
const (
	TaskTypeValidate   = "ingest:validate"
	TaskTypeDecompress = "ingest:decompress"
	TaskTypeMetadata   = "ingest:metadata"
	TaskTypeCompress   = "ingest:compress"
	TaskTypeHash       = "ingest:hash"
)

// StageTaskPayload is the argument tuple of every pipeline task. Stages share
// no in-memory state: everything else is re-derived from durable storage.
type StageTaskPayload struct {
	JobID string `json:"jobId"`
	Kind  string `json:"kind,omitempty"` // set only for the decompress stage
}

// UploadAudioResponse is returned synchronously by the upload entry point.
type UploadAudioResponse struct {
	JobID     string    `json:"jobId"`
	CartID    string    `json:"cartId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// JobStatusResponse is the job read surface.
type JobStatusResponse struct {
	JobID       string     `json:"jobId"`
	CartID      string     `json:"cartId"`
	Status      JobStatus  `json:"status"`
	Error       *string    `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
