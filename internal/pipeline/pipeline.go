// Package pipeline is the ingestion state machine: it sequences validation,
// decompression, metadata extraction, distribution encoding and hashing for
// one uploaded file, persisting the job status at every step.
//
// Every collaborator is injected; the package holds no globals. Each stage is
// invoked by a worker with only the job id (plus the sniffed kind for
// decompression) and re-derives everything else from durable storage.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aircart/api/internal/codec"
	"github.com/aircart/api/internal/fingerprint"
	"github.com/aircart/api/internal/model"
	"github.com/aircart/api/internal/sniff"
	"github.com/aircart/api/internal/storage"
	"github.com/aircart/api/internal/wave"
)

// Jobs persists upload jobs.
type Jobs interface {
	GetJob(ctx context.Context, jobID string) (*model.UploadJob, error)
	SaveJob(ctx context.Context, job *model.UploadJob) error
}

// Carts is the cart record boundary. Reads and writes are whole rows with no
// compare-and-swap: concurrent uploads to one cart are last-writer-wins and
// callers are expected to serialize uploads per cart.
type Carts interface {
	Get(ctx context.Context, id string) (*model.Cart, error)
	Save(ctx context.Context, cart *model.Cart) error
}

// Dispatcher enqueues the next stage as an independent unit of work.
type Dispatcher interface {
	Dispatch(ctx context.Context, taskType, jobID, kind string) error
}

// Notifier receives job transitions for live status surfaces. May be nil.
type Notifier interface {
	JobStatusChanged(jobID string, status model.JobStatus)
	JobFailed(jobID, message string)
}

// transitions is the state machine table. Error is additionally reachable
// from every non-terminal state.
var transitions = map[model.JobStatus][]model.JobStatus{
	model.JobStatusQueued:        {model.JobStatusValidating},
	model.JobStatusValidating:    {model.JobStatusDecompressing, model.JobStatusMetadata},
	model.JobStatusDecompressing: {model.JobStatusMetadata},
	model.JobStatusMetadata:      {model.JobStatusCompressing},
	model.JobStatusCompressing:   {model.JobStatusHashing},
	model.JobStatusHashing:       {model.JobStatusDone},
}

// CanTransition reports whether the table allows from → to.
func CanTransition(from, to model.JobStatus) bool {
	if to == model.JobStatusError {
		return !from.Terminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Pipeline drives one job through the ingestion stages.
type Pipeline struct {
	jobs     Jobs
	carts    Carts
	blobs    storage.BlobStore
	codec    codec.Transcoder
	dispatch Dispatcher
	notify   Notifier
	quality  int
}

func New(jobs Jobs, carts Carts, blobs storage.BlobStore, transcoder codec.Transcoder, dispatch Dispatcher, notify Notifier, quality int) *Pipeline {
	return &Pipeline{
		jobs:     jobs,
		carts:    carts,
		blobs:    blobs,
		codec:    transcoder,
		dispatch: dispatch,
		notify:   notify,
		quality:  quality,
	}
}

// Validate classifies the queued file and branches the pipeline. The queued
// file is deleted only when it is conclusively not a supported audio type;
// ambiguous failures leave it in place for manual salvage.
func (p *Pipeline) Validate(ctx context.Context, jobID string) error {
	job, err := p.enter(ctx, jobID, model.JobStatusValidating)
	if err != nil || job == nil {
		return err
	}

	queued := storage.QueuedPath(job.ID, job.CartID)
	data, err := p.blobs.Open(ctx, queued)
	if err != nil {
		return p.fail(ctx, job, "failed to read the uploaded file")
	}

	res := sniff.Classify(data)
	switch res.Class {
	case sniff.WaveUncompressed:
		if err := p.blobs.Move(ctx, queued, storage.AudioPath(job.CartID)); err != nil {
			return p.fail(ctx, job, "failed to store the audio")
		}
		return p.dispatch.Dispatch(ctx, model.TaskTypeMetadata, job.ID, "")

	case sniff.OtherKnown:
		return p.dispatch.Dispatch(ctx, model.TaskTypeDecompress, job.ID, string(res.Kind))

	case sniff.WaveCompressed:
		return p.fail(ctx, job, "compressed WAVE is not supported")

	case sniff.WaveInvalid:
		return p.fail(ctx, job, "no format chunk found")

	default: // Unrecognized: conclusively not audio we support
		if err := p.blobs.Delete(ctx, queued); err != nil {
			log.Printf("job %s: failed to delete unrecognized upload: %v", job.ID, err)
		}
		return p.fail(ctx, job, fmt.Sprintf("unrecognized file type (%s)", sniff.Describe(data)))
	}
}

// Decompress converts a recognized compressed upload into canonical WAVE.
// The queued file is deleted only after the canonical copy is stored; on
// engine failure it is retained.
func (p *Pipeline) Decompress(ctx context.Context, jobID, kindArg string) error {
	job, err := p.enter(ctx, jobID, model.JobStatusDecompressing)
	if err != nil || job == nil {
		return err
	}

	kind, err := sniff.ParseKind(kindArg)
	if err != nil {
		return p.fail(ctx, job, "failed to decompress the audio")
	}

	queued := storage.QueuedPath(job.ID, job.CartID)
	data, err := p.blobs.Open(ctx, queued)
	if err != nil {
		return p.fail(ctx, job, "failed to read the uploaded file")
	}

	wav, err := p.codec.Decode(ctx, kind, data)
	if err != nil {
		log.Printf("job %s: decode failed: %v", job.ID, err)
		return p.fail(ctx, job, "failed to decompress the audio")
	}

	if err := p.blobs.Save(ctx, storage.AudioPath(job.CartID), wav); err != nil {
		return p.fail(ctx, job, "failed to store the audio")
	}
	if err := p.blobs.Delete(ctx, queued); err != nil {
		log.Printf("job %s: failed to delete queued file: %v", job.ID, err)
	}
	return p.dispatch.Dispatch(ctx, model.TaskTypeMetadata, job.ID, "")
}

// ExtractMetadata reads cue timers from the canonical file's cart chunk and
// writes them to the cart record. A missing or unreadable cart chunk is not a
// failure: the cue points keep their defaults and the pipeline proceeds.
func (p *Pipeline) ExtractMetadata(ctx context.Context, jobID string) error {
	job, err := p.enter(ctx, jobID, model.JobStatusMetadata)
	if err != nil || job == nil {
		return err
	}

	data, err := p.blobs.Open(ctx, storage.AudioPath(job.CartID))
	if err != nil {
		return p.fail(ctx, job, "failed to read the audio file")
	}

	if cues, ok := readCues(data); ok {
		cart, err := p.carts.Get(ctx, job.CartID)
		if err != nil {
			return p.fail(ctx, job, "cart record not found")
		}
		cart.CueAudioStart = cues.AudioStart
		cart.CueAudioEnd = cues.AudioEnd
		cart.CueIntroStart = cues.IntroStart
		cart.CueIntroEnd = cues.IntroEnd
		cart.CueSegue = cues.Segue
		if err := p.carts.Save(ctx, cart); err != nil {
			return p.fail(ctx, job, "failed to save cue points")
		}
	}

	return p.dispatch.Dispatch(ctx, model.TaskTypeCompress, job.ID, "")
}

// Compress encodes the canonical file into the distribution copy.
func (p *Pipeline) Compress(ctx context.Context, jobID string) error {
	job, err := p.enter(ctx, jobID, model.JobStatusCompressing)
	if err != nil || job == nil {
		return err
	}

	data, err := p.blobs.Open(ctx, storage.AudioPath(job.CartID))
	if err != nil {
		return p.fail(ctx, job, "failed to read the audio file")
	}

	compressed, err := p.codec.Encode(ctx, data, p.quality)
	if err != nil {
		log.Printf("job %s: encode failed: %v", job.ID, err)
		return p.fail(ctx, job, "failed to compress the audio")
	}

	if err := p.blobs.Save(ctx, storage.CompressedPath(job.CartID), compressed); err != nil {
		return p.fail(ctx, job, "failed to store the compressed audio")
	}
	return p.dispatch.Dispatch(ctx, model.TaskTypeHash, job.ID, "")
}

// Hash fingerprints both outputs, stores the locators and digests on the
// cart, and completes the job.
func (p *Pipeline) Hash(ctx context.Context, jobID string) error {
	job, err := p.enter(ctx, jobID, model.JobStatusHashing)
	if err != nil || job == nil {
		return err
	}

	audioKey := storage.AudioPath(job.CartID)
	compressedKey := storage.CompressedPath(job.CartID)

	audio, err := p.blobs.Open(ctx, audioKey)
	if err != nil {
		return p.fail(ctx, job, "failed to read the audio file")
	}
	compressed, err := p.blobs.Open(ctx, compressedKey)
	if err != nil {
		return p.fail(ctx, job, "failed to read the compressed file")
	}

	cart, err := p.carts.Get(ctx, job.CartID)
	if err != nil {
		return p.fail(ctx, job, "cart record not found")
	}

	hashAudio := fingerprint.Sum(audio)
	hashCompressed := fingerprint.Sum(compressed)
	cart.AudioRef = &audioKey
	cart.CompressedRef = &compressedKey
	cart.HashAudio = &hashAudio
	cart.HashCompressed = &hashCompressed
	if err := p.carts.Save(ctx, cart); err != nil {
		return p.fail(ctx, job, "failed to save the cart record")
	}

	return p.complete(ctx, job)
}

// enter loads the job and moves it into the stage's active state. It returns
// (nil, nil) when the job is already terminal, which makes redelivered tasks
// a no-op under at-least-once dispatch.
func (p *Pipeline) enter(ctx context.Context, jobID string, status model.JobStatus) (*model.UploadJob, error) {
	job, err := p.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status.Terminal() {
		log.Printf("job %s: ignoring %s dispatch, job already %s", job.ID, status, job.Status)
		return nil, nil
	}
	if !CanTransition(job.Status, status) {
		return nil, fmt.Errorf("invalid transition %s -> %s for job %s", job.Status, status, job.ID)
	}
	job.Status = status
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return nil, err
	}
	if p.notify != nil {
		p.notify.JobStatusChanged(job.ID, job.Status)
	}
	return job, nil
}

// fail records a terminal failure on the job. The returned error is always
// nil: the failure is fully handled here and must not bounce the task back
// to the queue.
func (p *Pipeline) fail(ctx context.Context, job *model.UploadJob, message string) error {
	now := time.Now()
	job.Status = model.JobStatusError
	job.Error = &message
	job.CompletedAt = &now
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return err
	}
	log.Printf("job %s: failed: %s", job.ID, message)
	if p.notify != nil {
		p.notify.JobFailed(job.ID, message)
	}
	return nil
}

func (p *Pipeline) complete(ctx context.Context, job *model.UploadJob) error {
	now := time.Now()
	job.Status = model.JobStatusDone
	job.Error = nil
	job.CompletedAt = &now
	if err := p.jobs.SaveJob(ctx, job); err != nil {
		return err
	}
	log.Printf("job %s: done", job.ID)
	if p.notify != nil {
		p.notify.JobStatusChanged(job.ID, job.Status)
	}
	return nil
}

// readCues parses the canonical file and extracts cue points from its cart
// chunk. ok is false when the file has no usable cart chunk or no sample
// rate to convert offsets with.
func readCues(data []byte) (CuePoints, bool) {
	container, err := wave.Parse(data)
	if err != nil {
		return CuePoints{}, false
	}
	cart, err := container.Cart()
	if err != nil {
		return CuePoints{}, false
	}
	format, err := container.Format()
	if err != nil || format.SampleRate == 0 {
		return CuePoints{}, false
	}
	return ExtractCues(cart, format.SampleRate), true
}
