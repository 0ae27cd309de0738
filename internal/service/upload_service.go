package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aircart/api/internal/model"
	"github.com/aircart/api/internal/storage"
	"github.com/aircart/api/internal/store"
)

// UploadService is the upload entry point: it accepts raw audio bytes for a
// cart, creates the driving UploadJob, stages the file and dispatches the
// first pipeline stage. Everything after that happens on workers.
type UploadService struct {
	jobs  *JobService
	carts *store.CartStore
	blobs storage.BlobStore
}

func NewUploadService(jobs *JobService, carts *store.CartStore, blobs storage.BlobStore) *UploadService {
	return &UploadService{
		jobs:  jobs,
		carts: carts,
		blobs: blobs,
	}
}

// UploadAudio accepts a raw file for cartID and returns the new job
// synchronously. The file is written to the queued stage before the
// validate task is dispatched, so the worker always finds it.
func (s *UploadService) UploadAudio(ctx context.Context, cartID string, data []byte) (*model.UploadAudioResponse, error) {
	if _, err := s.carts.Get(ctx, cartID); err != nil {
		return nil, err
	}

	job := &model.UploadJob{
		ID:        uuid.New().String(),
		CartID:    cartID,
		Status:    model.JobStatusQueued,
		CreatedAt: time.Now(),
	}
	if err := s.jobs.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	if err := s.blobs.Save(ctx, storage.QueuedPath(job.ID, cartID), data); err != nil {
		return nil, fmt.Errorf("failed to stage upload: %w", err)
	}

	if err := s.jobs.Dispatch(ctx, model.TaskTypeValidate, job.ID, ""); err != nil {
		return nil, fmt.Errorf("failed to dispatch validation: %w", err)
	}

	return &model.UploadAudioResponse{
		JobID:     job.ID,
		CartID:    cartID,
		Status:    job.Status,
		CreatedAt: job.CreatedAt,
	}, nil
}
