package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/aircart/api/internal/model"
)

// QueueIngest is the asynq queue all pipeline stages run on.
const QueueIngest = "ingest"

// ErrJobNotFound is returned when a job id has no record.
var ErrJobNotFound = errors.New("job not found")

// JobService persists upload jobs in redis and dispatches pipeline stages
// over asynq.
type JobService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
}

func NewJobService(redisClient *redis.Client, asynqClient *asynq.Client) *JobService {
	return &JobService{
		redis:       redisClient,
		asynqClient: asynqClient,
	}
}

// SaveJob writes the full job record. Jobs have no TTL: a completed or failed
// job is a permanent audit record.
func (s *JobService) SaveJob(ctx context.Context, job *model.UploadJob) error {
	job.UpdatedAt = time.Now()
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, jobKey(job.ID), data, 0).Err()
}

// GetJob loads a job by id.
func (s *JobService) GetJob(ctx context.Context, jobID string) (*model.UploadJob, error) {
	data, err := s.redis.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	var job model.UploadJob
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetStatus returns the job read surface for a job id.
func (s *JobService) GetStatus(ctx context.Context, jobID string) (*model.JobStatusResponse, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &model.JobStatusResponse{
		JobID:       job.ID,
		CartID:      job.CartID,
		Status:      job.Status,
		Error:       job.Error,
		CreatedAt:   job.CreatedAt,
		CompletedAt: job.CompletedAt,
	}, nil
}

// Dispatch enqueues a pipeline stage for a job. Stages are never retried by
// the queue: a failure is recorded on the job itself and retrying means a
// fresh upload.
func (s *JobService) Dispatch(ctx context.Context, taskType, jobID, kind string) error {
	payload, err := json.Marshal(model.StageTaskPayload{JobID: jobID, Kind: kind})
	if err != nil {
		return fmt.Errorf("failed to marshal task payload: %w", err)
	}

	task := asynq.NewTask(taskType, payload)
	_, err = s.asynqClient.EnqueueContext(ctx, task,
		asynq.Queue(QueueIngest),
		asynq.MaxRetry(0),
		asynq.Retention(24*time.Hour),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}
	return nil
}

func jobKey(jobID string) string {
	return fmt.Sprintf("job:%s", jobID)
}
