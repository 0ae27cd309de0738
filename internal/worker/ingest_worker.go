// Package worker binds asynq task types to pipeline stages.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/aircart/api/internal/model"
	"github.com/aircart/api/internal/pipeline"
)

// IngestWorker processes the pipeline stage tasks for upload jobs.
type IngestWorker struct {
	pipeline *pipeline.Pipeline
}

// NewIngestWorker creates a worker around a fully wired pipeline.
func NewIngestWorker(p *pipeline.Pipeline) *IngestWorker {
	return &IngestWorker{pipeline: p}
}

// Register attaches one handler per stage task type.
func (w *IngestWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(model.TaskTypeValidate, w.ProcessValidate)
	mux.HandleFunc(model.TaskTypeDecompress, w.ProcessDecompress)
	mux.HandleFunc(model.TaskTypeMetadata, w.ProcessMetadata)
	mux.HandleFunc(model.TaskTypeCompress, w.ProcessCompress)
	mux.HandleFunc(model.TaskTypeHash, w.ProcessHash)
}

func (w *IngestWorker) ProcessValidate(ctx context.Context, t *asynq.Task) error {
	p, err := stagePayload(t)
	if err != nil {
		return err
	}
	return w.pipeline.Validate(ctx, p.JobID)
}

func (w *IngestWorker) ProcessDecompress(ctx context.Context, t *asynq.Task) error {
	p, err := stagePayload(t)
	if err != nil {
		return err
	}
	return w.pipeline.Decompress(ctx, p.JobID, p.Kind)
}

func (w *IngestWorker) ProcessMetadata(ctx context.Context, t *asynq.Task) error {
	p, err := stagePayload(t)
	if err != nil {
		return err
	}
	return w.pipeline.ExtractMetadata(ctx, p.JobID)
}

func (w *IngestWorker) ProcessCompress(ctx context.Context, t *asynq.Task) error {
	p, err := stagePayload(t)
	if err != nil {
		return err
	}
	return w.pipeline.Compress(ctx, p.JobID)
}

func (w *IngestWorker) ProcessHash(ctx context.Context, t *asynq.Task) error {
	p, err := stagePayload(t)
	if err != nil {
		return err
	}
	return w.pipeline.Hash(ctx, p.JobID)
}

func stagePayload(t *asynq.Task) (*model.StageTaskPayload, error) {
	var p model.StageTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task payload: %w", err)
	}
	if p.JobID == "" {
		return nil, fmt.Errorf("task payload missing job id")
	}
	return &p, nil
}
