package worker

import (
	"testing"

	"github.com/hibiken/asynq"

	"github.com/aircart/api/internal/model"
)

func TestStagePayload(t *testing.T) {
	task := asynq.NewTask(model.TaskTypeDecompress, []byte(`{"jobId":"job-1","kind":"mp3"}`))
	p, err := stagePayload(task)
	if err != nil {
		t.Fatalf("stagePayload failed: %v", err)
	}
	if p.JobID != "job-1" || p.Kind != "mp3" {
		t.Errorf("payload = %+v", p)
	}
}

func TestStagePayloadOmittedKind(t *testing.T) {
	task := asynq.NewTask(model.TaskTypeValidate, []byte(`{"jobId":"job-1"}`))
	p, err := stagePayload(task)
	if err != nil {
		t.Fatalf("stagePayload failed: %v", err)
	}
	if p.Kind != "" {
		t.Errorf("kind = %q, want empty", p.Kind)
	}
}

func TestStagePayloadRejectsBadInput(t *testing.T) {
	cases := map[string][]byte{
		"not json":       []byte("not json"),
		"missing job id": []byte(`{"kind":"mp3"}`),
		"empty":          []byte(`{}`),
	}
	for name, payload := range cases {
		if _, err := stagePayload(asynq.NewTask(model.TaskTypeValidate, payload)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
