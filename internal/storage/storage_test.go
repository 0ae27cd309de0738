package storage

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestStagePaths(t *testing.T) {
	if got := QueuedPath("job-1", "cart-9"); got != "queued/job-1_cart-9" {
		t.Errorf("QueuedPath = %q", got)
	}
	if got := AudioPath("cart-9"); got != "audio/cart-9" {
		t.Errorf("AudioPath = %q", got)
	}
	if got := CompressedPath("cart-9"); got != "compressed/cart-9" {
		t.Errorf("CompressedPath = %q", got)
	}
}

func TestStageString(t *testing.T) {
	cases := map[Stage]string{
		StageQueued:     "queued",
		StageAudio:      "audio",
		StageCompressed: "compressed",
	}
	for stage, want := range cases {
		if stage.String() != want {
			t.Errorf("Stage(%d).String() = %q, want %q", stage, stage.String(), want)
		}
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, "queued/a", []byte("payload")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := s.Open(ctx, "queued/a")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Open returned %q", data)
	}

	ok, err := s.Exists(ctx, "queued/a")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v", ok, err)
	}

	if err := s.Move(ctx, "queued/a", "audio/a"); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "queued/a"); ok {
		t.Error("source still present after move")
	}
	moved, err := s.Open(ctx, "audio/a")
	if err != nil || !bytes.Equal(moved, []byte("payload")) {
		t.Errorf("destination payload %q, %v", moved, err)
	}

	if err := s.Delete(ctx, "audio/a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Open(ctx, "audio/a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreMoveMissingSource(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Move(context.Background(), "nope", "dst"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	data := []byte{1, 2, 3}
	_ = s.Save(ctx, "k", data)
	data[0] = 9 // caller mutation must not leak into the store

	got, _ := s.Open(ctx, "k")
	if got[0] != 1 {
		t.Error("store shares memory with caller")
	}
	got[1] = 9
	again, _ := s.Open(ctx, "k")
	if again[1] != 2 {
		t.Error("store shares memory with reader")
	}
}
