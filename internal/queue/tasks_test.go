package queue

import (
	"errors"
	"testing"

	"github.com/quickcart-next/internal/config"

	"github.com/hibiken/asynq"
)

func TestCartSnapshotTaskRoundTrip(t *testing.T) {
	task, err := NewCartSnapshotTask(CartSnapshotPayload{Key: "cart", Revision: 9, Payload: `{"revision":9}`})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskCartSnapshotPersist {
		t.Fatalf("unexpected task type: %s", task.Type())
	}
	payload, err := ParseCartSnapshotPayload(task)
	if err != nil {
		t.Fatalf("parse payload failed: %v", err)
	}
	if payload.Key != "cart" || payload.Revision != 9 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}

func TestParseCartSnapshotPayloadRejectsMissingKey(t *testing.T) {
	if _, err := ParseCartSnapshotPayload(asynq.NewTask(TaskCartSnapshotPersist, []byte(`{"revision":1}`))); err == nil {
		t.Fatalf("expected missing key error")
	}
	if _, err := ParseCartSnapshotPayload(asynq.NewTask(TaskCartSnapshotPersist, []byte(`not-json`))); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDisabledClientRejectsEnqueue(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("client should be disabled")
	}
	if err := client.EnqueueCartSnapshot(t.Context(), CartSnapshotPayload{Key: "cart"}); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
}

func TestBuildServerConfigDefaults(t *testing.T) {
	opt, cfg := BuildServerConfig(nil)
	if opt.Addr != "127.0.0.1:6379" {
		t.Fatalf("unexpected addr: %s", opt.Addr)
	}
	if cfg.Concurrency != 10 || cfg.Queues[DefaultQueue] != 1 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
